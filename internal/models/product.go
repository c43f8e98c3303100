package models

import (
	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// Category 商品分类
type Category struct {
	store.Base
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Image       string  `json:"image,omitempty"`
	Banner      string  `json:"banner,omitempty"`
	ParentID    *string `json:"parentId"`
	Sort        int     `json:"sort"`
	IsActive    bool    `json:"isActive"`
}

// Specification 商品规格项
type Specification struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// ProductDetails 商品详情
type ProductDetails struct {
	Images      []string `json:"images,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Product 商品
type Product struct {
	store.Base
	Name           string          `json:"name"`
	Subtitle       string          `json:"subtitle,omitempty"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	CategoryID     string          `json:"categoryId"`
	Images         []string        `json:"images"`
	Stock          int             `json:"stock"`
	Sales          int             `json:"sales"`
	Rating         float64         `json:"rating"`
	ReviewCount    int             `json:"reviewCount"`
	GoodRate       int             `json:"goodRate,omitempty"`
	Promotion      string          `json:"promotion,omitempty"`
	Service        string          `json:"service,omitempty"`
	Tags           []string        `json:"tags"`
	Specifications []Specification `json:"specifications,omitempty"`
	Details        *ProductDetails `json:"details,omitempty"`
	IsActive       bool            `json:"isActive"`
	IsFeatured     bool            `json:"isFeatured"`
}

// MainImage 首图
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DefaultSpec 未选择规格时的规格名
const DefaultSpec = "默认规格"

// CartItem 购物车条目
type CartItem struct {
	store.Base
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Spec      string `json:"spec"`
	Selected  bool   `json:"selected"`
}

// Review 商品评价
type Review struct {
	store.Base
	OrderID     string   `json:"orderId"`
	ProductID   string   `json:"productId"`
	UserID      string   `json:"userId"`
	Rating      int      `json:"rating"`
	Content     string   `json:"content"`
	Images      []string `json:"images"`
	IsAnonymous bool     `json:"isAnonymous"`
}
