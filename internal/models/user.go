// Package models 定义各集合的记录结构
package models

import (
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 集合名
const (
	CollectionUsers         = "users"
	CollectionProducts      = "products"
	CollectionCategories    = "categories"
	CollectionCart          = "cart"
	CollectionOrders        = "orders"
	CollectionAfterSales    = "afterSales"
	CollectionCoupons       = "coupons"
	CollectionUserCoupons   = "userCoupons"
	CollectionPointsRecords = "pointsRecords"
	CollectionFavorites     = "favorites"
	CollectionAddresses     = "addresses"
	CollectionBanners       = "banners"
	CollectionHotSearches   = "hotSearches"
	CollectionReviews       = "reviews"
	CollectionSearchHistory = "searchHistory"
	CollectionChatHistory   = "chatHistory"
)

// User 用户
type User struct {
	store.Base
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	Phone        string     `json:"phone,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	Roles        []string   `json:"roles"`
	IsActive     bool       `json:"isActive"`
	Points       int        `json:"points"`
	Profile      Profile    `json:"profile"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Profile 用户资料
type Profile struct {
	Nickname string `json:"nickname,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	Address  string `json:"address,omitempty"`
}

// HasRole 是否拥有角色
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserInfo 对外暴露的用户信息，不含密码
type UserInfo struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	Roles       []string   `json:"roles"`
	IsActive    bool       `json:"isActive"`
	Points      int        `json:"points"`
	Profile     Profile    `json:"profile"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Info 转换为对外信息
func (u *User) Info() *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		Roles:       u.Roles,
		IsActive:    u.IsActive,
		Points:      u.Points,
		Profile:     u.Profile,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Favorite 收藏
type Favorite struct {
	store.Base
	UserID       string    `json:"userId"`
	ProductID    string    `json:"productId"`
	FavoriteTime time.Time `json:"favoriteTime"`
}

// Address 收货地址
type Address struct {
	store.Base
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Province  string `json:"province"`
	City      string `json:"city"`
	District  string `json:"district"`
	Detail    string `json:"detail"`
	Tag       string `json:"tag,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

// 积分流水类型
const (
	PointsTypeEarn  = "earn"
	PointsTypeSpend = "spend"
)

// PointsRecord 积分流水，创建后不再修改
type PointsRecord struct {
	store.Base
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	// Amount 带符号，消费为负数
	Amount  int    `json:"amount"`
	Reason  string `json:"reason"`
	OrderID string `json:"orderId,omitempty"`
	// Balance 变动后的余额
	Balance int `json:"balance"`
}
