// Package mall 提供商城服务
package mall

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 推荐类型
const (
	RecommendHot      = "hot"
	RecommendNew      = "new"
	RecommendFeatured = "featured"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	favoriteRepo *repository.FavoriteRepository
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	favoriteRepo *repository.FavoriteRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		favoriteRepo: favoriteRepo,
	}
}

// ProductItem 列表中的商品
type ProductItem struct {
	*models.Product
	Image      string `json:"image"`
	IsFavorite bool   `json:"isFavorite"`
}

// ProductListRequest 商品列表请求
type ProductListRequest struct {
	Page     int
	Limit    int
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Keyword  string
	Sort     string
	// UserID 为空表示未登录
	UserID string
}

// ProductFilters 回显的筛选条件
type ProductFilters struct {
	Category string           `json:"category,omitempty"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	Keyword  string           `json:"keyword,omitempty"`
	Sort     string           `json:"sort"`
}

// ProductList 商品分页结果
type ProductList struct {
	Products   []*ProductItem   `json:"products"`
	Pagination store.Pagination `json:"pagination"`
	Filters    ProductFilters   `json:"filters"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	*models.Product
	Category    *models.Category `json:"category,omitempty"`
	IsFavorited bool             `json:"isFavorited"`
}

// CategoryProducts 分类下的商品
type CategoryProducts struct {
	Category   *models.Category `json:"category"`
	Products   []*ProductItem   `json:"products"`
	Pagination store.Pagination `json:"pagination"`
}

// ProductRequest 新建或修改商品，修改时只更新非空字段
type ProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	CategoryID    *string          `json:"categoryId"`
	Images        []string         `json:"images" binding:"omitempty,dive,required"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	Tags          []string         `json:"tags"`
	IsActive      *bool            `json:"isActive"`
	IsFeatured    *bool            `json:"isFeatured"`
}

// favoriteSet 用户收藏的商品 id，未登录时为空
func (s *ProductService) favoriteSet(ctx context.Context, userID string) map[string]bool {
	set := make(map[string]bool)
	if userID == "" {
		return set
	}
	favs, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return set
	}
	for _, f := range favs {
		set[f.ProductID] = true
	}
	return set
}

func (s *ProductService) toItems(ctx context.Context, userID string, products []*models.Product) []*ProductItem {
	favs := s.favoriteSet(ctx, userID)
	items := make([]*ProductItem, 0, len(products))
	for _, p := range products {
		items = append(items, &ProductItem{Product: p, Image: p.MainImage(), IsFavorite: favs[p.ID]})
	}
	return items
}

// List 分页查询上架商品
func (s *ProductService) List(ctx context.Context, req *ProductListRequest) (*ProductList, error) {
	sort := req.Sort
	if sort == "" {
		sort = repository.ProductSortCreatedDesc
	}
	products, pg, err := s.productRepo.List(ctx, repository.ProductFilter{
		CategoryID: req.Category,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Keyword:    strings.TrimSpace(req.Keyword),
	}, sort, req.Page, req.Limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &ProductList{
		Products:   s.toItems(ctx, req.UserID, products),
		Pagination: pg,
		Filters: ProductFilters{
			Category: req.Category,
			MinPrice: req.MinPrice,
			MaxPrice: req.MaxPrice,
			Keyword:  req.Keyword,
			Sort:     sort,
		},
	}, nil
}

// Get 获取商品详情
func (s *ProductService) Get(ctx context.Context, id, userID string) (*ProductDetail, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	detail := &ProductDetail{Product: p}
	if c, err := s.categoryRepo.FindByID(ctx, p.CategoryID); err == nil {
		detail.Category = c
	}
	if userID != "" {
		detail.IsFavorited, _ = s.favoriteRepo.Exists(ctx, userID, p.ID)
	}
	return detail, nil
}

// Recommend 推荐商品：hot 按销量，new 按上架时间，featured 为精选商品按评分
func (s *ProductService) Recommend(ctx context.Context, typ string, limit int, userID string) ([]*ProductItem, error) {
	q := s.productRepo.Query().Where(func(p *models.Product) bool { return p.IsActive })
	switch typ {
	case RecommendNew:
		q = q.SortBy(repository.ProductLess(repository.ProductSortCreatedDesc))
	case RecommendFeatured:
		q = q.Where(func(p *models.Product) bool { return p.IsFeatured }).
			SortBy(func(a, b *models.Product) bool { return a.Rating > b.Rating })
	default:
		q = q.SortBy(repository.ProductLess(repository.ProductSortSalesDesc))
	}

	products, err := q.Limit(limit).All(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.toItems(ctx, userID, products), nil
}

// ByCategory 分类下的上架商品
func (s *ProductService) ByCategory(ctx context.Context, categoryID, sort string, page, limit int, userID string) (*CategoryProducts, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	products, pg, err := s.productRepo.List(ctx, repository.ProductFilter{CategoryID: categoryID}, sort, page, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &CategoryProducts{
		Category:   category,
		Products:   s.toItems(ctx, userID, products),
		Pagination: pg,
	}, nil
}

// Hot 热销商品
func (s *ProductService) Hot(ctx context.Context, limit int, userID string) ([]*ProductItem, error) {
	products, err := s.productRepo.TopBySales(ctx, nil, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.toItems(ctx, userID, products), nil
}

func (s *ProductService) ensureCategory(ctx context.Context, id string) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrCategoryNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

func validatePrice(field string, v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return errors.ErrInvalidParams.WithFields(errors.FieldError{Field: field, Message: "价格不能为负数"})
	}
	return nil
}

func (req *ProductRequest) apply(p *models.Product) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = *req.OriginalPrice
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
}

// Create 新建商品，名称、价格和分类必填
func (s *ProductService) Create(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	var missing []errors.FieldError
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		missing = append(missing, errors.FieldError{Field: "name", Message: "商品名称不能为空"})
	}
	if req.Price == nil {
		missing = append(missing, errors.FieldError{Field: "price", Message: "商品价格不能为空"})
	}
	if req.CategoryID == nil || *req.CategoryID == "" {
		missing = append(missing, errors.FieldError{Field: "categoryId", Message: "商品分类不能为空"})
	}
	if len(missing) > 0 {
		return nil, errors.ErrInvalidParams.WithFields(missing...)
	}
	if err := validatePrice("price", req.Price); err != nil {
		return nil, err
	}
	if err := validatePrice("originalPrice", req.OriginalPrice); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
		return nil, err
	}

	p := &models.Product{IsActive: true, Images: []string{}, Tags: []string{}}
	req.apply(p)
	if req.OriginalPrice == nil {
		p.OriginalPrice = p.Price
	}
	created, err := s.productRepo.Create(ctx, p)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return created, nil
}

// Update 修改商品
func (s *ProductService) Update(ctx context.Context, id string, req *ProductRequest) (*models.Product, error) {
	if err := validatePrice("price", req.Price); err != nil {
		return nil, err
	}
	if err := validatePrice("originalPrice", req.OriginalPrice); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	p, err := s.productRepo.Update(ctx, id, func(p *models.Product) error {
		req.apply(p)
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return p, nil
}

// Delete 删除商品
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ok, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		return errors.ErrProductNotFound
	}
	return nil
}
