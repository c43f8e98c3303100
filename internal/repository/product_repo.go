package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 商品排序方式
const (
	ProductSortPriceAsc    = "price_asc"
	ProductSortPriceDesc   = "price_desc"
	ProductSortSalesDesc   = "sales_desc"
	ProductSortCreatedDesc = "created_desc"
)

// ProductFilter 商品查询条件
type ProductFilter struct {
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	// Keyword 按名称匹配
	Keyword string
	// IncludeInactive 为 false 时只返回上架商品
	IncludeInactive bool
}

// Build 构建过滤器
func (f ProductFilter) Build() (store.Filter[models.Product], error) {
	filters := []store.Filter[models.Product]{}
	if !f.IncludeInactive {
		filters = append(filters, func(p *models.Product) bool { return p.IsActive })
	}
	if f.CategoryID != "" {
		filters = append(filters, func(p *models.Product) bool { return p.CategoryID == f.CategoryID })
	}
	if f.MinPrice != nil {
		min := *f.MinPrice
		filters = append(filters, func(p *models.Product) bool { return p.Price.GreaterThanOrEqual(min) })
	}
	if f.MaxPrice != nil {
		max := *f.MaxPrice
		filters = append(filters, func(p *models.Product) bool { return p.Price.LessThanOrEqual(max) })
	}
	if f.Keyword != "" {
		m, err := store.Match(store.Literal(f.Keyword), func(p *models.Product) string { return p.Name })
		if err != nil {
			return nil, err
		}
		filters = append(filters, m)
	}
	return store.And(filters...), nil
}

// ProductLess 返回排序比较函数，未知值按创建时间倒序
func ProductLess(sort string) func(a, b *models.Product) bool {
	switch sort {
	case ProductSortPriceAsc:
		return func(a, b *models.Product) bool { return a.Price.LessThan(b.Price) }
	case ProductSortPriceDesc:
		return func(a, b *models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case ProductSortSalesDesc:
		return func(a, b *models.Product) bool { return a.Sales > b.Sales }
	default:
		return func(a, b *models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
}

// ProductRepository 商品仓储
type ProductRepository struct {
	*store.Collection[models.Product, *models.Product]
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *store.DB) *ProductRepository {
	return &ProductRepository{store.NewCollection[models.Product](db, models.CollectionProducts)}
}

// List 分页查询商品
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, sort string, page, limit int) ([]*models.Product, store.Pagination, error) {
	filter, err := f.Build()
	if err != nil {
		return nil, store.Pagination{}, err
	}
	return r.Query().Where(filter).SortBy(ProductLess(sort)).Page(ctx, page, limit)
}

// ListActive 上架商品
func (r *ProductRepository) ListActive(ctx context.Context) ([]*models.Product, error) {
	return r.Find(ctx, func(p *models.Product) bool { return p.IsActive })
}

// TopBySales 销量最高的上架商品
func (r *ProductRepository) TopBySales(ctx context.Context, filter store.Filter[models.Product], limit int) ([]*models.Product, error) {
	return r.Query().
		Where(func(p *models.Product) bool { return p.IsActive }).
		Where(filter).
		SortBy(ProductLess(ProductSortSalesDesc)).
		Limit(limit).
		All(ctx)
}

// CountActiveByCategory 每个分类下的上架商品数
func (r *ProductRepository) CountActiveByCategory(ctx context.Context) (map[string]int, error) {
	products, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.CategoryID]++
	}
	return counts, nil
}
