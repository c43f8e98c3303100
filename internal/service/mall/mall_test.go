package mall

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/service/pricing"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// fixture 商城服务测试环境
type fixture struct {
	users      *repository.UserRepository
	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	favorites  *repository.FavoriteRepository
	cart       *repository.CartRepository
	orders     *repository.OrderRepository
	afterSales *repository.AfterSaleRepository
	reviews    *repository.ReviewRepository
	cache      *cache.MemoryStore
}

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()
	driver, err := store.NewFileDriver(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	db := store.New(driver, store.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	return &fixture{
		users:      repository.NewUserRepository(db),
		products:   repository.NewProductRepository(db),
		categories: repository.NewCategoryRepository(db),
		favorites:  repository.NewFavoriteRepository(db),
		cart:       repository.NewCartRepository(db),
		orders:     repository.NewOrderRepository(db),
		afterSales: repository.NewAfterSaleRepository(db),
		reviews:    repository.NewReviewRepository(db),
		cache:      cache.NewMemoryStore(),
	}
}

func (f *fixture) productService() *ProductService {
	return NewProductService(f.products, f.categories, f.favorites)
}

func (f *fixture) categoryService() *CategoryService {
	return NewCategoryService(f.categories, f.products)
}

func (f *fixture) cartService() *CartService {
	return NewCartService(f.cart, f.products)
}

func (f *fixture) orderService() *OrderService {
	svc := NewOrderService(f.orders, f.products, f.cart, f.reviews, f.cache, time.Hour, pricing.DefaultRules(), nil)
	svc.now = tickingClock()
	return svc
}

// tickingClock 每次调用前进一分钟
func tickingClock() func() time.Time {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func (f *fixture) afterSaleService() *AfterSaleService {
	svc := NewAfterSaleService(f.afterSales, f.orders)
	svc.now = tickingClock()
	return svc
}

func (f *fixture) reviewService() *ReviewService {
	return NewReviewService(f.reviews, f.users)
}

func (f *fixture) addCategory(t *testing.T, name string, parent *models.Category, sort int) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Sort: sort, IsActive: true}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	created, err := f.categories.Create(context.Background(), c)
	require.NoError(t, err)
	return created
}

func (f *fixture) addProduct(t *testing.T, name, categoryID string, price int64, stock, sales int) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), &models.Product{
		Name:          name,
		Description:   name + " 描述",
		Price:         decimal.NewFromInt(price),
		OriginalPrice: decimal.NewFromInt(price),
		CategoryID:    categoryID,
		Images:        []string{"/images/" + name + ".jpg"},
		Stock:         stock,
		Sales:         sales,
		IsActive:      true,
		Tags:          []string{},
	})
	require.NoError(t, err)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
