package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// setupTestDB 基于临时目录的文件存储，时钟每次调用前进一秒
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

func TestUserRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	u1, err := repo.Create(ctx, &models.User{Username: "alice", Email: "Alice@Example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, got.ID)

	got, err = repo.GetByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	_, err = repo.GetByUsername(ctx, "Alice")
	assert.True(t, IsNotFound(err), "用户名区分大小写")

	taken, err := repo.EmailTakenByOther(ctx, "ALICE@example.com", u1.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = repo.EmailTakenByOther(ctx, "bob@example.com", u1.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func seedProducts(t *testing.T, repo *ProductRepository) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []models.Product{
		{Name: "iPhone 15", Price: decimal.NewFromInt(5999), Sales: 300, CategoryID: "phone", IsActive: true},
		{Name: "小米 14", Price: decimal.NewFromInt(3999), Sales: 800, CategoryID: "phone", IsActive: true},
		{Name: "纯棉T恤", Price: decimal.NewFromInt(99), Sales: 1200, CategoryID: "cloth", IsActive: true},
		{Name: "下架手机", Price: decimal.NewFromInt(1), CategoryID: "phone", IsActive: false},
	} {
		p := p
		_, err := repo.Create(ctx, &p)
		require.NoError(t, err)
	}
}

func TestProductRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(setupTestDB(t))
	seedProducts(t, repo)

	items, page, err := repo.List(ctx, ProductFilter{CategoryID: "phone"}, ProductSortPriceAsc, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "小米 14", items[0].Name)
	assert.Equal(t, 2, page.Total)

	min := decimal.NewFromInt(100)
	items, _, err = repo.List(ctx, ProductFilter{MinPrice: &min}, ProductSortSalesDesc, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "小米 14", items[0].Name)

	items, _, err = repo.List(ctx, ProductFilter{Keyword: "iphone"}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 默认按创建时间倒序
	items, page, err = repo.List(ctx, ProductFilter{}, "", 1, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "纯棉T恤", items[0].Name)
	assert.True(t, page.HasNext)

	items, _, err = repo.List(ctx, ProductFilter{Keyword: "手机", IncludeInactive: true}, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	counts, err := repo.CountActiveByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"phone": 2, "cloth": 1}, counts)
}

func TestProductFilter_KeywordIsLiteral(t *testing.T) {
	f, err := ProductFilter{Keyword: "a.b"}.Build()
	require.NoError(t, err)
	assert.True(t, f(&models.Product{Name: "A.B 套装", IsActive: true}))
	assert.False(t, f(&models.Product{Name: "axb", IsActive: true}))
}

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(setupTestDB(t))

	for _, it := range []models.CartItem{
		{UserID: "u1", ProductID: "p1", Spec: models.DefaultSpec, Quantity: 1, Selected: true},
		{UserID: "u1", ProductID: "p2", Spec: models.DefaultSpec, Quantity: 2},
		{UserID: "u2", ProductID: "p1", Spec: models.DefaultSpec, Quantity: 3, Selected: true},
	} {
		it := it
		_, err := repo.Create(ctx, &it)
		require.NoError(t, err)
	}

	line, err := repo.FindOne(ctx, LineFilter("u1", "p2", models.DefaultSpec))
	require.NoError(t, err)
	_, err = repo.GetByUser(ctx, line.ID, "u2")
	assert.True(t, IsNotFound(err))

	n, err := repo.SetSelectedAll(ctx, "u1", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.DeleteByProducts(ctx, "u1", []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.DeleteSelected(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, left, 1, "其他用户的购物车不受影响")
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(setupTestDB(t))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []string{models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusPending} {
		_, err := repo.Create(ctx, &models.Order{
			OrderNumber: "ORD" + string(rune('A'+i)),
			UserID:      "u1",
			Status:      status,
			OrderTime:   base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	other, err := repo.Create(ctx, &models.Order{UserID: "u2", Status: models.OrderStatusPaid, OrderTime: base})
	require.NoError(t, err)

	_, err = repo.GetByUser(ctx, other.ID, "u1")
	assert.True(t, IsNotFound(err))

	orders, page, err := repo.ListByUser(ctx, "u1", models.OrderStatusPending, 1, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORDC", orders[0].OrderNumber)
	assert.Equal(t, 2, page.Total)

	counts, err := repo.CountByStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.OrderStatusPending])
	assert.Equal(t, 1, counts[models.OrderStatusPaid])
	assert.Equal(t, 0, counts[models.OrderStatusCancelled])

	all, err := repo.CountByStatus(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, all[models.OrderStatusPaid])
}

func TestAfterSaleRepository_HasOpen(t *testing.T) {
	ctx := context.Background()
	repo := NewAfterSaleRepository(setupTestDB(t))

	_, err := repo.Create(ctx, &models.AfterSale{OrderID: "o1", UserID: "u1", Status: models.AfterSaleStatusCancelled})
	require.NoError(t, err)
	open, err := repo.HasOpen(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, open)

	_, err = repo.Create(ctx, &models.AfterSale{OrderID: "o1", UserID: "u1", Status: models.AfterSaleStatusPending})
	require.NoError(t, err)
	open, err = repo.HasOpen(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, open)
}

func TestCouponRepository_ListClaimable(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository(setupTestDB(t))
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range []models.Coupon{
		{Name: "ok", IsActive: true, TotalCount: 10, StartTime: now.Add(-time.Hour), EndTime: now.Add(48 * time.Hour)},
		{Name: "soon", IsActive: true, TotalCount: 10, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{Name: "exhausted", IsActive: true, TotalCount: 1, UsedCount: 1, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{Name: "expired", IsActive: true, TotalCount: 10, StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-time.Hour)},
		{Name: "inactive", TotalCount: 10, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
	} {
		c := c
		_, err := repo.Create(ctx, &c)
		require.NoError(t, err)
	}

	list, err := repo.ListClaimable(ctx, now)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "soon", list[0].Name)
	assert.Equal(t, "ok", list[1].Name)
}

func TestHotSearchRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHotSearchRepository(setupTestDB(t))
	now := time.Now()

	for _, kw := range []string{"手机", "iPhone", "手机", "手机壳", "iPhone", "手机"} {
		_, err := repo.Increment(ctx, kw, now)
		require.NoError(t, err)
	}

	top, err := repo.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "手机", top[0].Keyword)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, "iPhone", top[1].Keyword)

	matched, err := repo.Matching(ctx, "手机", 10)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "手机壳", matched[1].Keyword)

	matched, err = repo.Matching(ctx, "IPHONE", 10)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestHotSearchRepository_IncrementIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewHotSearchRepository(setupTestDB(t))
	_, err := repo.Create(ctx, &models.HotSearch{Keyword: "iPhone", Count: 1500})
	require.NoError(t, err)

	h, err := repo.Increment(ctx, "iphone", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "iPhone", h.Keyword, "保留已有关键词的写法")
	assert.Equal(t, 1501, h.Count)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearchHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSearchHistoryRepository(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, "u1", "手机", base))
	require.NoError(t, repo.Record(ctx, "u1", "耳机", base.Add(time.Minute)))
	require.NoError(t, repo.Record(ctx, "u1", "手机", base.Add(2*time.Minute)))
	require.NoError(t, repo.Record(ctx, "u2", "T恤", base))

	list, err := repo.ListByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "手机", list[0].Keyword)

	n, err := repo.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAddressRepository_ClearDefault(t *testing.T) {
	ctx := context.Background()
	repo := NewAddressRepository(setupTestDB(t))

	a1, err := repo.Create(ctx, &models.Address{UserID: "u1", Name: "家", IsDefault: true})
	require.NoError(t, err)
	a2, err := repo.Create(ctx, &models.Address{UserID: "u1", Name: "公司", IsDefault: true})
	require.NoError(t, err)

	require.NoError(t, repo.ClearDefault(ctx, "u1", a2.ID))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a2.ID, list[0].ID, "默认地址在前")
	got, err := repo.FindByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
}

func TestChatRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(setupTestDB(t))

	msg := func(from, to, content string) models.ChatMessage {
		return models.ChatMessage{SenderID: from, TargetID: to, Content: content, Status: models.MessageStatusSent}
	}
	_, err := repo.Append(ctx, "u1", "service", 3, msg("u1", "service", "1"), msg("service", "u1", "2"))
	require.NoError(t, err)
	conv, err := repo.Append(ctx, "u1", "service", 3, msg("u1", "service", "3"), msg("service", "u1", "4"))
	require.NoError(t, err)
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, "2", conv.Messages[0].Content)
	assert.Equal(t, "chat_u1_service", conv.ID)

	n, err := repo.MarkRead(ctx, "u1", "service")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.MarkRead(ctx, "u1", "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	ok, err := repo.Remove(ctx, "u1", "service")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repo.Get(ctx, "u1", "service")
	assert.True(t, IsNotFound(err))
}
