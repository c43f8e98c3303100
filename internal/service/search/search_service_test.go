package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

type fixture struct {
	svc       *SearchService
	products  *repository.ProductRepository
	favorites *repository.FavoriteRepository
	hot       *repository.HotSearchRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	driver, err := store.NewFileDriver(t.TempDir())
	require.NoError(t, err)
	db := store.New(driver)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		products:  repository.NewProductRepository(db),
		favorites: repository.NewFavoriteRepository(db),
		hot:       repository.NewHotSearchRepository(db),
	}
	f.svc = NewSearchService(f.products, f.favorites, f.hot, repository.NewSearchHistoryRepository(db), nil)

	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
	return f
}

func (f *fixture) addProduct(t *testing.T, name, desc string, tags []string, price int64, sales int, active bool) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), &models.Product{
		Name:          name,
		Description:   desc,
		Price:         decimal.NewFromInt(price),
		OriginalPrice: decimal.NewFromInt(price),
		CategoryID:    "c1",
		Images:        []string{"/images/" + name + ".jpg"},
		Stock:         10,
		Sales:         sales,
		Tags:          tags,
		IsActive:      active,
	})
	require.NoError(t, err)
	return p
}

func names(hits []*ProductHit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Name)
	}
	return out
}

func TestSearch_Relevance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addProduct(t, "蓝牙耳机", "无线降噪", nil, 299, 10, true)
	f.addProduct(t, "头戴式耳机 Pro", "高保真", nil, 599, 50, true)
	f.addProduct(t, "运动手环", "附赠耳机收纳包", nil, 199, 900, true)
	f.addProduct(t, "音箱", "桌面音箱", []string{"耳机"}, 99, 5, true)
	f.addProduct(t, "下架耳机", "", nil, 10, 9999, false)

	res, err := f.svc.Search(ctx, &SearchRequest{Q: "耳机", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"头戴式耳机 Pro", "蓝牙耳机", "运动手环", "音箱"}, names(res.Products))
	assert.Equal(t, 4, res.SearchInfo.Total)
	assert.Equal(t, SortRelevance, res.Filters.Sort)
	assert.Equal(t, "/images/蓝牙耳机.jpg", res.Products[1].Image)
}

func TestSearch_CaseInsensitiveAndSort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addProduct(t, "iPhone 15", "", nil, 5999, 100, true)
	f.addProduct(t, "IPHONE 手机壳", "", nil, 39, 800, true)
	f.addProduct(t, "平板", "兼容 iphone 充电", nil, 2999, 20, true)

	res, err := f.svc.Search(ctx, &SearchRequest{Q: "iphone", Sort: "price_asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"IPHONE 手机壳", "平板", "iPhone 15"}, names(res.Products))

	max := decimal.NewFromInt(3000)
	res, err = f.svc.Search(ctx, &SearchRequest{Q: "iphone", MaxPrice: &max, Sort: "sales_desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"IPHONE 手机壳", "平板"}, names(res.Products))
}

func TestSearch_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.addProduct(t, "杯子", "", nil, 10, i, true)
	}

	res, err := f.svc.Search(ctx, &SearchRequest{Q: "杯", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
	assert.Equal(t, 5, res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrev)
}

func TestSearch_HotAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "机械键盘", "", nil, 399, 1, true)
	_, err := f.favorites.Create(ctx, &models.Favorite{UserID: "u1", ProductID: p.ID})
	require.NoError(t, err)

	for _, q := range []string{"键盘", " 键盘 ", "机械键盘", "Mouse", "mouse"} {
		_, err := f.svc.Search(ctx, &SearchRequest{Q: q, UserID: "u1"})
		require.NoError(t, err)
	}

	hot, err := f.svc.Hot(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 3)
	assert.Equal(t, 2, hot[0].Count)
	counts := map[string]int{}
	for _, h := range hot {
		counts[h.Keyword] = h.Count
	}
	assert.Equal(t, map[string]int{"键盘": 2, "机械键盘": 1, "mouse": 2}, counts)

	res, err := f.svc.Search(ctx, &SearchRequest{Q: "键盘", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"机械键盘"}, res.SearchInfo.Suggestions, "不包含关键词本身")
	require.Len(t, res.Products, 1)
	assert.True(t, res.Products[0].IsFavorite)

	history, err := f.svc.History(ctx, "u1", 20)
	require.NoError(t, err)
	keywords := make([]string, 0, len(history))
	for _, h := range history {
		keywords = append(keywords, h.Keyword)
	}
	assert.Equal(t, []string{"键盘", "mouse", "机械键盘"}, keywords)

	anon, err := f.svc.History(ctx, "u2", 20)
	require.NoError(t, err)
	assert.Empty(t, anon)

	require.NoError(t, f.svc.ClearHistory(ctx, "u1"))
	history, err = f.svc.History(ctx, "u1", 20)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSearch_CountsSeededKeywordIgnoringCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.hot.Create(ctx, &models.HotSearch{Keyword: "iPhone", Count: 1500})
	require.NoError(t, err)

	_, err = f.svc.Search(ctx, &SearchRequest{Q: "iPhone"})
	require.NoError(t, err)

	hot, err := f.svc.Hot(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, "iPhone", hot[0].Keyword)
	assert.Equal(t, 1501, hot[0].Count)
}

func TestSuggestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(t, "手机支架", "", nil, 19, 300, true)
	f.addProduct(t, "手机壳", "", nil, 29, 100, true)
	now := time.Now()
	for _, kw := range []string{"手机", "手机壳", "耳机"} {
		_, err := f.hot.Increment(ctx, kw, now)
		require.NoError(t, err)
	}
	_, err := f.hot.Increment(ctx, "手机", now)
	require.NoError(t, err)

	got, err := f.svc.Suggestions(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "手机", got[0])

	got, err = f.svc.Suggestions(ctx, "手机", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"手机壳", "手机支架"}, got)

	got, err = f.svc.Suggestions(ctx, "手机", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"手机壳"}, got)
}

func TestSearch_EmptyKeyword(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Search(context.Background(), &SearchRequest{Q: "   "})
	assert.Error(t, err)
}
