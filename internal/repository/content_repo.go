package repository

import (
	"context"
	"strings"
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// BannerRepository 轮播图仓储
type BannerRepository struct {
	*store.Collection[models.Banner, *models.Banner]
}

// NewBannerRepository 创建轮播图仓储
func NewBannerRepository(db *store.DB) *BannerRepository {
	return &BannerRepository{store.NewCollection[models.Banner](db, models.CollectionBanners)}
}

// ListActive 启用的轮播图，typ 为空时不过滤，按 sort 升序
func (r *BannerRepository) ListActive(ctx context.Context, typ string) ([]*models.Banner, error) {
	return r.Query().
		Where(func(b *models.Banner) bool { return b.IsActive && (typ == "" || b.Type == typ) }).
		SortBy(func(a, b *models.Banner) bool { return a.Sort < b.Sort }).
		All(ctx)
}

// HotSearchRepository 热搜词仓储
type HotSearchRepository struct {
	*store.Collection[models.HotSearch, *models.HotSearch]
}

// NewHotSearchRepository 创建热搜词仓储
func NewHotSearchRepository(db *store.DB) *HotSearchRepository {
	return &HotSearchRepository{store.NewCollection[models.HotSearch](db, models.CollectionHotSearches)}
}

// Increment 关键词计数加一，忽略大小写匹配已有关键词，不存在时新建
func (r *HotSearchRepository) Increment(ctx context.Context, keyword string, now time.Time) (*models.HotSearch, error) {
	return r.Upsert(ctx,
		func(h *models.HotSearch) bool { return strings.EqualFold(h.Keyword, keyword) },
		func(h *models.HotSearch, exists bool) error {
			if !exists {
				h.Keyword = keyword
			}
			h.Count++
			h.LastSearchTime = now
			return nil
		})
}

// Top 搜索次数最多的关键词
func (r *HotSearchRepository) Top(ctx context.Context, limit int) ([]*models.HotSearch, error) {
	return r.Query().
		SortBy(func(a, b *models.HotSearch) bool { return a.Count > b.Count }).
		Limit(limit).
		All(ctx)
}

// Matching 包含 q 的关键词（忽略大小写），按次数倒序
func (r *HotSearchRepository) Matching(ctx context.Context, q string, limit int) ([]*models.HotSearch, error) {
	m, err := store.Match(store.Literal(q), func(h *models.HotSearch) string { return h.Keyword })
	if err != nil {
		return nil, err
	}
	return r.Query().
		Where(m).
		SortBy(func(a, b *models.HotSearch) bool { return a.Count > b.Count }).
		Limit(limit).
		All(ctx)
}

// SearchHistoryRepository 搜索历史仓储
type SearchHistoryRepository struct {
	*store.Collection[models.SearchHistory, *models.SearchHistory]
}

// NewSearchHistoryRepository 创建搜索历史仓储
func NewSearchHistoryRepository(db *store.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{store.NewCollection[models.SearchHistory](db, models.CollectionSearchHistory)}
}

// Record 记录一次搜索，同一关键词只保留最近一次
func (r *SearchHistoryRepository) Record(ctx context.Context, userID, keyword string, now time.Time) error {
	_, err := r.Upsert(ctx,
		func(h *models.SearchHistory) bool {
			return h.UserID == userID && strings.EqualFold(h.Keyword, keyword)
		},
		func(h *models.SearchHistory, exists bool) error {
			h.UserID = userID
			h.Keyword = keyword
			h.SearchTime = now
			return nil
		})
	return err
}

// ListByUser 最近的搜索记录
func (r *SearchHistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.SearchHistory, error) {
	return r.Query().
		Where(func(h *models.SearchHistory) bool { return h.UserID == userID }).
		SortBy(func(a, b *models.SearchHistory) bool { return a.SearchTime.After(b.SearchTime) }).
		Limit(limit).
		All(ctx)
}

// Clear 清空用户搜索历史
func (r *SearchHistoryRepository) Clear(ctx context.Context, userID string) (int, error) {
	return r.DeleteWhere(ctx, func(h *models.SearchHistory) bool { return h.UserID == userID })
}
