// Package search 提供商品搜索、热搜词与搜索历史
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/metrics"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// SortRelevance 相关度排序，名称命中优先，其次按销量
const SortRelevance = "relevance"

// 每次搜索附带的联想词数量
const suggestionsInResult = 5

// SearchService 搜索服务
type SearchService struct {
	productRepo  *repository.ProductRepository
	favoriteRepo *repository.FavoriteRepository
	hotRepo      *repository.HotSearchRepository
	historyRepo  *repository.SearchHistoryRepository
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewSearchService 创建搜索服务，m 可以为 nil
func NewSearchService(
	productRepo *repository.ProductRepository,
	favoriteRepo *repository.FavoriteRepository,
	hotRepo *repository.HotSearchRepository,
	historyRepo *repository.SearchHistoryRepository,
	m *metrics.Metrics,
) *SearchService {
	return &SearchService{
		productRepo:  productRepo,
		favoriteRepo: favoriteRepo,
		hotRepo:      hotRepo,
		historyRepo:  historyRepo,
		metrics:      m,
		now:          time.Now,
	}
}

// SearchRequest 搜索请求
type SearchRequest struct {
	Q        string           `form:"q" json:"q" binding:"required,min=1,max=100"`
	Page     int              `form:"page"`
	Limit    int              `form:"limit"`
	Category string           `form:"category"`
	MinPrice *decimal.Decimal `form:"-"`
	MaxPrice *decimal.Decimal `form:"-"`
	Sort     string           `form:"sort" json:"sort" binding:"omitempty,oneof=relevance price_asc price_desc sales_desc created_desc"`
	// UserID 为空表示未登录
	UserID string `form:"-"`
}

// ProductHit 搜索命中的商品
type ProductHit struct {
	*models.Product
	Image      string `json:"image"`
	IsFavorite bool   `json:"isFavorite"`
}

// SearchInfo 搜索概要
type SearchInfo struct {
	Keyword     string   `json:"keyword"`
	Total       int      `json:"total"`
	Suggestions []string `json:"suggestions"`
}

// Filters 回显的筛选条件
type Filters struct {
	Category string           `json:"category,omitempty"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	Sort     string           `json:"sort"`
}

// SearchResult 搜索结果
type SearchResult struct {
	Products   []*ProductHit    `json:"products"`
	Pagination store.Pagination `json:"pagination"`
	SearchInfo SearchInfo       `json:"searchInfo"`
	Filters    Filters          `json:"filters"`
}

// HotKeyword 热搜词
type HotKeyword struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// HistoryItem 搜索历史
type HistoryItem struct {
	Keyword    string    `json:"keyword"`
	SearchTime time.Time `json:"searchTime"`
}

// normalize 热搜词统一小写并去除首尾空白
func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Search 搜索上架商品，并累计热搜词和用户搜索历史
func (s *SearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	q := strings.TrimSpace(req.Q)
	if q == "" {
		return nil, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "q", Message: "搜索关键词不能为空"})
	}
	sortBy := req.Sort
	if sortBy == "" {
		sortBy = SortRelevance
	}

	hits, err := s.match(ctx, q, req)
	if err != nil {
		return nil, err
	}
	if sortBy == SortRelevance {
		nameHit := make(map[string]bool, len(hits))
		lq := strings.ToLower(q)
		for _, p := range hits {
			nameHit[p.ID] = strings.Contains(strings.ToLower(p.Name), lq)
		}
		sort.SliceStable(hits, func(i, j int) bool {
			a, b := hits[i], hits[j]
			if nameHit[a.ID] != nameHit[b.ID] {
				return nameHit[a.ID]
			}
			return a.Sales > b.Sales
		})
	} else {
		less := repository.ProductLess(sortBy)
		sort.SliceStable(hits, func(i, j int) bool { return less(hits[i], hits[j]) })
	}

	s.recordSearch(ctx, q, req.UserID)

	favs := s.favoriteSet(ctx, req.UserID)
	page := store.Slice(hits, req.Page, req.Limit)
	products := make([]*ProductHit, 0, len(page))
	for _, p := range page {
		products = append(products, &ProductHit{Product: p, Image: p.MainImage(), IsFavorite: favs[p.ID]})
	}

	suggestions, err := s.hotSuggestions(ctx, q, suggestionsInResult)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Products:   products,
		Pagination: store.NewPagination(req.Page, req.Limit, len(hits)),
		SearchInfo: SearchInfo{Keyword: q, Total: len(hits), Suggestions: suggestions},
		Filters: Filters{
			Category: req.Category,
			MinPrice: req.MinPrice,
			MaxPrice: req.MaxPrice,
			Sort:     sortBy,
		},
	}, nil
}

// match 名称、描述或任一标签包含 q 的上架商品
func (s *SearchService) match(ctx context.Context, q string, req *SearchRequest) ([]*models.Product, error) {
	text, err := store.MatchAny(store.Literal(q), func(p *models.Product) []string {
		return append([]string{p.Name, p.Description}, p.Tags...)
	})
	if err != nil {
		return nil, errors.ErrInvalidParams.WithError(err)
	}
	base, err := repository.ProductFilter{
		CategoryID: req.Category,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
	}.Build()
	if err != nil {
		return nil, errors.ErrInvalidParams.WithError(err)
	}

	products, err := s.productRepo.Find(ctx, store.And(base, text))
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return products, nil
}

// recordSearch 搜索副作用失败只记录日志
func (s *SearchService) recordSearch(ctx context.Context, q, userID string) {
	now := s.now()
	if _, err := s.hotRepo.Increment(ctx, normalize(q), now); err != nil {
		logger.Warn("更新热搜词失败", logger.Module("search"), logger.Err(err))
	}
	if userID != "" {
		if err := s.historyRepo.Record(ctx, userID, q, now); err != nil {
			logger.Warn("记录搜索历史失败", logger.UserID(userID), logger.Module("search"), logger.Err(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordSearch()
	}
}

func (s *SearchService) favoriteSet(ctx context.Context, userID string) map[string]bool {
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

// hotSuggestions 包含 q 但不等于 q 的热搜词
func (s *SearchService) hotSuggestions(ctx context.Context, q string, limit int) ([]string, error) {
	matches, err := s.hotRepo.Matching(ctx, q, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	out := make([]string, 0, limit)
	for _, h := range matches {
		if strings.EqualFold(h.Keyword, q) {
			continue
		}
		out = append(out, h.Keyword)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Suggestions 联想词：热搜词优先，不足时补充商品名称
func (s *SearchService) Suggestions(ctx context.Context, q string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	q = strings.TrimSpace(q)
	if q == "" {
		hot, err := s.Hot(ctx, limit)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(hot))
		for _, h := range hot {
			out = append(out, h.Keyword)
		}
		return out, nil
	}

	hot, err := s.hotSuggestions(ctx, q, suggestionsInResult)
	if err != nil {
		return nil, err
	}
	nameMatch, err := store.Match(store.Literal(q), func(p *models.Product) string { return p.Name })
	if err != nil {
		return nil, errors.ErrInvalidParams.WithError(err)
	}
	products, err := s.productRepo.Query().
		Where(func(p *models.Product) bool { return p.IsActive }).
		Where(nameMatch).
		SortBy(repository.ProductLess(repository.ProductSortSalesDesc)).
		Limit(suggestionsInResult).
		All(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	all := hot
	for _, p := range products {
		if !containsFold(all, p.Name) {
			all = append(all, p.Name)
		}
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Hot 热搜词，按次数倒序
func (s *SearchService) Hot(ctx context.Context, limit int) ([]*HotKeyword, error) {
	if limit <= 0 {
		limit = 10
	}
	top, err := s.hotRepo.Top(ctx, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	out := make([]*HotKeyword, 0, len(top))
	for _, h := range top {
		out = append(out, &HotKeyword{Keyword: h.Keyword, Count: h.Count})
	}
	return out, nil
}

// History 用户最近的搜索，按关键词去重
func (s *SearchService) History(ctx context.Context, userID string, limit int) ([]*HistoryItem, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := s.historyRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	seen := make(map[string]bool)
	out := make([]*HistoryItem, 0, limit)
	for _, h := range list {
		key := normalize(h.Keyword)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &HistoryItem{Keyword: h.Keyword, SearchTime: h.SearchTime})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ClearHistory 清空搜索历史
func (s *SearchService) ClearHistory(ctx context.Context, userID string) error {
	if _, err := s.historyRepo.Clear(ctx, userID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}
