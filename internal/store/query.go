package store

import (
	"context"
	"sort"
)

// Pagination 分页信息
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination 根据总数计算分页信息
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Query 集合查询：过滤、排序、截取与分页
type Query[T any, PT interface {
	*T
	Entity
}] struct {
	c       *Collection[T, PT]
	filters []Filter[T]
	less    func(a, b *T) bool
	limit   int
}

// Where 追加过滤条件，多个条件取交集
func (q *Query[T, PT]) Where(f Filter[T]) *Query[T, PT] {
	if f != nil {
		q.filters = append(q.filters, f)
	}
	return q
}

// SortBy 设置排序，相等元素保持插入顺序
func (q *Query[T, PT]) SortBy(less func(a, b *T) bool) *Query[T, PT] {
	q.less = less
	return q
}

// Limit 限制返回条数，0 表示不限制
func (q *Query[T, PT]) Limit(n int) *Query[T, PT] {
	q.limit = n
	return q
}

func (q *Query[T, PT]) run(ctx context.Context) ([]*T, error) {
	recs, err := q.c.Find(ctx, And(q.filters...))
	if err != nil {
		return nil, err
	}
	if q.less != nil {
		sort.SliceStable(recs, func(i, j int) bool { return q.less(recs[i], recs[j]) })
	}
	return recs, nil
}

// All 返回结果
func (q *Query[T, PT]) All(ctx context.Context) ([]*T, error) {
	recs, err := q.run(ctx)
	if err != nil {
		return nil, err
	}
	if q.limit > 0 && len(recs) > q.limit {
		recs = recs[:q.limit]
	}
	return recs, nil
}

// First 返回第一条结果，无结果返回 ErrNotFound
func (q *Query[T, PT]) First(ctx context.Context) (*T, error) {
	recs, err := q.run(ctx)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// Count 统计结果数
func (q *Query[T, PT]) Count(ctx context.Context) (int, error) {
	recs, err := q.run(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Page 返回第 page 页（从 1 开始），Limit 设置的截取在分页前生效
func (q *Query[T, PT]) Page(ctx context.Context, page, limit int) ([]*T, Pagination, error) {
	recs, err := q.All(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	p := NewPagination(page, limit, len(recs))
	return Slice(recs, p.Page, limit), p, nil
}

// Slice 截取某一页
func Slice[E any](items []E, page, limit int) []E {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []E{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
