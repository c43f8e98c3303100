package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// ReviewRepository 评价仓储
type ReviewRepository struct {
	*store.Collection[models.Review, *models.Review]
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *store.DB) *ReviewRepository {
	return &ReviewRepository{store.NewCollection[models.Review](db, models.CollectionReviews)}
}

// ListByProduct 分页查询商品评价，按时间倒序
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, page, limit int) ([]*models.Review, store.Pagination, error) {
	return r.Query().
		Where(func(rv *models.Review) bool { return rv.ProductID == productID }).
		SortBy(func(a, b *models.Review) bool { return a.CreatedAt.After(b.CreatedAt) }).
		Page(ctx, page, limit)
}

// ListAllByProduct 商品全部评价
func (r *ReviewRepository) ListAllByProduct(ctx context.Context, productID string) ([]*models.Review, error) {
	return r.Find(ctx, func(rv *models.Review) bool { return rv.ProductID == productID })
}
