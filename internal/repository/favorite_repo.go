package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// FavoriteRepository 收藏仓储
type FavoriteRepository struct {
	*store.Collection[models.Favorite, *models.Favorite]
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(db *store.DB) *FavoriteRepository {
	return &FavoriteRepository{store.NewCollection[models.Favorite](db, models.CollectionFavorites)}
}

// ListByUser 用户收藏，按收藏时间倒序
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	return r.Query().
		Where(func(f *models.Favorite) bool { return f.UserID == userID }).
		SortBy(func(a, b *models.Favorite) bool { return a.FavoriteTime.After(b.FavoriteTime) }).
		All(ctx)
}

// Exists 是否已收藏
func (r *FavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	n, err := r.Count(ctx, func(f *models.Favorite) bool {
		return f.UserID == userID && f.ProductID == productID
	})
	return n > 0, err
}

// Remove 取消收藏，返回是否存在
func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID string) (bool, error) {
	n, err := r.DeleteWhere(ctx, func(f *models.Favorite) bool {
		return f.UserID == userID && f.ProductID == productID
	})
	return n > 0, err
}
