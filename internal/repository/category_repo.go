package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// CategoryRepository 分类仓储
type CategoryRepository struct {
	*store.Collection[models.Category, *models.Category]
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *store.DB) *CategoryRepository {
	return &CategoryRepository{store.NewCollection[models.Category](db, models.CollectionCategories)}
}

func bySort(a, b *models.Category) bool { return a.Sort < b.Sort }

// ListActive 启用的分类，按 sort 升序
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*models.Category, error) {
	return r.Query().Where(func(c *models.Category) bool { return c.IsActive }).SortBy(bySort).All(ctx)
}

// Children 启用的子分类
func (r *CategoryRepository) Children(ctx context.Context, parentID string) ([]*models.Category, error) {
	return r.Query().
		Where(func(c *models.Category) bool {
			return c.IsActive && c.ParentID != nil && *c.ParentID == parentID
		}).
		SortBy(bySort).
		All(ctx)
}
