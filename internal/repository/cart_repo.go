package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// CartRepository 购物车仓储
type CartRepository struct {
	*store.Collection[models.CartItem, *models.CartItem]
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *store.DB) *CartRepository {
	return &CartRepository{store.NewCollection[models.CartItem](db, models.CollectionCart)}
}

func cartOf(userID string) store.Filter[models.CartItem] {
	return func(i *models.CartItem) bool { return i.UserID == userID }
}

// ListByUser 用户的购物车条目
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error) {
	return r.Find(ctx, cartOf(userID))
}

// LineFilter 同一用户、商品、规格的条目
func LineFilter(userID, productID, spec string) store.Filter[models.CartItem] {
	return func(i *models.CartItem) bool {
		return i.UserID == userID && i.ProductID == productID && i.Spec == spec
	}
}

// GetByUser 用户自己的条目
func (r *CartRepository) GetByUser(ctx context.Context, id, userID string) (*models.CartItem, error) {
	return owned(ctx, r.Collection, id, userID, func(i *models.CartItem) string { return i.UserID })
}

// SetSelectedAll 设置用户全部条目的选中状态，返回条目数
func (r *CartRepository) SetSelectedAll(ctx context.Context, userID string, selected bool) (int, error) {
	items, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if _, err := r.Update(ctx, it.ID, func(i *models.CartItem) error {
			i.Selected = selected
			return nil
		}); err != nil && !IsNotFound(err) {
			return 0, err
		}
	}
	return len(items), nil
}

// DeleteSelected 删除用户选中的条目
func (r *CartRepository) DeleteSelected(ctx context.Context, userID string) (int, error) {
	return r.DeleteWhere(ctx, func(i *models.CartItem) bool { return i.UserID == userID && i.Selected })
}

// DeleteByProducts 删除用户购物车中指定商品的条目
func (r *CartRepository) DeleteByProducts(ctx context.Context, userID string, productIDs []string) (int, error) {
	set := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		set[id] = struct{}{}
	}
	return r.DeleteWhere(ctx, func(i *models.CartItem) bool {
		_, ok := set[i.ProductID]
		return i.UserID == userID && ok
	})
}

// Clear 清空用户购物车
func (r *CartRepository) Clear(ctx context.Context, userID string) (int, error) {
	return r.DeleteWhere(ctx, cartOf(userID))
}
