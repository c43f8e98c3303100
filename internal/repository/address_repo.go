package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// AddressRepository 收货地址仓储
type AddressRepository struct {
	*store.Collection[models.Address, *models.Address]
}

// NewAddressRepository 创建地址仓储
func NewAddressRepository(db *store.DB) *AddressRepository {
	return &AddressRepository{store.NewCollection[models.Address](db, models.CollectionAddresses)}
}

// ListByUser 用户地址，默认地址在前，其余按创建时间倒序
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]*models.Address, error) {
	return r.Query().
		Where(func(a *models.Address) bool { return a.UserID == userID }).
		SortBy(func(a, b *models.Address) bool {
			if a.IsDefault != b.IsDefault {
				return a.IsDefault
			}
			return a.CreatedAt.After(b.CreatedAt)
		}).
		All(ctx)
}

// GetByUser 用户自己的地址
func (r *AddressRepository) GetByUser(ctx context.Context, id, userID string) (*models.Address, error) {
	return owned(ctx, r.Collection, id, userID, func(a *models.Address) string { return a.UserID })
}

// ClearDefault 取消用户除 exceptID 外所有地址的默认标记
func (r *AddressRepository) ClearDefault(ctx context.Context, userID, exceptID string) error {
	addrs, err := r.Find(ctx, func(a *models.Address) bool {
		return a.UserID == userID && a.IsDefault && a.ID != exceptID
	})
	if err != nil {
		return err
	}
	for _, a := range addrs {
		if _, err := r.Update(ctx, a.ID, func(a *models.Address) error {
			a.IsDefault = false
			return nil
		}); err != nil && !IsNotFound(err) {
			return err
		}
	}
	return nil
}
