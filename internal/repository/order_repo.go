package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// OrderRepository 订单仓储
type OrderRepository struct {
	*store.Collection[models.Order, *models.Order]
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *store.DB) *OrderRepository {
	return &OrderRepository{store.NewCollection[models.Order](db, models.CollectionOrders)}
}

func newestOrderFirst(a, b *models.Order) bool { return a.OrderTime.After(b.OrderTime) }

// GetByUser 获取用户自己的订单，他人订单视为不存在
func (r *OrderRepository) GetByUser(ctx context.Context, id, userID string) (*models.Order, error) {
	return owned(ctx, r.Collection, id, userID, func(o *models.Order) string { return o.UserID })
}

// ListByUser 分页查询用户订单，status 为空时不过滤，按下单时间倒序
func (r *OrderRepository) ListByUser(ctx context.Context, userID, status string, page, limit int) ([]*models.Order, store.Pagination, error) {
	return r.Query().
		Where(func(o *models.Order) bool {
			return o.UserID == userID && (status == "" || o.Status == status)
		}).
		SortBy(newestOrderFirst).
		Page(ctx, page, limit)
}

// CountByStatus 按状态统计订单数，userID 为空时统计全部
func (r *OrderRepository) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	orders, err := r.Find(ctx, func(o *models.Order) bool { return userID == "" || o.UserID == userID })
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		counts[s] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts, nil
}

// ListByStatus 指定状态的订单
func (r *OrderRepository) ListByStatus(ctx context.Context, status string) ([]*models.Order, error) {
	return r.Find(ctx, func(o *models.Order) bool { return o.Status == status })
}

// AfterSaleRepository 售后仓储
type AfterSaleRepository struct {
	*store.Collection[models.AfterSale, *models.AfterSale]
}

// NewAfterSaleRepository 创建售后仓储
func NewAfterSaleRepository(db *store.DB) *AfterSaleRepository {
	return &AfterSaleRepository{store.NewCollection[models.AfterSale](db, models.CollectionAfterSales)}
}

// GetByUser 获取用户自己的售后申请
func (r *AfterSaleRepository) GetByUser(ctx context.Context, id, userID string) (*models.AfterSale, error) {
	return owned(ctx, r.Collection, id, userID, func(a *models.AfterSale) string { return a.UserID })
}

// ListByUser 分页查询用户的售后申请，按创建时间倒序
func (r *AfterSaleRepository) ListByUser(ctx context.Context, userID, status string, page, limit int) ([]*models.AfterSale, store.Pagination, error) {
	return r.Query().
		Where(func(a *models.AfterSale) bool {
			return a.UserID == userID && (status == "" || a.Status == status)
		}).
		SortBy(func(a, b *models.AfterSale) bool { return a.CreatedAt.After(b.CreatedAt) }).
		Page(ctx, page, limit)
}

// HasOpen 订单是否存在处理中的售后申请
func (r *AfterSaleRepository) HasOpen(ctx context.Context, orderID string) (bool, error) {
	n, err := r.Count(ctx, func(a *models.AfterSale) bool {
		return a.OrderID == orderID &&
			(a.Status == models.AfterSaleStatusPending || a.Status == models.AfterSaleStatusApproved)
	})
	return n > 0, err
}
