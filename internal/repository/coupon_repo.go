package repository

import (
	"context"
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// CouponRepository 优惠券模板仓储
type CouponRepository struct {
	*store.Collection[models.Coupon, *models.Coupon]
}

// NewCouponRepository 创建优惠券仓储
func NewCouponRepository(db *store.DB) *CouponRepository {
	return &CouponRepository{store.NewCollection[models.Coupon](db, models.CollectionCoupons)}
}

// InWindow 优惠券在 now 时处于启用且有效期内
func InWindow(c *models.Coupon, now time.Time) bool {
	return c.IsActive && !now.Before(c.StartTime) && !now.After(c.EndTime)
}

// ListClaimable 启用、未过期且有余量的优惠券，按到期时间升序
func (r *CouponRepository) ListClaimable(ctx context.Context, now time.Time) ([]*models.Coupon, error) {
	return r.Query().
		Where(func(c *models.Coupon) bool { return c.IsActive && c.EndTime.After(now) && c.UsedCount < c.TotalCount }).
		SortBy(func(a, b *models.Coupon) bool { return a.EndTime.Before(b.EndTime) }).
		All(ctx)
}

// UserCouponRepository 用户券仓储
type UserCouponRepository struct {
	*store.Collection[models.UserCoupon, *models.UserCoupon]
}

// NewUserCouponRepository 创建用户券仓储
func NewUserCouponRepository(db *store.DB) *UserCouponRepository {
	return &UserCouponRepository{store.NewCollection[models.UserCoupon](db, models.CollectionUserCoupons)}
}

// ListByUser 用户的券，status 为空时返回全部
func (r *UserCouponRepository) ListByUser(ctx context.Context, userID, status string) ([]*models.UserCoupon, error) {
	return r.Query().
		Where(func(uc *models.UserCoupon) bool {
			return uc.UserID == userID && (status == "" || uc.Status == status)
		}).
		SortBy(func(a, b *models.UserCoupon) bool { return a.ObtainedAt.After(b.ObtainedAt) }).
		All(ctx)
}

// FindByUserAndCoupon 用户领取的某张券
func (r *UserCouponRepository) FindByUserAndCoupon(ctx context.Context, userID, couponID string) (*models.UserCoupon, error) {
	return r.FindOne(ctx, func(uc *models.UserCoupon) bool {
		return uc.UserID == userID && uc.CouponID == couponID
	})
}

// ListAvailableByCoupon 某模板下仍可用的用户券
func (r *UserCouponRepository) ListAvailableByCoupon(ctx context.Context, couponID string) ([]*models.UserCoupon, error) {
	return r.Find(ctx, func(uc *models.UserCoupon) bool {
		return uc.CouponID == couponID && uc.Status == models.UserCouponStatusAvailable
	})
}

// ListEnded 已过期的优惠券
func (r *CouponRepository) ListEnded(ctx context.Context, now time.Time) ([]*models.Coupon, error) {
	return r.Find(ctx, func(c *models.Coupon) bool { return c.EndTime.Before(now) })
}

// GetByUser 用户自己的券
func (r *UserCouponRepository) GetByUser(ctx context.Context, id, userID string) (*models.UserCoupon, error) {
	return owned(ctx, r.Collection, id, userID, func(uc *models.UserCoupon) string { return uc.UserID })
}
