package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 优惠券类型
const (
	CouponTypeDiscount = "discount"
	CouponTypeShipping = "shipping"
)

// 优惠方式
const (
	DiscountTypeAmount     = "amount"
	DiscountTypePercentage = "percentage"
)

// Coupon 优惠券模板
type Coupon struct {
	store.Base
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Type         string          `json:"type"`
	DiscountType string          `json:"discountType"`
	// DiscountValue 满减金额，或百分比折扣中的折扣率（如 90 表示九折）
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinAmount     decimal.Decimal `json:"minAmount"`
	// MaxDiscount 为零表示不封顶
	MaxDiscount decimal.Decimal `json:"maxDiscount"`
	TotalCount  int             `json:"totalCount"`
	UsedCount   int             `json:"usedCount"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	IsActive    bool            `json:"isActive"`
}

// 用户券状态
const (
	UserCouponStatusAvailable = "available"
	UserCouponStatusUsed      = "used"
	UserCouponStatusExpired   = "expired"
)

// UserCoupon 用户领取的优惠券
type UserCoupon struct {
	store.Base
	UserID     string     `json:"userId"`
	CouponID   string     `json:"couponId"`
	Status     string     `json:"status"`
	ObtainedAt time.Time  `json:"obtainedAt"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
	OrderID    string     `json:"orderId,omitempty"`
}
