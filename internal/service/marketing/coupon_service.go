// Package marketing 提供优惠券服务
package marketing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/metrics"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/service/pricing"
)

// finalAmountFormula 最终金额计算说明
const finalAmountFormula = "支付金额 = 订单金额 + 运费 - 满减 - 积分抵扣 - 优惠券 - 运费券"

// CouponService 优惠券服务
type CouponService struct {
	couponRepo     *repository.CouponRepository
	userCouponRepo *repository.UserCouponRepository
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewCouponService 创建优惠券服务，m 可以为 nil
func NewCouponService(couponRepo *repository.CouponRepository, userCouponRepo *repository.UserCouponRepository, m *metrics.Metrics) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		userCouponRepo: userCouponRepo,
		metrics:        m,
		now:            time.Now,
	}
}

// UserCouponView 用户券及其模板
type UserCouponView struct {
	*models.Coupon
	UserCouponID string     `json:"userCouponId"`
	Status       string     `json:"status"`
	CanUse       bool       `json:"canUse"`
	Reason       string     `json:"reason,omitempty"`
	ObtainedAt   time.Time  `json:"obtainedAt"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	OrderID      string     `json:"orderId,omitempty"`
}

// ClaimRequest 领券请求，UserID 仅管理员代领时生效
type ClaimRequest struct {
	CouponID string `json:"couponId" binding:"required"`
	UserID   string `json:"userId"`
}

// CalculateRequest 优惠计算请求
type CalculateRequest struct {
	UserCouponID   string          `json:"userCouponId" binding:"required"`
	OrderAmount    decimal.Decimal `json:"orderAmount"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	OtherDiscounts decimal.Decimal `json:"otherDiscounts"`
}

// CalculateResult 优惠计算结果
type CalculateResult struct {
	Discount           decimal.Decimal            `json:"discount"`
	DiscountShipping   decimal.Decimal            `json:"discountShipping"`
	Coupon             *models.Coupon             `json:"coupon"`
	CalculationDetails pricing.CalculationDetails `json:"calculationDetails"`
}

// FinalAmountRequest 最终金额计算请求
type FinalAmountRequest struct {
	OrderAmount           decimal.Decimal `json:"orderAmount"`
	ShippingFee           decimal.Decimal `json:"shippingFee"`
	FullReductionDiscount decimal.Decimal `json:"fullReductionDiscount"`
	PointsDiscount        decimal.Decimal `json:"pointsDiscount"`
	UserCouponID          string          `json:"userCouponId"`
}

// FinalAmountResult 最终金额计算结果
type FinalAmountResult struct {
	pricing.FinalAmountBreakdown
	CouponInfo         *models.Coupon `json:"couponInfo"`
	CalculationFormula string         `json:"calculationFormula"`
}

// UseRequest 核销请求
type UseRequest struct {
	UserCouponID string `json:"userCouponId" binding:"required"`
	OrderID      string `json:"orderId" binding:"required"`
}

// CreateCouponRequest 新建优惠券模板
type CreateCouponRequest struct {
	Name          string          `json:"name" binding:"required,max=50"`
	Description   string          `json:"description" binding:"max=200"`
	Type          string          `json:"type" binding:"required,oneof=discount shipping"`
	DiscountType  string          `json:"discountType" binding:"omitempty,oneof=amount percentage"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinAmount     decimal.Decimal `json:"minAmount"`
	MaxDiscount   decimal.Decimal `json:"maxDiscount"`
	TotalCount    int             `json:"totalCount" binding:"required,min=1"`
	StartTime     time.Time       `json:"startTime" binding:"required"`
	EndTime       time.Time       `json:"endTime" binding:"required,gtfield=StartTime"`
	IsActive      *bool           `json:"isActive"`
}

func (s *CouponService) recordClaim(result string) {
	if s.metrics != nil {
		s.metrics.RecordCouponClaim(result)
	}
}

func dbError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.ErrDatabaseError.WithError(err)
}

// ListUser 用户的全部券；orderAmount 非空时标注是否满足使用门槛
func (s *CouponService) ListUser(ctx context.Context, userID string, orderAmount *decimal.Decimal) ([]*UserCouponView, error) {
	grants, err := s.userCouponRepo.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, dbError(err)
	}

	now := s.now()
	views := make([]*UserCouponView, 0, len(grants))
	for _, g := range grants {
		c, err := s.couponRepo.FindByID(ctx, g.CouponID)
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return nil, dbError(err)
		}

		v := &UserCouponView{
			Coupon:       c,
			UserCouponID: g.ID,
			Status:       g.Status,
			ObtainedAt:   g.ObtainedAt,
			UsedAt:       g.UsedAt,
			OrderID:      g.OrderID,
		}
		switch {
		case g.Status == models.UserCouponStatusUsed:
		case now.After(c.EndTime) || !c.IsActive || g.Status == models.UserCouponStatusExpired:
			v.Status = models.UserCouponStatusExpired
		default:
			v.Status = models.UserCouponStatusAvailable
			v.CanUse = true
			if orderAmount != nil && orderAmount.LessThan(c.MinAmount) {
				v.CanUse = false
				v.Reason = pricing.BelowMinAmount(c.MinAmount).Message
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// Available 可领取的优惠券
func (s *CouponService) Available(ctx context.Context) ([]*models.Coupon, error) {
	coupons, err := s.couponRepo.ListClaimable(ctx, s.now())
	if err != nil {
		return nil, dbError(err)
	}
	return coupons, nil
}

// Claim 领取优惠券
// 校验与发券都在优惠券集合的写锁内完成，并发领取不会超发或重复计数
func (s *CouponService) Claim(ctx context.Context, userID, couponID string) (*models.UserCoupon, error) {
	var grant *models.UserCoupon
	_, err := s.couponRepo.Update(ctx, couponID, func(c *models.Coupon) error {
		now := s.now()
		if !c.IsActive {
			return errors.ErrCouponInactive
		}
		if now.Before(c.StartTime) || now.After(c.EndTime) {
			return errors.ErrCouponExpired
		}
		if c.UsedCount >= c.TotalCount {
			return errors.ErrCouponNotEnough
		}
		if _, err := s.userCouponRepo.FindByUserAndCoupon(ctx, userID, couponID); err == nil {
			return errors.ErrCouponClaimed
		} else if !repository.IsNotFound(err) {
			return err
		}

		g, err := s.userCouponRepo.Create(ctx, &models.UserCoupon{
			UserID:     userID,
			CouponID:   couponID,
			Status:     models.UserCouponStatusAvailable,
			ObtainedAt: now,
		})
		if err != nil {
			return err
		}
		grant = g
		c.UsedCount++
		return nil
	})
	if err != nil {
		if grant != nil {
			_, _ = s.userCouponRepo.Delete(ctx, grant.ID)
		}
		s.recordClaim("rejected")
		if repository.IsNotFound(err) {
			return nil, errors.ErrCouponNotFound
		}
		return nil, dbError(err)
	}

	s.recordClaim("success")
	logger.Info("优惠券已领取", logger.UserID(userID), logger.Module("coupon"), logger.Action("claim"))
	return grant, nil
}

// usableGrant 用户可用的券及模板
func (s *CouponService) usableGrant(ctx context.Context, userID, userCouponID string) (*models.UserCoupon, *models.Coupon, error) {
	g, err := s.userCouponRepo.GetByUser(ctx, userCouponID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, errors.ErrUserCouponNotFound
		}
		return nil, nil, dbError(err)
	}
	if g.Status != models.UserCouponStatusAvailable {
		return nil, nil, errors.ErrCouponNotAvailable
	}
	c, err := s.couponRepo.FindByID(ctx, g.CouponID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, errors.ErrCouponNotFound
		}
		return nil, nil, dbError(err)
	}
	if s.now().After(c.EndTime) {
		return nil, nil, errors.ErrCouponExpired
	}
	return g, c, nil
}

func positiveAmount(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return errors.ErrInvalidParams.WithFields(errors.FieldError{Field: field, Message: "订单金额必须大于0"})
	}
	return nil
}

func nonNegative(fields map[string]decimal.Decimal) error {
	for name, v := range fields {
		if v.IsNegative() {
			return errors.ErrInvalidParams.WithFields(errors.FieldError{Field: name, Message: "金额不能为负数"})
		}
	}
	return nil
}

// Calculate 计算单张券的优惠
func (s *CouponService) Calculate(ctx context.Context, userID string, req *CalculateRequest) (*CalculateResult, error) {
	if err := positiveAmount("orderAmount", req.OrderAmount); err != nil {
		return nil, err
	}
	if err := nonNegative(map[string]decimal.Decimal{"shippingFee": req.ShippingFee, "otherDiscounts": req.OtherDiscounts}); err != nil {
		return nil, err
	}
	_, c, err := s.usableGrant(ctx, userID, req.UserCouponID)
	if err != nil {
		return nil, err
	}

	res, err := pricing.CouponDiscount(c, req.OrderAmount, req.ShippingFee, req.OtherDiscounts)
	if err != nil {
		return nil, err
	}
	return &CalculateResult{
		Discount:           res.Discount,
		DiscountShipping:   res.DiscountShipping,
		Coupon:             c,
		CalculationDetails: res.CalculationDetails,
	}, nil
}

// CalculateFinal 综合满减、积分和优惠券计算应付金额；券不可用时按无券计算
func (s *CouponService) CalculateFinal(ctx context.Context, userID string, req *FinalAmountRequest) (*FinalAmountResult, error) {
	if err := positiveAmount("orderAmount", req.OrderAmount); err != nil {
		return nil, err
	}
	if err := nonNegative(map[string]decimal.Decimal{
		"shippingFee":           req.ShippingFee,
		"fullReductionDiscount": req.FullReductionDiscount,
		"pointsDiscount":        req.PointsDiscount,
	}); err != nil {
		return nil, err
	}

	in := pricing.FinalAmountInput{
		OrderAmount:           req.OrderAmount,
		ShippingFee:           req.ShippingFee,
		FullReductionDiscount: req.FullReductionDiscount,
		PointsDiscount:        req.PointsDiscount,
	}
	var info *models.Coupon
	if req.UserCouponID != "" {
		if _, c, err := s.usableGrant(ctx, userID, req.UserCouponID); err == nil {
			other := req.FullReductionDiscount.Add(req.PointsDiscount)
			if res, err := pricing.CouponDiscount(c, req.OrderAmount, req.ShippingFee, other); err == nil {
				info = c
				in.CouponDiscount = res.Discount
				in.CouponShippingDiscount = res.DiscountShipping
			}
		}
	}

	return &FinalAmountResult{
		FinalAmountBreakdown: pricing.FinalAmount(in),
		CouponInfo:           info,
		CalculationFormula:   finalAmountFormula,
	}, nil
}

// Use 核销用户券
func (s *CouponService) Use(ctx context.Context, userID string, req *UseRequest) (*models.UserCoupon, error) {
	if _, _, err := s.usableGrant(ctx, userID, req.UserCouponID); err != nil {
		return nil, err
	}
	now := s.now()
	g, err := s.userCouponRepo.Update(ctx, req.UserCouponID, func(g *models.UserCoupon) error {
		if g.Status != models.UserCouponStatusAvailable {
			return errors.ErrCouponNotAvailable
		}
		g.Status = models.UserCouponStatusUsed
		g.UsedAt = &now
		g.OrderID = req.OrderID
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}
	return g, nil
}

// Create 新建优惠券模板
func (s *CouponService) Create(ctx context.Context, req *CreateCouponRequest) (*models.Coupon, error) {
	if err := nonNegative(map[string]decimal.Decimal{
		"discountValue": req.DiscountValue,
		"minAmount":     req.MinAmount,
		"maxDiscount":   req.MaxDiscount,
	}); err != nil {
		return nil, err
	}
	discountType := req.DiscountType
	if req.Type == models.CouponTypeDiscount {
		if discountType == "" {
			return nil, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "discountType", Message: "请选择优惠方式"})
		}
		if discountType == models.DiscountTypePercentage &&
			(!req.DiscountValue.IsPositive() || req.DiscountValue.GreaterThanOrEqual(decimal.NewFromInt(100))) {
			return nil, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "discountValue", Message: "折扣率需在0到100之间"})
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c, err := s.couponRepo.Create(ctx, &models.Coupon{
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		MinAmount:     req.MinAmount,
		MaxDiscount:   req.MaxDiscount,
		TotalCount:    req.TotalCount,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		IsActive:      active,
	})
	if err != nil {
		return nil, dbError(err)
	}
	return c, nil
}

// ExpireGrants 将已过期优惠券下仍可用的用户券标记为过期，返回处理数量
func (s *CouponService) ExpireGrants(ctx context.Context) (int, error) {
	coupons, err := s.couponRepo.ListEnded(ctx, s.now())
	if err != nil {
		return 0, dbError(err)
	}

	n := 0
	for _, c := range coupons {
		grants, err := s.userCouponRepo.ListAvailableByCoupon(ctx, c.ID)
		if err != nil {
			return n, dbError(err)
		}
		for _, g := range grants {
			_, err := s.userCouponRepo.Update(ctx, g.ID, func(g *models.UserCoupon) error {
				if g.Status == models.UserCouponStatusAvailable {
					g.Status = models.UserCouponStatusExpired
				}
				return nil
			})
			if err != nil && !repository.IsNotFound(err) {
				return n, dbError(err)
			}
			n++
		}
	}
	return n, nil
}
