// Package pricing 提供订单金额、运费、优惠券与积分抵扣的纯计算
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Rules 计价规则
type Rules struct {
	// FreeShippingThreshold 订单金额达到该值免运费
	FreeShippingThreshold decimal.Decimal
	// FlatShippingFee 未满包邮门槛时的固定运费
	FlatShippingFee decimal.Decimal
	// PointsMaxRatio 积分最多抵扣订单金额的比例
	PointsMaxRatio decimal.Decimal
	// PointsPerYuan 多少积分抵扣 1 元
	PointsPerYuan int
}

// DefaultRules 满 99 包邮，运费 10 元，100 积分抵 1 元，最多抵扣 30%
func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(99),
		FlatShippingFee:       decimal.NewFromInt(10),
		PointsMaxRatio:        decimal.RequireFromString("0.3"),
		PointsPerYuan:         100,
	}
}

// RulesFromConfig 从业务配置构建计价规则，空值使用默认值
func RulesFromConfig(cfg *config.BusinessConfig) (Rules, error) {
	r := DefaultRules()
	if cfg == nil {
		return r, nil
	}
	parse := func(name, raw string, dst *decimal.Decimal) error {
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid business.%s %q: %w", name, raw, err)
		}
		*dst = d
		return nil
	}
	if err := parse("free_shipping_threshold", cfg.FreeShippingThreshold, &r.FreeShippingThreshold); err != nil {
		return r, err
	}
	if err := parse("shipping_fee", cfg.ShippingFee, &r.FlatShippingFee); err != nil {
		return r, err
	}
	if err := parse("points_max_ratio", cfg.PointsMaxRatio, &r.PointsMaxRatio); err != nil {
		return r, err
	}
	if cfg.PointsPerYuan > 0 {
		r.PointsPerYuan = cfg.PointsPerYuan
	}
	return r, nil
}

// ShippingFee 运费，达到包邮门槛时为 0
func (r Rules) ShippingFee(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.FlatShippingFee
}

// Line 订单行
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Subtotal 行小计
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals 订单金额汇总
type Totals struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

// OrderTotals 商品总额、运费与应付金额
func (r Rules) OrderTotals(lines []Line) Totals {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	fee := r.ShippingFee(total)
	return Totals{TotalAmount: total, ShippingFee: fee, FinalAmount: total.Add(fee)}
}

// CalculationDetails 优惠券计算明细
type CalculationDetails struct {
	OriginalAmount decimal.Decimal  `json:"originalAmount"`
	OtherDiscounts decimal.Decimal  `json:"otherDiscounts"`
	MinAmount      decimal.Decimal  `json:"minAmount"`
	DiscountType   string           `json:"discountType"`
	DiscountValue  decimal.Decimal  `json:"discountValue"`
	MaxDiscount    decimal.Decimal  `json:"maxDiscount"`
	Base           decimal.Decimal  `json:"base"`
	DiscountRate   *decimal.Decimal `json:"discountRate"`
}

// CouponResult 优惠券优惠结果
type CouponResult struct {
	Discount           decimal.Decimal    `json:"discount"`
	DiscountShipping   decimal.Decimal    `json:"discountShipping"`
	CalculationDetails CalculationDetails `json:"calculationDetails"`
}

// BelowMinAmount 未达到使用门槛的错误
func BelowMinAmount(min decimal.Decimal) *errors.AppError {
	return errors.ErrCouponMinAmount.WithMessagef("订单金额需满%s元", min.String())
}

// capped maxDiscount 为零表示不封顶
func capped(v, max decimal.Decimal) decimal.Decimal {
	if max.IsPositive() && v.GreaterThan(max) {
		return max
	}
	return v
}

// CouponDiscount 计算单张优惠券的优惠金额
// 折扣券以 max(订单金额 - 其他减免, 0) 为基数，discountValue 为折扣率（90 表示九折）
func CouponDiscount(c *models.Coupon, orderAmount, shippingFee, otherDiscounts decimal.Decimal) (*CouponResult, error) {
	if orderAmount.LessThan(c.MinAmount) {
		return nil, BelowMinAmount(c.MinAmount)
	}

	base := decimal.Max(orderAmount.Sub(otherDiscounts), decimal.Zero)
	res := &CouponResult{
		Discount:         decimal.Zero,
		DiscountShipping: decimal.Zero,
		CalculationDetails: CalculationDetails{
			OriginalAmount: orderAmount,
			OtherDiscounts: otherDiscounts,
			MinAmount:      c.MinAmount,
			DiscountType:   c.DiscountType,
			DiscountValue:  c.DiscountValue,
			MaxDiscount:    c.MaxDiscount,
			Base:           base,
		},
	}

	switch {
	case c.Type == models.CouponTypeShipping:
		res.DiscountShipping = capped(shippingFee, c.MaxDiscount)
	case c.DiscountType == models.DiscountTypeAmount:
		res.Discount = c.DiscountValue
	case c.DiscountType == models.DiscountTypePercentage:
		rate := c.DiscountValue
		res.CalculationDetails.DiscountRate = &rate
		discounted := base.Mul(rate).Div(hundred)
		res.Discount = capped(base.Sub(discounted), c.MaxDiscount)
	}
	res.Discount = res.Discount.Round(2)
	res.DiscountShipping = res.DiscountShipping.Round(2)
	return res, nil
}

// FinalAmountInput 最终金额计算参数
type FinalAmountInput struct {
	OrderAmount            decimal.Decimal
	ShippingFee            decimal.Decimal
	FullReductionDiscount  decimal.Decimal
	PointsDiscount         decimal.Decimal
	CouponDiscount         decimal.Decimal
	CouponShippingDiscount decimal.Decimal
}

// FinalAmountBreakdown 最终金额明细
type FinalAmountBreakdown struct {
	OrderAmount            decimal.Decimal `json:"orderAmount"`
	ShippingFee            decimal.Decimal `json:"shippingFee"`
	FullReductionDiscount  decimal.Decimal `json:"fullReductionDiscount"`
	PointsDiscount         decimal.Decimal `json:"pointsDiscount"`
	CouponDiscount         decimal.Decimal `json:"couponDiscount"`
	CouponShippingDiscount decimal.Decimal `json:"couponShippingDiscount"`
	TotalDiscount          decimal.Decimal `json:"totalDiscount"`
	FinalAmount            decimal.Decimal `json:"finalAmount"`
}

// FinalAmount 应付金额 = max(订单金额 + 运费 - 满减 - 积分 - 券 - 运费券, 0)
func FinalAmount(in FinalAmountInput) FinalAmountBreakdown {
	final := in.OrderAmount.Add(in.ShippingFee).
		Sub(in.FullReductionDiscount).
		Sub(in.PointsDiscount).
		Sub(in.CouponDiscount).
		Sub(in.CouponShippingDiscount)
	total := in.FullReductionDiscount.Add(in.PointsDiscount).Add(in.CouponDiscount).Add(in.CouponShippingDiscount)
	return FinalAmountBreakdown{
		OrderAmount:            in.OrderAmount.Round(2),
		ShippingFee:            in.ShippingFee.Round(2),
		FullReductionDiscount:  in.FullReductionDiscount.Round(2),
		PointsDiscount:         in.PointsDiscount.Round(2),
		CouponDiscount:         in.CouponDiscount.Round(2),
		CouponShippingDiscount: in.CouponShippingDiscount.Round(2),
		TotalDiscount:          total.Round(2),
		FinalAmount:            decimal.Max(final, decimal.Zero).Round(2),
	}
}

// PointsResult 积分抵扣预览
type PointsResult struct {
	AvailablePoints int             `json:"availablePoints"`
	MaxUsablePoints int             `json:"maxUsablePoints"`
	UsablePoints    int             `json:"usablePoints"`
	DeductionAmount decimal.Decimal `json:"deductionAmount"`
}

// PointsDeduction 积分抵扣：最多抵扣订单金额的 PointsMaxRatio
func (r Rules) PointsDeduction(balance int, orderAmount decimal.Decimal) PointsResult {
	per := decimal.NewFromInt(int64(r.PointsPerYuan))
	maxPoints := int(orderAmount.Mul(r.PointsMaxRatio).Mul(per).Floor().IntPart())
	if maxPoints < 0 {
		maxPoints = 0
	}
	usable := balance
	if usable > maxPoints {
		usable = maxPoints
	}
	if usable < 0 {
		usable = 0
	}
	return PointsResult{
		AvailablePoints: balance,
		MaxUsablePoints: maxPoints,
		UsablePoints:    usable,
		DeductionAmount: decimal.NewFromInt(int64(usable)).Div(per).Round(2),
	}
}
