package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestShippingFee(t *testing.T) {
	r := DefaultRules()
	assertDecimal(t, "10", r.ShippingFee(d("98.99")))
	assertDecimal(t, "0", r.ShippingFee(d("99")))
	assertDecimal(t, "0", r.ShippingFee(d("500")))
}

func TestOrderTotals(t *testing.T) {
	r := DefaultRules()

	totals := r.OrderTotals([]Line{{Price: d("29.9"), Quantity: 2}, {Price: d("10"), Quantity: 1}})
	assertDecimal(t, "69.8", totals.TotalAmount)
	assertDecimal(t, "10", totals.ShippingFee)
	assertDecimal(t, "79.8", totals.FinalAmount)

	totals = r.OrderTotals([]Line{{Price: d("5999"), Quantity: 1}})
	assertDecimal(t, "0", totals.ShippingFee)
	assertDecimal(t, "5999", totals.FinalAmount)
}

func TestRulesFromConfig(t *testing.T) {
	r, err := RulesFromConfig(&config.BusinessConfig{FreeShippingThreshold: "199", ShippingFee: "8", PointsPerYuan: 50})
	require.NoError(t, err)
	assertDecimal(t, "199", r.FreeShippingThreshold)
	assertDecimal(t, "8", r.FlatShippingFee)
	assertDecimal(t, "0.3", r.PointsMaxRatio)
	assert.Equal(t, 50, r.PointsPerYuan)

	_, err = RulesFromConfig(&config.BusinessConfig{ShippingFee: "ten"})
	assert.Error(t, err)
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name         string
		coupon       models.Coupon
		order, ship  string
		other        string
		wantDiscount string
		wantShipping string
	}{
		{
			name:         "满减券",
			coupon:       models.Coupon{Type: models.CouponTypeDiscount, DiscountType: models.DiscountTypeAmount, DiscountValue: d("20"), MinAmount: d("100")},
			order:        "150", ship: "0", other: "0",
			wantDiscount: "20", wantShipping: "0",
		},
		{
			name:         "折扣券扣除其他减免后计算",
			coupon:       models.Coupon{Type: models.CouponTypeDiscount, DiscountType: models.DiscountTypePercentage, DiscountValue: d("95"), MaxDiscount: d("100")},
			order:        "800", ship: "0", other: "20",
			wantDiscount: "39", wantShipping: "0",
		},
		{
			name:         "折扣券封顶",
			coupon:       models.Coupon{Type: models.CouponTypeDiscount, DiscountType: models.DiscountTypePercentage, DiscountValue: d("80"), MaxDiscount: d("50")},
			order:        "1000", ship: "0", other: "0",
			wantDiscount: "50", wantShipping: "0",
		},
		{
			name:         "折扣券不封顶",
			coupon:       models.Coupon{Type: models.CouponTypeDiscount, DiscountType: models.DiscountTypePercentage, DiscountValue: d("80")},
			order:        "1000", ship: "0", other: "0",
			wantDiscount: "200", wantShipping: "0",
		},
		{
			name:         "其他减免超过订单金额",
			coupon:       models.Coupon{Type: models.CouponTypeDiscount, DiscountType: models.DiscountTypePercentage, DiscountValue: d("90")},
			order:        "50", ship: "0", other: "80",
			wantDiscount: "0", wantShipping: "0",
		},
		{
			name:         "运费券",
			coupon:       models.Coupon{Type: models.CouponTypeShipping, MaxDiscount: d("8")},
			order:        "50", ship: "10", other: "0",
			wantDiscount: "0", wantShipping: "8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CouponDiscount(&tt.coupon, d(tt.order), d(tt.ship), d(tt.other))
			require.NoError(t, err)
			assertDecimal(t, tt.wantDiscount, res.Discount)
			assertDecimal(t, tt.wantShipping, res.DiscountShipping)
		})
	}
}

func TestCouponDiscount_BelowMinAmount(t *testing.T) {
	c := &models.Coupon{DiscountType: models.DiscountTypeAmount, DiscountValue: d("20"), MinAmount: d("100")}
	_, err := CouponDiscount(c, d("99.99"), decimal.Zero, decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCouponMinAmount)
	assert.Equal(t, "订单金额需满100元", errors.GetAppError(err).Message)
}

func TestCouponDiscount_Details(t *testing.T) {
	c := &models.Coupon{DiscountType: models.DiscountTypePercentage, DiscountValue: d("90"), MinAmount: d("10")}
	res, err := CouponDiscount(c, d("200"), decimal.Zero, d("50"))
	require.NoError(t, err)
	assertDecimal(t, "150", res.CalculationDetails.Base)
	assertDecimal(t, "200", res.CalculationDetails.OriginalAmount)
	require.NotNil(t, res.CalculationDetails.DiscountRate)
	assertDecimal(t, "90", *res.CalculationDetails.DiscountRate)
	assertDecimal(t, "15", res.Discount)
}

func TestFinalAmount(t *testing.T) {
	b := FinalAmount(FinalAmountInput{
		OrderAmount:            d("800"),
		ShippingFee:            d("10"),
		FullReductionDiscount:  d("10"),
		PointsDiscount:         d("10"),
		CouponDiscount:         d("38.5"),
		CouponShippingDiscount: d("10"),
	})
	assertDecimal(t, "68.5", b.TotalDiscount)
	assertDecimal(t, "741.5", b.FinalAmount)

	b = FinalAmount(FinalAmountInput{OrderAmount: d("10"), CouponDiscount: d("20")})
	assertDecimal(t, "0", b.FinalAmount)
}

func TestPointsDeduction(t *testing.T) {
	r := DefaultRules()

	res := r.PointsDeduction(5000, d("100"))
	assert.Equal(t, 3000, res.MaxUsablePoints)
	assert.Equal(t, 3000, res.UsablePoints)
	assertDecimal(t, "30", res.DeductionAmount)
	assert.Equal(t, 5000, res.AvailablePoints)

	res = r.PointsDeduction(1000, d("50"))
	assert.Equal(t, 1500, res.MaxUsablePoints)
	assert.Equal(t, 1000, res.UsablePoints)
	assertDecimal(t, "10", res.DeductionAmount)
	assert.Equal(t, "10.00", res.DeductionAmount.StringFixed(2))

	res = r.PointsDeduction(150, d("100"))
	assert.Equal(t, 150, res.UsablePoints)
	assertDecimal(t, "1.5", res.DeductionAmount)

	res = r.PointsDeduction(1000, d("0.99"))
	assert.Equal(t, 29, res.MaxUsablePoints, "向下取整")
	assertDecimal(t, "0.29", res.DeductionAmount)

	res = r.PointsDeduction(0, d("100"))
	assert.Zero(t, res.UsablePoints)
	assert.True(t, res.DeductionAmount.IsZero())
}
