package marketing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setupCouponService(t *testing.T) (*CouponService, *repository.CouponRepository, *repository.UserCouponRepository) {
	t.Helper()
	driver, err := store.NewFileDriver(t.TempDir())
	require.NoError(t, err)
	db := store.New(driver)
	t.Cleanup(func() { _ = db.Close() })

	coupons := repository.NewCouponRepository(db)
	grants := repository.NewUserCouponRepository(db)
	svc := NewCouponService(coupons, grants, nil)
	svc.now = func() time.Time { return testNow }
	return svc, coupons, grants
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func addCoupon(t *testing.T, repo *repository.CouponRepository, c models.Coupon) *models.Coupon {
	t.Helper()
	if c.StartTime.IsZero() {
		c.StartTime = testNow.AddDate(0, -1, 0)
	}
	if c.EndTime.IsZero() {
		c.EndTime = testNow.AddDate(0, 1, 0)
	}
	if c.TotalCount == 0 {
		c.TotalCount = 100
	}
	created, err := repo.Create(context.Background(), &c)
	require.NoError(t, err)
	return created
}

func amountCoupon(value, min string) models.Coupon {
	return models.Coupon{
		Name:          "满" + min + "减" + value,
		Type:          models.CouponTypeDiscount,
		DiscountType:  models.DiscountTypeAmount,
		DiscountValue: dec(value),
		MinAmount:     dec(min),
		IsActive:      true,
	}
}

func TestClaim(t *testing.T) {
	svc, coupons, _ := setupCouponService(t)
	ctx := context.Background()
	c := addCoupon(t, coupons, amountCoupon("10", "100"))

	g, err := svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserCouponStatusAvailable, g.Status)
	assert.Equal(t, testNow, g.ObtainedAt)

	got, err := coupons.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)

	_, err = svc.Claim(ctx, "u1", c.ID)
	assert.ErrorIs(t, err, errors.ErrCouponClaimed)
	got, _ = coupons.FindByID(ctx, c.ID)
	assert.Equal(t, 1, got.UsedCount, "重复领取不计数")
}

func TestClaim_Rejections(t *testing.T) {
	svc, coupons, grants := setupCouponService(t)
	ctx := context.Background()

	inactive := amountCoupon("10", "0")
	inactive.IsActive = false
	ended := amountCoupon("10", "0")
	ended.EndTime = testNow.Add(-time.Hour)
	notStarted := amountCoupon("10", "0")
	notStarted.StartTime = testNow.Add(time.Hour)
	exhausted := amountCoupon("10", "0")
	exhausted.TotalCount = 1
	exhausted.UsedCount = 1

	tests := []struct {
		name   string
		coupon models.Coupon
		want   *errors.AppError
	}{
		{"未启用", inactive, errors.ErrCouponInactive},
		{"已过期", ended, errors.ErrCouponExpired},
		{"未开始", notStarted, errors.ErrCouponExpired},
		{"已领完", exhausted, errors.ErrCouponNotEnough},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := addCoupon(t, coupons, tt.coupon)
			_, err := svc.Claim(ctx, "u1", c.ID)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Claim(ctx, "u1", "missing")
	assert.ErrorIs(t, err, errors.ErrCouponNotFound)

	n, err := grants.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClaim_Concurrent(t *testing.T) {
	svc, coupons, grants := setupCouponService(t)
	ctx := context.Background()
	tpl := amountCoupon("5", "0")
	tpl.TotalCount = 3
	c := addCoupon(t, coupons, tpl)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.Claim(ctx, string(rune('a'+i)), c.ID)
		}(i)
	}
	wg.Wait()

	got, err := coupons.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.UsedCount)
	n, err := grants.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAvailable(t *testing.T) {
	svc, coupons, _ := setupCouponService(t)
	ctx := context.Background()

	later := amountCoupon("10", "0")
	later.EndTime = testNow.AddDate(0, 2, 0)
	addCoupon(t, coupons, later)
	sooner := addCoupon(t, coupons, amountCoupon("20", "0"))
	ended := amountCoupon("30", "0")
	ended.EndTime = testNow.Add(-time.Minute)
	addCoupon(t, coupons, ended)

	list, err := svc.Available(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sooner.ID, list[0].ID, "按到期时间升序")
}

func TestListUser(t *testing.T) {
	svc, coupons, grants := setupCouponService(t)
	ctx := context.Background()

	big := addCoupon(t, coupons, amountCoupon("20", "200"))
	small := addCoupon(t, coupons, amountCoupon("5", "50"))
	_, err := svc.Claim(ctx, "u1", big.ID)
	require.NoError(t, err)
	_, err = svc.Claim(ctx, "u1", small.ID)
	require.NoError(t, err)

	// 管理员停用后按过期展示
	_, err = coupons.Update(ctx, small.ID, func(c *models.Coupon) error {
		c.IsActive = false
		return nil
	})
	require.NoError(t, err)

	amount := dec("100")
	views, err := svc.ListUser(ctx, "u1", &amount)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byCoupon := map[string]*UserCouponView{}
	for _, v := range views {
		byCoupon[v.Coupon.ID] = v
	}
	assert.Equal(t, models.UserCouponStatusAvailable, byCoupon[big.ID].Status)
	assert.False(t, byCoupon[big.ID].CanUse)
	assert.Equal(t, "订单金额需满200元", byCoupon[big.ID].Reason)
	assert.Equal(t, models.UserCouponStatusExpired, byCoupon[small.ID].Status)
	assert.False(t, byCoupon[small.ID].CanUse)

	views, err = svc.ListUser(ctx, "u1", nil)
	require.NoError(t, err)
	assert.True(t, byIDView(views, big.ID).CanUse)

	others, err := grants.ListByUser(ctx, "u2", "")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func byIDView(views []*UserCouponView, couponID string) *UserCouponView {
	for _, v := range views {
		if v.Coupon.ID == couponID {
			return v
		}
	}
	return nil
}

func TestCalculate(t *testing.T) {
	svc, coupons, _ := setupCouponService(t)
	ctx := context.Background()

	pct := addCoupon(t, coupons, models.Coupon{
		Name:          "九折",
		Type:          models.CouponTypeDiscount,
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("90"),
		MaxDiscount:   dec("50"),
		IsActive:      true,
	})
	g, err := svc.Claim(ctx, "u1", pct.ID)
	require.NoError(t, err)

	res, err := svc.Calculate(ctx, "u1", &CalculateRequest{
		UserCouponID:   g.ID,
		OrderAmount:    dec("200"),
		ShippingFee:    dec("10"),
		OtherDiscounts: dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "18", res.Discount.String())
	assert.True(t, res.DiscountShipping.IsZero())
	assert.Equal(t, "180", res.CalculationDetails.Base.String())
	assert.Equal(t, pct.ID, res.Coupon.ID)

	_, err = svc.Calculate(ctx, "u2", &CalculateRequest{UserCouponID: g.ID, OrderAmount: dec("200")})
	assert.ErrorIs(t, err, errors.ErrUserCouponNotFound)

	_, err = svc.Calculate(ctx, "u1", &CalculateRequest{UserCouponID: g.ID, OrderAmount: decimal.Zero})
	assert.ErrorIs(t, err, errors.ErrInvalidParams)
}

func TestCalculate_BelowMinAmount(t *testing.T) {
	svc, coupons, _ := setupCouponService(t)
	ctx := context.Background()
	c := addCoupon(t, coupons, amountCoupon("10", "100"))
	g, err := svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)

	_, err = svc.Calculate(ctx, "u1", &CalculateRequest{UserCouponID: g.ID, OrderAmount: dec("99.99")})
	assert.ErrorIs(t, err, errors.ErrCouponMinAmount)
}

func TestCalculateFinal(t *testing.T) {
	svc, coupons, _ := setupCouponService(t)
	ctx := context.Background()
	ship := addCoupon(t, coupons, models.Coupon{
		Name:     "免运费",
		Type:     models.CouponTypeShipping,
		IsActive: true,
	})
	g, err := svc.Claim(ctx, "u1", ship.ID)
	require.NoError(t, err)

	res, err := svc.CalculateFinal(ctx, "u1", &FinalAmountRequest{
		OrderAmount:           dec("80"),
		ShippingFee:           dec("10"),
		FullReductionDiscount: dec("5"),
		PointsDiscount:        dec("3"),
		UserCouponID:          g.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", res.CouponShippingDiscount.String())
	assert.Equal(t, "18", res.TotalDiscount.String())
	assert.Equal(t, "72", res.FinalAmount.String())
	require.NotNil(t, res.CouponInfo)
	assert.NotEmpty(t, res.CalculationFormula)

	// 他人的券按无券计算
	res, err = svc.CalculateFinal(ctx, "u2", &FinalAmountRequest{
		OrderAmount:  dec("80"),
		ShippingFee:  dec("10"),
		UserCouponID: g.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, res.CouponInfo)
	assert.Equal(t, "90", res.FinalAmount.String())
}

func TestUse(t *testing.T) {
	svc, coupons, _ := setupCouponService(t)
	ctx := context.Background()
	c := addCoupon(t, coupons, amountCoupon("10", "0"))
	g, err := svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)

	used, err := svc.Use(ctx, "u1", &UseRequest{UserCouponID: g.ID, OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, models.UserCouponStatusUsed, used.Status)
	assert.Equal(t, "o1", used.OrderID)
	require.NotNil(t, used.UsedAt)

	_, err = svc.Use(ctx, "u1", &UseRequest{UserCouponID: g.ID, OrderID: "o2"})
	assert.ErrorIs(t, err, errors.ErrCouponNotAvailable)
}

func TestCreate(t *testing.T) {
	svc, _, _ := setupCouponService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, &CreateCouponRequest{
		Name:          "新人券",
		Type:          models.CouponTypeDiscount,
		DiscountType:  models.DiscountTypeAmount,
		DiscountValue: dec("15"),
		MinAmount:     dec("99"),
		TotalCount:    500,
		StartTime:     testNow,
		EndTime:       testNow.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Zero(t, c.UsedCount)

	_, err = svc.Create(ctx, &CreateCouponRequest{
		Name:          "错误折扣",
		Type:          models.CouponTypeDiscount,
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("120"),
		TotalCount:    1,
		StartTime:     testNow,
		EndTime:       testNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, errors.ErrInvalidParams)

	_, err = svc.Create(ctx, &CreateCouponRequest{
		Name:       "缺少方式",
		Type:       models.CouponTypeDiscount,
		TotalCount: 1,
		StartTime:  testNow,
		EndTime:    testNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, errors.ErrInvalidParams)
}

func TestExpireGrants(t *testing.T) {
	svc, coupons, grants := setupCouponService(t)
	ctx := context.Background()
	short := amountCoupon("10", "0")
	short.EndTime = testNow.Add(time.Hour)
	c := addCoupon(t, coupons, short)
	keep := addCoupon(t, coupons, amountCoupon("5", "0"))

	g1, err := svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)
	g2, err := svc.Claim(ctx, "u2", c.ID)
	require.NoError(t, err)
	_, err = svc.Use(ctx, "u2", &UseRequest{UserCouponID: g2.ID, OrderID: "o1"})
	require.NoError(t, err)
	g3, err := svc.Claim(ctx, "u1", keep.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	n, err := svc.ExpireGrants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := grants.FindByID(ctx, g1.ID)
	assert.Equal(t, models.UserCouponStatusExpired, got.Status)
	got, _ = grants.FindByID(ctx, g2.ID)
	assert.Equal(t, models.UserCouponStatusUsed, got.Status)
	got, _ = grants.FindByID(ctx, g3.ID)
	assert.Equal(t, models.UserCouponStatusAvailable, got.Status)
}
