// Package marketing 提供营销相关的 HTTP Handler
package marketing

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/middleware"
	marketingService "github.com/dumeirei/shopping-app-backend/internal/service/marketing"
)

// CouponHandler 优惠券处理器
type CouponHandler struct {
	couponService *marketingService.CouponService
}

// NewCouponHandler 创建优惠券处理器
func NewCouponHandler(couponSvc *marketingService.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponSvc}
}

// GetUserCoupons 用户优惠券列表
// @Summary 用户优惠券列表
// @Description 传入 orderAmount 时标注每张券是否满足使用门槛
// @Tags 营销-优惠券
// @Produce json
// @Security Bearer
// @Param userId path string true "用户ID"
// @Param orderAmount query number false "订单金额"
// @Success 200 {object} response.Response{data=[]marketingService.UserCouponView}
// @Router /coupons/user/{userId} [get]
func (h *CouponHandler) GetUserCoupons(c *gin.Context) {
	userID, ok := handler.ParseParamID(c, "userId", "用户")
	if !ok {
		return
	}
	orderAmount, ok := handler.QueryDecimal(c, "orderAmount")
	if !ok {
		return
	}

	coupons, err := h.couponService.ListUser(c.Request.Context(), userID, orderAmount)
	handler.MustSucceed(c, err, coupons)
}

// GetAvailable 可领取的优惠券
// @Summary 可领取的优惠券
// @Tags 营销-优惠券
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Coupon}
// @Router /coupons/available [get]
func (h *CouponHandler) GetAvailable(c *gin.Context) {
	coupons, err := h.couponService.Available(c.Request.Context())
	handler.MustSucceed(c, err, coupons)
}

// Claim 领取优惠券
// @Summary 领取优惠券
// @Tags 营销-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.ClaimRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.UserCoupon}
// @Router /coupons/claim [post]
func (h *CouponHandler) Claim(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req marketingService.ClaimRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if req.UserID != "" && middleware.IsAdmin(c) {
		userID = req.UserID
	}

	grant, err := h.couponService.Claim(c.Request.Context(), userID, req.CouponID)
	handler.MustCreate(c, err, "优惠券领取成功", grant)
}

// Calculate 计算优惠金额
// @Summary 计算优惠金额
// @Tags 营销-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.CalculateRequest true "请求参数"
// @Success 200 {object} response.Response{data=marketingService.CalculateResult}
// @Router /coupons/calculate [post]
func (h *CouponHandler) Calculate(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req marketingService.CalculateRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.couponService.Calculate(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, result)
}

// CalculateFinal 计算最终支付金额
// @Summary 计算最终支付金额
// @Tags 营销-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.FinalAmountRequest true "请求参数"
// @Success 200 {object} response.Response{data=marketingService.FinalAmountResult}
// @Router /coupons/calculate-final-amount [post]
func (h *CouponHandler) CalculateFinal(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req marketingService.FinalAmountRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.couponService.CalculateFinal(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, result)
}

// Use 核销优惠券
// @Summary 核销优惠券
// @Tags 营销-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.UseRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.UserCoupon}
// @Router /coupons/use [post]
func (h *CouponHandler) Use(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req marketingService.UseRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	grant, err := h.couponService.Use(c.Request.Context(), userID, &req)
	handler.MustSucceedWithMessage(c, err, "优惠券已使用", grant)
}

// Create 创建优惠券（管理员）
// @Summary 创建优惠券
// @Tags 营销-优惠券管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.CreateCouponRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.Coupon}
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req marketingService.CreateCouponRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), &req)
	handler.MustCreate(c, err, "优惠券创建成功", coupon)
}

// RegisterRoutes 注册路由
func (h *CouponHandler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	coupons := r.Group("/coupons")
	{
		coupons.GET("/available", h.GetAvailable)
		coupons.GET("/user/:userId", g.Auth, middleware.SelfOrAdmin("userId"), h.GetUserCoupons)
		coupons.POST("/claim", g.Auth, h.Claim)
		coupons.POST("/calculate", g.Auth, h.Calculate)
		coupons.POST("/calculate-final-amount", g.Auth, h.CalculateFinal)
		coupons.POST("/use", g.Auth, h.Use)
		coupons.POST("", g.Auth, g.Admin, h.Create)
	}
}
