package mall

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	mallService "github.com/dumeirei/shopping-app-backend/internal/service/mall"
)

// IdempotencyHeader 下单幂等键请求头
const IdempotencyHeader = "Idempotency-Key"

// OrderHandler 订单处理器
type OrderHandler struct {
	orderService  *mallService.OrderService
	reviewService *mallService.ReviewService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(orderSvc *mallService.OrderService, reviewSvc *mallService.ReviewService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderSvc,
		reviewService: reviewSvc,
	}
}

// CreateOrder 创建订单
// @Summary 创建订单
// @Description 携带 Idempotency-Key 重复提交时返回首次创建的订单
// @Tags 订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param Idempotency-Key header string false "幂等键"
// @Param request body mallService.CreateOrderRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.Order}
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req mallService.CreateOrderRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	idemKey := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	order, replayed, err := h.orderService.Create(c.Request.Context(), userID, idemKey, &req)
	if handler.HandleError(c, err) {
		return
	}
	if replayed {
		response.SuccessWithMessage(c, "订单已创建", order)
		return
	}
	response.Created(c, "订单创建成功", order)
}

// GetOrders 订单列表
// @Summary 订单列表
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param limit query int false "每页数量，最大50"
// @Param status query string false "订单状态"
// @Success 200 {object} response.Response{data=mallService.OrderList}
// @Router /orders [get]
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	status := c.Query("status")
	if status != "" && !slices.Contains(models.OrderStatuses, status) {
		response.AppError(c, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "status", Message: "订单状态无效"}))
		return
	}

	p := handler.BindPagination(c, 10, 50)
	list, err := h.orderService.List(c.Request.Context(), userID, status, p.Page, p.Limit)
	handler.MustSucceed(c, err, list)
}

// GetOrdersByType 按类型查询订单
// @Summary 按类型查询订单
// @Description type: 1 待付款, 2 待发货, 3 待收货, 4 待评价
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param type query int true "订单类型"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} response.Response{data=mallService.TypedOrderList}
// @Router /orders/list [get]
func (h *OrderHandler) GetOrdersByType(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	typ := handler.QueryInt(c, "type", 0)
	page := handler.QueryInt(c, "page", 1)
	pageSize := clampLimit(handler.QueryInt(c, "pageSize", 10), 10, 50)
	list, err := h.orderService.ListByType(c.Request.Context(), userID, typ, page, pageSize)
	handler.MustSucceed(c, err, list)
}

// GetCounts 各状态订单数量
// @Summary 各状态订单数量
// @Tags 订单
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=map[string]int}
// @Router /orders/counts [get]
func (h *OrderHandler) GetCounts(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	counts, err := h.orderService.Counts(c.Request.Context(), userID)
	handler.MustSucceed(c, err, counts)
}

// GetStatistics 订单统计
// @Summary 订单统计
// @Tags 订单
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=mallService.OrderStatistics}
// @Router /orders/statistics/summary [get]
func (h *OrderHandler) GetStatistics(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	stats, err := h.orderService.Statistics(c.Request.Context(), userID)
	handler.MustSucceed(c, err, stats)
}

// GetOrder 订单详情
// @Summary 订单详情
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), userID, id)
	handler.MustSucceed(c, err, order)
}

// CancelOrder 取消订单
// @Summary 取消订单
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders/{id}/cancel [put]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "订单已取消", order)
}

// PayOrder 支付订单
// @Summary 支付订单
// @Tags 订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Param request body mallService.PayRequest false "请求参数"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders/{id}/pay [post]
func (h *OrderHandler) PayOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	var req mallService.PayRequest
	if c.Request.ContentLength > 0 && !handler.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Pay(c.Request.Context(), userID, id, &req)
	handler.MustSucceedWithMessage(c, err, "支付成功", order)
}

// ConfirmOrder 确认收货
// @Summary 确认收货
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders/{id}/confirm [put]
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "已确认收货", order)
}

// CompleteOrder 完成订单
// @Summary 完成订单
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders/{id}/complete [put]
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.orderService.Complete(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "订单已完成", order)
}

// ReviewOrder 评价订单
// @Summary 评价订单
// @Tags 订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Param request body mallService.ReviewRequest true "请求参数"
// @Success 201 {object} response.Response{data=mallService.ReviewResult}
// @Router /orders/{id}/review [post]
func (h *OrderHandler) ReviewOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	var req mallService.ReviewRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Review(c.Request.Context(), userID, id, &req)
	handler.MustCreate(c, err, "评价成功", result)
}

// DeleteOrder 删除订单
// @Summary 删除订单
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	err := h.orderService.Delete(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "订单已删除", nil)
}

// GetLogistics 物流信息
// @Summary 物流信息
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=mallService.OrderLogistics}
// @Router /orders/{id}/logistics [get]
func (h *OrderHandler) GetLogistics(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	logistics, err := h.orderService.Logistics(c.Request.Context(), userID, id)
	handler.MustSucceed(c, err, logistics)
}

// ShipOrder 发货（管理员）
// @Summary 发货
// @Tags 订单管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Param request body mallService.ShipRequest false "请求参数"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /orders/{id}/ship [put]
func (h *OrderHandler) ShipOrder(c *gin.Context) {
	id, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	var req mallService.ShipRequest
	if c.Request.ContentLength > 0 && !handler.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Ship(c.Request.Context(), id, &req)
	handler.MustSucceedWithMessage(c, err, "订单已发货", order)
}

// GetReviews 商品评价列表
// @Summary 商品评价列表
// @Tags 订单
// @Produce json
// @Param productId query string false "商品ID"
// @Param sort query string false "排序方式：latest, highest, lowest"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=mallService.ReviewList}
// @Router /orders/reviews [get]
func (h *OrderHandler) GetReviews(c *gin.Context) {
	sort := c.DefaultQuery("sort", mallService.ReviewSortLatest)
	switch sort {
	case mallService.ReviewSortLatest, mallService.ReviewSortHighest, mallService.ReviewSortLowest:
	default:
		response.AppError(c, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "sort", Message: "必须是以下之一: latest highest lowest"}))
		return
	}

	p := handler.BindPagination(c, 10, 50)
	list, err := h.reviewService.List(c.Request.Context(), c.Query("productId"), sort, p.Page, p.Limit)
	handler.MustSucceed(c, err, list)
}

// RegisterRoutes 注册路由，/order 为 /orders 的别名
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	for _, prefix := range []string{"/orders", "/order"} {
		r.GET(prefix+"/reviews", h.GetReviews)

		orders := r.Group(prefix, g.Auth)
		{
			orders.POST("", h.CreateOrder)
			orders.GET("", h.GetOrders)
			orders.GET("/list", h.GetOrdersByType)
			orders.GET("/counts", h.GetCounts)
			orders.GET("/statistics/summary", h.GetStatistics)
			orders.GET("/:id", h.GetOrder)
			orders.DELETE("/:id", h.DeleteOrder)
			orders.PUT("/:id/cancel", h.CancelOrder)
			orders.POST("/:id/pay", h.PayOrder)
			orders.PUT("/:id/confirm", h.ConfirmOrder)
			orders.PUT("/:id/complete", h.CompleteOrder)
			orders.POST("/:id/review", h.ReviewOrder)
			orders.GET("/:id/logistics", h.GetLogistics)
			orders.PUT("/:id/ship", g.Admin, h.ShipOrder)
		}
	}
}
