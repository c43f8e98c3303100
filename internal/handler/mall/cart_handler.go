package mall

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
	mallService "github.com/dumeirei/shopping-app-backend/internal/service/mall"
)

// CartHandler 购物车处理器
type CartHandler struct {
	cartService *mallService.CartService
	// limiter 购物车独立限流，可为空
	limiter gin.HandlerFunc
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartSvc *mallService.CartService, limiter gin.HandlerFunc) *CartHandler {
	return &CartHandler{
		cartService: cartSvc,
		limiter:     limiter,
	}
}

// SelectAllRequest 全选请求
type SelectAllRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// CountResult 批量操作影响的条目数
type CountResult struct {
	Count int `json:"count"`
}

// GetCart 获取购物车
// @Summary 获取购物车
// @Tags 购物车
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=mallService.Cart}
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	handler.MustSucceed(c, err, cart)
}

// AddItem 添加商品到购物车，同商品同规格合并数量
// @Summary 添加商品到购物车
// @Tags 购物车
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body mallService.AddCartRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.CartItem}
// @Success 200 {object} response.Response{data=models.CartItem}
// @Router /cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req mallService.AddCartRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	item, created, err := h.cartService.Add(c.Request.Context(), userID, &req)
	if handler.HandleError(c, err) {
		return
	}
	if created {
		response.Created(c, "已加入购物车", item)
		return
	}
	response.SuccessWithMessage(c, "购物车数量已更新", item)
}

// UpdateItem 修改购物车条目
// @Summary 修改购物车条目
// @Tags 购物车
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "条目ID"
// @Param request body mallService.UpdateCartRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.CartItem}
// @Router /cart/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "购物车条目")
	if !ok {
		return
	}

	var req mallService.UpdateCartRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	item, err := h.cartService.Update(c.Request.Context(), userID, id, &req)
	handler.MustSucceedWithMessage(c, err, "购物车已更新", item)
}

// RemoveItem 删除购物车条目
// @Summary 删除购物车条目
// @Tags 购物车
// @Produce json
// @Security Bearer
// @Param id path string true "条目ID"
// @Success 200 {object} response.Response
// @Router /cart/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "购物车条目")
	if !ok {
		return
	}

	err := h.cartService.Remove(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "商品已从购物车移除", nil)
}

// SelectAll 全选或取消全选
// @Summary 全选或取消全选
// @Tags 购物车
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SelectAllRequest true "请求参数"
// @Success 200 {object} response.Response{data=CountResult}
// @Router /cart/select/all [put]
func (h *CartHandler) SelectAll(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req SelectAllRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	n, err := h.cartService.SelectAll(c.Request.Context(), userID, *req.Selected)
	msg := "已取消全选"
	if *req.Selected {
		msg = "已全选"
	}
	handler.MustSucceedWithMessage(c, err, msg, CountResult{Count: n})
}

// RemoveSelected 删除选中的条目
// @Summary 删除选中的条目
// @Tags 购物车
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=CountResult}
// @Router /cart/selected/items [delete]
func (h *CartHandler) RemoveSelected(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	n, err := h.cartService.RemoveSelected(c.Request.Context(), userID)
	handler.MustSucceedWithMessage(c, err, "已删除选中商品", CountResult{Count: n})
}

// Clear 清空购物车
// @Summary 清空购物车
// @Tags 购物车
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=CountResult}
// @Router /cart/clear [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	n, err := h.cartService.Clear(c.Request.Context(), userID)
	handler.MustSucceedWithMessage(c, err, "购物车已清空", CountResult{Count: n})
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	middlewares := []gin.HandlerFunc{g.Auth}
	if h.limiter != nil {
		middlewares = append(middlewares, h.limiter)
	}

	cart := r.Group("/cart", middlewares...)
	{
		cart.GET("", h.GetCart)
		cart.POST("", h.AddItem)
		cart.PUT("/select/all", h.SelectAll)
		cart.DELETE("/selected/items", h.RemoveSelected)
		cart.DELETE("/clear", h.Clear)
		cart.PUT("/:id", h.UpdateItem)
		cart.DELETE("/:id", h.RemoveItem)
	}
}
