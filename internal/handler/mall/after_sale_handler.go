package mall

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	mallService "github.com/dumeirei/shopping-app-backend/internal/service/mall"
)

// AfterSaleHandler 售后处理器
type AfterSaleHandler struct {
	afterSaleService *mallService.AfterSaleService
}

// NewAfterSaleHandler 创建售后处理器
func NewAfterSaleHandler(afterSaleSvc *mallService.AfterSaleService) *AfterSaleHandler {
	return &AfterSaleHandler{afterSaleService: afterSaleSvc}
}

// List 售后申请列表
// @Summary 售后申请列表
// @Tags 售后
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param status query string false "售后状态"
// @Success 200 {object} response.Response{data=mallService.AfterSaleList}
// @Router /after-sale [get]
func (h *AfterSaleHandler) List(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	page := handler.QueryInt(c, "page", 1)
	pageSize := clampLimit(handler.QueryInt(c, "pageSize", 10), 10, 50)
	list, err := h.afterSaleService.List(c.Request.Context(), userID, c.Query("status"), page, pageSize)
	handler.MustSucceed(c, err, list)
}

// Apply 申请售后
// @Summary 申请售后
// @Tags 售后
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body mallService.ApplyAfterSaleRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.AfterSale}
// @Router /after-sale [post]
func (h *AfterSaleHandler) Apply(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req mallService.ApplyAfterSaleRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	afterSale, err := h.afterSaleService.Apply(c.Request.Context(), userID, &req)
	handler.MustCreate(c, err, "售后申请提交成功", afterSale)
}

// Get 售后详情
// @Summary 售后详情
// @Tags 售后
// @Produce json
// @Security Bearer
// @Param id path string true "售后ID"
// @Success 200 {object} response.Response{data=mallService.AfterSaleDetail}
// @Router /after-sale/{id} [get]
func (h *AfterSaleHandler) Get(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "售后")
	if !ok {
		return
	}

	detail, err := h.afterSaleService.Get(c.Request.Context(), userID, id)
	handler.MustSucceed(c, err, detail)
}

// Cancel 取消售后申请
// @Summary 取消售后申请
// @Tags 售后
// @Produce json
// @Security Bearer
// @Param id path string true "售后ID"
// @Success 200 {object} response.Response{data=models.AfterSale}
// @Router /after-sale/{id}/cancel [put]
func (h *AfterSaleHandler) Cancel(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "售后")
	if !ok {
		return
	}

	afterSale, err := h.afterSaleService.Cancel(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "售后申请已取消", afterSale)
}

// Process 处理售后申请（管理员）
// @Summary 处理售后申请
// @Tags 售后管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "售后ID"
// @Param request body mallService.ProcessAfterSaleRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.AfterSale}
// @Router /after-sale/{id}/status [put]
func (h *AfterSaleHandler) Process(c *gin.Context) {
	id, ok := handler.ParseID(c, "售后")
	if !ok {
		return
	}

	var req mallService.ProcessAfterSaleRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	afterSale, err := h.afterSaleService.Process(c.Request.Context(), id, &req)
	handler.MustSucceedWithMessage(c, err, "售后状态已更新", afterSale)
}

// RegisterRoutes 注册路由，/list 与 /apply 兼容旧客户端
func (h *AfterSaleHandler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	afterSale := r.Group("/after-sale", g.Auth)
	{
		afterSale.GET("", h.List)
		afterSale.GET("/list", h.List)
		afterSale.POST("", h.Apply)
		afterSale.POST("/apply", h.Apply)
		afterSale.GET("/:id", h.Get)
		afterSale.PUT("/:id/cancel", h.Cancel)
		afterSale.PUT("/:id/status", g.Admin, h.Process)
	}
}
