// Package points 提供积分相关的 HTTP Handler
package points

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/middleware"
	pointsService "github.com/dumeirei/shopping-app-backend/internal/service/points"
)

// Handler 积分处理器
type Handler struct {
	pointsService *pointsService.PointsService
}

// NewHandler 创建积分处理器
func NewHandler(pointsSvc *pointsService.PointsService) *Handler {
	return &Handler{pointsService: pointsSvc}
}

// ChangeRequest 积分变动请求，UserID 仅管理员可指定
type ChangeRequest struct {
	pointsService.ChangeRequest
	UserID string `json:"userId"`
}

// targetUser 变动目标用户：管理员可为他人操作，普通用户只能操作自己
func targetUser(c *gin.Context, requested string) (string, bool) {
	if requested == "" {
		return handler.RequireUserID(c)
	}
	if !handler.RequireSelfOrAdmin(c, requested) {
		return "", false
	}
	return requested, true
}

// GetBalance 积分余额
// @Summary 积分余额
// @Tags 积分
// @Produce json
// @Security Bearer
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=pointsService.Balance}
// @Router /points/balance/{userId} [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := handler.ParseParamID(c, "userId", "用户")
	if !ok {
		return
	}

	balance, err := h.pointsService.Balance(c.Request.Context(), userID)
	handler.MustSucceed(c, err, balance)
}

// GetRecords 积分流水
// @Summary 积分流水
// @Tags 积分
// @Produce json
// @Security Bearer
// @Param userId path string true "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param type query string false "类型：earn, spend"
// @Success 200 {object} response.Response{data=pointsService.RecordList}
// @Router /points/records/{userId} [get]
func (h *Handler) GetRecords(c *gin.Context) {
	userID, ok := handler.ParseParamID(c, "userId", "用户")
	if !ok {
		return
	}

	p := handler.BindPagination(c, 20, 100)
	records, err := h.pointsService.Records(c.Request.Context(), userID, c.Query("type"), p.Page, p.Limit)
	handler.MustSucceed(c, err, records)
}

// Calculate 积分抵扣预览
// @Summary 积分抵扣预览
// @Tags 积分
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body pointsService.CalculateRequest true "请求参数"
// @Success 200 {object} response.Response{data=pointsService.CalculateResult}
// @Router /points/calculate [post]
func (h *Handler) Calculate(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req pointsService.CalculateRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.pointsService.Calculate(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, result)
}

// Spend 使用积分
// @Summary 使用积分
// @Tags 积分
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ChangeRequest true "请求参数"
// @Success 200 {object} response.Response{data=pointsService.ChangeResult}
// @Router /points/spend [post]
func (h *Handler) Spend(c *gin.Context) {
	var req ChangeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	userID, ok := targetUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.pointsService.Spend(c.Request.Context(), userID, &req.ChangeRequest)
	handler.MustSucceedWithMessage(c, err, "积分使用成功", result)
}

// Earn 发放积分（管理员）
// @Summary 发放积分
// @Tags 积分
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ChangeRequest true "请求参数"
// @Success 200 {object} response.Response{data=pointsService.ChangeResult}
// @Router /points/earn [post]
func (h *Handler) Earn(c *gin.Context) {
	var req ChangeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = middleware.GetUserID(c)
	}

	result, err := h.pointsService.Earn(c.Request.Context(), userID, &req.ChangeRequest)
	handler.MustSucceedWithMessage(c, err, "积分发放成功", result)
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	points := r.Group("/points", g.Auth)
	{
		points.GET("/balance/:userId", middleware.SelfOrAdmin("userId"), h.GetBalance)
		points.GET("/records/:userId", middleware.SelfOrAdmin("userId"), h.GetRecords)
		points.POST("/calculate", h.Calculate)
		points.POST("/spend", h.Spend)
		points.POST("/earn", g.Admin, h.Earn)
	}
}
