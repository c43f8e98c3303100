// Package chat 提供客服聊天的 HTTP Handler
package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	chatService "github.com/dumeirei/shopping-app-backend/internal/service/chat"
)

// Handler 聊天处理器
type Handler struct {
	chatService *chatService.ChatService
}

// NewHandler 创建聊天处理器
func NewHandler(chatSvc *chatService.ChatService) *Handler {
	return &Handler{chatService: chatSvc}
}

// ReadResult 标记已读结果
type ReadResult struct {
	Count int `json:"count"`
}

// GetHistory 聊天记录
// @Summary 聊天记录
// @Tags 聊天
// @Produce json
// @Security Bearer
// @Param targetId path string true "会话对象ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=chatService.History}
// @Router /chat/history/{targetId} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	targetID, ok := handler.ParseParamID(c, "targetId", "会话")
	if !ok {
		return
	}

	p := handler.BindPagination(c, 50, 200)
	history, err := h.chatService.History(c.Request.Context(), userID, targetID, p.Page, p.Limit)
	handler.MustSucceed(c, err, history)
}

// Send 发送消息
// @Summary 发送消息
// @Description 发给客服的消息会在 1-3 秒后收到自动回复
// @Tags 聊天
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body chatService.SendRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.ChatMessage}
// @Router /chat/send [post]
func (h *Handler) Send(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req chatService.SendRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), userID, &req)
	handler.MustSucceedWithMessage(c, err, "消息发送成功", msg)
}

// MarkRead 标记已读
// @Summary 标记已读
// @Tags 聊天
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body chatService.ReadRequest true "请求参数"
// @Success 200 {object} response.Response{data=ReadResult}
// @Router /chat/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req chatService.ReadRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	n, err := h.chatService.MarkRead(c.Request.Context(), userID, &req)
	handler.MustSucceedWithMessage(c, err, "消息已标记为已读", ReadResult{Count: n})
}

// List 会话列表
// @Summary 会话列表
// @Tags 聊天
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]chatService.Conversation}
// @Router /chat/list [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	list, err := h.chatService.List(c.Request.Context(), userID)
	handler.MustSucceed(c, err, list)
}

// Delete 删除会话
// @Summary 删除会话
// @Tags 聊天
// @Produce json
// @Security Bearer
// @Param targetId path string true "会话对象ID"
// @Success 200 {object} response.Response
// @Router /chat/{targetId} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	targetID, ok := handler.ParseParamID(c, "targetId", "会话")
	if !ok {
		return
	}

	err := h.chatService.Delete(c.Request.Context(), userID, targetID)
	handler.MustSucceedWithMessage(c, err, "会话已删除", nil)
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	chat := r.Group("/chat", g.Auth)
	{
		chat.GET("/history/:targetId", h.GetHistory)
		chat.POST("/send", h.Send)
		chat.PUT("/read", h.MarkRead)
		chat.GET("/list", h.List)
		chat.DELETE("/:targetId", h.Delete)
	}
}
