// Package auth 提供认证相关的 HTTP Handler
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
	"github.com/dumeirei/shopping-app-backend/internal/middleware"
	authService "github.com/dumeirei/shopping-app-backend/internal/service/auth"
)

// Handler 认证处理器
type Handler struct {
	authService *authService.AuthService
}

// NewHandler 创建认证处理器
func NewHandler(authSvc *authService.AuthService) *Handler {
	return &Handler{authService: authSvc}
}

// Register 用户注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.RegisterRequest true "请求参数"
// @Success 201 {object} response.Response{data=authService.LoginResponse}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req authService.RegisterRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	handler.MustCreate(c, err, "注册成功", result)
}

// Login 用户名或邮箱登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.LoginResponse}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "登录成功", result)
}

// Refresh 刷新令牌
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.RefreshRequest true "请求参数"
// @Success 200 {object} response.Response{data=jwt.TokenPair}
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req authService.RefreshRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	handler.MustSucceed(c, err, pair)
}

// LogoutRequest 退出登录请求，refreshToken 可选
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout 退出登录，注销当前令牌
// @Summary 退出登录
// @Tags 认证
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body LogoutRequest false "请求参数"
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	var req LogoutRequest
	if c.Request.ContentLength > 0 && !handler.BindJSON(c, &req) {
		return
	}

	err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c), req.RefreshToken)
	handler.MustSucceedWithMessage(c, err, "退出成功", nil)
}

// Me 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.UserInfo}
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if handler.HandleError(c, err) {
		return
	}
	response.Success(c, user)
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	auth := r.Group("/auth")
	{
		// 公开接口
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		auth.POST("/logout", g.Auth, h.Logout)
		auth.GET("/me", g.Auth, h.Me)
	}
}
