// Package user 提供用户资料、收藏与收货地址的 HTTP Handler
package user

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	userService "github.com/dumeirei/shopping-app-backend/internal/service/user"
)

// Handler 用户处理器
type Handler struct {
	userService     *userService.UserService
	favoriteService *userService.FavoriteService
	addressService  *userService.AddressService
}

// NewHandler 创建用户处理器
func NewHandler(
	userSvc *userService.UserService,
	favoriteSvc *userService.FavoriteService,
	addressSvc *userService.AddressService,
) *Handler {
	return &Handler{
		userService:     userSvc,
		favoriteService: favoriteSvc,
		addressService:  addressSvc,
	}
}

// GetProfile 获取用户资料
// @Summary 获取用户资料
// @Tags 用户
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.UserInfo}
// @Router /user/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	handler.MustSucceed(c, err, profile)
}

// UpdateProfile 更新用户资料
// @Summary 更新用户资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.UpdateProfileRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.UserInfo}
// @Router /user/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.UpdateProfileRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	handler.MustSucceedWithMessage(c, err, "资料更新成功", profile)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.ChangePasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /user/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.ChangePasswordRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID, &req)
	handler.MustSucceedWithMessage(c, err, "密码修改成功", nil)
}

// UpdateAvatar 更新头像
// @Summary 更新头像
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.UpdateAvatarRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.UserInfo}
// @Router /user/avatar [put]
func (h *Handler) UpdateAvatar(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.UpdateAvatarRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateAvatar(c.Request.Context(), userID, req.Avatar)
	handler.MustSucceedWithMessage(c, err, "头像更新成功", profile)
}

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// ListFavorites 收藏列表
// @Summary 收藏列表
// @Tags 用户
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=userService.FavoriteList}
// @Router /user/favorites [get]
func (h *Handler) ListFavorites(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c, 10, 50)
	list, err := h.favoriteService.List(c.Request.Context(), userID, p.Page, p.Limit)
	handler.MustSucceed(c, err, list)
}

// AddFavorite 添加收藏
// @Summary 添加收藏
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body FavoriteRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.Favorite}
// @Router /user/favorites [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req FavoriteRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	fav, err := h.favoriteService.Add(c.Request.Context(), userID, req.ProductID)
	handler.MustCreate(c, err, "收藏成功", fav)
}

// RemoveFavorite 取消收藏
// @Summary 取消收藏
// @Tags 用户
// @Produce json
// @Security Bearer
// @Param productId path string true "商品ID"
// @Success 200 {object} response.Response
// @Router /user/favorites/{productId} [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	productID, ok := handler.ParseParamID(c, "productId", "商品")
	if !ok {
		return
	}

	err := h.favoriteService.Remove(c.Request.Context(), userID, productID)
	handler.MustSucceedWithMessage(c, err, "已取消收藏", nil)
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	user := r.Group("/user", g.Auth)
	{
		user.GET("/profile", h.GetProfile)
		user.PUT("/profile", h.UpdateProfile)
		user.PUT("/password", h.ChangePassword)
		user.PUT("/avatar", h.UpdateAvatar)

		user.GET("/favorites", h.ListFavorites)
		user.POST("/favorites", h.AddFavorite)
		user.DELETE("/favorites/:productId", h.RemoveFavorite)

		user.GET("/addresses", h.ListAddresses)
		user.POST("/addresses", h.CreateAddress)
		user.PUT("/addresses/:id", h.UpdateAddress)
		user.DELETE("/addresses/:id", h.DeleteAddress)
		user.PUT("/addresses/:id/default", h.SetDefaultAddress)
	}
}
