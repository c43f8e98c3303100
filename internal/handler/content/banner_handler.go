// Package content 内容 HTTP Handler
package content

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	contentService "github.com/dumeirei/shopping-app-backend/internal/service/content"
)

// BannerHandler 轮播图处理器
type BannerHandler struct {
	bannerService *contentService.BannerService
	adminService  *contentService.BannerAdminService
}

// NewBannerHandler 创建轮播图处理器
func NewBannerHandler(bannerSvc *contentService.BannerService, adminSvc *contentService.BannerAdminService) *BannerHandler {
	return &BannerHandler{bannerService: bannerSvc, adminService: adminSvc}
}

// List 获取轮播图列表
// @Summary 获取轮播图列表
// @Tags 内容-轮播图
// @Produce json
// @Param type query string false "类型" default(home)
// @Param limit query int false "数量" default(10)
// @Success 200 {object} response.Response{data=[]models.Banner}
// @Router /banners [get]
func (h *BannerHandler) List(c *gin.Context) {
	banners, err := h.bannerService.List(c.Request.Context(), c.Query("type"), handler.QueryInt(c, "limit", 10))
	handler.MustSucceed(c, err, banners)
}

// Get 获取轮播图详情并记录点击
// @Summary 获取轮播图详情
// @Tags 内容-轮播图
// @Produce json
// @Param id path string true "轮播图ID"
// @Success 200 {object} response.Response{data=models.Banner}
// @Router /banners/{id} [get]
func (h *BannerHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "轮播图")
	if !ok {
		return
	}

	banner, err := h.bannerService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, banner)
}

// AdminList 全部轮播图（管理员）
// @Summary 全部轮播图
// @Tags 内容-轮播图管理
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Banner}
// @Router /banners/admin/list [get]
func (h *BannerHandler) AdminList(c *gin.Context) {
	banners, err := h.adminService.List(c.Request.Context())
	handler.MustSucceed(c, err, banners)
}

// Statistics 轮播图统计（管理员）
// @Summary 轮播图统计
// @Tags 内容-轮播图管理
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=contentService.BannerStatistics}
// @Router /banners/admin/statistics [get]
func (h *BannerHandler) Statistics(c *gin.Context) {
	stats, err := h.adminService.GetStatistics(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}

// Create 创建轮播图（管理员）
// @Summary 创建轮播图
// @Tags 内容-轮播图管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body contentService.CreateBannerRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.Banner}
// @Router /banners [post]
func (h *BannerHandler) Create(c *gin.Context) {
	var req contentService.CreateBannerRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	banner, err := h.adminService.Create(c.Request.Context(), &req)
	handler.MustCreate(c, err, "轮播图创建成功", banner)
}

// Update 更新轮播图（管理员）
// @Summary 更新轮播图
// @Tags 内容-轮播图管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "轮播图ID"
// @Param request body contentService.UpdateBannerRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Banner}
// @Router /banners/{id} [put]
func (h *BannerHandler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "轮播图")
	if !ok {
		return
	}
	var req contentService.UpdateBannerRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	banner, err := h.adminService.Update(c.Request.Context(), id, &req)
	handler.MustSucceedWithMessage(c, err, "轮播图更新成功", banner)
}

// Delete 删除轮播图（管理员）
// @Summary 删除轮播图
// @Tags 内容-轮播图管理
// @Produce json
// @Security Bearer
// @Param id path string true "轮播图ID"
// @Success 200 {object} response.Response
// @Router /banners/{id} [delete]
func (h *BannerHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "轮播图")
	if !ok {
		return
	}

	err := h.adminService.Delete(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "轮播图删除成功", nil)
}

// RegisterRoutes 注册路由
func (h *BannerHandler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	banners := r.Group("/banners")
	{
		banners.GET("", h.List)
		banners.GET("/:id", h.Get)
	}

	admin := r.Group("/banners", g.Auth, g.Admin)
	{
		admin.GET("/admin/list", h.AdminList)
		admin.GET("/admin/statistics", h.Statistics)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
