// Package search 提供商品搜索的 HTTP Handler
package search

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	searchService "github.com/dumeirei/shopping-app-backend/internal/service/search"
)

// Handler 搜索处理器
type Handler struct {
	searchService *searchService.SearchService
}

// NewHandler 创建搜索处理器
func NewHandler(searchSvc *searchService.SearchService) *Handler {
	return &Handler{searchService: searchSvc}
}

// Search 搜索商品
// @Summary 搜索商品
// @Tags 搜索
// @Produce json
// @Param q query string true "关键词"
// @Param page query int false "页码"
// @Param limit query int false "每页数量，最大50"
// @Param category query string false "分类ID"
// @Param minPrice query number false "最低价格"
// @Param maxPrice query number false "最高价格"
// @Param sort query string false "排序方式：relevance, price_asc, price_desc, sales_desc, created_desc"
// @Success 200 {object} response.Response{data=searchService.SearchResult}
// @Router /search [get]
func (h *Handler) Search(c *gin.Context) {
	var req searchService.SearchRequest
	if !handler.BindQuery(c, &req) {
		return
	}
	var ok bool
	if req.MinPrice, ok = handler.QueryDecimal(c, "minPrice"); !ok {
		return
	}
	if req.MaxPrice, ok = handler.QueryDecimal(c, "maxPrice"); !ok {
		return
	}
	p := handler.BindPagination(c, 10, 50)
	req.Page, req.Limit = p.Page, p.Limit
	req.UserID = handler.GetOptionalUserID(c)

	result, err := h.searchService.Search(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// Suggestions 搜索联想
// @Summary 搜索联想
// @Tags 搜索
// @Produce json
// @Param q query string false "关键词"
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]string}
// @Router /search/suggestions [get]
func (h *Handler) Suggestions(c *gin.Context) {
	limit := handler.QueryInt(c, "limit", 10)
	if limit > 20 {
		limit = 20
	}
	list, err := h.searchService.Suggestions(c.Request.Context(), c.Query("q"), limit)
	handler.MustSucceed(c, err, list)
}

// Hot 热门搜索
// @Summary 热门搜索
// @Tags 搜索
// @Produce json
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]searchService.HotKeyword}
// @Router /search/hot [get]
func (h *Handler) Hot(c *gin.Context) {
	limit := handler.QueryInt(c, "limit", 10)
	if limit > 50 {
		limit = 50
	}
	list, err := h.searchService.Hot(c.Request.Context(), limit)
	handler.MustSucceed(c, err, list)
}

// History 搜索历史
// @Summary 搜索历史
// @Tags 搜索
// @Produce json
// @Security Bearer
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]searchService.HistoryItem}
// @Router /search/history [get]
func (h *Handler) History(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	limit := handler.QueryInt(c, "limit", 20)
	if limit > 50 {
		limit = 50
	}
	list, err := h.searchService.History(c.Request.Context(), userID, limit)
	handler.MustSucceed(c, err, list)
}

// ClearHistory 清空搜索历史
// @Summary 清空搜索历史
// @Tags 搜索
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /search/history [delete]
func (h *Handler) ClearHistory(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	err := h.searchService.ClearHistory(c.Request.Context(), userID)
	handler.MustSucceedWithMessage(c, err, "搜索历史已清空", nil)
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	search := r.Group("/search")
	{
		search.GET("", g.Optional, h.Search)
		search.GET("/suggestions", h.Suggestions)
		search.GET("/hot", h.Hot)
		search.GET("/history", g.Auth, h.History)
		search.DELETE("/history", g.Auth, h.ClearHistory)
	}
}
