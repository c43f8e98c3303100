// Package mall 提供商城相关的 HTTP Handler
package mall

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	mallService "github.com/dumeirei/shopping-app-backend/internal/service/mall"
	userService "github.com/dumeirei/shopping-app-backend/internal/service/user"
)

var productSorts = map[string]bool{
	repository.ProductSortPriceAsc:    true,
	repository.ProductSortPriceDesc:   true,
	repository.ProductSortSalesDesc:   true,
	repository.ProductSortCreatedDesc: true,
}

// ProductHandler 商品处理器
type ProductHandler struct {
	productService  *mallService.ProductService
	favoriteService *userService.FavoriteService
}

// NewProductHandler 创建商品处理器
func NewProductHandler(productSvc *mallService.ProductService, favoriteSvc *userService.FavoriteService) *ProductHandler {
	return &ProductHandler{
		productService:  productSvc,
		favoriteService: favoriteSvc,
	}
}

// parseSort 空值使用默认排序，非法值返回400
func parseSort(c *gin.Context) (string, bool) {
	sort := c.Query("sort")
	if sort == "" {
		return repository.ProductSortCreatedDesc, true
	}
	if !productSorts[sort] {
		handler.HandleError(c, errors.ErrInvalidParams.WithFields(errors.FieldError{
			Field:   "sort",
			Message: "必须是以下之一: price_asc price_desc sales_desc created_desc",
		}))
		return "", false
	}
	return sort, true
}

// GetProducts 获取商品列表
// @Summary 获取商品列表
// @Tags 商品
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量，最大50"
// @Param category query string false "分类ID"
// @Param minPrice query number false "最低价格"
// @Param maxPrice query number false "最高价格"
// @Param keyword query string false "关键词"
// @Param sort query string false "排序方式：price_asc, price_desc, sales_desc, created_desc"
// @Success 200 {object} response.Response{data=mallService.ProductList}
// @Router /products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	p := handler.BindPagination(c, 10, 50)
	minPrice, ok := handler.QueryDecimal(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := handler.QueryDecimal(c, "maxPrice")
	if !ok {
		return
	}
	sort, ok := parseSort(c)
	if !ok {
		return
	}

	result, err := h.productService.List(c.Request.Context(), &mallService.ProductListRequest{
		Page:     p.Page,
		Limit:    p.Limit,
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Keyword:  c.Query("keyword"),
		Sort:     sort,
		UserID:   handler.GetOptionalUserID(c),
	})
	handler.MustSucceed(c, err, result)
}

// GetProductDetail 获取商品详情
// @Summary 获取商品详情
// @Tags 商品
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response{data=mallService.ProductDetail}
// @Router /products/{id} [get]
func (h *ProductHandler) GetProductDetail(c *gin.Context) {
	id, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	detail, err := h.productService.Get(c.Request.Context(), id, handler.GetOptionalUserID(c))
	handler.MustSucceed(c, err, detail)
}

// GetRecommend 推荐商品
// @Summary 推荐商品
// @Tags 商品
// @Produce json
// @Param type query string false "推荐类型：hot, new, featured"
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]mallService.ProductItem}
// @Router /products/recommend/list [get]
func (h *ProductHandler) GetRecommend(c *gin.Context) {
	typ := c.DefaultQuery("type", mallService.RecommendHot)
	switch typ {
	case mallService.RecommendHot, mallService.RecommendNew, mallService.RecommendFeatured:
	default:
		handler.HandleError(c, errors.ErrInvalidParams.WithFields(errors.FieldError{
			Field:   "type",
			Message: "必须是以下之一: hot new featured",
		}))
		return
	}
	limit := clampLimit(handler.QueryInt(c, "limit", 10), 10, 50)

	items, err := h.productService.Recommend(c.Request.Context(), typ, limit, handler.GetOptionalUserID(c))
	handler.MustSucceed(c, err, items)
}

// GetByCategory 分类商品
// @Summary 分类商品
// @Tags 商品
// @Produce json
// @Param categoryId path string true "分类ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param sort query string false "排序方式"
// @Success 200 {object} response.Response{data=mallService.CategoryProducts}
// @Router /products/category/{categoryId} [get]
func (h *ProductHandler) GetByCategory(c *gin.Context) {
	categoryID, ok := handler.ParseParamID(c, "categoryId", "分类")
	if !ok {
		return
	}
	sort, ok := parseSort(c)
	if !ok {
		return
	}
	p := handler.BindPagination(c, 10, 50)

	result, err := h.productService.ByCategory(c.Request.Context(), categoryID, sort, p.Page, p.Limit, handler.GetOptionalUserID(c))
	handler.MustSucceed(c, err, result)
}

// GetHot 热销商品
// @Summary 热销商品
// @Tags 商品
// @Produce json
// @Param limit query int false "数量，最大20"
// @Success 200 {object} response.Response{data=[]mallService.ProductItem}
// @Router /products/hot/list [get]
func (h *ProductHandler) GetHot(c *gin.Context) {
	limit := clampLimit(handler.QueryInt(c, "limit", 10), 10, 20)
	items, err := h.productService.Hot(c.Request.Context(), limit, handler.GetOptionalUserID(c))
	handler.MustSucceed(c, err, items)
}

// FavoriteResult 收藏切换结果
type FavoriteResult struct {
	IsFavorited bool `json:"isFavorited"`
}

// ToggleFavorite 收藏或取消收藏
// @Summary 收藏或取消收藏
// @Tags 商品
// @Produce json
// @Security Bearer
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response{data=FavoriteResult}
// @Router /products/{id}/favorite [post]
func (h *ProductHandler) ToggleFavorite(c *gin.Context) {
	userID, productID, ok := handler.RequireUserAndParseID(c, "商品")
	if !ok {
		return
	}

	favorited, err := h.favoriteService.Toggle(c.Request.Context(), userID, productID)
	msg := "已取消收藏"
	if favorited {
		msg = "收藏成功"
	}
	handler.MustSucceedWithMessage(c, err, msg, FavoriteResult{IsFavorited: favorited})
}

// CreateProduct 创建商品（管理员）
// @Summary 创建商品
// @Tags 商品管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body mallService.ProductRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.Product}
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req mallService.ProductRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req)
	handler.MustCreate(c, err, "商品创建成功", product)
}

// UpdateProduct 更新商品（管理员）
// @Summary 更新商品
// @Tags 商品管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "商品ID"
// @Param request body mallService.ProductRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}
	var req mallService.ProductRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &req)
	handler.MustSucceedWithMessage(c, err, "商品更新成功", product)
}

// DeleteProduct 删除商品（管理员）
// @Summary 删除商品
// @Tags 商品管理
// @Produce json
// @Security Bearer
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	err := h.productService.Delete(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "商品删除成功", nil)
}

// RegisterRoutes 注册路由
func (h *ProductHandler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	products := r.Group("/products")
	{
		products.GET("", g.Optional, h.GetProducts)
		products.GET("/:id", g.Optional, h.GetProductDetail)
		products.GET("/recommend/list", g.Optional, h.GetRecommend)
		products.GET("/category/:categoryId", g.Optional, h.GetByCategory)
		products.GET("/hot/list", g.Optional, h.GetHot)
		products.POST("/:id/favorite", g.Auth, h.ToggleFavorite)

		products.POST("", g.Auth, g.Admin, h.CreateProduct)
		products.PUT("/:id", g.Auth, g.Admin, h.UpdateProduct)
		products.DELETE("/:id", g.Auth, g.Admin, h.DeleteProduct)
	}
}

// CategoryHandler 分类处理器
type CategoryHandler struct {
	categoryService *mallService.CategoryService
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categorySvc *mallService.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categorySvc}
}

// GetCategories 获取分类列表
// @Summary 获取分类列表
// @Tags 分类
// @Produce json
// @Success 200 {object} response.Response{data=[]mallService.CategoryInfo}
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	handler.MustSucceed(c, err, categories)
}

// GetCategory 获取分类详情
// @Summary 获取分类详情
// @Tags 分类
// @Produce json
// @Param id path string true "分类ID"
// @Success 200 {object} response.Response{data=mallService.CategoryDetail}
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "分类")
	if !ok {
		return
	}

	detail, err := h.categoryService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, detail)
}

// GetTree 分类树
// @Summary 分类树
// @Tags 分类
// @Produce json
// @Success 200 {object} response.Response{data=[]mallService.CategoryNode}
// @Router /categories/tree/list [get]
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.categoryService.Tree(c.Request.Context())
	handler.MustSucceed(c, err, tree)
}

// GetHot 热门分类
// @Summary 热门分类
// @Tags 分类
// @Produce json
// @Param limit query int false "数量"
// @Success 200 {object} response.Response{data=[]mallService.CategoryInfo}
// @Router /categories/hot/list [get]
func (h *CategoryHandler) GetHot(c *gin.Context) {
	limit := clampLimit(handler.QueryInt(c, "limit", 8), 8, 50)
	categories, err := h.categoryService.Hot(c.Request.Context(), limit)
	handler.MustSucceed(c, err, categories)
}

// RegisterRoutes 注册路由
func (h *CategoryHandler) RegisterRoutes(r *gin.RouterGroup, _ handler.Guards) {
	categories := r.Group("/categories")
	{
		categories.GET("", h.GetCategories)
		categories.GET("/:id", h.GetCategory)
		categories.GET("/tree/list", h.GetTree)
		categories.GET("/hot/list", h.GetHot)
	}
}

// clampLimit 非正数取默认值，超过上限取上限
func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
