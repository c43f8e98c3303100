package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// IdempotencyHeader 下单幂等键请求头
const IdempotencyHeader = "Idempotency-Key"

// AuthAPI 认证接口
type AuthAPI struct{ c *Client }

// Register 注册
func (a *AuthAPI) Register(ctx context.Context, req *RegisterRequest) (*LoginResult, error) {
	var out LoginResult
	if err := a.c.Do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login 登录，login 可以是用户名或邮箱
func (a *AuthAPI) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": login, "password": password}
	if err := a.c.Do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh 刷新令牌
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"refreshToken": refreshToken}
	if err := a.c.Do(ctx, http.MethodPost, "/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout 注销当前令牌，refreshToken 非空时一并注销
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	var body any
	if refreshToken != "" {
		body = map[string]string{"refreshToken": refreshToken}
	}
	return a.c.Do(ctx, http.MethodPost, "/auth/logout", body, nil)
}

// Me 当前用户
func (a *AuthAPI) Me(ctx context.Context) (*UserInfo, error) {
	var out UserInfo
	if err := a.c.Do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserAPI 用户中心接口
type UserAPI struct{ c *Client }

// Profile 获取资料
func (u *UserAPI) Profile(ctx context.Context) (*UserInfo, error) {
	var out UserInfo
	if err := u.c.Do(ctx, http.MethodGet, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile 更新资料
func (u *UserAPI) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*UserInfo, error) {
	return call[UserInfo](ctx, u.c, http.MethodPut, "/user/profile", req)
}

// ChangePassword 修改密码
func (u *UserAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
		"confirmPassword": newPassword,
	}
	return u.c.Do(ctx, http.MethodPut, "/user/password", body, nil)
}

// UpdateAvatar 更新头像
func (u *UserAPI) UpdateAvatar(ctx context.Context, avatar string) error {
	return u.c.Do(ctx, http.MethodPut, "/user/avatar", map[string]string{"avatar": avatar}, nil)
}

// Favorites 收藏列表
func (u *UserAPI) Favorites(ctx context.Context, page, limit int) (*FavoriteList, error) {
	return call[FavoriteList](ctx, u.c, http.MethodGet, withQuery("/user/favorites", pageQuery(page, limit)), nil)
}

// AddFavorite 收藏商品
func (u *UserAPI) AddFavorite(ctx context.Context, productID string) (*Favorite, error) {
	return call[Favorite](ctx, u.c, http.MethodPost, "/user/favorites", map[string]string{"productId": productID})
}

// RemoveFavorite 取消收藏
func (u *UserAPI) RemoveFavorite(ctx context.Context, productID string) error {
	return u.c.Do(ctx, http.MethodDelete, "/user/favorites/"+url.PathEscape(productID), nil, nil)
}

// Addresses 收货地址列表
func (u *UserAPI) Addresses(ctx context.Context) ([]*Address, error) {
	return list[Address](ctx, u.c, "/user/addresses")
}

// CreateAddress 新增收货地址
func (u *UserAPI) CreateAddress(ctx context.Context, req *AddressRequest) (*Address, error) {
	return call[Address](ctx, u.c, http.MethodPost, "/user/addresses", req)
}

// UpdateAddress 修改收货地址
func (u *UserAPI) UpdateAddress(ctx context.Context, id string, req *AddressRequest) (*Address, error) {
	return call[Address](ctx, u.c, http.MethodPut, "/user/addresses/"+url.PathEscape(id), req)
}

// DeleteAddress 删除收货地址
func (u *UserAPI) DeleteAddress(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodDelete, "/user/addresses/"+url.PathEscape(id), nil, nil)
}

// SetDefaultAddress 设为默认地址
func (u *UserAPI) SetDefaultAddress(ctx context.Context, id string) (*Address, error) {
	return call[Address](ctx, u.c, http.MethodPut, "/user/addresses/"+url.PathEscape(id)+"/default", nil)
}

// ProductsAPI 商品接口
type ProductsAPI struct{ c *Client }

// List 商品列表，params 支持 page、limit、category、keyword、sort、minPrice、maxPrice
func (p *ProductsAPI) List(ctx context.Context, params url.Values) (*ProductList, error) {
	return call[ProductList](ctx, p.c, http.MethodGet, withQuery("/products", params), nil)
}

// Get 商品详情
func (p *ProductsAPI) Get(ctx context.Context, id string) (*ProductDetail, error) {
	return call[ProductDetail](ctx, p.c, http.MethodGet, "/products/"+url.PathEscape(id), nil)
}

// Recommend 推荐商品，kind 为 hot、new 或 featured
func (p *ProductsAPI) Recommend(ctx context.Context, kind string, limit int) ([]*ProductItem, error) {
	q := limitQuery(limit)
	q.Set("type", kind)
	return list[ProductItem](ctx, p.c, withQuery("/products/recommend/list", q))
}

// ByCategory 分类下的商品
func (p *ProductsAPI) ByCategory(ctx context.Context, categoryID string, params url.Values) (*CategoryProducts, error) {
	return call[CategoryProducts](ctx, p.c, http.MethodGet, withQuery("/products/category/"+url.PathEscape(categoryID), params), nil)
}

// Hot 热销商品
func (p *ProductsAPI) Hot(ctx context.Context, limit int) ([]*ProductItem, error) {
	return list[ProductItem](ctx, p.c, withQuery("/products/hot/list", limitQuery(limit)))
}

// ToggleFavorite 切换收藏
func (p *ProductsAPI) ToggleFavorite(ctx context.Context, id string) (*FavoriteResult, error) {
	return call[FavoriteResult](ctx, p.c, http.MethodPost, "/products/"+url.PathEscape(id)+"/favorite", nil)
}

// CategoriesAPI 分类接口
type CategoriesAPI struct{ c *Client }

// List 分类列表
func (a *CategoriesAPI) List(ctx context.Context) ([]*Category, error) {
	return list[Category](ctx, a.c, "/categories")
}

// Get 分类详情
func (a *CategoriesAPI) Get(ctx context.Context, id string) (*CategoryDetail, error) {
	return call[CategoryDetail](ctx, a.c, http.MethodGet, "/categories/"+url.PathEscape(id), nil)
}

// Tree 分类树
func (a *CategoriesAPI) Tree(ctx context.Context) ([]*CategoryNode, error) {
	return list[CategoryNode](ctx, a.c, "/categories/tree/list")
}

// Hot 热门分类
func (a *CategoriesAPI) Hot(ctx context.Context, limit int) ([]*Category, error) {
	return list[Category](ctx, a.c, withQuery("/categories/hot/list", limitQuery(limit)))
}

// CartAPI 购物车接口
type CartAPI struct{ c *Client }

// Get 获取购物车
func (a *CartAPI) Get(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := a.c.Do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add 加入购物车
func (a *CartAPI) Add(ctx context.Context, req *AddCartRequest) (*CartLine, error) {
	var out CartLine
	if err := a.c.Do(ctx, http.MethodPost, "/cart", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update 修改条目
func (a *CartAPI) Update(ctx context.Context, id string, req *UpdateCartRequest) (*CartLine, error) {
	var out CartLine
	if err := a.c.Do(ctx, http.MethodPut, "/cart/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove 删除条目
func (a *CartAPI) Remove(ctx context.Context, id string) error {
	return a.c.Do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(id), nil, nil)
}

// SelectAll 全选或取消全选
func (a *CartAPI) SelectAll(ctx context.Context, selected bool) (int, error) {
	var out CountResult
	err := a.c.Do(ctx, http.MethodPut, "/cart/select/all", map[string]bool{"selected": selected}, &out)
	return out.Count, err
}

// RemoveSelected 删除选中条目
func (a *CartAPI) RemoveSelected(ctx context.Context) (int, error) {
	var out CountResult
	err := a.c.Do(ctx, http.MethodDelete, "/cart/selected/items", nil, &out)
	return out.Count, err
}

// Clear 清空购物车
func (a *CartAPI) Clear(ctx context.Context) (int, error) {
	var out CountResult
	err := a.c.Do(ctx, http.MethodDelete, "/cart/clear", nil, &out)
	return out.Count, err
}

// OrdersAPI 订单接口
type OrdersAPI struct{ c *Client }

func orderPath(id string, suffix string) string {
	return "/orders/" + url.PathEscape(id) + suffix
}

// Create 下单，idemKey 非空时重复提交返回同一订单
func (o *OrdersAPI) Create(ctx context.Context, idemKey string, req *CreateOrderRequest) (*Order, error) {
	var header http.Header
	if idemKey != "" {
		header = http.Header{IdempotencyHeader: {idemKey}}
	}
	var out Order
	if err := o.c.DoWithHeader(ctx, http.MethodPost, "/orders", header, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List 订单列表，params 支持 page、limit、status
func (o *OrdersAPI) List(ctx context.Context, params url.Values) (*OrderList, error) {
	return call[OrderList](ctx, o.c, http.MethodGet, withQuery("/orders", params), nil)
}

// ListByType 按前端标签页筛选订单
func (o *OrdersAPI) ListByType(ctx context.Context, params url.Values) (*TypedOrderList, error) {
	return call[TypedOrderList](ctx, o.c, http.MethodGet, withQuery("/orders/list", params), nil)
}

// Counts 各状态订单数
func (o *OrdersAPI) Counts(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if err := o.c.Do(ctx, http.MethodGet, "/orders/counts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics 订单统计
func (o *OrdersAPI) Statistics(ctx context.Context) (*OrderStatistics, error) {
	return call[OrderStatistics](ctx, o.c, http.MethodGet, "/orders/statistics/summary", nil)
}

// Get 订单详情
func (o *OrdersAPI) Get(ctx context.Context, id string) (*Order, error) {
	return call[Order](ctx, o.c, http.MethodGet, orderPath(id, ""), nil)
}

// Delete 删除订单
func (o *OrdersAPI) Delete(ctx context.Context, id string) error {
	return o.c.Do(ctx, http.MethodDelete, orderPath(id, ""), nil, nil)
}

// Cancel 取消订单
func (o *OrdersAPI) Cancel(ctx context.Context, id string) (*Order, error) {
	return call[Order](ctx, o.c, http.MethodPut, orderPath(id, "/cancel"), nil)
}

// Pay 支付订单，paymentMethod 为空时沿用下单时的方式
func (o *OrdersAPI) Pay(ctx context.Context, id, paymentMethod string) (*Order, error) {
	var body any
	if paymentMethod != "" {
		body = map[string]string{"paymentMethod": paymentMethod}
	}
	return call[Order](ctx, o.c, http.MethodPost, orderPath(id, "/pay"), body)
}

// Confirm 确认收货
func (o *OrdersAPI) Confirm(ctx context.Context, id string) (*Order, error) {
	return call[Order](ctx, o.c, http.MethodPut, orderPath(id, "/confirm"), nil)
}

// Complete 完成订单
func (o *OrdersAPI) Complete(ctx context.Context, id string) (*Order, error) {
	return call[Order](ctx, o.c, http.MethodPut, orderPath(id, "/complete"), nil)
}

// Review 评价订单
func (o *OrdersAPI) Review(ctx context.Context, id string, req *ReviewRequest) (*ReviewResult, error) {
	return call[ReviewResult](ctx, o.c, http.MethodPost, orderPath(id, "/review"), req)
}

// Logistics 物流信息
func (o *OrdersAPI) Logistics(ctx context.Context, id string) (*OrderLogistics, error) {
	return call[OrderLogistics](ctx, o.c, http.MethodGet, orderPath(id, "/logistics"), nil)
}

// Reviews 商品评价列表，params 需包含 productId
func (o *OrdersAPI) Reviews(ctx context.Context, params url.Values) (*ReviewList, error) {
	return call[ReviewList](ctx, o.c, http.MethodGet, withQuery("/orders/reviews", params), nil)
}

// AfterSaleAPI 售后接口
type AfterSaleAPI struct{ c *Client }

// List 售后列表
func (a *AfterSaleAPI) List(ctx context.Context, params url.Values) (*AfterSaleList, error) {
	return call[AfterSaleList](ctx, a.c, http.MethodGet, withQuery("/after-sale", params), nil)
}

// Apply 申请售后
func (a *AfterSaleAPI) Apply(ctx context.Context, req *ApplyAfterSaleRequest) (*AfterSale, error) {
	return call[AfterSale](ctx, a.c, http.MethodPost, "/after-sale", req)
}

// Get 售后详情
func (a *AfterSaleAPI) Get(ctx context.Context, id string) (*AfterSaleDetail, error) {
	return call[AfterSaleDetail](ctx, a.c, http.MethodGet, "/after-sale/"+url.PathEscape(id), nil)
}

// Cancel 撤销售后
func (a *AfterSaleAPI) Cancel(ctx context.Context, id string) (*AfterSale, error) {
	return call[AfterSale](ctx, a.c, http.MethodPut, "/after-sale/"+url.PathEscape(id)+"/cancel", nil)
}

// CouponsAPI 优惠券接口
type CouponsAPI struct{ c *Client }

// Available 可领取的优惠券
func (a *CouponsAPI) Available(ctx context.Context) ([]*Coupon, error) {
	return list[Coupon](ctx, a.c, "/coupons/available")
}

// UserCoupons 用户已领取的优惠券，params 支持 status、orderAmount
func (a *CouponsAPI) UserCoupons(ctx context.Context, userID string, params url.Values) ([]*UserCouponView, error) {
	return list[UserCouponView](ctx, a.c, withQuery("/coupons/user/"+url.PathEscape(userID), params))
}

// Claim 领取优惠券
func (a *CouponsAPI) Claim(ctx context.Context, couponID string) (*UserCoupon, error) {
	return call[UserCoupon](ctx, a.c, http.MethodPost, "/coupons/claim", map[string]string{"couponId": couponID})
}

// Calculate 计算优惠金额
func (a *CouponsAPI) Calculate(ctx context.Context, req *CouponCalculateRequest) (*CouponCalculation, error) {
	return call[CouponCalculation](ctx, a.c, http.MethodPost, "/coupons/calculate", req)
}

// CalculateFinal 计算订单最终金额
func (a *CouponsAPI) CalculateFinal(ctx context.Context, req *FinalAmountRequest) (*FinalAmount, error) {
	return call[FinalAmount](ctx, a.c, http.MethodPost, "/coupons/calculate-final-amount", req)
}

// Use 核销优惠券
func (a *CouponsAPI) Use(ctx context.Context, req *UseCouponRequest) (*UserCoupon, error) {
	return call[UserCoupon](ctx, a.c, http.MethodPost, "/coupons/use", req)
}

// PointsAPI 积分接口
type PointsAPI struct{ c *Client }

// Balance 积分余额
func (a *PointsAPI) Balance(ctx context.Context, userID string) (*PointsBalance, error) {
	return call[PointsBalance](ctx, a.c, http.MethodGet, "/points/balance/"+url.PathEscape(userID), nil)
}

// Records 积分明细
func (a *PointsAPI) Records(ctx context.Context, userID string, params url.Values) (*PointsRecords, error) {
	return call[PointsRecords](ctx, a.c, http.MethodGet, withQuery("/points/records/"+url.PathEscape(userID), params), nil)
}

// Calculate 计算积分抵扣
func (a *PointsAPI) Calculate(ctx context.Context, req *PointsCalculateRequest) (*PointsCalculation, error) {
	return call[PointsCalculation](ctx, a.c, http.MethodPost, "/points/calculate", req)
}

// Spend 使用积分
func (a *PointsAPI) Spend(ctx context.Context, req *SpendPointsRequest) (*PointsChange, error) {
	return call[PointsChange](ctx, a.c, http.MethodPost, "/points/spend", req)
}

// SearchAPI 搜索接口
type SearchAPI struct{ c *Client }

// Products 搜索商品
func (a *SearchAPI) Products(ctx context.Context, keyword string, params url.Values) (*SearchResult, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("q", keyword)
	return call[SearchResult](ctx, a.c, http.MethodGet, withQuery("/search", q), nil)
}

// Suggestions 搜索建议
func (a *SearchAPI) Suggestions(ctx context.Context, keyword string, limit int) ([]string, error) {
	q := limitQuery(limit)
	q.Set("q", keyword)
	var out []string
	if err := a.c.Do(ctx, http.MethodGet, withQuery("/search/suggestions", q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Hot 热门搜索
func (a *SearchAPI) Hot(ctx context.Context, limit int) ([]*HotKeyword, error) {
	return list[HotKeyword](ctx, a.c, withQuery("/search/hot", limitQuery(limit)))
}

// History 搜索历史
func (a *SearchAPI) History(ctx context.Context, limit int) ([]*HistoryItem, error) {
	return list[HistoryItem](ctx, a.c, withQuery("/search/history", limitQuery(limit)))
}

// ClearHistory 清空搜索历史
func (a *SearchAPI) ClearHistory(ctx context.Context) error {
	return a.c.Do(ctx, http.MethodDelete, "/search/history", nil, nil)
}

// BannersAPI 轮播图接口
type BannersAPI struct{ c *Client }

// List 轮播图列表
func (a *BannersAPI) List(ctx context.Context, kind string, limit int) ([]*Banner, error) {
	q := limitQuery(limit)
	q.Set("type", kind)
	return list[Banner](ctx, a.c, withQuery("/banners", q))
}

// Get 轮播图详情
func (a *BannersAPI) Get(ctx context.Context, id string) (*Banner, error) {
	return call[Banner](ctx, a.c, http.MethodGet, "/banners/"+url.PathEscape(id), nil)
}

// ChatAPI 客服消息接口
type ChatAPI struct{ c *Client }

// History 会话消息
func (a *ChatAPI) History(ctx context.Context, targetID string, page, limit int) (*ChatHistory, error) {
	return call[ChatHistory](ctx, a.c, http.MethodGet, withQuery("/chat/history/"+url.PathEscape(targetID), pageQuery(page, limit)), nil)
}

// Send 发送消息
func (a *ChatAPI) Send(ctx context.Context, req *SendMessageRequest) (*ChatMessage, error) {
	return call[ChatMessage](ctx, a.c, http.MethodPost, "/chat/send", req)
}

// MarkRead 标记已读，messageIDs 为空时标记该会话全部消息
func (a *ChatAPI) MarkRead(ctx context.Context, targetID string, messageIDs []string) (int, error) {
	var out CountResult
	body := map[string]any{"targetId": targetID, "messageIds": messageIDs}
	err := a.c.Do(ctx, http.MethodPut, "/chat/read", body, &out)
	return out.Count, err
}

// Conversations 会话列表
func (a *ChatAPI) Conversations(ctx context.Context) ([]*Conversation, error) {
	return list[Conversation](ctx, a.c, "/chat/list")
}

// Delete 删除会话
func (a *ChatAPI) Delete(ctx context.Context, targetID string) error {
	return a.c.Do(ctx, http.MethodDelete, "/chat/"+url.PathEscape(targetID), nil, nil)
}

// call 发送请求并把 data 解码为 T
func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.Do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string) ([]*T, error) {
	var out []*T
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func pageQuery(page, limit int) url.Values {
	q := limitQuery(limit)
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
