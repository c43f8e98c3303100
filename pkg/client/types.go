package client

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// UserInfo 用户公开信息
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
	Roles    []string `json:"roles"`
	IsActive bool     `json:"isActive"`
	Points   int      `json:"points"`
	Profile  Profile  `json:"profile"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// LoginResult 登录或注册结果
type LoginResult struct {
	User         *UserInfo `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int64     `json:"expiresIn"`
}

// CartLine 购物车条目
type CartLine struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Spec      string          `json:"spec"`
	Quantity  int             `json:"quantity"`
	Selected  bool            `json:"selected"`
	Stock     int             `json:"stock,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	TotalCount    int             `json:"totalCount"`
	SelectedCount int             `json:"selectedCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ItemCount     int             `json:"itemCount"`
}

// Cart 服务端购物车
type Cart struct {
	Items   []*CartLine `json:"items"`
	Summary CartSummary `json:"summary"`
}

// AddCartRequest 加入购物车请求
type AddCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
	Spec      string `json:"spec,omitempty"`
}

// UpdateCartRequest 修改购物车条目，nil 字段不修改
type UpdateCartRequest struct {
	Quantity *int  `json:"quantity,omitempty"`
	Selected *bool `json:"selected,omitempty"`
}

// CountResult 批量操作影响的条目数
type CountResult struct {
	Count int `json:"count"`
}

// FavoriteResult 收藏切换结果
type FavoriteResult struct {
	IsFavorited bool `json:"isFavorited"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Profile 用户扩展资料
type Profile struct {
	Nickname string `json:"nickname,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	Address  string `json:"address,omitempty"`
}

// UpdateProfileRequest 更新资料，nil 字段不修改
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Birthday *string `json:"birthday,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// Favorite 收藏记录
type Favorite struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	FavoriteTime time.Time `json:"favoriteTime"`
}

// FavoriteProduct 收藏列表中的商品
type FavoriteProduct struct {
	Product
	FavoriteTime time.Time `json:"favoriteTime"`
	IsHot        bool      `json:"isHot"`
	IsNew        bool      `json:"isNew"`
}

// FavoriteList 收藏列表
type FavoriteList struct {
	Items      []*FavoriteProduct `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// Address 收货地址
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Province  string `json:"province"`
	City      string `json:"city"`
	District  string `json:"district"`
	Detail    string `json:"detail"`
	Tag       string `json:"tag,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

// AddressRequest 新增或修改收货地址，修改时空字段不变
type AddressRequest struct {
	Name      string `json:"name,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Province  string `json:"province,omitempty"`
	City      string `json:"city,omitempty"`
	District  string `json:"district,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Tag       string `json:"tag,omitempty"`
	IsDefault *bool  `json:"isDefault,omitempty"`
}

// Product 商品
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Subtitle      string          `json:"subtitle,omitempty"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	CategoryID    string          `json:"categoryId"`
	Images        []string        `json:"images"`
	Stock         int             `json:"stock"`
	Sales         int             `json:"sales"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	Tags          []string        `json:"tags"`
	IsActive      bool            `json:"isActive"`
	IsFeatured    bool            `json:"isFeatured"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ProductItem 列表中的商品
type ProductItem struct {
	Product
	Image      string `json:"image"`
	IsFavorite bool   `json:"isFavorite"`
}

// ProductList 商品列表
type ProductList struct {
	Products   []*ProductItem `json:"products"`
	Pagination Pagination     `json:"pagination"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	Product
	Category    *Category `json:"category,omitempty"`
	IsFavorited bool      `json:"isFavorited"`
}

// CategoryProducts 分类下的商品
type CategoryProducts struct {
	Category   *Category      `json:"category"`
	Products   []*ProductItem `json:"products"`
	Pagination Pagination     `json:"pagination"`
}

// Category 商品分类
type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Icon         string  `json:"icon,omitempty"`
	Image        string  `json:"image,omitempty"`
	ParentID     *string `json:"parentId"`
	Sort         int     `json:"sort"`
	ProductCount int     `json:"productCount"`
}

// CategoryNode 分类树节点
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children,omitempty"`
}

// CategoryDetail 分类详情
type CategoryDetail struct {
	Category
	SubCategories []Category     `json:"subCategories"`
	HotProducts   []*ProductItem `json:"hotProducts"`
}

// OrderItemRequest 下单条目，Price 为客户端看到的单价
type OrderItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Spec      string          `json:"spec,omitempty"`
}

// ShippingAddress 收货信息
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Remark          string             `json:"remark,omitempty"`
}

// OrderItem 订单条目
type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Spec         string          `json:"spec,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// OrderRefund 订单退款记录
type OrderRefund struct {
	RefundNumber string          `json:"refundNumber"`
	AfterSaleID  string          `json:"afterSaleId"`
	Amount       decimal.Decimal `json:"amount"`
	RefundTime   time.Time       `json:"refundTime"`
}

// Order 订单
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Remark          string          `json:"remark,omitempty"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	TransactionID   string          `json:"transactionId,omitempty"`
	ReviewID        string          `json:"reviewId,omitempty"`
	Carrier         string          `json:"carrier,omitempty"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	OrderTime       time.Time       `json:"orderTime"`
	PaymentTime     *time.Time      `json:"paymentTime,omitempty"`
	ShipTime        *time.Time      `json:"shipTime,omitempty"`
	CancelTime      *time.Time      `json:"cancelTime,omitempty"`
	DeliveryTime    *time.Time      `json:"deliveryTime,omitempty"`
	CompleteTime    *time.Time      `json:"completeTime,omitempty"`
	Refund          *OrderRefund    `json:"refund,omitempty"`
}

// OrderList 订单列表
type OrderList struct {
	Orders     []*Order   `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// TypedOrderList 按标签页筛选的订单列表
type TypedOrderList struct {
	List       []*Order `json:"list"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
	HasMore    bool     `json:"hasMore"`
}

// OrderStatistics 订单统计
type OrderStatistics struct {
	Total       int             `json:"total"`
	Pending     int             `json:"pending"`
	Paid        int             `json:"paid"`
	Shipped     int             `json:"shipped"`
	Delivered   int             `json:"delivered"`
	Completed   int             `json:"completed"`
	Cancelled   int             `json:"cancelled"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// LogisticsTrace 物流轨迹
type LogisticsTrace struct {
	Time     time.Time `json:"time"`
	Status   string    `json:"status"`
	Location string    `json:"location"`
}

// OrderLogistics 订单物流
type OrderLogistics struct {
	Order     *Order `json:"order"`
	Logistics struct {
		Status         string           `json:"status"`
		Company        string           `json:"company"`
		TrackingNumber string           `json:"trackingNumber"`
		ShippingTime   time.Time        `json:"shippingTime"`
		DeliveryTime   *time.Time       `json:"deliveryTime,omitempty"`
		Traces         []LogisticsTrace `json:"traces"`
	} `json:"logistics"`
}

// ReviewRequest 评价请求
type ReviewRequest struct {
	Rating      int      `json:"rating"`
	Content     string   `json:"content"`
	Images      []string `json:"images,omitempty"`
	IsAnonymous bool     `json:"isAnonymous"`
}

// Review 商品评价
type Review struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductID   string    `json:"productId"`
	UserID      string    `json:"userId"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	Images      []string  `json:"images"`
	IsAnonymous bool      `json:"isAnonymous"`
	UserName    string    `json:"userName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewResult 评价结果
type ReviewResult struct {
	Review *Review `json:"review"`
	Order  *Order  `json:"order"`
}

// ReviewList 评价列表
type ReviewList struct {
	List       []*Review  `json:"list"`
	Pagination Pagination `json:"pagination"`
	Statistics struct {
		AverageRating      string         `json:"averageRating"`
		TotalReviews       int            `json:"totalReviews"`
		RatingDistribution map[string]int `json:"ratingDistribution"`
	} `json:"statistics"`
}

// Contact 售后联系人
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ApplyAfterSaleRequest 售后申请，Amount 为空时按订单实付金额
type ApplyAfterSaleRequest struct {
	OrderID     string           `json:"orderId"`
	Type        string           `json:"type"`
	Reason      string           `json:"reason"`
	Description string           `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Contact     Contact          `json:"contact"`
	Images      []string         `json:"images,omitempty"`
}

// AfterSale 售后单
type AfterSale struct {
	ID              string          `json:"id"`
	AfterSaleNumber string          `json:"afterSaleNumber"`
	OrderID         string          `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	Type            string          `json:"type"`
	Reason          string          `json:"reason"`
	Description     string          `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Images          []string        `json:"images"`
	Contact         Contact         `json:"contact"`
	Status          string          `json:"status"`
	AdminRemark     string          `json:"adminRemark,omitempty"`
	RefundNumber    string          `json:"refundNumber,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CancelTime      *time.Time      `json:"cancelTime,omitempty"`
	ProcessTime     *time.Time      `json:"processTime,omitempty"`
}

// AfterSaleDetail 售后详情，附带关联订单
type AfterSaleDetail struct {
	AfterSale
	Order *Order `json:"order,omitempty"`
}

// AfterSaleList 售后列表
type AfterSaleList struct {
	List       []*AfterSale `json:"list"`
	Pagination Pagination   `json:"pagination"`
}

// Coupon 优惠券模板
type Coupon struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Type          string          `json:"type"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinAmount     decimal.Decimal `json:"minAmount"`
	MaxDiscount   decimal.Decimal `json:"maxDiscount"`
	TotalCount    int             `json:"totalCount"`
	UsedCount     int             `json:"usedCount"`
	StartTime     time.Time       `json:"startTime"`
	EndTime       time.Time       `json:"endTime"`
	IsActive      bool            `json:"isActive"`
}

// UserCoupon 用户领取的券
type UserCoupon struct {
	ID         string     `json:"id"`
	CouponID   string     `json:"couponId"`
	Status     string     `json:"status"`
	ObtainedAt time.Time  `json:"obtainedAt"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
	OrderID    string     `json:"orderId,omitempty"`
}

// UserCouponView 用户券及其可用性
type UserCouponView struct {
	Coupon
	UserCouponID string     `json:"userCouponId"`
	Status       string     `json:"status"`
	CanUse       bool       `json:"canUse"`
	Reason       string     `json:"reason,omitempty"`
	ObtainedAt   time.Time  `json:"obtainedAt"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	OrderID      string     `json:"orderId,omitempty"`
}

// CouponCalculateRequest 计算单张券的优惠
type CouponCalculateRequest struct {
	UserCouponID   string          `json:"userCouponId"`
	OrderAmount    decimal.Decimal `json:"orderAmount"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	OtherDiscounts decimal.Decimal `json:"otherDiscounts"`
}

// CouponCalculation 券优惠结果
type CouponCalculation struct {
	Discount           decimal.Decimal `json:"discount"`
	DiscountShipping   decimal.Decimal `json:"discountShipping"`
	Coupon             *Coupon         `json:"coupon"`
	CalculationDetails struct {
		OriginalAmount decimal.Decimal  `json:"originalAmount"`
		OtherDiscounts decimal.Decimal  `json:"otherDiscounts"`
		Base           decimal.Decimal  `json:"base"`
		DiscountRate   *decimal.Decimal `json:"discountRate"`
	} `json:"calculationDetails"`
}

// FinalAmountRequest 订单最终金额计算请求
type FinalAmountRequest struct {
	OrderAmount           decimal.Decimal `json:"orderAmount"`
	ShippingFee           decimal.Decimal `json:"shippingFee"`
	FullReductionDiscount decimal.Decimal `json:"fullReductionDiscount"`
	PointsDiscount        decimal.Decimal `json:"pointsDiscount"`
	UserCouponID          string          `json:"userCouponId,omitempty"`
}

// FinalAmount 订单最终金额明细
type FinalAmount struct {
	OrderAmount            decimal.Decimal `json:"orderAmount"`
	ShippingFee            decimal.Decimal `json:"shippingFee"`
	FullReductionDiscount  decimal.Decimal `json:"fullReductionDiscount"`
	PointsDiscount         decimal.Decimal `json:"pointsDiscount"`
	CouponDiscount         decimal.Decimal `json:"couponDiscount"`
	CouponShippingDiscount decimal.Decimal `json:"couponShippingDiscount"`
	TotalDiscount          decimal.Decimal `json:"totalDiscount"`
	FinalAmount            decimal.Decimal `json:"finalAmount"`
	CouponInfo             *Coupon         `json:"couponInfo"`
	CalculationFormula     string          `json:"calculationFormula"`
}

// UseCouponRequest 核销请求
type UseCouponRequest struct {
	UserCouponID string `json:"userCouponId"`
	OrderID      string `json:"orderId"`
}

// PointsBalance 积分余额
type PointsBalance struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
}

// PointsRecord 积分流水
type PointsRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	OrderID   string    `json:"orderId,omitempty"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// PointsRecords 积分明细
type PointsRecords struct {
	Records    []*PointsRecord `json:"records"`
	Pagination Pagination      `json:"pagination"`
}

// PointsCalculateRequest 积分抵扣计算，MaxPoints 大于 0 时按该数额封顶，否则由 UsePoints 决定是否用满
type PointsCalculateRequest struct {
	OrderAmount decimal.Decimal
	UsePoints   bool
	MaxPoints   int
}

// MarshalJSON usePoints 按服务端约定编码为布尔值或积分数
func (r PointsCalculateRequest) MarshalJSON() ([]byte, error) {
	var use any = r.UsePoints
	if r.MaxPoints > 0 {
		use = r.MaxPoints
	}
	return json.Marshal(struct {
		OrderAmount decimal.Decimal `json:"orderAmount"`
		UsePoints   any             `json:"usePoints"`
	}{r.OrderAmount, use})
}

// PointsCalculation 积分抵扣结果
type PointsCalculation struct {
	AvailablePoints int             `json:"availablePoints"`
	MaxUsablePoints int             `json:"maxUsablePoints"`
	UsablePoints    int             `json:"usablePoints"`
	DeductionAmount decimal.Decimal `json:"deductionAmount"`
	RequestedPoints int             `json:"requestedPoints"`
}

// SpendPointsRequest 使用积分
type SpendPointsRequest struct {
	Points  int    `json:"points"`
	OrderID string `json:"orderId,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// PointsChange 积分变动结果
type PointsChange struct {
	Balance int           `json:"balance"`
	Record  *PointsRecord `json:"record"`
}

// SearchResult 搜索结果
type SearchResult struct {
	Products   []*ProductItem `json:"products"`
	Pagination Pagination     `json:"pagination"`
	SearchInfo struct {
		Keyword     string   `json:"keyword"`
		Total       int      `json:"total"`
		Suggestions []string `json:"suggestions"`
	} `json:"searchInfo"`
}

// HotKeyword 热门搜索词
type HotKeyword struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// HistoryItem 搜索历史
type HistoryItem struct {
	Keyword    string    `json:"keyword"`
	SearchTime time.Time `json:"searchTime"`
}

// Banner 轮播图
type Banner struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Link     string `json:"link"`
	Type     string `json:"type"`
	Sort     int    `json:"sort"`
	IsActive bool   `json:"isActive"`
	Clicks   int    `json:"clicks"`
}

// SendMessageRequest 发送客服消息，Type 为空时按 text
type SendMessageRequest struct {
	TargetID string `json:"targetId"`
	Content  string `json:"content"`
	Type     string `json:"type,omitempty"`
}

// ChatMessage 客服消息
type ChatMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	TargetID  string    `json:"targetId"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// ChatHistory 会话消息分页
type ChatHistory struct {
	Messages []ChatMessage `json:"messages"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	HasMore  bool          `json:"hasMore"`
}

// Conversation 会话摘要
type Conversation struct {
	TargetID     string `json:"targetId"`
	TargetName   string `json:"targetName"`
	TargetAvatar string `json:"targetAvatar"`
	LastMessage  struct {
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
		Type      string    `json:"type"`
	} `json:"lastMessage"`
	UnreadCount int       `json:"unreadCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
