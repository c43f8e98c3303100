package mall

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/metrics"
	"github.com/dumeirei/shopping-app-backend/internal/common/utils"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/service/pricing"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// idempotencyPending 幂等键已占用但订单尚未写入
const idempotencyPending = "pending"

// 默认物流公司
const defaultCarrier = "顺丰速运"

// OrderTypeStatus 订单列表 type 参数对应的状态
var OrderTypeStatus = map[int]string{
	1: models.OrderStatusPending,
	2: models.OrderStatusPaid,
	3: models.OrderStatusShipped,
	4: models.OrderStatusDelivered,
}

// OrderService 订单服务
type OrderService struct {
	orderRepo      *repository.OrderRepository
	productRepo    *repository.ProductRepository
	cartRepo       *repository.CartRepository
	reviewRepo     *repository.ReviewRepository
	idempotency    cache.Store
	idempotencyTTL time.Duration
	rules          pricing.Rules
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewOrderService 创建订单服务，m 可以为 nil
func NewOrderService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	cartRepo *repository.CartRepository,
	reviewRepo *repository.ReviewRepository,
	idempotency cache.Store,
	idempotencyTTL time.Duration,
	rules pricing.Rules,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		cartRepo:       cartRepo,
		reviewRepo:     reviewRepo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		rules:          rules,
		metrics:        m,
		now:            time.Now,
	}
}

// OrderItemRequest 下单商品
type OrderItemRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1,max=999"`
	Price     decimal.Decimal `json:"price"`
	Spec      string          `json:"spec" binding:"max=100"`
}

// ShippingAddressRequest 收货信息
type ShippingAddressRequest struct {
	Name    string `json:"name" binding:"required,max=50"`
	Phone   string `json:"phone" binding:"required,mobile"`
	Address string `json:"address" binding:"required,max=200"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required,oneof=alipay wechat cod"`
	Remark          string                 `json:"remark" binding:"max=200"`
}

// PayRequest 支付请求，未指定支付方式时沿用下单时的方式
type PayRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=alipay wechat cod"`
}

// ReviewRequest 评价请求
type ReviewRequest struct {
	Rating      int      `json:"rating" binding:"required,min=1,max=5"`
	Content     string   `json:"content" binding:"required,max=500"`
	Images      []string `json:"images" binding:"omitempty,max=9"`
	IsAnonymous bool     `json:"isAnonymous"`
}

// ShipRequest 发货请求
type ShipRequest struct {
	Carrier        string `json:"carrier" binding:"max=50"`
	TrackingNumber string `json:"trackingNumber" binding:"max=50"`
}

// OrderList 订单分页结果
type OrderList struct {
	Orders     []*models.Order  `json:"orders"`
	Pagination store.Pagination `json:"pagination"`
}

// TypedOrderList 按类型查询的订单列表
type TypedOrderList struct {
	List       []*models.Order `json:"list"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
	HasMore    bool            `json:"hasMore"`
}

// OrderStatistics 订单统计
type OrderStatistics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Paid      int `json:"paid"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	// TotalAmount 未取消订单的实付金额合计
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// LogisticsTrace 物流轨迹
type LogisticsTrace struct {
	Time     time.Time `json:"time"`
	Status   string    `json:"status"`
	Location string    `json:"location"`
}

// Logistics 物流信息
type Logistics struct {
	Status         string           `json:"status"`
	Company        string           `json:"company"`
	TrackingNumber string           `json:"trackingNumber"`
	ShippingTime   time.Time        `json:"shippingTime"`
	DeliveryTime   *time.Time       `json:"deliveryTime,omitempty"`
	Traces         []LogisticsTrace `json:"traces"`
}

// OrderLogistics 订单及物流
type OrderLogistics struct {
	Order     *models.Order `json:"order"`
	Logistics Logistics     `json:"logistics"`
}

// ReviewResult 评价结果
type ReviewResult struct {
	Review *models.Review `json:"review"`
	Order  *models.Order  `json:"order"`
}

func (s *OrderService) record(status string) {
	if s.metrics != nil {
		s.metrics.RecordOrder(status)
	}
}

// Create 创建订单
// idemKey 非空时同一用户重复提交返回首次创建的订单，replayed 为 true
func (s *OrderService) Create(ctx context.Context, userID, idemKey string, req *CreateOrderRequest) (order *models.Order, replayed bool, err error) {
	if idemKey == "" || s.idempotency == nil {
		order, err = s.create(ctx, userID, req)
		return order, false, err
	}

	key := cache.BuildKey(cache.KeyPrefixIdempotency, userID, idemKey)
	ok, err := s.idempotency.SetNX(ctx, key, idempotencyPending, s.idempotencyTTL)
	if err != nil {
		return nil, false, errors.ErrCacheError.WithError(err)
	}
	if !ok {
		order, err := s.replay(ctx, key, userID)
		return order, err == nil, err
	}

	order, err = s.create(ctx, userID, req)
	if err != nil {
		if delErr := s.idempotency.Delete(ctx, key); delErr != nil {
			logger.Warn("释放幂等键失败", logger.UserID(userID), logger.Module("order"))
		}
		return nil, false, err
	}
	if err := s.idempotency.Set(ctx, key, order.ID, s.idempotencyTTL); err != nil {
		logger.Warn("写入幂等键失败", logger.UserID(userID), logger.OrderNumber(order.OrderNumber))
	}
	return order, false, nil
}

func (s *OrderService) replay(ctx context.Context, key, userID string) (*models.Order, error) {
	id, err := s.idempotency.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, cache.ErrMiss) {
			return nil, errors.ErrOrderProcessing
		}
		return nil, errors.ErrCacheError.WithError(err)
	}
	if id == idempotencyPending {
		return nil, errors.ErrOrderProcessing
	}
	return s.Get(ctx, userID, id)
}

// validateItems 在任何写入之前校验全部商品，返回商品快照
func (s *OrderService) validateItems(ctx context.Context, items []OrderItemRequest) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product, len(items))
	wanted := make(map[string]int, len(items))
	for _, it := range items {
		if it.Price.IsNegative() {
			return nil, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "price", Message: "价格不能为负数"})
		}

		p, ok := products[it.ProductID]
		if !ok {
			var err error
			p, err = s.productRepo.FindByID(ctx, it.ProductID)
			if err != nil {
				if repository.IsNotFound(err) {
					return nil, errors.ErrOrderItemMissing.WithMessagef("商品 %s 不存在", it.ProductID)
				}
				return nil, errors.ErrDatabaseError.WithError(err)
			}
			products[p.ID] = p
		}

		wanted[p.ID] += it.Quantity
		if wanted[p.ID] > p.Stock {
			return nil, errors.ErrStockInsufficient.WithMessagef("商品 %s 库存不足", p.Name)
		}
		if !it.Price.Equal(p.Price) {
			return nil, errors.ErrPriceChanged
		}
	}
	return products, nil
}

// reserveStock 扣减库存并增加销量，任一商品失败时回滚已扣减的部分
func (s *OrderService) reserveStock(ctx context.Context, items []models.OrderItem) error {
	done := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		_, err := s.productRepo.Update(ctx, it.ProductID, func(p *models.Product) error {
			if p.Stock < it.Quantity {
				return errors.ErrStockInsufficient.WithMessagef("商品 %s 库存不足", p.Name)
			}
			p.Stock -= it.Quantity
			p.Sales += it.Quantity
			return nil
		})
		if err != nil {
			s.restoreStock(ctx, done)
			if errors.IsAppError(err) {
				return err
			}
			if repository.IsNotFound(err) {
				return errors.ErrOrderItemMissing.WithMessagef("商品 %s 不存在", it.ProductID)
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		done = append(done, it)
	}
	return nil
}

// restoreStock 归还库存，销量不低于 0；商品已删除时跳过
func (s *OrderService) restoreStock(ctx context.Context, items []models.OrderItem) {
	for _, it := range items {
		_, err := s.productRepo.Update(ctx, it.ProductID, func(p *models.Product) error {
			p.Stock += it.Quantity
			p.Sales -= it.Quantity
			if p.Sales < 0 {
				p.Sales = 0
			}
			return nil
		})
		if err != nil && !repository.IsNotFound(err) {
			logger.Error("归还库存失败", logger.Module("order"), logger.Collection(models.CollectionProducts))
		}
	}
}

func (s *OrderService) create(ctx context.Context, userID string, req *CreateOrderRequest) (*models.Order, error) {
	products, err := s.validateItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	productIDs := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		p := products[it.ProductID]
		line := pricing.Line{Price: p.Price, Quantity: it.Quantity}
		items = append(items, models.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.MainImage(),
			Price:        p.Price,
			Quantity:     it.Quantity,
			Spec:         it.Spec,
			Subtotal:     line.Subtotal(),
		})
		lines = append(lines, line)
		productIDs = append(productIDs, p.ID)
	}
	totals := s.rules.OrderTotals(lines)

	if err := s.reserveStock(ctx, items); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.Create(ctx, &models.Order{
		OrderNumber: utils.GenerateOrderNumber(),
		UserID:      userID,
		Items:       items,
		TotalAmount: totals.TotalAmount,
		ShippingFee: totals.ShippingFee,
		FinalAmount: totals.FinalAmount,
		ShippingAddress: models.ShippingAddress{
			Name:    req.ShippingAddress.Name,
			Phone:   req.ShippingAddress.Phone,
			Address: req.ShippingAddress.Address,
		},
		PaymentMethod: req.PaymentMethod,
		Remark:        req.Remark,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		OrderTime:     s.now(),
	})
	if err != nil {
		s.restoreStock(ctx, items)
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if _, err := s.cartRepo.DeleteByProducts(ctx, userID, utils.Unique(productIDs)); err != nil {
		logger.Warn("清理购物车失败", logger.UserID(userID), logger.OrderNumber(order.OrderNumber))
	}
	s.record("created")
	logger.Info("订单已创建",
		logger.UserID(userID),
		logger.OrderNumber(order.OrderNumber),
		logger.Action("create"),
	)
	return order, nil
}

// List 分页查询订单
func (s *OrderService) List(ctx context.Context, userID, status string, page, limit int) (*OrderList, error) {
	orders, pg, err := s.orderRepo.ListByUser(ctx, userID, status, page, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &OrderList{Orders: orders, Pagination: pg}, nil
}

// ListByType 按类型查询订单，type 不在 1-4 时返回全部
func (s *OrderService) ListByType(ctx context.Context, userID string, typ, page, pageSize int) (*TypedOrderList, error) {
	orders, pg, err := s.orderRepo.ListByUser(ctx, userID, OrderTypeStatus[typ], page, pageSize)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &TypedOrderList{
		List:       orders,
		Total:      pg.Total,
		Page:       pg.Page,
		PageSize:   pageSize,
		TotalPages: pg.TotalPages,
		HasMore:    pg.HasNext,
	}, nil
}

// Counts 各状态订单数，all 为全部订单数
func (s *OrderService) Counts(ctx context.Context, userID string) (map[string]int, error) {
	counts, err := s.orderRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	all := 0
	for _, n := range counts {
		all += n
	}
	counts["all"] = all
	return counts, nil
}

// Statistics 订单统计
func (s *OrderService) Statistics(ctx context.Context, userID string) (*OrderStatistics, error) {
	orders, err := s.orderRepo.Find(ctx, func(o *models.Order) bool { return o.UserID == userID })
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	stats := &OrderStatistics{Total: len(orders), TotalAmount: decimal.Zero}
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			stats.Pending++
		case models.OrderStatusPaid:
			stats.Paid++
		case models.OrderStatusShipped:
			stats.Shipped++
		case models.OrderStatusDelivered:
			stats.Delivered++
		case models.OrderStatusCompleted:
			stats.Completed++
		case models.OrderStatusCancelled:
			stats.Cancelled++
		}
		if o.Status != models.OrderStatusCancelled {
			stats.TotalAmount = stats.TotalAmount.Add(o.FinalAmount)
		}
	}
	stats.TotalAmount = stats.TotalAmount.Round(2)
	return stats, nil
}

// Get 订单详情，他人订单视为不存在
func (s *OrderService) Get(ctx context.Context, userID, id string) (*models.Order, error) {
	o, err := s.orderRepo.GetByUser(ctx, id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return o, nil
}

// transition 在订单写锁内校验状态并修改
func (s *OrderService) transition(ctx context.Context, userID, id string, from []string, msg string, mutate func(o *models.Order)) (*models.Order, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	o, err := s.orderRepo.Update(ctx, id, func(o *models.Order) error {
		if !utils.Contains(from, o.Status) {
			return errors.ErrOrderStatusError.WithMessage(msg)
		}
		mutate(o)
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		if repository.IsNotFound(err) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return o, nil
}

// Cancel 取消待付款订单并归还库存
func (s *OrderService) Cancel(ctx context.Context, userID, id string) (*models.Order, error) {
	now := s.now()
	o, err := s.transition(ctx, userID, id, []string{models.OrderStatusPending}, "只能取消待付款的订单", func(o *models.Order) {
		o.Status = models.OrderStatusCancelled
		o.CancelTime = &now
	})
	if err != nil {
		return nil, err
	}
	s.restoreStock(ctx, o.Items)
	s.record("cancelled")
	logger.Info("订单已取消", logger.UserID(userID), logger.OrderNumber(o.OrderNumber), logger.Action("cancel"))
	return o, nil
}

// Pay 模拟支付
func (s *OrderService) Pay(ctx context.Context, userID, id string, req *PayRequest) (*models.Order, error) {
	now := s.now()
	o, err := s.transition(ctx, userID, id, []string{models.OrderStatusPending}, "订单状态不允许支付", func(o *models.Order) {
		o.Status = models.OrderStatusPaid
		o.PaymentStatus = models.PaymentStatusPaid
		o.PaymentTime = &now
		o.TransactionID = utils.GenerateTransactionID()
		if req != nil && req.PaymentMethod != "" {
			o.PaymentMethod = req.PaymentMethod
		}
	})
	if err != nil {
		return nil, err
	}
	s.record("paid")
	logger.Info("订单已支付", logger.UserID(userID), logger.OrderNumber(o.OrderNumber), logger.Action("pay"))
	return o, nil
}

// Ship 发货，仅管理员调用
func (s *OrderService) Ship(ctx context.Context, id string, req *ShipRequest) (*models.Order, error) {
	now := s.now()
	o, err := s.orderRepo.Update(ctx, id, func(o *models.Order) error {
		if o.Status != models.OrderStatusPaid {
			return errors.ErrOrderStatusError.WithMessage("只能对已支付的订单发货")
		}
		o.Status = models.OrderStatusShipped
		o.ShipTime = &now
		o.Carrier = defaultCarrier
		o.TrackingNumber = trackingNumberFor(o.OrderNumber)
		if req != nil && req.Carrier != "" {
			o.Carrier = req.Carrier
		}
		if req != nil && req.TrackingNumber != "" {
			o.TrackingNumber = req.TrackingNumber
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		if repository.IsNotFound(err) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.record("shipped")
	return o, nil
}

func trackingNumberFor(orderNumber string) string {
	return "SF" + strings.TrimPrefix(orderNumber, "ORD")
}

// Confirm 确认收货
func (s *OrderService) Confirm(ctx context.Context, userID, id string) (*models.Order, error) {
	now := s.now()
	o, err := s.transition(ctx, userID, id, []string{models.OrderStatusShipped}, "只能确认已发货的订单", func(o *models.Order) {
		o.Status = models.OrderStatusDelivered
		o.DeliveryTime = &now
	})
	if err != nil {
		return nil, err
	}
	s.record("delivered")
	return o, nil
}

// Complete 完成订单
func (s *OrderService) Complete(ctx context.Context, userID, id string) (*models.Order, error) {
	now := s.now()
	o, err := s.transition(ctx, userID, id, []string{models.OrderStatusDelivered}, "只能完成已收货的订单", func(o *models.Order) {
		o.Status = models.OrderStatusCompleted
		o.CompleteTime = &now
	})
	if err != nil {
		return nil, err
	}
	s.record("completed")
	return o, nil
}

// Review 评价已收货订单的首个商品，订单随之完成，并重新计算商品评分
func (s *OrderService) Review(ctx context.Context, userID, id string, req *ReviewRequest) (*ReviewResult, error) {
	o, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderStatusDelivered {
		return nil, errors.ErrOrderNotReviewable
	}
	if len(o.Items) == 0 {
		return nil, errors.ErrOrderItemMissing
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	review, err := s.reviewRepo.Create(ctx, &models.Review{
		OrderID:     o.ID,
		ProductID:   o.Items[0].ProductID,
		UserID:      userID,
		Rating:      req.Rating,
		Content:     req.Content,
		Images:      images,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	now := s.now()
	o, err = s.orderRepo.Update(ctx, id, func(o *models.Order) error {
		if o.Status != models.OrderStatusDelivered {
			return errors.ErrOrderNotReviewable
		}
		o.Status = models.OrderStatusCompleted
		o.ReviewID = review.ID
		o.CompleteTime = &now
		return nil
	})
	if err != nil {
		_, _ = s.reviewRepo.Delete(ctx, review.ID)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := s.refreshRating(ctx, review.ProductID); err != nil {
		logger.Warn("更新商品评分失败", logger.OrderNumber(o.OrderNumber), logger.Module("review"))
	}
	s.record("completed")
	return &ReviewResult{Review: review, Order: o}, nil
}

// refreshRating 按全部评价重新计算商品评分（保留一位小数）与评价数
func (s *OrderService) refreshRating(ctx context.Context, productID string) error {
	reviews, err := s.reviewRepo.ListAllByProduct(ctx, productID)
	if err != nil {
		return err
	}
	_, err = s.productRepo.Update(ctx, productID, func(p *models.Product) error {
		p.Rating = averageRating(reviews)
		p.ReviewCount = len(reviews)
		return nil
	})
	if repository.IsNotFound(err) {
		return nil
	}
	return err
}

func averageRating(reviews []*models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// Delete 删除已取消或已完成的订单
func (s *OrderService) Delete(ctx context.Context, userID, id string) error {
	o, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if o.Status != models.OrderStatusCancelled && o.Status != models.OrderStatusCompleted {
		return errors.ErrOrderNotDeletable
	}
	if _, err := s.orderRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Logistics 物流信息，轨迹由订单时间推算
func (s *OrderService) Logistics(ctx context.Context, userID, id string) (*OrderLogistics, error) {
	o, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCompleted:
	default:
		return nil, errors.ErrOrderNotShipped
	}

	shipTime := o.OrderTime
	switch {
	case o.ShipTime != nil:
		shipTime = *o.ShipTime
	case o.PaymentTime != nil:
		shipTime = *o.PaymentTime
	}
	carrier := o.Carrier
	if carrier == "" {
		carrier = defaultCarrier
	}
	trackingNumber := o.TrackingNumber
	if trackingNumber == "" {
		trackingNumber = trackingNumberFor(o.OrderNumber)
	}

	status := "in_transit"
	var traces []LogisticsTrace
	if o.Status != models.OrderStatusShipped {
		status = "delivered"
		delivered := shipTime.Add(48 * time.Hour)
		if o.DeliveryTime != nil {
			delivered = *o.DeliveryTime
		}
		traces = append(traces, LogisticsTrace{Time: delivered, Status: "已签收", Location: o.ShippingAddress.Address})
	}
	traces = append(traces,
		LogisticsTrace{Time: shipTime.Add(24 * time.Hour), Status: "运输中", Location: o.ShippingAddress.Address},
		LogisticsTrace{Time: shipTime, Status: "已发货", Location: "商品已从仓库发出"},
		LogisticsTrace{Time: shipTime.Add(-2 * time.Hour), Status: "已揽收", Location: carrier + "已揽收"},
		LogisticsTrace{Time: o.OrderTime, Status: "已下单", Location: "商品已下单"},
	)

	return &OrderLogistics{
		Order: o,
		Logistics: Logistics{
			Status:         status,
			Company:        carrier,
			TrackingNumber: trackingNumber,
			ShippingTime:   shipTime,
			DeliveryTime:   o.DeliveryTime,
			Traces:         traces,
		},
	}, nil
}
