package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses 全部订单状态
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// 支付状态
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// 支付方式
const (
	PaymentMethodAlipay = "alipay"
	PaymentMethodWechat = "wechat"
	PaymentMethodCOD    = "cod"
)

// OrderItem 下单时的商品快照
type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Spec         string          `json:"spec,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// ShippingAddress 收货信息
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order 订单
type Order struct {
	store.Base
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

// OrderRefund 售后完成后的模拟退款记录
type OrderRefund struct {
	RefundNumber string          `json:"refundNumber"`
	AfterSaleID  string          `json:"afterSaleId"`
	Amount       decimal.Decimal `json:"amount"`
	RefundTime   time.Time       `json:"refundTime"`
}

// 售后类型
const (
	AfterSaleTypeRefund   = "refund"
	AfterSaleTypeReturn   = "return"
	AfterSaleTypeExchange = "exchange"
)

// 售后状态
const (
	AfterSaleStatusPending   = "pending"
	AfterSaleStatusApproved  = "approved"
	AfterSaleStatusRejected  = "rejected"
	AfterSaleStatusCompleted = "completed"
	AfterSaleStatusCancelled = "cancelled"
)

// Contact 联系人
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AfterSale 售后申请
type AfterSale struct {
	store.Base
	AfterSaleNumber string          `json:"afterSaleNumber"`
	OrderID         string          `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Type            string          `json:"type"`
	Reason          string          `json:"reason"`
	Description     string          `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Images          []string        `json:"images"`
	Contact         Contact         `json:"contact"`
	Status          string          `json:"status"`
	AdminRemark     string          `json:"adminRemark,omitempty"`
	CancelTime      *time.Time      `json:"cancelTime,omitempty"`
	ProcessTime     *time.Time      `json:"processTime,omitempty"`
	RefundNumber    string          `json:"refundNumber,omitempty"`
}
