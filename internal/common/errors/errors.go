// Package errors 定义业务错误码和错误处理
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError 应用错误
type AppError struct {
	Code    int          `json:"code"`
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使派生错误仍能匹配目录中的错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误，HTTP 状态码按错误码区间推断
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Status:  statusForCode(code),
		Message: message,
	}
}

// NewWithStatus 创建指定 HTTP 状态码的应用错误
func NewWithStatus(code, status int, message string) *AppError {
	return &AppError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	e := New(code, message)
	e.Err = err
	return e
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	c := *e
	c.Message = message
	return &c
}

// WithMessagef 格式化错误消息
func (e *AppError) WithMessagef(format string, args ...interface{}) *AppError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// WithFields 附加字段级错误
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	c := *e
	c.Fields = fields
	return &c
}

// HTTPStatus 返回对应的 HTTP 状态码
func (e *AppError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// statusForCode 按错误码区间推断 HTTP 状态码
func statusForCode(code int) int {
	switch {
	case code >= 1000 && code < 2000:
		return http.StatusBadRequest
	case code >= 2000 && code < 3000:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = NewWithStatus(1000, http.StatusInternalServerError, "服务器内部错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = NewWithStatus(1002, http.StatusNotFound, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = NewWithStatus(1004, http.StatusInternalServerError, "数据存储错误")
	ErrCacheError      = NewWithStatus(1005, http.StatusInternalServerError, "缓存错误")
	ErrInternalError   = NewWithStatus(1006, http.StatusInternalServerError, "服务器内部错误")
	ErrRateLimitExceed = NewWithStatus(1008, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
	ErrRouteNotFound   = NewWithStatus(1011, http.StatusNotFound, "接口不存在")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "请先登录")
	ErrTokenMissing     = New(2001, "访问被拒绝，未提供token")
	ErrTokenExpired     = New(2002, "Token已过期，请重新登录")
	ErrTokenInvalid     = New(2003, "无效的token")
	ErrPermissionDenied = NewWithStatus(2004, http.StatusForbidden, "权限不足，需要管理员权限")
	ErrAccountDisabled  = New(2005, "账户已被禁用")
	ErrLoginFailed      = New(2006, "用户名或密码错误")
	ErrRefreshInvalid   = New(2007, "无效的刷新token")
	ErrForbidden        = NewWithStatus(2008, http.StatusForbidden, "无权访问该资源")
	ErrUserUnavailable  = New(2009, "用户不存在或已被禁用")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound      = NewWithStatus(3000, http.StatusNotFound, "用户不存在")
	ErrUsernameExists    = New(3001, "用户名已存在")
	ErrEmailExists       = New(3002, "邮箱已被其他用户使用")
	ErrPasswordIncorrect = New(3003, "当前密码错误")
	ErrPasswordMismatch  = New(3004, "两次输入的密码不一致")
	ErrAddressNotFound   = NewWithStatus(3005, http.StatusNotFound, "地址不存在")
	ErrFavoriteExists    = New(3006, "商品已在收藏列表中")
	ErrFavoriteNotFound  = NewWithStatus(3007, http.StatusNotFound, "收藏记录不存在")
	ErrPointsNotEnough   = New(3008, "积分余额不足")
	ErrUserExists        = New(3009, "用户名或邮箱已存在")
)

// 商品错误码 (4000-4999)
var (
	ErrProductNotFound   = NewWithStatus(4000, http.StatusNotFound, "商品不存在")
	ErrCategoryNotFound  = NewWithStatus(4001, http.StatusNotFound, "分类不存在")
	ErrBannerNotFound    = NewWithStatus(4002, http.StatusNotFound, "轮播图不存在")
	ErrStockInsufficient = New(4003, "库存不足")
	ErrCartItemNotFound  = NewWithStatus(4004, http.StatusNotFound, "购物车商品不存在")
	ErrCartNoneSelected  = New(4005, "没有选中的商品")
)

// 订单错误码 (5000-5999)
var (
	ErrOrderNotFound      = NewWithStatus(5000, http.StatusNotFound, "订单不存在")
	ErrOrderStatusError   = New(5001, "订单状态不允许该操作")
	ErrOrderItemMissing   = New(5002, "商品不存在")
	ErrPriceChanged       = New(5003, "价格已变更，请刷新后重试")
	ErrOrderNotReviewable = New(5004, "只能评价已收货的订单")
	ErrReviewNotFound     = NewWithStatus(5005, http.StatusNotFound, "评价不存在")
	ErrOrderNotDeletable  = New(5006, "只能删除已取消或已完成的订单")
	ErrOrderNotShipped    = New(5007, "订单尚未发货，暂无物流信息")
	ErrOrderProcessing    = NewWithStatus(5008, http.StatusConflict, "订单正在处理中，请勿重复提交")
)

// 售后错误码 (6000-6999)
var (
	ErrAfterSaleNotFound    = NewWithStatus(6000, http.StatusNotFound, "售后申请不存在")
	ErrAfterSaleStatusError = New(6001, "售后状态不允许该操作")
	ErrAfterSaleNotAllowed  = New(6002, "该订单状态不支持申请售后")
)

// 营销错误码 (9000-9999)
var (
	ErrCouponNotFound     = NewWithStatus(9000, http.StatusNotFound, "优惠券不存在")
	ErrCouponExpired      = New(9001, "优惠券已过期")
	ErrCouponInactive     = New(9002, "优惠券已失效")
	ErrCouponNotEnough    = New(9003, "优惠券已被领完")
	ErrCouponClaimed      = New(9004, "您已经领取过该优惠券")
	ErrCouponNotAvailable = New(9005, "优惠券不可用")
	ErrCouponMinAmount    = New(9006, "订单金额未达到使用门槛")
	ErrUserCouponNotFound = NewWithStatus(9007, http.StatusNotFound, "用户优惠券不存在")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError 获取应用错误，非应用错误统一视为未知错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}

// Is 代理标准库 errors.Is，应用错误按错误码比较
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
