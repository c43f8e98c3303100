// Package handler 提供 API Handler 的通用辅助函数
// 用于减少 Handler 层的代码重复，统一错误处理、认证检查、参数解析等操作
package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
	"github.com/dumeirei/shopping-app-backend/internal/common/utils"
	"github.com/dumeirei/shopping-app-backend/internal/middleware"
)

func init() {
	// 校验错误中的字段名使用 json 标签
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return utils.ValidateUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
			return utils.ValidatePassword(fl.Field().String())
		})
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return utils.ValidatePhone(fl.Field().String())
		})
	}
}

// ============================================================================
// 统一错误处理
// ============================================================================

// HandleError 处理错误并发送适当的响应
// 如果 err 为 nil，返回 false（表示无错误需要处理）
// 如果 err 不为 nil，发送错误响应并返回 true（调用方应该 return）
//
// 使用示例:
//
//	result, err := service.DoSomething(ctx)
//	if handler.HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr := errors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus() >= 500 {
			logger.Error("请求处理失败",
				logger.RequestID(middleware.GetRequestID(c)),
				logger.Path(c.Request.URL.Path),
				zap.Error(err),
			)
		}
		response.AppError(c, appErr)
		return true
	}
	logger.Error("请求处理失败",
		logger.RequestID(middleware.GetRequestID(c)),
		logger.Path(c.Request.URL.Path),
		zap.Error(err),
	)
	response.InternalError(c, "", "")
	return true
}

// MustSucceed 如果有错误则返回错误响应，否则返回成功响应
//
//	result, err := service.GetData(ctx)
//	handler.MustSucceed(c, err, result)
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedWithMessage 带自定义成功消息
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.SuccessWithMessage(c, message, data)
}

// MustCreate 创建类接口，成功返回 201
func MustCreate(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Created(c, message, data)
}

// ============================================================================
// 用户认证检查
// ============================================================================

// RequireUserID 获取当前用户ID，如果未登录则返回401响应
//
//	userID, ok := handler.RequireUserID(c)
//	if !ok {
//	    return
//	}
func RequireUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.AppError(c, errors.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

// GetOptionalUserID 获取当前用户ID（可选），未登录返回空字符串
func GetOptionalUserID(c *gin.Context) string {
	return middleware.GetUserID(c)
}

// ============================================================================
// 参数解析
// ============================================================================

// ParseID 读取路径参数 "id"
func ParseID(c *gin.Context, resourceName string) (string, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID 读取指定路径参数，为空时返回400
func ParseParamID(c *gin.Context, paramName, resourceName string) (string, bool) {
	id := strings.TrimSpace(c.Param(paramName))
	if id == "" {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return "", false
	}
	return id, true
}

// RequireUserAndParseID 组合：检查用户登录 + 读取ID参数
func RequireUserAndParseID(c *gin.Context, resourceName string) (userID, resourceID string, ok bool) {
	userID, ok = RequireUserID(c)
	if !ok {
		return "", "", false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return "", "", false
	}
	return userID, resourceID, true
}

// QueryDecimal 解析可选的金额查询参数
func QueryDecimal(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		response.AppError(c, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: name, Message: "必须是数字"}))
		return nil, false
	}
	return &d, true
}

// QueryInt 解析整数查询参数，缺失或非法时使用默认值
func QueryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// ============================================================================
// 请求体绑定
// ============================================================================

// BindJSON 绑定并校验请求体，失败时返回带字段错误的400响应
//
//	var req service.CreateOrderRequest
//	if !handler.BindJSON(c, &req) {
//	    return
//	}
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.AppError(c, BindingError(err))
		return false
	}
	return true
}

// BindQuery 绑定并校验查询参数
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.AppError(c, BindingError(err))
		return false
	}
	return true
}

// BindingError 将绑定错误转换为参数错误
func BindingError(err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make([]errors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, errors.FieldError{Field: jsonFieldName(fe), Message: fieldMessage(fe)})
		}
		return errors.ErrInvalidParams.WithMessage("输入验证失败").WithFields(fields...)
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return errors.ErrInvalidParams.WithMessage("输入验证失败").WithFields(errors.FieldError{
			Field:   typeErr.Field,
			Message: "类型错误",
		})
	}
	return errors.ErrInvalidParams.WithMessage("请求格式错误")
}

// jsonFieldName 去掉顶层结构体名，保留嵌套路径
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "min", "gte":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("长度不能少于%s", fe.Param())
		}
		return fmt.Sprintf("不能小于%s", fe.Param())
	case "max", "lte":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("长度不能超过%s", fe.Param())
		}
		return fmt.Sprintf("不能大于%s", fe.Param())
	case "oneof":
		return fmt.Sprintf("必须是以下之一: %s", fe.Param())
	case "email":
		return "请输入有效的邮箱地址"
	case "url":
		return "请输入有效的URL"
	case "len":
		return fmt.Sprintf("长度必须为%s", fe.Param())
	case "dive":
		return "元素无效"
	case "eqfield":
		return "两次输入不一致"
	case "username":
		return "用户名只能包含字母、数字和下划线，长度3-20"
	case "strongpwd":
		return "密码必须包含大小写字母和数字，且至少6个字符"
	case "mobile":
		return "请输入有效的手机号码"
	default:
		return "格式不正确"
	}
}

// ============================================================================
// 分页处理
// ============================================================================

// BindPagination 从查询参数 page、limit 绑定并规范化分页参数
//
//	p := handler.BindPagination(c, 10, 50)
func BindPagination(c *gin.Context, defaultLimit, maxLimit int) utils.Pagination {
	p := utils.Pagination{
		Page:  QueryInt(c, "page", 1),
		Limit: QueryInt(c, "limit", defaultLimit),
	}
	p.Normalize(defaultLimit, maxLimit)
	return p
}

// ============================================================================
// 路由守卫
// ============================================================================

// Guards 各业务路由共用的认证中间件
type Guards struct {
	// Auth 要求登录
	Auth gin.HandlerFunc
	// Optional 可选登录
	Optional gin.HandlerFunc
	// Admin 要求管理员，需在 Auth 之后使用
	Admin gin.HandlerFunc
}

// RequireSelfOrAdmin 目标用户必须是当前用户，管理员不受限制
func RequireSelfOrAdmin(c *gin.Context, targetUserID string) bool {
	userID, ok := RequireUserID(c)
	if !ok {
		return false
	}
	if targetUserID != userID && !middleware.IsAdmin(c) {
		response.AppError(c, errors.ErrForbidden)
		return false
	}
	return true
}
