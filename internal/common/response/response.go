// Package response 提供统一的 API 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
)

// Response API 统一响应结构
type Response struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithMessage 成功响应（带消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created 创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Fail 以指定状态码返回错误
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// AppError 按应用错误的状态码返回，字段错误一并返回
func AppError(c *gin.Context, err *errors.AppError) {
	c.JSON(err.HTTPStatus(), Response{
		Success: false,
		Error:   err.Message,
		Errors:  err.Fields,
	})
}

// AbortWithAppError 返回错误并终止后续处理
func AbortWithAppError(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), Response{
		Success: false,
		Error:   err.Message,
		Errors:  err.Fields,
	})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 未授权
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrUnauthorized.Message
	}
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden 禁止访问
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrForbidden.Message
	}
	Fail(c, http.StatusForbidden, message)
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrNotFound.Message
	}
	Fail(c, http.StatusNotFound, message)
}

// InternalError 服务器内部错误，stack 仅在调试模式下传入
func InternalError(c *gin.Context, message, stack string) {
	if message == "" {
		message = errors.ErrInternalError.Message
	}
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: message, Stack: stack})
}

// TooManyRequests 请求过于频繁
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrRateLimitExceed.Message
	}
	Fail(c, http.StatusTooManyRequests, message)
}
