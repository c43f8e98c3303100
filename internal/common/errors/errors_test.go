// Package errors 错误码和错误处理单元测试
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(1001, "参数错误")
	require.NotNil(t, err)
	assert.Equal(t, 1001, err.Code)
	assert.Equal(t, "参数错误", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Nil(t, err.Err)
}

func TestWrap(t *testing.T) {
	original := stderrors.New("disk full")
	err := Wrap(1004, "数据存储错误", original)
	assert.Equal(t, original, err.Err)
	assert.True(t, stderrors.Is(err, original))
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[1001] 参数错误", New(1001, "参数错误").Error())
	assert.Equal(t, "[1004] 数据存储错误: timeout", Wrap(1004, "数据存储错误", stderrors.New("timeout")).Error())
}

func TestAppError_WithMessageKeepsCatalogue(t *testing.T) {
	derived := ErrStockInsufficient.WithMessage("商品 iPhone 库存不足")

	assert.Equal(t, "商品 iPhone 库存不足", derived.Message)
	assert.Equal(t, "库存不足", ErrStockInsufficient.Message, "目录中的错误不应被修改")
	assert.True(t, stderrors.Is(derived, ErrStockInsufficient))
	assert.False(t, stderrors.Is(derived, ErrPriceChanged))
}

func TestAppError_WithMessagef(t *testing.T) {
	err := ErrOrderItemMissing.WithMessagef("商品 %s 不存在", "p-1")
	assert.Equal(t, "商品 p-1 不存在", err.Message)
}

func TestAppError_WithFields(t *testing.T) {
	err := ErrInvalidParams.WithFields(FieldError{Field: "email", Message: "请输入有效的邮箱地址"})
	require.Len(t, err.Fields, 1)
	assert.Nil(t, ErrInvalidParams.Fields)
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrTokenMissing, http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrOrderNotFound, http.StatusNotFound},
		{ErrOrderStatusError, http.StatusBadRequest},
		{ErrCouponClaimed, http.StatusBadRequest},
		{ErrRateLimitExceed, http.StatusTooManyRequests},
		{ErrInternalError, http.StatusInternalServerError},
		{&AppError{Code: 1}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), tt.err.Message)
	}
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", ErrCouponNotFound)
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, ErrCouponNotFound.Code, GetAppError(wrapped).Code)

	plain := stderrors.New("boom")
	assert.False(t, IsAppError(plain))
	got := GetAppError(plain)
	assert.Equal(t, ErrUnknown.Code, got.Code)
	assert.Equal(t, plain, got.Err)
}
