// Package response 统一响应格式单元测试
package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
)

// setupTest 创建测试用的 Gin 上下文
func setupTest() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// parseBody 解析响应体为通用 map，便于检查字段是否省略
func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, w := setupTest()
	Success(c, gin.H{"id": "p-1"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "p-1", body["data"].(map[string]interface{})["id"])
	assert.NotContains(t, body, "error")
}

func TestCreated(t *testing.T) {
	c, w := setupTest()
	Created(c, "订单创建成功", gin.H{"orderNumber": "ORD1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "订单创建成功", body["message"])
}

func TestAppError_UsesStatusAndFields(t *testing.T) {
	c, w := setupTest()
	AppError(c, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "email", Message: "无效"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "参数错误", body["error"])
	fields := body["errors"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]interface{})["field"])
}

func TestAbortWithAppError(t *testing.T) {
	c, w := setupTest()
	AbortWithAppError(c, errors.ErrPermissionDenied)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "权限不足，需要管理员权限", parseBody(t, w)["error"])
}

func TestShortcuts(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *gin.Context)
		status int
		msg    string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "参数错误") }, http.StatusBadRequest, "参数错误"},
		{"unauthorized default", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, "请先登录"},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "禁止") }, http.StatusForbidden, "禁止"},
		{"not found default", func(c *gin.Context) { NotFound(c, "") }, http.StatusNotFound, "资源不存在"},
		{"too many", func(c *gin.Context) { TooManyRequests(c, "") }, http.StatusTooManyRequests, "请求过于频繁，请稍后再试"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupTest()
			tt.call(c)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, parseBody(t, w)["error"])
		})
	}
}

func TestInternalError_StackOnlyWhenGiven(t *testing.T) {
	c, w := setupTest()
	InternalError(c, "", "")
	body := parseBody(t, w)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, body, "stack")

	c, w = setupTest()
	InternalError(c, "boom", "goroutine 1")
	assert.Equal(t, "goroutine 1", parseBody(t, w)["stack"])
}
