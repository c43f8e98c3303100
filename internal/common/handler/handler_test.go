package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
	"github.com/dumeirei/shopping-app-backend/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 辅助函数：创建测试上下文
func createTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// 辅助函数：创建带查询参数的测试上下文
func createTestContextWithQuery(query string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c, w
}

// 辅助函数：创建带 JSON 请求体的测试上下文
func createTestContextWithBody(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

// 辅助函数：解析响应
func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ==================== 错误处理测试 ====================

func TestHandleError_NilError(t *testing.T) {
	c, _ := createTestContext()
	assert.False(t, HandleError(c, nil))
}

func TestHandleError_AppError(t *testing.T) {
	c, w := createTestContext()

	assert.True(t, HandleError(c, errors.ErrOrderNotFound))
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := parseResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "订单不存在", resp.Error)
}

func TestHandleError_WrappedAppError(t *testing.T) {
	c, w := createTestContext()
	err := errors.ErrStockInsufficient.WithMessage("商品 iPhone 库存不足")

	assert.True(t, HandleError(c, err))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "商品 iPhone 库存不足", parseResponse(t, w).Error)
}

func TestHandleError_GenericError(t *testing.T) {
	c, w := createTestContext()

	assert.True(t, HandleError(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "服务器内部错误", parseResponse(t, w).Error)
}

func TestMustSucceed(t *testing.T) {
	c, w := createTestContext()
	MustSucceed(c, nil, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "value", resp.Data.(map[string]interface{})["key"])

	c, w = createTestContext()
	MustSucceed(c, errors.ErrNotFound, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMustCreate(t *testing.T) {
	c, w := createTestContext()
	MustCreate(c, nil, "创建成功", gin.H{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "创建成功", parseResponse(t, w).Message)
}

// ==================== 认证检查测试 ====================

func TestRequireUserID(t *testing.T) {
	c, _ := createTestContext()
	c.Set(middleware.ContextKeyUserID, "u-1")

	userID, ok := RequireUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "u-1", userID)

	c, w := createTestContext()
	_, ok = RequireUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "请先登录", parseResponse(t, w).Error)
}

func TestGetOptionalUserID(t *testing.T) {
	c, _ := createTestContext()
	assert.Empty(t, GetOptionalUserID(c))
}

// ==================== 参数解析测试 ====================

func TestParseID(t *testing.T) {
	c, _ := createTestContext()
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	id, ok := ParseID(c, "订单")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	c, w := createTestContext()
	_, ok = ParseID(c, "订单")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "无效的订单ID", parseResponse(t, w).Error)
}

func TestQueryDecimal(t *testing.T) {
	c, _ := createTestContextWithQuery("minPrice=12.5")
	d, ok := QueryDecimal(c, "minPrice")
	require.True(t, ok)
	require.NotNil(t, d)
	assert.Equal(t, "12.5", d.String())

	c, _ = createTestContextWithQuery("")
	d, ok = QueryDecimal(c, "minPrice")
	assert.True(t, ok)
	assert.Nil(t, d)

	c, w := createTestContextWithQuery("minPrice=abc")
	_, ok = QueryDecimal(c, "minPrice")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "minPrice", parseResponse(t, w).Errors[0].Field)
}

// ==================== 请求体绑定测试 ====================

type bindTarget struct {
	Name    string `json:"name" binding:"required,min=2"`
	Payment string `json:"paymentMethod" binding:"required,oneof=alipay wechat cod"`
	Contact struct {
		Phone string `json:"phone" binding:"required"`
	} `json:"contact"`
	Quantity int `json:"quantity"`
}

func TestBindJSON_Valid(t *testing.T) {
	c, _ := createTestContextWithBody(`{"name":"张三","paymentMethod":"cod","contact":{"phone":"13800138000"}}`)
	var req bindTarget
	assert.True(t, BindJSON(c, &req))
	assert.Equal(t, "cod", req.Payment)
}

func TestBindJSON_FieldErrors(t *testing.T) {
	c, w := createTestContextWithBody(`{"name":"x","paymentMethod":"cash"}`)
	var req bindTarget
	assert.False(t, BindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse(t, w)
	assert.Equal(t, "输入验证失败", resp.Error)
	fields := map[string]string{}
	for _, fe := range resp.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "长度不能少于2", fields["name"])
	assert.Contains(t, fields["paymentMethod"], "alipay")
	assert.Equal(t, "不能为空", fields["contact.phone"])
}

func TestBindJSON_TypeError(t *testing.T) {
	c, w := createTestContextWithBody(`{"name":"张三","paymentMethod":"cod","contact":{"phone":"1"},"quantity":"many"}`)
	var req bindTarget
	assert.False(t, BindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quantity", parseResponse(t, w).Errors[0].Field)
}

func TestBindJSON_Malformed(t *testing.T) {
	c, w := createTestContextWithBody(`{`)
	var req bindTarget
	assert.False(t, BindJSON(c, &req))
	assert.Equal(t, "请求格式错误", parseResponse(t, w).Error)
}

// ==================== 分页测试 ====================

func TestBindPagination(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 10},
		{"page=3&limit=20", 3, 20},
		{"page=0&limit=500", 1, 50},
		{"page=x&limit=y", 1, 10},
	}
	for _, tt := range tests {
		c, _ := createTestContextWithQuery(tt.query)
		p := BindPagination(c, 10, 50)
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.limit, p.Limit, tt.query)
	}
}
