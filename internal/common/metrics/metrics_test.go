// Package metrics 提供 Prometheus 指标收集单元测试
package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew(t *testing.T) {
	m := New("")
	require.NotNil(t, m)
	assert.NotNil(t, m.Registry())

	// 独立 Registry，重复创建不会冲突
	assert.NotPanics(t, func() { New("other") })
}

func TestGetMetrics(t *testing.T) {
	a := GetMetrics()
	b := Init("ignored")
	assert.Same(t, a, b)
}

func TestMetrics_Middleware(t *testing.T) {
	m := New("test_http")
	r := gin.New()
	r.Use(m.Middleware("/metrics"))
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/p1", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/products/:id", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_http_http_requests_total"))
}

func TestMetrics_DomainCounters(t *testing.T) {
	m := New("test_domain")

	m.RecordOrder("pending")
	m.RecordOrder("pending")
	m.RecordOrder("cancelled")
	m.RecordCouponClaim("success")
	m.RecordSearch()
	m.RecordChatMessage("auto_reply")
	m.RecordRateLimited("cart")
	m.RecordStoreOp("put", "orders", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersTotal.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersTotal.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.couponClaimsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatMessagesTotal.WithLabelValues("auto_reply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimitedTotal.WithLabelValues("cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOpsTotal.WithLabelValues("put", "orders")))
}
