// Package metrics 提供 Prometheus 指标收集
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标收集器
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	storeOpsTotal        *prometheus.CounterVec
	storeOpDuration      *prometheus.HistogramVec
	ordersTotal          *prometheus.CounterVec
	couponClaimsTotal    *prometheus.CounterVec
	searchesTotal        prometheus.Counter
	chatMessagesTotal    *prometheus.CounterVec
	rateLimitedTotal     *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// New 创建指标收集器并注册到独立的 Registry
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "shopping_app"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		storeOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of record store operations",
			},
			[]string{"operation", "collection"},
		),
		storeOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Record store operation duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "collection"},
		),
		ordersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_total",
				Help:      "Total number of order state changes",
			},
			[]string{"status"},
		),
		couponClaimsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coupon_claims_total",
				Help:      "Total number of coupon claim attempts",
			},
			[]string{"result"},
		),
		searchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of product searches",
			},
		),
		chatMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_messages_total",
				Help:      "Total number of chat messages",
			},
			[]string{"source"},
		),
		rateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of rate limited requests",
			},
			[]string{"scope"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInFlight,
		m.storeOpsTotal,
		m.storeOpDuration,
		m.ordersTotal,
		m.couponClaimsTotal,
		m.searchesTotal,
		m.chatMessagesTotal,
		m.rateLimitedTotal,
	)
	return m
}

// Init 初始化默认指标收集器
func Init(namespace string) *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(namespace)
	})
	return defaultMetrics
}

// GetMetrics 获取默认指标收集器
func GetMetrics() *Metrics {
	return Init("")
}

// Registry 返回指标注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware 返回 Gin 中间件
func (m *Metrics) Middleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// Handler 返回 Prometheus HTTP 处理器
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordStoreOp 记录存储操作
func (m *Metrics) RecordStoreOp(operation, collection string, duration time.Duration) {
	m.storeOpsTotal.WithLabelValues(operation, collection).Inc()
	m.storeOpDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

// RecordOrder 记录订单状态变更
func (m *Metrics) RecordOrder(status string) {
	m.ordersTotal.WithLabelValues(status).Inc()
}

// RecordCouponClaim 记录领券结果
func (m *Metrics) RecordCouponClaim(result string) {
	m.couponClaimsTotal.WithLabelValues(result).Inc()
}

// RecordSearch 记录搜索
func (m *Metrics) RecordSearch() {
	m.searchesTotal.Inc()
}

// RecordChatMessage 记录聊天消息，source 为 user 或 auto_reply
func (m *Metrics) RecordChatMessage(source string) {
	m.chatMessagesTotal.WithLabelValues(source).Inc()
}

// RecordRateLimited 记录被限流的请求
func (m *Metrics) RecordRateLimited(scope string) {
	m.rateLimitedTotal.WithLabelValues(scope).Inc()
}
