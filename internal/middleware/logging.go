package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
)

// redacted 敏感字段的替换值
const redacted = "***"

// sensitiveKeys 请求体中需要脱敏的字段
var sensitiveKeys = map[string]struct{}{
	"password":     {},
	"oldPassword":  {},
	"newPassword":  {},
	"refreshToken": {},
	"token":        {},
}

// AccessLogConfig 访问日志配置
type AccessLogConfig struct {
	Logger *zap.Logger
	// SkipPrefixes 不记录的路径前缀
	SkipPrefixes []string
	// BodyPrefixes 记录请求体的路径前缀，仅对写请求生效
	BodyPrefixes  []string
	MaxBodySize   int
	SlowThreshold time.Duration
}

// DefaultAccessLogConfig 跳过探活、指标和文档，记录下单与售后的请求体
func DefaultAccessLogConfig(l *zap.Logger, metricsPath string) *AccessLogConfig {
	return &AccessLogConfig{
		Logger:        l,
		SkipPrefixes:  []string{"/health", "/ping", "/ready", metricsPath, "/swagger/"},
		BodyPrefixes:  []string{"/api/orders", "/api/order", "/api/after-sale"},
		MaxBodySize:   2048,
		SlowThreshold: 500 * time.Millisecond,
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AccessLog 请求日志中间件，5xx 记为 error，4xx 与慢请求记为 warn
func AccessLog(cfg *AccessLogConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if hasPrefix(path, cfg.SkipPrefixes) {
			c.Next()
			return
		}

		start := time.Now()
		var body string
		if c.Request.Method != "GET" && c.Request.Body != nil && hasPrefix(path, cfg.BodyPrefixes) {
			raw, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			body = redactBody(raw, cfg.MaxBodySize)
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			logger.RequestID(GetRequestID(c)),
			logger.Method(c.Request.Method),
			logger.Path(path),
			zap.String("route", c.FullPath()),
			zap.String("query", c.Request.URL.RawQuery),
			logger.StatusCode(status),
			logger.Latency(latency),
			logger.IP(c.ClientIP()),
		}
		if userID := GetUserID(c); userID != "" {
			fields = append(fields, logger.UserID(userID))
		}
		if traceID := GetTraceID(c); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			fields = append(fields, zap.String("idempotency_key", key))
		}
		if body != "" {
			fields = append(fields, zap.String("request_body", body))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		slow := cfg.SlowThreshold > 0 && latency > cfg.SlowThreshold
		switch {
		case status >= 500:
			cfg.Logger.Error("HTTP Request", fields...)
		case status >= 400:
			cfg.Logger.Warn("HTTP Request", fields...)
		case slow:
			cfg.Logger.Warn("HTTP Request (slow)", fields...)
		default:
			cfg.Logger.Info("HTTP Request", fields...)
		}
	}
}

// redactBody 脱敏 JSON 请求体，非 JSON 内容不记录原文
func redactBody(raw []byte, max int) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "(非 JSON 请求体)"
	}
	out, err := json.Marshal(redact(v))
	if err != nil {
		return ""
	}
	if max > 0 && len(out) > max {
		return string(out[:max]) + "...(truncated)"
	}
	return string(out)
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := sensitiveKeys[k]; ok {
				t[k] = redacted
				continue
			}
			t[k] = redact(val)
		}
	case []any:
		for i := range t {
			t[i] = redact(t[i])
		}
	}
	return v
}
