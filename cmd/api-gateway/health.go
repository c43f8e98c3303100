// Package main 是应用程序入口
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// ReadyResponse 就绪检查响应
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// healthHandler 健康检查（简单版），uptime 单位为秒
func healthHandler(startAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "OK",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(startAt).Seconds(),
		})
	}
}

// pingHandler Ping 检查
func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// rootHandler 服务信息
func rootHandler(cfg *config.Config, startAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    cfg.Server.Name,
			"version": cfg.Server.Version,
			"mode":    cfg.Server.Mode,
			"store":   cfg.Store.Driver,
			"startAt": startAt.UTC().Format(time.RFC3339),
			"docs":    "/swagger/index.html",
		})
	}
}

// readyHandler 就绪检查（检查存储与 Redis）
func readyHandler(db *store.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allHealthy := true

		checks["store"] = "ok"
		if err := db.Ping(ctx); err != nil {
			checks["store"] = "error: " + err.Error()
			allHealthy = false
		}

		checks["redis"] = "disabled"
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = "error: " + err.Error()
				allHealthy = false
			}
		}

		status := http.StatusOK
		statusText := "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		c.JSON(status, ReadyResponse{
			Status:    statusText,
			Timestamp: time.Now().Unix(),
			Checks:    checks,
		})
	}
}
