package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
)

// Limiter 限流器
type Limiter interface {
	// Allow 判断该键本次请求是否放行，返回剩余次数
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RedisLimiter 基于 Redis 的固定窗口限流
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter 创建固定窗口限流器
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow 窗口内首次请求时设置过期时间
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, l.limit, err
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	remaining := l.limit - int(count)
	if remaining < 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

// Limit 窗口内允许的请求数
func (l *RedisLimiter) Limit() int { return l.limit }

// LocalLimiter 进程内令牌桶限流，每个键一个桶
type LocalLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewLocalLimiter 按窗口折算令牌速率，桶容量等于窗口上限
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		rate:  rate.Limit(float64(limit) / window.Seconds()),
		burst: limit,
	}
}

func (l *LocalLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return v.(*rate.Limiter)
}

// Allow 消耗一个令牌
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	lim := l.get(key)
	if !lim.Allow() {
		return false, 0, nil
	}
	return true, int(lim.Tokens()), nil
}

// Limit 桶容量
func (l *LocalLimiter) Limit() int { return l.burst }

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Limiter Limiter
	// Scope 区分不同限流规则，同时作为键的一部分
	Scope   string
	Message string
	// OnLimited 被限流时回调
	OnLimited func(scope string)
}

// RateLimit 按客户端 IP 限流
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cache.BuildKey(cache.KeyPrefixRateLimit, config.Scope, c.ClientIP())
		allowed, remaining, err := config.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// 限流存储异常时放行
			logger.Warn("限流检查失败", zap.String("scope", config.Scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(config.Limiter.Limit()))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			if config.OnLimited != nil {
				config.OnLimited(config.Scope)
			}
			response.TooManyRequests(c, config.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}
