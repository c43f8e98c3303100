package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
)

// CouponExpirer 将过期优惠券对应的未使用领取记录标记为过期
type CouponExpirer interface {
	ExpireGrants(ctx context.Context) (int, error)
}

// Purger 清理过期缓存键
type Purger interface {
	Purge() int
}

// TaskHandler 任务处理器
type TaskHandler struct {
	coupons CouponExpirer
	// cache 为空表示使用 Redis，过期由 Redis 处理
	cache Purger
}

// NewTaskHandler 创建任务处理器，cache 可以为 nil
func NewTaskHandler(coupons CouponExpirer, cache Purger) *TaskHandler {
	return &TaskHandler{coupons: coupons, cache: cache}
}

// ExpireCoupons 过期优惠券扫描
func (h *TaskHandler) ExpireCoupons(ctx context.Context) error {
	n, err := h.coupons.ExpireGrants(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("已标记过期优惠券", logger.Module("scheduler"), zap.Int("count", n))
	}
	return nil
}

// PurgeCache 清理进程内缓存中的过期键
func (h *TaskHandler) PurgeCache(_ context.Context) error {
	if h.cache == nil {
		return nil
	}
	if n := h.cache.Purge(); n > 0 {
		logger.GetLogger().Debug("已清理过期缓存", logger.Module("scheduler"), zap.Int("count", n))
	}
	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler, couponInterval time.Duration) {
	scheduler.AddTask("ExpireCoupons", couponInterval, handler.ExpireCoupons)

	if handler.cache != nil {
		scheduler.AddTask("PurgeCache", 10*time.Minute, handler.PurgeCache)
	}
}
