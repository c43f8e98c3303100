// Package main 是应用程序入口
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/metrics"
	"github.com/dumeirei/shopping-app-backend/internal/common/tracing"
	"github.com/dumeirei/shopping-app-backend/internal/scheduler"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

func main() {
	startAt := time.Now()

	// 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.GetLogger()

	log.Info("Starting Shopping App Backend",
		zap.String("version", cfg.Server.Version),
		zap.String("env", cfg.Server.Mode),
		zap.String("store", cfg.Store.Driver),
	)

	m := metrics.Init("shopping_app")

	tracer, err := tracing.Init(&tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Server.Version,
		Environment:    cfg.Server.Mode,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Fatal("Failed to init tracer", zap.Error(err))
	}

	// 初始化记录存储
	driver, err := store.OpenDriver(&cfg.Store, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	db := store.New(driver, store.WithObserver(m.RecordStoreOp))
	log.Info("Store opened successfully", zap.String("driver", cfg.Store.Driver))

	// 初始化 Redis 连接，未启用时使用进程内缓存
	var (
		redisClient *redis.Client
		kv          cache.Store
		purger      scheduler.Purger
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.Init(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		kv = cache.NewRedisStore(redisClient)
		log.Info("Redis connected successfully")
	} else {
		mem := cache.NewMemoryStore()
		kv, purger = mem, mem
		log.Info("Redis disabled, using in-process cache")
	}

	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 设置路由
	app, err := setupRouter(engine, &dependencies{
		cfg:     cfg,
		logger:  log,
		db:      db,
		redis:   redisClient,
		cache:   kv,
		metrics: m,
		startAt: startAt,
	})
	if err != nil {
		log.Fatal("Failed to setup router", zap.Error(err))
	}
	registerAPIDoc(newAPIDoc(cfg.Server.Name, cfg.Server.Version, engine.Routes))

	// 启动定时任务
	sched := scheduler.NewScheduler()
	scheduler.SetupTasks(sched,
		scheduler.NewTaskHandler(app.coupons, purger),
		time.Duration(cfg.Business.CouponExpireInterval)*time.Minute,
	)
	sched.Start()

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 创建超时上下文用于优雅关闭
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	sched.Stop()
	// 等待未完成的客服自动回复写入
	app.chat.Wait()

	if err := db.Close(); err != nil {
		log.Error("Failed to close store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := tracer.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown tracer", zap.Error(err))
	}

	log.Info("Server exited")
}
