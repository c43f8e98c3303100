// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/crypto"
	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	"github.com/dumeirei/shopping-app-backend/internal/common/jwt"
	"github.com/dumeirei/shopping-app-backend/internal/common/metrics"
	authHandler "github.com/dumeirei/shopping-app-backend/internal/handler/auth"
	chatHandler "github.com/dumeirei/shopping-app-backend/internal/handler/chat"
	contentHandler "github.com/dumeirei/shopping-app-backend/internal/handler/content"
	mallHandler "github.com/dumeirei/shopping-app-backend/internal/handler/mall"
	marketingHandler "github.com/dumeirei/shopping-app-backend/internal/handler/marketing"
	pointsHandler "github.com/dumeirei/shopping-app-backend/internal/handler/points"
	searchHandler "github.com/dumeirei/shopping-app-backend/internal/handler/search"
	userHandler "github.com/dumeirei/shopping-app-backend/internal/handler/user"
	"github.com/dumeirei/shopping-app-backend/internal/middleware"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	authService "github.com/dumeirei/shopping-app-backend/internal/service/auth"
	chatService "github.com/dumeirei/shopping-app-backend/internal/service/chat"
	contentService "github.com/dumeirei/shopping-app-backend/internal/service/content"
	mallService "github.com/dumeirei/shopping-app-backend/internal/service/mall"
	marketingService "github.com/dumeirei/shopping-app-backend/internal/service/marketing"
	pointsService "github.com/dumeirei/shopping-app-backend/internal/service/points"
	"github.com/dumeirei/shopping-app-backend/internal/service/pricing"
	searchService "github.com/dumeirei/shopping-app-backend/internal/service/search"
	userService "github.com/dumeirei/shopping-app-backend/internal/service/user"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// dependencies 路由装配所需的基础设施
type dependencies struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *store.DB
	redis   *redis.Client // 未启用 Redis 时为 nil
	cache   cache.Store
	metrics *metrics.Metrics
	startAt time.Time
}

// application 需要在关闭时收尾的服务
type application struct {
	chat    *chatService.ChatService
	coupons *marketingService.CouponService
}

// setupRouter 设置路由
func setupRouter(r *gin.Engine, deps *dependencies) (*application, error) {
	cfg := deps.cfg

	rules, err := pricing.RulesFromConfig(&cfg.Business)
	if err != nil {
		return nil, err
	}

	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	})
	blacklist := jwt.NewBlacklist(deps.cache)
	hasher := crypto.NewHasher(cfg.Crypto.BcryptCost)

	// 初始化仓储
	db := deps.db
	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	afterSaleRepo := repository.NewAfterSaleRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	userCouponRepo := repository.NewUserCouponRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	hotSearchRepo := repository.NewHotSearchRepository(db)
	historyRepo := repository.NewSearchHistoryRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// 初始化服务
	authSvc := authService.NewAuthService(userRepo, jwtManager, hasher, blacklist)
	userSvc := userService.NewUserService(userRepo, hasher)
	favoriteSvc := userService.NewFavoriteService(favoriteRepo, productRepo)
	addressSvc := userService.NewAddressService(addressRepo)

	productSvc := mallService.NewProductService(productRepo, categoryRepo, favoriteRepo)
	categorySvc := mallService.NewCategoryService(categoryRepo, productRepo)
	cartSvc := mallService.NewCartService(cartRepo, productRepo)
	orderSvc := mallService.NewOrderService(
		orderRepo, productRepo, cartRepo, reviewRepo,
		deps.cache, time.Duration(cfg.Business.IdempotencyTTL)*time.Hour,
		rules, deps.metrics,
	)
	reviewSvc := mallService.NewReviewService(reviewRepo, userRepo)
	afterSaleSvc := mallService.NewAfterSaleService(afterSaleRepo, orderRepo)

	couponSvc := marketingService.NewCouponService(couponRepo, userCouponRepo, deps.metrics)
	pointsSvc := pointsService.NewPointsService(userRepo, pointsRepo, rules)
	searchSvc := searchService.NewSearchService(productRepo, favoriteRepo, hotSearchRepo, historyRepo, deps.metrics)
	bannerSvc := contentService.NewBannerService(bannerRepo)
	bannerAdminSvc := contentService.NewBannerAdminService(bannerRepo)
	chatSvc := chatService.NewChatService(chatRepo, cfg.Chat, deps.metrics)

	// 全局中间件
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.logger, cfg.IsDebug()))
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.RequestSizeLimiter(10 << 20))
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(&middleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ready", cfg.Metrics.Path},
		}))
	}
	if cfg.Metrics.Enabled {
		r.Use(deps.metrics.Middleware(cfg.Metrics.Path))
	}
	r.Use(middleware.AccessLog(middleware.DefaultAccessLogConfig(deps.logger, cfg.Metrics.Path)))

	// 健康检查（不需要认证）
	r.GET("/", rootHandler(cfg, deps.startAt))
	r.GET("/health", healthHandler(deps.startAt))
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, deps.redis))
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, deps.metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authCfg := &middleware.AuthConfig{JWTManager: jwtManager, Blacklist: blacklist}
	guards := handler.Guards{
		Auth:     middleware.Auth(authCfg),
		Optional: middleware.OptionalAuth(authCfg),
		Admin:    middleware.AdminAuth(),
	}

	var cartLimiter gin.HandlerFunc
	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(&middleware.RateLimitConfig{
			Limiter:   newLimiter(deps.redis, cfg.RateLimit.API),
			Scope:     "api",
			Message:   "请求过于频繁，请稍后再试",
			OnLimited: deps.metrics.RecordRateLimited,
		}))
		cartLimiter = middleware.RateLimit(&middleware.RateLimitConfig{
			Limiter:   newLimiter(deps.redis, cfg.RateLimit.Cart),
			Scope:     "cart",
			Message:   "购物车操作过于频繁，请稍后再试",
			OnLimited: deps.metrics.RecordRateLimited,
		})
	}

	routes := []interface {
		RegisterRoutes(r *gin.RouterGroup, g handler.Guards)
	}{
		authHandler.NewHandler(authSvc),
		userHandler.NewHandler(userSvc, favoriteSvc, addressSvc),
		mallHandler.NewProductHandler(productSvc, favoriteSvc),
		mallHandler.NewCategoryHandler(categorySvc),
		mallHandler.NewCartHandler(cartSvc, cartLimiter),
		mallHandler.NewOrderHandler(orderSvc, reviewSvc),
		mallHandler.NewAfterSaleHandler(afterSaleSvc),
		marketingHandler.NewCouponHandler(couponSvc),
		pointsHandler.NewHandler(pointsSvc),
		searchHandler.NewHandler(searchSvc),
		contentHandler.NewBannerHandler(bannerSvc, bannerAdminSvc),
		chatHandler.NewHandler(chatSvc),
	}
	for _, h := range routes {
		h.RegisterRoutes(api, guards)
	}

	r.NoRoute(middleware.NoRoute())

	return &application{chat: chatSvc, coupons: couponSvc}, nil
}

// newLimiter 启用 Redis 时使用固定窗口，否则退化为进程内令牌桶
func newLimiter(rdb *redis.Client, w config.WindowLimit) middleware.Limiter {
	if rdb != nil {
		return middleware.NewRedisLimiter(rdb, w.Limit, w.WindowDuration())
	}
	return middleware.NewLocalLimiter(w.Limit, w.WindowDuration())
}
