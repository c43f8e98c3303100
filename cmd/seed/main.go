// Package main 初始化演示数据
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/crypto"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.GetLogger()

	driver, err := store.OpenDriver(&cfg.Store, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	db := store.New(driver)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sum, err := seed(ctx, db, crypto.NewHasher(cfg.Crypto.BcryptCost), time.Now())
	if err != nil {
		log.Fatal("数据初始化失败", zap.Error(err))
	}

	log.Info("数据初始化完成",
		zap.Int("users", sum.Users),
		zap.Int("categories", sum.Categories),
		zap.Int("products", sum.Products),
		zap.Int("banners", sum.Banners),
		zap.Int("hotSearches", sum.HotSearches),
		zap.Int("coupons", sum.Coupons),
	)
	log.Info("测试账号",
		zap.String("admin", "admin / "+demoPassword),
		zap.String("user", "user1 / "+demoPassword),
	)
}

// summary 各集合写入数量
type summary struct {
	Users       int
	Categories  int
	Products    int
	Banners     int
	HotSearches int
	Coupons     int
}

// seed 清空演示集合后写入种子数据
func seed(ctx context.Context, db *store.DB, hasher *crypto.Hasher, now time.Time) (*summary, error) {
	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	products := repository.NewProductRepository(db)
	banners := repository.NewBannerRepository(db)
	hotSearches := repository.NewHotSearchRepository(db)
	coupons := repository.NewCouponRepository(db)

	resets := []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) { return users.DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return categories.DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return products.DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return banners.DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return hotSearches.DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return coupons.DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return repository.NewFavoriteRepository(db).DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return repository.NewOrderRepository(db).DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return repository.NewCartRepository(db).DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return repository.NewAddressRepository(db).DeleteWhere(ctx, nil) },
		func(ctx context.Context) (int, error) { return repository.NewUserCouponRepository(db).DeleteWhere(ctx, nil) },
	}
	for _, reset := range resets {
		if _, err := reset(ctx); err != nil {
			return nil, fmt.Errorf("清空数据失败: %w", err)
		}
	}

	sum := &summary{}

	hash, err := hasher.Hash(demoPassword)
	if err != nil {
		return nil, err
	}
	for _, u := range demoUsers() {
		u.PasswordHash = hash
		if _, err := users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("写入用户失败: %w", err)
		}
		sum.Users++
	}

	categoryIDs := make([]string, 0)
	for _, c := range demoCategories() {
		created, err := categories.Create(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("写入分类失败: %w", err)
		}
		categoryIDs = append(categoryIDs, created.ID)
		sum.Categories++
	}

	for _, p := range demoProducts() {
		if _, err := products.Create(ctx, p.model(categoryIDs[p.category])); err != nil {
			return nil, fmt.Errorf("写入商品失败: %w", err)
		}
		sum.Products++
	}

	for _, b := range demoBanners() {
		if _, err := banners.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("写入轮播图失败: %w", err)
		}
		sum.Banners++
	}

	for _, h := range demoHotSearches(now) {
		if _, err := hotSearches.Create(ctx, h); err != nil {
			return nil, fmt.Errorf("写入热门搜索失败: %w", err)
		}
		sum.HotSearches++
	}

	for _, c := range demoCoupons(now) {
		if _, err := coupons.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("写入优惠券失败: %w", err)
		}
		sum.Coupons++
	}

	return sum, nil
}
