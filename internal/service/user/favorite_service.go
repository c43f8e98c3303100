package user

import (
	"context"
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 收藏列表标签规则
const (
	HotSalesThreshold = 500
	NewProductWindow  = 30 * 24 * time.Hour
)

// FavoriteService 收藏服务
type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	productRepo  *repository.ProductRepository
	now          func() time.Time
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(favoriteRepo *repository.FavoriteRepository, productRepo *repository.ProductRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, productRepo: productRepo, now: time.Now}
}

// FavoriteProduct 收藏的商品
type FavoriteProduct struct {
	*models.Product
	FavoriteTime time.Time `json:"favoriteTime"`
	IsHot        bool      `json:"isHot"`
	IsNew        bool      `json:"isNew"`
}

// FavoriteList 收藏分页结果
type FavoriteList struct {
	Items      []*FavoriteProduct `json:"items"`
	Pagination store.Pagination   `json:"pagination"`
}

// List 分页查询收藏，商品已删除的收藏不返回
func (s *FavoriteService) List(ctx context.Context, userID string, page, limit int) (*FavoriteList, error) {
	favs, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	now := s.now()
	items := make([]*FavoriteProduct, 0, len(favs))
	for _, f := range favs {
		p, err := s.productRepo.FindByID(ctx, f.ProductID)
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		items = append(items, &FavoriteProduct{
			Product:      p,
			FavoriteTime: f.FavoriteTime,
			IsHot:        p.Sales > HotSalesThreshold,
			IsNew:        p.CreatedAt.After(now.Add(-NewProductWindow)),
		})
	}

	return &FavoriteList{
		Items:      store.Slice(items, page, limit),
		Pagination: store.NewPagination(page, limit, len(items)),
	}, nil
}

func (s *FavoriteService) ensureProduct(ctx context.Context, productID string) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrProductNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Add 收藏商品，重复收藏返回错误
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	fav, err := s.favoriteRepo.Upsert(ctx,
		func(f *models.Favorite) bool { return f.UserID == userID && f.ProductID == productID },
		func(f *models.Favorite, exists bool) error {
			if exists {
				return errors.ErrFavoriteExists
			}
			f.UserID = userID
			f.ProductID = productID
			f.FavoriteTime = s.now()
			return nil
		})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return fav, nil
}

// Remove 取消收藏
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	ok, err := s.favoriteRepo.Remove(ctx, userID, productID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		return errors.ErrFavoriteNotFound
	}
	return nil
}

// Toggle 切换收藏状态，返回切换后是否已收藏
func (s *FavoriteService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return false, err
	}
	removed, err := s.favoriteRepo.Remove(ctx, userID, productID)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	if removed {
		return false, nil
	}
	if _, err := s.Add(ctx, userID, productID); err != nil && !errors.Is(err, errors.ErrFavoriteExists) {
		return false, err
	}
	return true, nil
}

// IsFavorite 是否已收藏
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, productID string) bool {
	if userID == "" {
		return false
	}
	ok, _ := s.favoriteRepo.Exists(ctx, userID, productID)
	return ok
}

// FavoriteSet 用户收藏的商品 id 集合，未登录返回空集合
func (s *FavoriteService) FavoriteSet(ctx context.Context, userID string) map[string]bool {
	set := make(map[string]bool)
	if userID == "" {
		return set
	}
	favs, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return set
	}
	for _, f := range favs {
		set[f.ProductID] = true
	}
	return set
}
