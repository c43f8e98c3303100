// Package content 内容服务
package content

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

// DefaultBannerType 未指定类型时的轮播图位置
const DefaultBannerType = "home"

// BannerService 轮播图服务（用户端）
type BannerService struct {
	bannerRepo *repository.BannerRepository
}

// NewBannerService 创建轮播图服务
func NewBannerService(bannerRepo *repository.BannerRepository) *BannerService {
	return &BannerService{bannerRepo: bannerRepo}
}

// List 获取指定类型的启用轮播图
func (s *BannerService) List(ctx context.Context, typ string, limit int) ([]*models.Banner, error) {
	if typ == "" {
		typ = DefaultBannerType
	}
	if limit <= 0 {
		limit = 10
	}

	banners, err := s.bannerRepo.ListActive(ctx, typ)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if len(banners) > limit {
		banners = banners[:limit]
	}
	return banners, nil
}

// Get 获取轮播图并记录一次点击
func (s *BannerService) Get(ctx context.Context, id string) (*models.Banner, error) {
	b, err := s.bannerRepo.Update(ctx, id, func(b *models.Banner) error {
		b.Clicks++
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrBannerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return b, nil
}

// BannerAdminService 轮播图管理服务（管理端）
type BannerAdminService struct {
	bannerRepo *repository.BannerRepository
}

// NewBannerAdminService 创建轮播图管理服务
func NewBannerAdminService(bannerRepo *repository.BannerRepository) *BannerAdminService {
	return &BannerAdminService{bannerRepo: bannerRepo}
}

// CreateBannerRequest 创建轮播图请求
type CreateBannerRequest struct {
	Title    string `json:"title" binding:"required,max=100"`
	Image    string `json:"image" binding:"required"`
	Link     string `json:"link"`
	Type     string `json:"type"`
	Sort     int    `json:"sort"`
	IsActive *bool  `json:"isActive"`
}

// UpdateBannerRequest 更新轮播图请求
type UpdateBannerRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=100"`
	Image    *string `json:"image"`
	Link     *string `json:"link"`
	Type     *string `json:"type"`
	Sort     *int    `json:"sort"`
	IsActive *bool   `json:"isActive"`
}

// BannerStatistics 轮播图统计
type BannerStatistics struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	TotalClicks int `json:"totalClicks"`
}

// Create 创建轮播图
func (s *BannerAdminService) Create(ctx context.Context, req *CreateBannerRequest) (*models.Banner, error) {
	typ := req.Type
	if typ == "" {
		typ = DefaultBannerType
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	b, err := s.bannerRepo.Create(ctx, &models.Banner{
		Title:    req.Title,
		Image:    req.Image,
		Link:     req.Link,
		Type:     typ,
		Sort:     req.Sort,
		IsActive: active,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return b, nil
}

// Update 更新轮播图
func (s *BannerAdminService) Update(ctx context.Context, id string, req *UpdateBannerRequest) (*models.Banner, error) {
	b, err := s.bannerRepo.Update(ctx, id, func(b *models.Banner) error {
		if req.Title != nil {
			b.Title = *req.Title
		}
		if req.Image != nil {
			b.Image = *req.Image
		}
		if req.Link != nil {
			b.Link = *req.Link
		}
		if req.Type != nil {
			b.Type = *req.Type
		}
		if req.Sort != nil {
			b.Sort = *req.Sort
		}
		if req.IsActive != nil {
			b.IsActive = *req.IsActive
		}
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrBannerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return b, nil
}

// Delete 删除轮播图
func (s *BannerAdminService) Delete(ctx context.Context, id string) error {
	ok, err := s.bannerRepo.Delete(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		return errors.ErrBannerNotFound
	}
	return nil
}

// List 全部轮播图，按 sort 升序
func (s *BannerAdminService) List(ctx context.Context) ([]*models.Banner, error) {
	banners, err := s.bannerRepo.Query().
		SortBy(func(a, b *models.Banner) bool { return a.Sort < b.Sort }).
		All(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return banners, nil
}

// GetStatistics 轮播图统计
func (s *BannerAdminService) GetStatistics(ctx context.Context) (*BannerStatistics, error) {
	banners, err := s.bannerRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	stats := &BannerStatistics{Total: len(banners)}
	for _, b := range banners {
		if b.IsActive {
			stats.Active++
		}
		stats.TotalClicks += b.Clicks
	}
	return stats, nil
}

