package user

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

// AddressService 收货地址服务
type AddressService struct {
	addressRepo *repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo *repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// CreateAddressRequest 新增地址请求
type CreateAddressRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	Mobile    string `json:"mobile" binding:"required,mobile"`
	Province  string `json:"province" binding:"required"`
	City      string `json:"city" binding:"required"`
	District  string `json:"district" binding:"required"`
	Detail    string `json:"detail" binding:"required,max=200"`
	Tag       string `json:"tag" binding:"max=20"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateAddressRequest 更新地址请求，未提供的字段保持不变
type UpdateAddressRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=50"`
	Mobile    *string `json:"mobile" binding:"omitempty,mobile"`
	Province  *string `json:"province" binding:"omitempty,min=1"`
	City      *string `json:"city" binding:"omitempty,min=1"`
	District  *string `json:"district" binding:"omitempty,min=1"`
	Detail    *string `json:"detail" binding:"omitempty,min=1,max=200"`
	Tag       *string `json:"tag" binding:"omitempty,max=20"`
	IsDefault *bool   `json:"isDefault"`
}

// List 用户地址列表
func (s *AddressService) List(ctx context.Context, userID string) ([]*models.Address, error) {
	list, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return list, nil
}

// Get 获取用户自己的地址
func (s *AddressService) Get(ctx context.Context, userID, id string) (*models.Address, error) {
	a, err := s.addressRepo.GetByUser(ctx, id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrAddressNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return a, nil
}

// Create 新增地址，设为默认时取消其他默认地址
func (s *AddressService) Create(ctx context.Context, userID string, req *CreateAddressRequest) (*models.Address, error) {
	a, err := s.addressRepo.Create(ctx, &models.Address{
		UserID:    userID,
		Name:      req.Name,
		Mobile:    req.Mobile,
		Province:  req.Province,
		City:      req.City,
		District:  req.District,
		Detail:    req.Detail,
		Tag:       req.Tag,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if a.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, userID, a.ID); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return a, nil
}

// Update 更新地址
func (s *AddressService) Update(ctx context.Context, userID, id string, req *UpdateAddressRequest) (*models.Address, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	a, err := s.addressRepo.Update(ctx, id, func(a *models.Address) error {
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&a.Name, req.Name)
		set(&a.Mobile, req.Mobile)
		set(&a.Province, req.Province)
		set(&a.City, req.City)
		set(&a.District, req.District)
		set(&a.Detail, req.Detail)
		set(&a.Tag, req.Tag)
		if req.IsDefault != nil {
			a.IsDefault = *req.IsDefault
		}
		return nil
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if a.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, userID, a.ID); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return a, nil
}

// Delete 删除地址
func (s *AddressService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if _, err := s.addressRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SetDefault 设为默认地址
func (s *AddressService) SetDefault(ctx context.Context, userID, id string) (*models.Address, error) {
	isDefault := true
	return s.Update(ctx, userID, id, &UpdateAddressRequest{IsDefault: &isDefault})
}
