// Package user 提供用户资料、收藏与收货地址服务
package user

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/common/crypto"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

// UserService 用户服务
type UserService struct {
	userRepo *repository.UserRepository
	hasher   *crypto.Hasher
}

// NewUserService 创建用户服务
func NewUserService(userRepo *repository.UserRepository, hasher *crypto.Hasher) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// UpdateProfileRequest 更新资料请求，未提供的字段保持不变
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname" binding:"omitempty,min=1,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,mobile"`
	Gender   *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Birthday *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Address  *string `json:"address" binding:"omitempty,max=200"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,strongpwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// UpdateAvatarRequest 更新头像请求
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required,url"`
}

func (s *UserService) get(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return u, nil
}

func (s *UserService) update(ctx context.Context, userID string, mutate func(*models.User) error) (*models.User, error) {
	u, err := s.userRepo.Update(ctx, userID, mutate)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return u, nil
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserInfo, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Info(), nil
}

// UpdateProfile 更新用户资料，邮箱不能与其他用户重复
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.UserInfo, error) {
	if req.Email != nil && *req.Email != "" {
		taken, err := s.userRepo.EmailTakenByOther(ctx, *req.Email, userID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if taken {
			return nil, errors.ErrEmailExists
		}
	}

	u, err := s.update(ctx, userID, func(u *models.User) error {
		if req.Email != nil && *req.Email != "" {
			u.Email = *req.Email
		}
		if req.Phone != nil && *req.Phone != "" {
			u.Phone = *req.Phone
		}
		if req.Nickname != nil && *req.Nickname != "" {
			u.Profile.Nickname = *req.Nickname
		}
		if req.Gender != nil {
			u.Profile.Gender = *req.Gender
		}
		if req.Birthday != nil && *req.Birthday != "" {
			u.Profile.Birthday = *req.Birthday
		}
		if req.Address != nil {
			u.Profile.Address = *req.Address
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Info(), nil
}

// ChangePassword 校验当前密码后修改
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return errors.ErrPasswordMismatch
	}
	u, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, u.PasswordHash) {
		return errors.ErrPasswordIncorrect
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}
	_, err = s.update(ctx, userID, func(u *models.User) error {
		u.PasswordHash = hash
		return nil
	})
	return err
}

// UpdateAvatar 更新头像
func (s *UserService) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.UserInfo, error) {
	u, err := s.update(ctx, userID, func(u *models.User) error {
		u.Avatar = avatar
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Info(), nil
}
