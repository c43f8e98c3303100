// Package auth 提供认证服务
package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/crypto"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/jwt"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

// DefaultAvatar 新用户默认头像
const DefaultAvatar = "/static/images/default-avatar.png"

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
	hasher     *crypto.Hasher
	blacklist  *jwt.Blacklist
	now        func() time.Time
}

// NewAuthService 创建认证服务，blacklist 为 nil 时注销不生效
func NewAuthService(
	userRepo *repository.UserRepository,
	jwtManager *jwt.Manager,
	hasher *crypto.Hasher,
	blacklist *jwt.Blacklist,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		hasher:     hasher,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
	Phone    string `json:"phone" binding:"omitempty,mobile"`
}

// LoginRequest 登录请求，username 可以是用户名或邮箱
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResponse 登录与注册响应
type LoginResponse struct {
	User *models.UserInfo `json:"user"`
	*jwt.TokenPair
}

func identity(u *models.User) jwt.Identity {
	return jwt.Identity{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.Roles}
}

// Register 注册新用户，用户名和邮箱的唯一性检查与写入在同一写锁内完成
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	taken := func(u *models.User) bool {
		return u.Username == req.Username || strings.EqualFold(u.Email, req.Email)
	}
	user, err := s.userRepo.Upsert(ctx, taken, func(u *models.User, exists bool) error {
		if exists {
			return errors.ErrUserExists
		}
		*u = models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Phone:        req.Phone,
			Avatar:       DefaultAvatar,
			Roles:        []string{jwt.RoleUser},
			IsActive:     true,
			Profile:      models.Profile{Nickname: req.Username},
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	pair, err := s.jwtManager.IssueTokenPair(identity(user))
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	logger.Info("用户注册", logger.UserID(user.ID), zap.String("username", user.Username))
	return &LoginResponse{User: user.Info(), TokenPair: pair}, nil
}

// Login 用户名或邮箱登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByLogin(ctx, req.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrLoginFailed
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !user.IsActive {
		return nil, errors.ErrAccountDisabled
	}
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, errors.ErrLoginFailed
	}

	now := s.now()
	user, err = s.userRepo.Update(ctx, user.ID, func(u *models.User) error {
		u.LastLoginAt = &now
		return nil
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	pair, err := s.jwtManager.IssueTokenPair(identity(user))
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return &LoginResponse{User: user.Info(), TokenPair: pair}, nil
}

// Refresh 使用刷新令牌换取新的令牌对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.Verify(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrRefreshInvalid
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, errors.ErrCacheError.WithError(err)
		}
		if revoked {
			return nil, errors.ErrRefreshInvalid
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID())
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserUnavailable
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !user.IsActive {
		return nil, errors.ErrUserUnavailable
	}

	pair, err := s.jwtManager.IssueTokenPair(identity(user))
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return pair, nil
}

// Logout 注销当前访问令牌，同时提供刷新令牌时一并注销
func (s *AuthService) Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, access); err != nil {
		return errors.ErrCacheError.WithError(err)
	}
	if refreshToken != "" {
		if claims, err := s.jwtManager.Verify(refreshToken, jwt.TokenTypeRefresh); err == nil && claims.UserID() == access.UserID() {
			if err := s.blacklist.Revoke(ctx, claims); err != nil {
				return errors.ErrCacheError.WithError(err)
			}
		}
	}
	return nil
}

// Me 当前用户信息
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return user.Info(), nil
}
