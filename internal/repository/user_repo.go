package repository

import (
	"context"
	"strings"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// UserRepository 用户仓储
type UserRepository struct {
	*store.Collection[models.User, *models.User]
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *store.DB) *UserRepository {
	return &UserRepository{store.NewCollection[models.User](db, models.CollectionUsers)}
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindOne(ctx, func(u *models.User) bool { return u.Username == username })
}

// GetByEmail 根据邮箱获取用户，忽略大小写
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetByLogin 根据用户名或邮箱获取用户
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.FindOne(ctx, func(u *models.User) bool {
		return u.Username == login || strings.EqualFold(u.Email, login)
	})
}

// EmailTakenByOther 邮箱是否已被其他用户使用
func (r *UserRepository) EmailTakenByOther(ctx context.Context, email, userID string) (bool, error) {
	n, err := r.Count(ctx, func(u *models.User) bool {
		return u.ID != userID && strings.EqualFold(u.Email, email)
	})
	return n > 0, err
}
