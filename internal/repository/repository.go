// Package repository 提供数据访问层
package repository

import (
	"context"
	stderrors "errors"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// IsNotFound 是否为记录不存在
func IsNotFound(err error) bool {
	return stderrors.Is(err, store.ErrNotFound)
}

// owned 按 id 查找且归属于 userID，否则返回 store.ErrNotFound
func owned[T any, PT interface {
	*T
	store.Entity
}](ctx context.Context, c *store.Collection[T, PT], id, userID string, owner func(*T) string) (*T, error) {
	rec, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner(rec) != userID {
		return nil, store.ErrNotFound
	}
	return rec, nil
}
