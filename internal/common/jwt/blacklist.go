package jwt

import (
	"context"
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
)

// Blacklist 已注销令牌的 jti 列表，条目在令牌自身过期时失效
type Blacklist struct {
	store cache.Store
	now   func() time.Time
}

// NewBlacklist 创建令牌黑名单
func NewBlacklist(store cache.Store) *Blacklist {
	return &Blacklist{store: store, now: time.Now}
}

// Revoke 注销令牌直到其过期
func (b *Blacklist) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(b.now())
	}
	if ttl <= 0 {
		return nil
	}
	return b.store.Set(ctx, cache.BuildKey(cache.KeyPrefixBlacklist, claims.ID), "1", ttl)
}

// IsRevoked 令牌是否已注销
func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return b.store.Exists(ctx, cache.BuildKey(cache.KeyPrefixBlacklist, jti))
}
