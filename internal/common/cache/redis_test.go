// Package cache 缓存模块单元测试
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
)

// setupMiniRedis 创建 miniredis 测试实例
func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestInit_Success(t *testing.T) {
	s := setupMiniRedis(t)

	client, err := Init(&config.RedisConfig{
		Host:        s.Host(),
		Port:        s.Server().Addr().Port,
		PoolSize:    5,
		DialTimeout: 5,
		ReadTimeout: 3,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
}

func TestInit_ConnectionFailed(t *testing.T) {
	_, err := Init(&config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 1})
	assert.Error(t, err)
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "ratelimit:api:127.0.0.1", BuildKey(KeyPrefixRateLimit, "api", "127.0.0.1"))
	assert.Equal(t, "token:blacklist", BuildKey(KeyPrefixBlacklist))
}

// storeContract 两种实现共享的行为校验
func storeContract(t *testing.T, s Store, advance func(time.Duration)) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	ok, err := s.SetNX(ctx, "nx", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.SetNX(ctx, "nx", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	v, _ = s.Get(ctx, "nx")
	assert.Equal(t, "first", v)

	exists, err := s.Exists(ctx, "nx")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, s.Delete(ctx, "k"), "删除不存在的键不报错")

	advance(2 * time.Minute)
	exists, err = s.Exists(ctx, "nx")
	require.NoError(t, err)
	assert.False(t, exists, "过期后键应不存在")
	ok, err = s.SetNX(ctx, "nx", "third", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore(t *testing.T) {
	mr := setupMiniRedis(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	storeContract(t, NewRedisStore(rdb), mr.FastForward)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	storeContract(t, s, func(d time.Duration) { now = now.Add(d) })
}

func TestMemoryStore_Purge(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", "1", time.Minute))
	require.NoError(t, s.Set(ctx, "long", "2", time.Hour))
	require.NoError(t, s.Set(ctx, "forever", "3", 0))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Purge())
	assert.Len(t, s.items, 2)
	assert.Equal(t, 0, s.Purge())
}
