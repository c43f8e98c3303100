// Package crypto 密码哈希单元测试
package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, h.Verify("Secret123", hash))
	assert.False(t, h.Verify("secret123", hash))
	assert.False(t, h.Verify("Secret123", "not-a-hash"))
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash("Secret123")
	require.NoError(t, err)
	b, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).Cost())
	assert.Equal(t, 12, NewHasher(12).Cost())

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("Abc123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "138****8000", MaskPhone("13800138000"))
	assert.Equal(t, "123", MaskPhone("123"))
}
