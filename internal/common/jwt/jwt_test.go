// Package jwt JWT 令牌管理单元测试
package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(&Config{
		Secret:            "test-secret",
		AccessExpireTime:  7 * 24 * time.Hour,
		RefreshExpireTime: 30 * 24 * time.Hour,
		Issuer:            "shopping-app",
		Audience:          "shopping-app-users",
	})
}

var testIdentity = Identity{
	ID:       "u-1",
	Username: "admin",
	Email:    "admin@example.com",
	Roles:    []string{RoleUser, RoleAdmin},
}

func TestIssueTokenPair(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssueTokenPair(testIdentity)
	require.NoError(t, err)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(7*24*3600), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := m.Verify(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", access.UserID())
	assert.Equal(t, "admin", access.Username)
	assert.Equal(t, "admin@example.com", access.Email)
	assert.Equal(t, []string{"user", "admin"}, access.Roles)
	assert.Equal(t, "shopping-app", access.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"shopping-app-users"}, access.Audience)
	assert.NotEmpty(t, access.ID)

	refresh, err := m.Verify(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", refresh.UserID())
	assert.Empty(t, refresh.Username, "刷新令牌只携带用户 ID")
	assert.Empty(t, refresh.Roles)
}

func TestVerify_WrongType(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssueTokenPair(testIdentity)
	require.NoError(t, err)

	_, err = m.Verify(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenWrongType)

	_, err = m.Verify(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrTokenWrongType)
}

func TestVerify_Expired(t *testing.T) {
	m := newTestManager()
	issued := time.Now().Add(-8 * 24 * time.Hour)
	m.now = func() time.Time { return issued }
	pair, err := m.IssueTokenPair(testIdentity)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// 刷新令牌有效期 30 天，仍然有效
	_, err = m.Verify(pair.RefreshToken, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestVerify_Invalid(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssueTokenPair(testIdentity)
	require.NoError(t, err)

	tests := map[string]*Manager{
		"wrong secret": NewManager(&Config{Secret: "other", Issuer: "shopping-app", Audience: "shopping-app-users"}),
		"wrong issuer": NewManager(&Config{Secret: "test-secret", Issuer: "other", Audience: "shopping-app-users"}),
		"wrong audience": NewManager(&Config{Secret: "test-secret", Issuer: "shopping-app", Audience: "other"}),
	}
	for name, verifier := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(pair.AccessToken, TokenTypeAccess)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}

	_, err = m.Verify("not.a.token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager()
	claims := &Claims{Type: TokenTypeAccess, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    "shopping-app",
		Audience:  jwt.ClaimStrings{"shopping-app-users"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIsExpiringSoon(t *testing.T) {
	m := newTestManager()
	soon := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute))}}
	later := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour))}}

	assert.True(t, m.IsExpiringSoon(soon, time.Hour))
	assert.False(t, m.IsExpiringSoon(later, time.Hour))
	assert.True(t, m.IsExpiringSoon(nil, time.Hour))
}

func TestHasRole(t *testing.T) {
	claims := &Claims{Roles: []string{RoleUser}}
	assert.True(t, HasRole(claims, RoleUser))
	assert.False(t, HasRole(claims, RoleAdmin))
	assert.False(t, HasRole(nil, RoleUser))
}
