package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := tokenClaims{
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestSession_SetTokensDecodesUser(t *testing.T) {
	s, err := NewSession(nil)
	require.NoError(t, err)
	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())

	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.SetTokens(signToken(t, exp), "refresh"))

	u := s.User()
	require.NotNil(t, u)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, []string{"user"}, u.Roles)
	assert.Equal(t, exp.Unix(), u.Exp)
	assert.Equal(t, "u-1", s.UserID())
	assert.Equal(t, "refresh", s.RefreshToken())
	assert.True(t, s.CheckTokenExpiration())
}

func TestSession_SetTokensRejectsGarbage(t *testing.T) {
	s, _ := NewSession(nil)
	require.NoError(t, s.SetTokens(signToken(t, time.Now().Add(time.Hour)), ""))

	assert.Error(t, s.SetTokens("not-a-jwt", ""))
	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
}

func TestSession_ExpiredTokenLogsOut(t *testing.T) {
	s, _ := NewSession(nil)
	require.NoError(t, s.SetTokens(signToken(t, time.Now().Add(time.Minute)), "r"))

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.False(t, s.CheckTokenExpiration())
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.RefreshToken())
}

func TestSession_UpdateUserInfoMergesFields(t *testing.T) {
	s, _ := NewSession(nil)
	require.NoError(t, s.SetTokens(signToken(t, time.Now().Add(time.Hour)), ""))

	s.UpdateUserInfo(UserInfo{Avatar: "/a.png"})
	u := s.User()
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "/a.png", u.Avatar)

	// 返回副本
	u.Username = "changed"
	assert.Equal(t, "alice", s.User().Username)
}

func TestSession_ClearFromClient(t *testing.T) {
	s, _ := NewSession(nil)
	require.NoError(t, s.SetTokens(signToken(t, time.Now().Add(time.Hour)), ""))
	s.Clear()
	assert.Empty(t, s.Token())
}

func TestFilePersister_RoundTrip(t *testing.T) {
	p := &FilePersister{Path: filepath.Join(t.TempDir(), "auth", "session.json")}

	snap, err := p.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)

	s, err := NewSession(p)
	require.NoError(t, err)
	token := signToken(t, time.Now().Add(time.Hour))
	require.NoError(t, s.SetTokens(token, "refresh"))

	restored, err := NewSession(p)
	require.NoError(t, err)
	assert.Equal(t, token, restored.Token())
	assert.Equal(t, "refresh", restored.RefreshToken())
	assert.Equal(t, "alice", restored.User().Username)

	restored.Logout()
	snap, err = p.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestNewSession_IgnoresUnparseableStoredToken(t *testing.T) {
	p := &FilePersister{Path: filepath.Join(t.TempDir(), "session.json")}
	require.NoError(t, p.Save(&Snapshot{Token: "garbage"}))

	s, err := NewSession(p)
	require.NoError(t, err)
	assert.False(t, s.IsLoggedIn())
}
