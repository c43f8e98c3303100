package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/common/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager() *jwt.Manager {
	return jwt.NewManager(&jwt.Config{
		Secret:            "test-secret",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "shopping-app",
		Audience:          "shopping-app-users",
	})
}

func issue(t *testing.T, m *jwt.Manager, roles ...string) *jwt.TokenPair {
	t.Helper()
	pair, err := m.IssueTokenPair(jwt.Identity{ID: "u1", Username: "alice", Email: "a@example.com", Roles: roles})
	require.NoError(t, err)
	return pair
}

func serve(r *gin.Engine, method, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func authRouter(cfg *AuthConfig) *gin.Engine {
	r := gin.New()
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "admin": IsAdmin(c), "loggedIn": IsLoggedIn(c)})
	}
	r.GET("/private", Auth(cfg), echo)
	r.GET("/optional", OptionalAuth(cfg), echo)
	r.GET("/admin", Auth(cfg), AdminAuth(), echo)
	r.GET("/users/:id", Auth(cfg), SelfOrAdmin("id"), echo)
	return r
}

func TestAuth(t *testing.T) {
	m := newManager()
	blacklist := jwt.NewBlacklist(cache.NewMemoryStore())
	r := authRouter(&AuthConfig{JWTManager: m, Blacklist: blacklist})
	pair := issue(t, m, jwt.RoleUser)

	t.Run("MissingToken", func(t *testing.T) {
		w, body := serve(r, http.MethodGet, "/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "访问被拒绝，未提供token", body["error"])
	})

	t.Run("ValidToken", func(t *testing.T) {
		w, body := serve(r, http.MethodGet, "/private", pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", body["userId"])
		assert.Equal(t, false, body["admin"])
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		w, _ := serve(r, http.MethodGet, "/private", pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		other := issue(t, m, jwt.RoleUser)
		claims, err := m.Verify(other.AccessToken, jwt.TokenTypeAccess)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(context.Background(), claims))

		w, _ := serve(r, http.MethodGet, "/private", other.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	m := newManager()
	r := authRouter(&AuthConfig{JWTManager: m})

	w, body := serve(r, http.MethodGet, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["loggedIn"])

	w, body = serve(r, http.MethodGet, "/optional", "garbage")
	assert.Equal(t, http.StatusOK, w.Code, "无效令牌按匿名处理")
	assert.Equal(t, false, body["loggedIn"])

	_, body = serve(r, http.MethodGet, "/optional", issue(t, m).AccessToken)
	assert.Equal(t, true, body["loggedIn"])
}

func TestAdminAuth(t *testing.T) {
	m := newManager()
	r := authRouter(&AuthConfig{JWTManager: m})

	w, _ := serve(r, http.MethodGet, "/admin", issue(t, m, jwt.RoleUser).AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := serve(r, http.MethodGet, "/admin", issue(t, m, jwt.RoleAdmin).AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["admin"])
}

func TestSelfOrAdmin(t *testing.T) {
	m := newManager()
	r := authRouter(&AuthConfig{JWTManager: m})
	user := issue(t, m, jwt.RoleUser).AccessToken

	w, _ := serve(r, http.MethodGet, "/users/u1", user)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(r, http.MethodGet, "/users/u2", user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = serve(r, http.MethodGet, "/users/u2", issue(t, m, jwt.RoleAdmin).AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", tt.header)
		assert.Equal(t, tt.want, extractToken(c), tt.header)
	}
}
