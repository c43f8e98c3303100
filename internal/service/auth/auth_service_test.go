package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/cache"
	"github.com/dumeirei/shopping-app-backend/internal/common/crypto"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/jwt"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

type testEnv struct {
	svc       *AuthService
	users     *repository.UserRepository
	jwt       *jwt.Manager
	blacklist *jwt.Blacklist
}

func setupAuthService(t *testing.T) *testEnv {
	t.Helper()
	driver, err := store.NewFileDriver(t.TempDir())
	require.NoError(t, err)
	db := store.New(driver)

	users := repository.NewUserRepository(db)
	manager := jwt.NewManager(&jwt.Config{
		Secret:            "test-secret",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "shopping-app",
		Audience:          "shopping-app-users",
	})
	blacklist := jwt.NewBlacklist(cache.NewMemoryStore())
	return &testEnv{
		svc:       NewAuthService(users, manager, crypto.NewHasher(4), blacklist),
		users:     users,
		jwt:       manager,
		blacklist: blacklist,
	}
}

func registerAlice(t *testing.T, env *testEnv) *LoginResponse {
	t.Helper()
	resp, err := env.svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Secret123",
		Phone:    "13800138000",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	env := setupAuthService(t)
	resp := registerAlice(t, env)

	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, []string{jwt.RoleUser}, resp.User.Roles)
	assert.True(t, resp.User.IsActive)
	assert.Zero(t, resp.User.Points)
	assert.Equal(t, "alice", resp.User.Profile.Nickname)
	assert.Equal(t, DefaultAvatar, resp.User.Avatar)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	stored, err := env.users.FindByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", stored.PasswordHash)
}

func TestRegister_Duplicate(t *testing.T) {
	env := setupAuthService(t)
	registerAlice(t, env)

	tests := map[string]*RegisterRequest{
		"same username": {Username: "alice", Email: "other@example.com", Password: "Secret123"},
		"same email":    {Username: "alice2", Email: "ALICE@example.com", Password: "Secret123"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, errors.ErrUserExists)
		})
	}
	n, err := env.users.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLogin(t *testing.T) {
	env := setupAuthService(t)
	registerAlice(t, env)
	ctx := context.Background()

	resp, err := env.svc.Login(ctx, &LoginRequest{Username: "alice@example.com", Password: "Secret123"})
	require.NoError(t, err)
	require.NotNil(t, resp.User.LastLoginAt)

	claims, err := env.jwt.Verify(resp.AccessToken, jwt.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID())

	_, err = env.svc.Login(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, errors.ErrLoginFailed)

	_, err = env.svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "Secret123"})
	assert.ErrorIs(t, err, errors.ErrLoginFailed)
}

func TestLogin_Disabled(t *testing.T) {
	env := setupAuthService(t)
	resp := registerAlice(t, env)
	ctx := context.Background()

	_, err := env.users.Update(ctx, resp.User.ID, func(u *models.User) error {
		u.IsActive = false
		return nil
	})
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, &LoginRequest{Username: "alice", Password: "Secret123"})
	assert.ErrorIs(t, err, errors.ErrAccountDisabled)

	_, err = env.svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrUserUnavailable)
}

func TestRefresh(t *testing.T) {
	env := setupAuthService(t)
	resp := registerAlice(t, env)
	ctx := context.Background()

	pair, err := env.svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = env.svc.Refresh(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, errors.ErrRefreshInvalid, "访问令牌不能用于刷新")

	_, err = env.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, errors.ErrRefreshInvalid)
}

func TestLogout(t *testing.T) {
	env := setupAuthService(t)
	resp := registerAlice(t, env)
	ctx := context.Background()

	access, err := env.jwt.Verify(resp.AccessToken, jwt.TokenTypeAccess)
	require.NoError(t, err)
	require.NoError(t, env.svc.Logout(ctx, access, resp.RefreshToken))

	revoked, err := env.blacklist.IsRevoked(ctx, access.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = env.svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrRefreshInvalid)
}

func TestMe(t *testing.T) {
	env := setupAuthService(t)
	resp := registerAlice(t, env)

	info, err := env.svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", info.Email)

	_, err = env.svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
