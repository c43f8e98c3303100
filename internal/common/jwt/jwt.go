// Package jwt 提供 JWT 令牌管理功能
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 令牌类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims 自定义 JWT 声明，用户 ID 存放在 sub 中
type Claims struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Type     string   `json:"type"`
	jwt.RegisteredClaims
}

// UserID 返回用户 ID
func (c *Claims) UserID() string {
	return c.Subject
}

// Identity 签发令牌所需的用户身份
type Identity struct {
	ID       string
	Username string
	Email    string
	Roles    []string
}

// Config JWT 配置
type Config struct {
	Secret            string
	AccessExpireTime  time.Duration
	RefreshExpireTime time.Duration
	Issuer            string
	Audience          string
}

// Manager JWT 管理器
type Manager struct {
	config *Config
	now    func() time.Time
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	// ExpiresIn 访问令牌有效期（秒）
	ExpiresIn int64 `json:"expiresIn"`
}

// 预定义错误
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenWrongType = errors.New("wrong token type")
)

// NewManager 创建 JWT 管理器
func NewManager(config *Config) *Manager {
	return &Manager{config: config, now: time.Now}
}

// IssueTokenPair 签发访问令牌与刷新令牌
// 访问令牌携带用户名、邮箱和角色，刷新令牌只携带用户 ID
func (m *Manager) IssueTokenPair(id Identity) (*TokenPair, error) {
	access, err := m.sign(&Claims{
		Username: id.Username,
		Email:    id.Email,
		Roles:    id.Roles,
		Type:     TokenTypeAccess,
	}, id.ID, m.config.AccessExpireTime)
	if err != nil {
		return nil, err
	}

	refresh, err := m.sign(&Claims{Type: TokenTypeRefresh}, id.ID, m.config.RefreshExpireTime)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(m.config.AccessExpireTime / time.Second),
	}, nil
}

// sign 填充注册声明并签名
func (m *Manager) sign(claims *Claims, subject string, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    m.config.Issuer,
		Audience:  jwt.ClaimStrings{m.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Secret))
}

// Verify 校验签名、签发者、受众、有效期和令牌类型
func (m *Manager) Verify(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(m.config.Secret), nil
	},
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	if tokenType != "" && claims.Type != tokenType {
		return nil, ErrTokenWrongType
	}
	return claims, nil
}

// IsExpiringSoon 令牌剩余有效期是否不足 threshold
func (m *Manager) IsExpiringSoon(claims *Claims, threshold time.Duration) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Sub(m.now()) < threshold
}

// HasRole 判断身份是否具备指定角色
func HasRole(claims *Claims, role string) bool {
	if claims == nil {
		return false
	}
	for _, r := range claims.Roles {
		if r == role {
			return true
		}
	}
	return false
}
