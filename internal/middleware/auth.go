// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/jwt"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
)

// RevocationChecker 判断令牌是否已注销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTManager *jwt.Manager
	// Blacklist 为空时不检查注销
	Blacklist RevocationChecker
}

// 上下文键
const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "claims"
	ContextKeyToken  = "token"
)

// Auth 认证中间件，要求 Bearer 访问令牌
func Auth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortWithAppError(c, errors.ErrTokenMissing)
			return
		}

		claims, err := config.authenticate(c.Request.Context(), token)
		if err != nil {
			response.AbortWithAppError(c, err)
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件，令牌无效时以匿名身份继续
func OptionalAuth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			claims, err := config.authenticate(c.Request.Context(), token)
			if err != nil {
				logger.Warn("可选认证失败，按匿名用户处理",
					logger.Path(c.Request.URL.Path),
					zap.String("reason", err.Message),
				)
			} else {
				setIdentity(c, token, claims)
			}
		}
		c.Next()
	}
}

// AdminAuth 管理员权限检查，需在 Auth 之后使用
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortWithAppError(c, errors.ErrUnauthorized)
			return
		}
		if !jwt.HasRole(claims, jwt.RoleAdmin) {
			response.AbortWithAppError(c, errors.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}

func (config *AuthConfig) authenticate(ctx context.Context, token string) (*jwt.Claims, *errors.AppError) {
	claims, err := config.JWTManager.Verify(token, jwt.TokenTypeAccess)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrTokenInvalid
	}
	if config.Blacklist != nil {
		revoked, err := config.Blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Error("检查令牌黑名单失败", zap.Error(err))
		}
		if revoked {
			return nil, errors.ErrTokenInvalid
		}
	}
	return claims, nil
}

func setIdentity(c *gin.Context, token string, claims *jwt.Claims) {
	c.Set(ContextKeyUserID, claims.UserID())
	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyToken, token)
}

// extractToken 从 Authorization 头提取 Bearer 令牌
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetUserID 从上下文获取用户 ID，未登录返回空字符串
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetClaims 从上下文获取完整的 Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	v, _ := claims.(*jwt.Claims)
	return v
}

// IsAdmin 当前身份是否为管理员
func IsAdmin(c *gin.Context) bool {
	return jwt.HasRole(GetClaims(c), jwt.RoleAdmin)
}

// IsLoggedIn 判断是否已登录
func IsLoggedIn(c *gin.Context) bool {
	return GetUserID(c) != ""
}
