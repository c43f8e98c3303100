package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/response"
)

// SelfOrAdmin 路径参数中的用户必须是当前用户，管理员不受限制
func SelfOrAdmin(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			response.AbortWithAppError(c, errors.ErrUnauthorized)
			return
		}
		if c.Param(paramName) != userID && !IsAdmin(c) {
			response.AbortWithAppError(c, errors.ErrForbidden)
			return
		}
		c.Next()
	}
}
