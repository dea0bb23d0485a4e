package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"magicResume/internal/auth"
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AuthMiddleware 校验访问令牌。authService 为 nil 表示未启用登录，请求直接放行。
func AuthMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		if _, err := authService.ValidateToken(parts[1]); err != nil {
			abortUnauthorized(c)
			return
		}

		c.Next()
	}
}
