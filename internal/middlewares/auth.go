package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/services"
	"github.com/yusurko/freak/middleware/jwt"
)

const viewerKey = "viewer"

// AuthMiddleware JWT 认证中间件，解析出的身份以 Viewer 形式
// 挂到 context。required 为 false 时允许匿名通过
func AuthMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			if required {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "未提供认证 Token"})
				c.Abort()
				return
			}
			c.Set(viewerKey, services.AnonymousViewer())
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set(viewerKey, services.NewViewer(claims.UserID, claims.Username, claims.IsAdmin))
		c.Next()
	}
}

// GetViewer 从 gin context 取出当前 Viewer；未经过认证中间件时按匿名处理
func GetViewer(c *gin.Context) *services.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(*services.Viewer); ok {
			return viewer
		}
	}
	return services.AnonymousViewer()
}
