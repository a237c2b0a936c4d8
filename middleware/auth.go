package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"moviecms/config"
)

// AdminAuth 管理接口鉴权：校验Bearer令牌
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := config.AppConfig.AdminToken
		if token == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code": 503,
				"msg":  "管理令牌未配置",
				"data": nil,
			})
			c.Abort()
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未授权",
				"data": nil,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
