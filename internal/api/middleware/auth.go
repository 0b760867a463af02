package middleware

import (
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/redis"
	"Courier/internal/pkg/response"
	"Courier/internal/pkg/security"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

// AuthMiddleware 验证 JWT 并注入账号身份；rdb 为 nil 时不检查吊销列表
func AuthMiddleware(rdb redisv9.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := redis.Exists(c.Request.Context(), rdb, consts.TokenRevokedKey+signature)
			if err != nil {
				log.ErrorContext(c.Request.Context(), "token revocation lookup failed", "err", err)
				response.Fail(c, response.ServiceUnavailable, "服务繁忙，请稍后重试")
				c.Abort()
				return
			}
			if revoked {
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
				c.Abort()
				return
			}
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RolesKey, claims.Roles)

		c.Next()
	}
}
