package middleware

import (
	"Courier/internal/pkg/consts"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// CommonMiddleware 确定分页链接的前缀；配置了 base_url 时以配置为准
func CommonMiddleware(baseURL string) gin.HandlerFunc {
	baseURL = strings.TrimRight(baseURL, "/")
	return func(c *gin.Context) {
		origin := baseURL
		if origin == "" {
			scheme := "http"
			if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
				scheme = "https"
			}
			origin = fmt.Sprintf("%s://%s", scheme, c.Request.Host)
		}

		c.Set(consts.BaseURL, origin)
		c.Next()
	}
}

// PagePath 当前请求的分页链接路径，不含查询串
func PagePath(c *gin.Context) string {
	return c.GetString(consts.BaseURL) + c.Request.URL.Path
}
