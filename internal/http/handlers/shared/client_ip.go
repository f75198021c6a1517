package shared

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP 解析请求来源 IP
// 顺序：X-Forwarded-For 首项、X-Real-IP、连接地址。
func ExtractClientIP(c *gin.Context) string {
	forwardedFor := c.GetHeader("X-Forwarded-For")
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	realIP := strings.TrimSpace(c.GetHeader("X-Real-IP"))
	if realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
