package public

import (
	"net/http"
	"time"

	"github.com/iplanding-next/internal/models"

	"github.com/gin-gonic/gin"
)

const robotsBody = `User-agent: *
Disallow: /admin/
Disallow: /api/
Allow: /
`

// RobotsTxt 返回爬虫访问策略
func (h *Handler) RobotsTxt(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(robotsBody))
}

// HealthCheck 健康检查
// 数据库不可用视为整体不健康返回 503，外部依赖只降级不拦截。
func (h *Handler) HealthCheck(c *gin.Context) {
	checks := gin.H{}
	status := "healthy"

	var totalLogs int64
	if err := models.DB.Model(&models.VisitorLog{}).Count(&totalLogs).Error; err != nil {
		status = "unhealthy"
		checks["database"] = gin.H{"status": "unhealthy", "error": err.Error()}
	} else {
		checks["database"] = gin.H{"status": "healthy", "total_logs": totalLogs}
	}

	if err := h.ForwardService.Ping(c.Request.Context()); err != nil {
		checks["external_api"] = gin.H{"status": "unhealthy", "error": err.Error()}
	} else {
		checks["external_api"] = gin.H{"status": "healthy"}
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}
