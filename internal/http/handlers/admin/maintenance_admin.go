package admin

import (
	"github.com/iplanding-next/internal/http/response"
	"github.com/iplanding-next/internal/queue"

	"github.com/gin-gonic/gin"
)

// RefreshLocations 触发地理信息补全
// 队列可用时异步执行，否则同步跑一批。
func (h *Handler) RefreshLocations(c *gin.Context) {
	if h.QueueClient.Enabled() {
		err := h.QueueClient.EnqueueLocationRefresh(queue.LocationRefreshPayload{Reason: "admin"})
		if err != nil {
			respondError(c, response.CodeInternal, "failed to enqueue location refresh", err)
			return
		}
		response.SuccessWithMsg(c, "location refresh enqueued", gin.H{"async": true})
		return
	}

	scanned, updated, err := h.VisitorLogService.RefreshLocations(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "location refresh failed", err)
		return
	}
	response.Success(c, gin.H{
		"async":   false,
		"scanned": scanned,
		"updated": updated,
	})
}

// CleanupOldVisits 触发过期访问记录清理
func (h *Handler) CleanupOldVisits(c *gin.Context) {
	if h.QueueClient.Enabled() {
		err := h.QueueClient.EnqueueVisitorCleanup(queue.VisitorCleanupPayload{Reason: "admin"})
		if err != nil {
			respondError(c, response.CodeInternal, "failed to enqueue cleanup", err)
			return
		}
		response.SuccessWithMsg(c, "cleanup enqueued", gin.H{"async": true})
		return
	}

	deleted, err := h.VisitorLogService.CleanupOldVisits(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "cleanup failed", err)
		return
	}
	response.Success(c, gin.H{
		"async":   false,
		"deleted": deleted,
	})
}
