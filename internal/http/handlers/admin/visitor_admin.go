package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/iplanding-next/internal/http/handlers/shared"
	"github.com/iplanding-next/internal/http/response"
	"github.com/iplanding-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetVisitors 获取访客日志列表
// 默认只返回解析出城市与国家的记录，only_located=false 可放开。
func (h *Handler) GetVisitors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	ipAddress := strings.TrimSpace(c.Query("ip_address"))
	onlyLocated := c.DefaultQuery("only_located", "true") != "false"

	var hasForm *bool
	if raw := strings.TrimSpace(c.Query("has_form")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid has_form value", err)
			return
		}
		hasForm = &value
	}

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_from value", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_to value", err)
		return
	}

	logs, total, err := h.VisitorLogService.ListForAdmin(repository.VisitorLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		IPAddress:   ipAddress,
		OnlyLocated: onlyLocated,
		HasForm:     hasForm,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch visitor logs", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, logs, pagination)
}

// GetVisitorDetail 获取单条访客日志
func (h *Handler) GetVisitorDetail(c *gin.Context) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || raw == 0 {
		response.BadRequest(c, "invalid visitor id")
		return
	}

	log, err := h.VisitorLogService.GetDetail(uint(raw))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch visitor log", err)
		return
	}
	if log == nil {
		response.NotFound(c, "visitor log not found")
		return
	}
	response.Success(c, log)
}

// GetStats 获取访客总览统计
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.VisitorLogService.OverviewStats()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch visitor stats", err)
		return
	}
	response.Success(c, stats)
}

// GetDailyStats 获取按天汇总统计
func (h *Handler) GetDailyStats(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	stats, err := h.VisitorLogService.DailyStats(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch daily stats", err)
		return
	}
	response.Success(c, gin.H{"daily_stats": stats})
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
