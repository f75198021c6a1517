package public

import (
	"errors"

	"github.com/iplanding-next/internal/http/handlers/shared"
	"github.com/iplanding-next/internal/http/response"
	"github.com/iplanding-next/internal/models"
	"github.com/iplanding-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordVisit 记录一次页面访问
// 重复访问在冷却窗口内会被静默跳过，对调用方始终返回成功。
func (h *Handler) RecordVisit(c *gin.Context) {
	ip := shared.ExtractClientIP(c)
	userAgent := c.GetHeader("User-Agent")

	h.VisitorLogService.RecordVisit(c.Request.Context(), ip, userAgent)
	response.Success(c, gin.H{"recorded": true})
}

// SubmitContactForm 提交联系表单
func (h *Handler) SubmitContactForm(c *gin.Context) {
	var input service.ContactFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	ip := shared.ExtractClientIP(c)
	userAgent := c.GetHeader("User-Agent")

	result, err := h.VisitorLogService.SubmitForm(c.Request.Context(), ip, userAgent, input)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			response.Error(c, response.CodeTooManyRequests, "Too many form submissions. Please try again later.")
			return
		}
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			response.ErrorWithData(c, response.CodeBadRequest, "validation failed", gin.H{
				"errors": validationErr.Messages,
			})
			return
		}
		shared.RespondError(c, response.CodeInternal, "form submission failed", err)
		return
	}

	response.SuccessWithMsg(c, "Form submitted successfully!", result)
}

// RelayPayload 透传任意负载到外部接口
func (h *Handler) RelayPayload(c *gin.Context) {
	var payload models.JSON
	if err := c.ShouldBindJSON(&payload); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if len(payload) == 0 {
		response.BadRequest(c, "No data provided")
		return
	}

	data, err := h.ForwardService.Relay(c.Request.Context(), payload)
	if err != nil {
		shared.RespondError(c, response.CodeBadGateway, err.Error(), nil)
		return
	}
	response.Success(c, data)
}

// GetConfig 返回前台可见的公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	cfg := h.Config
	response.Success(c, gin.H{
		"form": gin.H{
			"min_name_length":    cfg.Form.MinNameLength,
			"max_name_length":    cfg.Form.MaxNameLength,
			"max_email_length":   cfg.Form.MaxEmailLength,
			"max_message_length": cfg.Form.MaxMessageLength,
		},
		"visitor": gin.H{
			"max_form_submissions_per_hour": cfg.Visitor.MaxSubmissionsPerHour,
		},
	})
}
