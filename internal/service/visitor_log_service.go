package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/constants"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/models"
	"github.com/iplanding-next/internal/repository"
)

// ErrRateLimited 单 IP 提交频率超限
var ErrRateLimited = errors.New("too many form submissions")

// ValidationError 表单校验失败，携带全部错误信息
type ValidationError struct {
	Messages []string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Messages, "; ")
}

// SubmitResult 表单提交结果
type SubmitResult struct {
	Payload     models.JSON `json:"submitted_data"`
	APIResponse models.JSON `json:"api_response"`
}

// VisitorLogService 访客日志服务
type VisitorLogService struct {
	repo      repository.VisitorLogRepository
	geo       *GeoIPService
	forward   *ForwardService
	validator *ContactFormValidator
	cfg       config.VisitorConfig
}

// NewVisitorLogService 创建访客日志服务
func NewVisitorLogService(
	repo repository.VisitorLogRepository,
	geo *GeoIPService,
	forward *ForwardService,
	validator *ContactFormValidator,
	cfg config.VisitorConfig,
) *VisitorLogService {
	if cfg.CooldownMinutes <= 0 {
		cfg.CooldownMinutes = 5
	}
	if cfg.MaxSubmissionsPerHour <= 0 {
		cfg.MaxSubmissionsPerHour = 10
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	if cfg.RefreshBatchSize <= 0 {
		cfg.RefreshBatchSize = 20
	}
	return &VisitorLogService{
		repo:      repo,
		geo:       geo,
		forward:   forward,
		validator: validator,
		cfg:       cfg,
	}
}

// RecordVisit 记录一次页面访问
// 约定：冷却窗口内的重复访问静默跳过；记录失败不影响调用方。
func (s *VisitorLogService) RecordVisit(ctx context.Context, ip, userAgent string) {
	if s == nil || s.repo == nil {
		return
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		logger.Warnw("visit_skipped_missing_ip")
		return
	}

	cooldown := time.Duration(s.cfg.CooldownMinutes) * time.Minute
	recent, err := s.repo.CountVisitsSince(ip, time.Now().Add(-cooldown))
	if err != nil {
		// 去重检查失败时放行，宁可多记一条
		logger.Warnw("visit_dedup_check_failed", "ip", ip, "error", err)
	} else if recent > 0 {
		return
	}

	log := &models.VisitorLog{
		IPAddress: ip,
		UserAgent: SanitizeUserAgent(userAgent),
		CreatedAt: time.Now(),
	}
	s.geo.Resolve(ctx, ip).ApplyTo(log)

	if err := s.repo.Create(log); err != nil {
		logger.Errorw("visit_persist_failed", "ip", ip, "error", err)
	}
}

// SubmitForm 处理联系表单提交
// 流程：限流检查、字段校验、地理解析、落库、外部转发。
// 落库失败只记日志，转发结果不论成败都透出给调用方。
func (s *VisitorLogService) SubmitForm(ctx context.Context, ip, userAgent string, input ContactFormInput) (*SubmitResult, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("visitor log service not configured")
	}
	ip = strings.TrimSpace(ip)

	if s.exceedsSubmissionQuota(ip) {
		return nil, ErrRateLimited
	}

	formData, validationErrs := s.validator.Validate(input)
	if len(validationErrs) > 0 {
		return nil, &ValidationError{Messages: validationErrs}
	}

	sanitizedUA := SanitizeUserAgent(userAgent)
	if DetectBotUserAgent(sanitizedUA) {
		formData[constants.FormFieldBotDetected] = true
	}

	log := &models.VisitorLog{
		IPAddress: ip,
		UserAgent: sanitizedUA,
		FormData:  formData,
		CreatedAt: time.Now(),
	}
	s.geo.Resolve(ctx, ip).ApplyTo(log)

	if err := s.repo.Create(log); err != nil {
		logger.Errorw("submission_persist_failed", "ip", ip, "error", err)
	}

	payload := models.JSON{
		"name":      formData["name"],
		"email":     formData["email"],
		"message":   formData["message"],
		"ip":        ip,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	apiResponse := s.forward.Forward(ctx, payload)

	return &SubmitResult{
		Payload:     payload,
		APIResponse: apiResponse,
	}, nil
}

// exceedsSubmissionQuota 检查小时级提交配额，检查失败时放行
func (s *VisitorLogService) exceedsSubmissionQuota(ip string) bool {
	if ip == "" {
		return false
	}
	count, err := s.repo.CountSubmissionsSince(ip, time.Now().Add(-time.Hour))
	if err != nil {
		logger.Warnw("submission_quota_check_failed", "ip", ip, "error", err)
		return false
	}
	return count >= int64(s.cfg.MaxSubmissionsPerHour)
}

// ListForAdmin 管理端查询访客日志
func (s *VisitorLogService) ListForAdmin(filter repository.VisitorLogListFilter) ([]models.VisitorLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.VisitorLog{}, 0, nil
	}
	return s.repo.List(filter)
}

// GetDetail 查询单条访客日志
func (s *VisitorLogService) GetDetail(id uint) (*models.VisitorLog, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, nil
	}
	return s.repo.GetByID(id)
}

// OverviewStats 访客总览统计
func (s *VisitorLogService) OverviewStats() (repository.VisitorOverviewRow, error) {
	if s == nil || s.repo == nil {
		return repository.VisitorOverviewRow{TopCountries: []repository.VisitorCountryCount{}}, nil
	}
	return s.repo.GetOverview()
}

// DailyStats 按天汇总统计
func (s *VisitorLogService) DailyStats(limit int) ([]repository.VisitorDailyStatRow, error) {
	if s == nil || s.repo == nil {
		return []repository.VisitorDailyStatRow{}, nil
	}
	return s.repo.GetDailyStats(limit)
}

// RefreshLocations 批量补全缺失的地理信息
// 返回扫描条数和实际更新条数。
func (s *VisitorLogService) RefreshLocations(ctx context.Context) (scanned, updated int, err error) {
	if s == nil || s.repo == nil {
		return 0, 0, nil
	}

	logs, err := s.repo.ListMissingLocation(s.cfg.RefreshBatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, log := range logs {
		scanned++
		if IsLocalIP(log.IPAddress) {
			continue
		}
		data := s.geo.Resolve(ctx, log.IPAddress)
		if data == nil {
			continue
		}
		fields := data.LocationColumns()
		if len(fields) == 0 {
			continue
		}
		if err := s.repo.UpdateLocation(log.ID, fields); err != nil {
			logger.Warnw("location_refresh_update_failed", "id", log.ID, "ip", log.IPAddress, "error", err)
			continue
		}
		updated++
	}

	logger.Infow("location_refresh_done", "scanned", scanned, "updated", updated)
	return scanned, updated, nil
}

// CleanupOldVisits 清理过期的普通访问记录
// 表单提交记录不在清理范围内。
func (s *VisitorLogService) CleanupOldVisits(ctx context.Context) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.repo.DeleteVisitsBefore(cutoff)
	if err != nil {
		return 0, err
	}
	logger.Infow("visit_cleanup_done", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	return deleted, nil
}
