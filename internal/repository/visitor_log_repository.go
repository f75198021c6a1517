package repository

import (
	"time"

	"github.com/iplanding-next/internal/models"

	"gorm.io/gorm"
)

// VisitorLogRepository 访客日志数据访问接口
type VisitorLogRepository interface {
	Create(log *models.VisitorLog) error
	CountVisitsSince(ip string, since time.Time) (int64, error)
	CountSubmissionsSince(ip string, since time.Time) (int64, error)
	List(filter VisitorLogListFilter) ([]models.VisitorLog, int64, error)
	GetByID(id uint) (*models.VisitorLog, error)
	ListMissingLocation(limit int) ([]models.VisitorLog, error)
	UpdateLocation(id uint, fields map[string]interface{}) error
	DeleteVisitsBefore(cutoff time.Time) (int64, error)
	GetOverview() (VisitorOverviewRow, error)
	GetDailyStats(limit int) ([]VisitorDailyStatRow, error)
}

// GormVisitorLogRepository GORM 实现
type GormVisitorLogRepository struct {
	db *gorm.DB
}

// NewVisitorLogRepository 创建访客日志仓库
func NewVisitorLogRepository(db *gorm.DB) *GormVisitorLogRepository {
	return &GormVisitorLogRepository{db: db}
}

// Create 创建访客日志
func (r *GormVisitorLogRepository) Create(log *models.VisitorLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// CountVisitsSince 统计某 IP 在给定时间之后的普通访问记录数
func (r *GormVisitorLogRepository) CountVisitsSince(ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.VisitorLog{}).
		Where("ip_address = ? AND created_at > ? AND form_data IS NULL", ip, since).
		Count(&count).Error
	return count, err
}

// CountSubmissionsSince 统计某 IP 在给定时间之后的表单提交记录数
func (r *GormVisitorLogRepository) CountSubmissionsSince(ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.VisitorLog{}).
		Where("ip_address = ? AND created_at > ? AND form_data IS NOT NULL", ip, since).
		Count(&count).Error
	return count, err
}

// List 查询访客日志列表
func (r *GormVisitorLogRepository) List(filter VisitorLogListFilter) ([]models.VisitorLog, int64, error) {
	query := r.db.Model(&models.VisitorLog{})
	if filter.IPAddress != "" {
		query = query.Where("ip_address = ?", filter.IPAddress)
	}
	if filter.OnlyLocated {
		query = query.Where("city IS NOT NULL AND country IS NOT NULL")
	}
	if filter.HasForm != nil {
		if *filter.HasForm {
			query = query.Where("form_data IS NOT NULL")
		} else {
			query = query.Where("form_data IS NULL")
		}
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var logs []models.VisitorLog
	if err := query.Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// GetByID 根据主键查询访客日志
func (r *GormVisitorLogRepository) GetByID(id uint) (*models.VisitorLog, error) {
	var log models.VisitorLog
	err := r.db.First(&log, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// ListMissingLocation 查询缺少地理信息的记录（排除本地地址）
func (r *GormVisitorLogRepository) ListMissingLocation(limit int) ([]models.VisitorLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.VisitorLog
	err := r.db.Model(&models.VisitorLog{}).
		Where("(country IS NULL OR country = '') AND ip_address <> ?", "127.0.0.1").
		Order("id").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// UpdateLocation 仅更新地理字段
// 说明：ip_address、user_agent、form_data 与 created_at 不在可更新范围内。
func (r *GormVisitorLogRepository) UpdateLocation(id uint, fields map[string]interface{}) error {
	if id == 0 || len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.VisitorLog{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeleteVisitsBefore 删除早于给定时间的普通访问记录
// 说明：表单提交记录永不删除。
func (r *GormVisitorLogRepository) DeleteVisitsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ? AND form_data IS NULL", cutoff).
		Delete(&models.VisitorLog{})
	return result.RowsAffected, result.Error
}

// GetOverview 获取访客总览统计
func (r *GormVisitorLogRepository) GetOverview() (VisitorOverviewRow, error) {
	result := VisitorOverviewRow{TopCountries: []VisitorCountryCount{}}

	if err := r.db.Model(&models.VisitorLog{}).Count(&result.TotalVisitors).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.VisitorLog{}).
		Distinct("ip_address").
		Count(&result.UniqueVisitors).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.VisitorLog{}).
		Where("form_data IS NOT NULL").
		Count(&result.FormSubmissions).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.VisitorLog{}).
		Select("country AS country, COUNT(*) AS count").
		Where("country IS NOT NULL").
		Group("country").
		Order("count DESC").
		Limit(5).
		Scan(&result.TopCountries).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetDailyStats 按天汇总访客统计
func (r *GormVisitorLogRepository) GetDailyStats(limit int) ([]VisitorDailyStatRow, error) {
	if limit <= 0 {
		limit = 30
	}
	rows := []VisitorDailyStatRow{}
	err := r.db.Model(&models.VisitorLog{}).
		Select(
			"date(created_at) AS date, " +
				"COUNT(*) AS total_visits, " +
				"COUNT(DISTINCT ip_address) AS unique_visitors, " +
				"SUM(CASE WHEN form_data IS NOT NULL THEN 1 ELSE 0 END) AS form_submissions, " +
				"SUM(CASE WHEN country IS NOT NULL AND country <> '' THEN 1 ELSE 0 END) AS with_location",
		).
		Group("date(created_at)").
		Order("date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
