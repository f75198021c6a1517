package repository

import "time"

// VisitorLogListFilter 查询访客日志列表的过滤条件
type VisitorLogListFilter struct {
	Page        int
	PageSize    int
	IPAddress   string
	OnlyLocated bool  // 仅返回已解析出城市与国家的记录
	HasForm     *bool // true 仅提交记录 / false 仅访问记录
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// VisitorCountryCount 国家访问量统计行
type VisitorCountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// VisitorOverviewRow 访客总览统计
type VisitorOverviewRow struct {
	TotalVisitors   int64                 `json:"total_visitors"`
	UniqueVisitors  int64                 `json:"unique_visitors"`
	FormSubmissions int64                 `json:"form_submissions"`
	TopCountries    []VisitorCountryCount `json:"top_countries"`
}

// VisitorDailyStatRow 按天汇总统计行
type VisitorDailyStatRow struct {
	Date            string `json:"date"`
	TotalVisits     int64  `json:"total_visits"`
	UniqueVisitors  int64  `json:"unique_visitors"`
	FormSubmissions int64  `json:"form_submissions"`
	WithLocation    int64  `json:"with_location"`
}
