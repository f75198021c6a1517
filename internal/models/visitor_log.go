package models

import "time"

// VisitorLog 访客日志
// 说明：首页访问与表单提交各记一行；form_data 为空表示普通访问，
// 非空表示表单提交。地理字段在解析失败时保持为空，可由补全任务回填。
type VisitorLog struct {
	ID        uint   `gorm:"primarykey" json:"id"`                           // 主键
	IPAddress string `gorm:"type:varchar(45);not null;index" json:"ip_address"` // 客户端IP

	Country         *string  `gorm:"type:varchar(100)" json:"country"`           // 国家名称
	CountryCode     *string  `gorm:"type:varchar(5)" json:"country_code"`        // 国家代码
	City            *string  `gorm:"type:varchar(100)" json:"city"`              // 城市
	Region          *string  `gorm:"type:varchar(100)" json:"region"`            // 地区
	PostalCode      *string  `gorm:"type:varchar(20)" json:"postal_code"`        // 邮编
	Latitude        *float64 `json:"latitude"`                                   // 纬度
	Longitude       *float64 `json:"longitude"`                                  // 经度
	Timezone        *string  `gorm:"type:varchar(50)" json:"timezone"`           // 时区
	CallingCode     *string  `gorm:"type:varchar(10)" json:"calling_code"`       // 国际区号
	Currency        *string  `gorm:"type:varchar(5)" json:"currency"`            // 货币代码
	Languages       *string  `gorm:"type:text" json:"languages"`                 // 语言列表
	ASN             *string  `gorm:"type:varchar(20)" json:"asn"`                // 自治系统号
	Org             *string  `gorm:"type:text" json:"org"`                       // 运营商/组织
	Network         *string  `gorm:"type:varchar(100)" json:"network"`           // 网段
	Version         *string  `gorm:"type:varchar(10)" json:"version"`            // IPv4/IPv6
	CountryCodeISO3 *string  `gorm:"type:varchar(3)" json:"country_code_iso3"`   // ISO3 国家代码
	CountryCapital  *string  `gorm:"type:varchar(100)" json:"country_capital"`   // 首都
	CountryTLD      *string  `gorm:"type:varchar(10)" json:"country_tld"`        // 顶级域名
	ContinentCode   *string  `gorm:"type:varchar(2)" json:"continent_code"`      // 大洲代码
	InEU            *bool    `json:"in_eu"`                                      // 是否欧盟
	UTCOffset       *string  `gorm:"type:varchar(10)" json:"utc_offset"`         // UTC 偏移
	CurrencyName    *string  `gorm:"type:varchar(50)" json:"currency_name"`      // 货币名称
	CountryArea     *int64   `json:"country_area"`                               // 国土面积
	CountryPopulation *int64 `json:"country_population"`                         // 人口
	Hostname        *string  `gorm:"type:varchar(255)" json:"hostname"`          // 反查主机名

	UserAgent string    `gorm:"type:text;not null" json:"user_agent"` // 客户端UA（已净化）
	FormData  JSON      `gorm:"type:json" json:"form_data"`           // 表单数据（访问记录为空）
	CreatedAt time.Time `gorm:"index" json:"created_at"`              // 记录时间，创建后不变
}

// TableName 指定表名
func (VisitorLog) TableName() string {
	return "visitor_logs"
}

// IsSubmission 判断是否为表单提交记录
func (v *VisitorLog) IsSubmission() bool {
	return v != nil && v.FormData != nil
}

// HasLocation 判断是否已有地理信息
func (v *VisitorLog) HasLocation() bool {
	return v != nil && v.Country != nil && *v.Country != ""
}
