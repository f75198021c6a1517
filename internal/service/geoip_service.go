package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iplanding-next/internal/cache"
	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/constants"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/models"
)

// LocationData 地理位置查询结果（字段与上游 JSON 对齐）
type LocationData struct {
	IP                 string   `json:"ip,omitempty"`
	Version            string   `json:"version,omitempty"`
	City               string   `json:"city,omitempty"`
	Region             string   `json:"region,omitempty"`
	RegionCode         string   `json:"region_code,omitempty"`
	CountryName        string   `json:"country_name,omitempty"`
	CountryCode        string   `json:"country_code,omitempty"`
	CountryCodeISO3    string   `json:"country_code_iso3,omitempty"`
	CountryCapital     string   `json:"country_capital,omitempty"`
	CountryTLD         string   `json:"country_tld,omitempty"`
	ContinentCode      string   `json:"continent_code,omitempty"`
	InEU               *bool    `json:"in_eu,omitempty"`
	Postal             string   `json:"postal,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	Timezone           string   `json:"timezone,omitempty"`
	UTCOffset          string   `json:"utc_offset,omitempty"`
	CountryCallingCode string   `json:"country_calling_code,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	CurrencyName       string   `json:"currency_name,omitempty"`
	Languages          string   `json:"languages,omitempty"`
	CountryArea        *float64 `json:"country_area,omitempty"`
	CountryPopulation  *float64 `json:"country_population,omitempty"`
	ASN                string   `json:"asn,omitempty"`
	Org                string   `json:"org,omitempty"`
	Network            string   `json:"network,omitempty"`
	Hostname           string   `json:"hostname,omitempty"`

	// 上游错误响应字段
	Error  bool   `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// GeoIPService IP 地理位置解析服务
type GeoIPService struct {
	cfg        config.GeoConfig
	httpClient *http.Client
}

// NewGeoIPService 创建地理位置解析服务
func NewGeoIPService(cfg config.GeoConfig) *GeoIPService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GeoIPService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Resolve 解析 IP 的地理位置
// 约定：任何失败都返回 nil 而非错误，调用方按无位置信息继续。
func (s *GeoIPService) Resolve(ctx context.Context, ip string) *LocationData {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(ip)
	if trimmed == "" || IsLocalIP(trimmed) {
		return localLocationData()
	}

	cacheKey := "geo:" + trimmed
	var cached LocationData
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached
	} else if err != nil {
		logger.Warnw("geo_cache_read_failed", "ip", trimmed, "error", err)
	}

	data := s.query(ctx, trimmed)
	if data == nil {
		return nil
	}

	ttl := time.Duration(s.cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := cache.SetJSON(ctx, cacheKey, data, ttl); err != nil {
		logger.Warnw("geo_cache_write_failed", "ip", trimmed, "error", err)
	}
	return data
}

func (s *GeoIPService) query(ctx context.Context, ip string) *LocationData {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.APIURL), "/")
	if base == "" {
		base = "https://ipapi.co"
	}
	url := fmt.Sprintf("%s/%s/json/", base, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Warnw("geo_request_build_failed", "ip", ip, "error", err)
		return nil
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warnw("geo_request_failed", "ip", ip, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		logger.Warnw("geo_rate_limited", "ip", ip)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warnw("geo_unexpected_status", "ip", ip, "status", resp.StatusCode)
		return nil
	}

	var data LocationData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Warnw("geo_decode_failed", "ip", ip, "error", err)
		return nil
	}
	if data.Error {
		logger.Warnw("geo_api_error", "ip", ip, "reason", data.Reason)
		return nil
	}
	return &data
}

// localLocationData 本机访问使用的占位位置信息
func localLocationData() *LocationData {
	zero := 0.0
	return &LocationData{
		CountryName: constants.LocalCountryName,
		CountryCode: constants.LocalCountryCode,
		City:        constants.LocalCity,
		Region:      constants.LocalCountryName,
		Postal:      "00000",
		Latitude:    &zero,
		Longitude:   &zero,
		Timezone:    "UTC",
		Currency:    "USD",
		Languages:   "en",
		Org:         "Local Network",
		ASN:         "AS0000",
		Hostname:    constants.LocalHostname,
	}
}

// ApplyTo 将位置信息写入访客日志模型
func (d *LocationData) ApplyTo(log *models.VisitorLog) {
	if d == nil || log == nil {
		return
	}
	log.Country = optionalString(d.CountryName)
	log.CountryCode = optionalString(d.CountryCode)
	log.City = optionalString(d.City)
	log.Region = optionalString(d.Region)
	log.PostalCode = optionalString(d.Postal)
	log.Latitude = d.Latitude
	log.Longitude = d.Longitude
	log.Timezone = optionalString(d.Timezone)
	log.CallingCode = optionalString(d.CountryCallingCode)
	log.Currency = optionalString(d.Currency)
	log.Languages = optionalString(d.Languages)
	log.ASN = optionalString(d.ASN)
	log.Org = optionalString(d.Org)
	log.Network = optionalString(d.Network)
	log.Version = optionalString(d.Version)
	log.CountryCodeISO3 = optionalString(d.CountryCodeISO3)
	log.CountryCapital = optionalString(d.CountryCapital)
	log.CountryTLD = optionalString(d.CountryTLD)
	log.ContinentCode = optionalString(d.ContinentCode)
	log.InEU = d.InEU
	log.UTCOffset = optionalString(d.UTCOffset)
	log.CurrencyName = optionalString(d.CurrencyName)
	log.CountryArea = optionalInt64(d.CountryArea)
	log.CountryPopulation = optionalInt64(d.CountryPopulation)
	log.Hostname = optionalString(d.Hostname)
}

// LocationColumns 转换为地理字段更新集合
func (d *LocationData) LocationColumns() map[string]interface{} {
	if d == nil {
		return nil
	}
	fields := map[string]interface{}{}
	putString := func(column, value string) {
		if strings.TrimSpace(value) != "" {
			fields[column] = value
		}
	}
	putString("country", d.CountryName)
	putString("country_code", d.CountryCode)
	putString("city", d.City)
	putString("region", d.Region)
	putString("postal_code", d.Postal)
	if d.Latitude != nil {
		fields["latitude"] = *d.Latitude
	}
	if d.Longitude != nil {
		fields["longitude"] = *d.Longitude
	}
	putString("timezone", d.Timezone)
	putString("calling_code", d.CountryCallingCode)
	putString("currency", d.Currency)
	putString("languages", d.Languages)
	putString("asn", d.ASN)
	putString("org", d.Org)
	putString("network", d.Network)
	putString("version", d.Version)
	putString("country_code_iso3", d.CountryCodeISO3)
	putString("country_capital", d.CountryCapital)
	putString("country_tld", d.CountryTLD)
	putString("continent_code", d.ContinentCode)
	if d.InEU != nil {
		fields["in_eu"] = *d.InEU
	}
	putString("utc_offset", d.UTCOffset)
	putString("currency_name", d.CurrencyName)
	if d.CountryArea != nil {
		fields["country_area"] = int64(*d.CountryArea)
	}
	if d.CountryPopulation != nil {
		fields["country_population"] = int64(*d.CountryPopulation)
	}
	putString("hostname", d.Hostname)
	return fields
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalInt64(value *float64) *int64 {
	if value == nil {
		return nil
	}
	converted := int64(*value)
	return &converted
}
