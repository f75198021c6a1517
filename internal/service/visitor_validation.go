package service

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/constants"
	"github.com/iplanding-next/internal/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// 连续相同字母或数字达到该长度视为灌水内容
const repeatedRunLength = 5

var spamKeywords = []string{
	"click here",
	"buy now",
	"free money",
	"win now",
	"urgent",
	"limited time",
	"act now",
}

var botUserAgentMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"curl",
	"wget",
	"python-requests",
	"http",
	"monitor",
	"test",
	"scan",
}

// userAgentStripPattern 去掉 UA 中可用于注入的字符
var userAgentStripPattern = regexp.MustCompile(`[<>"';\\]`)

// IsValidIP 判断是否为合法的 IPv4/IPv6 地址
func IsValidIP(ip string) bool {
	return net.ParseIP(strings.TrimSpace(ip)) != nil
}

// IsLocalIP 判断是否为本机回环地址
func IsLocalIP(ip string) bool {
	trimmed := strings.TrimSpace(ip)
	if trimmed == "" {
		return false
	}
	if trimmed == "127.0.0.1" || trimmed == "::1" || strings.EqualFold(trimmed, "localhost") {
		return true
	}
	parsed := net.ParseIP(trimmed)
	return parsed != nil && parsed.IsLoopback()
}

// IsPrivateIP 判断是否为内网地址（含回环与链路本地）
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast()
}

// SanitizeUserAgent 清洗 User-Agent
// 规则：去掉注入字符，超长截断，空值回落为 Unknown。
func SanitizeUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return constants.UserAgentUnknown
	}
	cleaned := userAgentStripPattern.ReplaceAllString(raw, "")
	if cleaned == "" {
		return constants.UserAgentUnknown
	}
	if utf8.RuneCountInString(cleaned) > constants.UserAgentMaxLength {
		runes := []rune(cleaned)
		cleaned = string(runes[:constants.UserAgentMaxLength])
	}
	return cleaned
}

// DetectBotUserAgent 识别明显的爬虫/脚本 UA
func DetectBotUserAgent(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	lowered := strings.ToLower(userAgent)
	for _, marker := range botUserAgentMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// ValidateEmail 校验邮箱格式
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 255 {
		return false
	}
	return emailPattern.MatchString(email)
}

// ContainsSpam 判断文本是否命中垃圾关键词或灌水模式
func ContainsSpam(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range spamKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return hasRepeatedRun(lowered)
}

// hasRepeatedRun 检测连续相同的字母或数字（标点等其他字符会打断计数）
func hasRepeatedRun(lowered string) bool {
	var prev rune
	run := 0
	for _, r := range lowered {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			prev = 0
			run = 0
			continue
		}
		if r == prev {
			run++
			if run >= repeatedRunLength {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}

// StripControlChars 去掉除换行、回车和制表符外的控制字符
func StripControlChars(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			builder.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7F {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// CleanFormData 清洗表单字段（去首尾空白与控制字符）
func CleanFormData(data models.JSON) models.JSON {
	if data == nil {
		return nil
	}
	cleaned := make(models.JSON, len(data))
	for key, value := range data {
		if text, ok := value.(string); ok {
			cleaned[key] = StripControlChars(strings.TrimSpace(text))
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

// isNameAlpha 判断姓名在去掉空格、连字符、撇号和点之后是否全为字母
func isNameAlpha(name string) bool {
	stripped := strings.NewReplacer(" ", "", "-", "", "'", "", ".", "").Replace(name)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ContactFormInput 联系表单输入
type ContactFormInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactFormValidator 联系表单校验器
type ContactFormValidator struct {
	cfg config.FormConfig
}

// NewContactFormValidator 创建联系表单校验器
func NewContactFormValidator(cfg config.FormConfig) *ContactFormValidator {
	if cfg.MinNameLength <= 0 {
		cfg.MinNameLength = 2
	}
	if cfg.MaxNameLength <= 0 {
		cfg.MaxNameLength = 100
	}
	if cfg.MaxEmailLength <= 0 {
		cfg.MaxEmailLength = 255
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = 1000
	}
	return &ContactFormValidator{cfg: cfg}
}

// Validate 校验联系表单，返回清洗后的字段与全部错误信息
// 说明：留言字段可以为空，只做超长检查。
func (v *ContactFormValidator) Validate(input ContactFormInput) (models.JSON, []string) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	errs := []string{}

	if name == "" || utf8.RuneCountInString(name) < v.cfg.MinNameLength {
		errs = append(errs, fmt.Sprintf("Name must be at least %d characters long", v.cfg.MinNameLength))
	} else if utf8.RuneCountInString(name) > v.cfg.MaxNameLength {
		errs = append(errs, fmt.Sprintf("Name must be less than %d characters", v.cfg.MaxNameLength))
	} else if !isNameAlpha(name) {
		errs = append(errs, "Name contains invalid characters")
	}

	if email == "" {
		errs = append(errs, "Email address is required")
	} else if !ValidateEmail(email) {
		errs = append(errs, "Please provide a valid email address")
	} else if utf8.RuneCountInString(email) > v.cfg.MaxEmailLength {
		errs = append(errs, fmt.Sprintf("Email must be less than %d characters", v.cfg.MaxEmailLength))
	}

	if message != "" && utf8.RuneCountInString(message) > v.cfg.MaxMessageLength {
		errs = append(errs, fmt.Sprintf("Message must be less than %d characters", v.cfg.MaxMessageLength))
	}

	combined := name + " " + email + " " + message
	if ContainsSpam(combined) {
		errs = append(errs, "Message contains suspicious content")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return CleanFormData(models.JSON{
		"name":    name,
		"email":   email,
		"message": message,
	}), nil
}
