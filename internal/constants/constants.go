package constants

// 队列名称
const (
	QueueDefault = "default"
)

// 异步任务类型
const (
	TaskVisitorCleanup  = "visitor:cleanup"
	TaskLocationRefresh = "visitor:location_refresh"
)

// 本地地址的地理信息占位值
const (
	LocalCountryName = "Local"
	LocalCountryCode = "LOCAL"
	LocalCity        = "Localhost"
	LocalHostname    = "localhost"
)

// UserAgentUnknown 空 UA 的落库占位值
const UserAgentUnknown = "Unknown"

// UserAgentMaxLength UA 截断长度
const UserAgentMaxLength = 500

// 表单数据附加字段
const (
	FormFieldBotDetected = "bot_detected"
)

// 分页上限
const (
	MaxPageSize     = 100
	DefaultPageSize = 50
)
