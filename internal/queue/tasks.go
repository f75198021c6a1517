package queue

import (
	"encoding/json"

	"github.com/iplanding-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVisitorCleanup 过期访问记录清理任务
	TaskVisitorCleanup = constants.TaskVisitorCleanup
	// TaskLocationRefresh 地理信息补全任务
	TaskLocationRefresh = constants.TaskLocationRefresh
)

// VisitorCleanupPayload 清理任务载荷
type VisitorCleanupPayload struct {
	Reason string `json:"reason,omitempty"`
}

// LocationRefreshPayload 地理信息补全任务载荷
type LocationRefreshPayload struct {
	Reason string `json:"reason,omitempty"`
}

// NewVisitorCleanupTask 创建清理任务
func NewVisitorCleanupTask(payload VisitorCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVisitorCleanup, body), nil
}

// NewLocationRefreshTask 创建地理信息补全任务
func NewLocationRefreshTask(payload LocationRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLocationRefresh, body), nil
}
