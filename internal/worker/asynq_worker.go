package worker

import (
	"context"
	"encoding/json"

	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/provider"
	"github.com/iplanding-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVisitorCleanup, c.handleVisitorCleanup)
	mux.HandleFunc(queue.TaskLocationRefresh, c.handleLocationRefresh)
}

func (c *Consumer) handleVisitorCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_visitor_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VisitorCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_visitor_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if c.VisitorLogService == nil {
		logger.Warnw("worker_visitor_cleanup_skip_service_nil")
		return nil
	}
	deleted, err := c.VisitorLogService.CleanupOldVisits(ctx)
	if err != nil {
		logger.Warnw("worker_visitor_cleanup_failed", "reason", payload.Reason, "error", err)
		return err
	}
	logger.Infow("worker_visitor_cleanup_done", "reason", payload.Reason, "deleted", deleted)
	return nil
}

func (c *Consumer) handleLocationRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_location_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LocationRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_location_refresh_unmarshal_failed", "error", err)
		return err
	}
	if c.VisitorLogService == nil {
		logger.Warnw("worker_location_refresh_skip_service_nil")
		return nil
	}
	scanned, updated, err := c.VisitorLogService.RefreshLocations(ctx)
	if err != nil {
		logger.Warnw("worker_location_refresh_failed", "reason", payload.Reason, "error", err)
		return err
	}
	logger.Infow("worker_location_refresh_done", "reason", payload.Reason, "scanned", scanned, "updated", updated)
	return nil
}
