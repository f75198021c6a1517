package worker

import (
	"context"
	"errors"
	"time"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer

	cleanupInterval time.Duration
	refreshInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	cleanupInterval := time.Duration(cfg.Visitor.CleanupIntervalHours) * time.Hour
	if cleanupInterval <= 0 {
		cleanupInterval = 24 * time.Hour
	}
	refreshInterval := time.Duration(cfg.Visitor.RefreshIntervalMinutes) * time.Minute
	if refreshInterval <= 0 {
		refreshInterval = time.Hour
	}

	return &Service{
		name:            "worker",
		server:          server,
		mux:             mux,
		consumer:        consumer,
		cleanupInterval: cleanupInterval,
		refreshInterval: refreshInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.VisitorLogService != nil {
		go s.runCleanupLoop(ctx)
		go s.runLocationRefreshLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runCleanupLoop(ctx context.Context) {
	runOnce := func() {
		if _, err := s.consumer.VisitorLogService.CleanupOldVisits(ctx); err != nil {
			logger.Warnw("worker_periodic_cleanup_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) runLocationRefreshLoop(ctx context.Context) {
	runOnce := func() {
		if _, _, err := s.consumer.VisitorLogService.RefreshLocations(ctx); err != nil {
			logger.Warnw("worker_periodic_location_refresh_failed", "error", err)
		}
	}

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
