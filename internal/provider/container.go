package provider

import (
	"github.com/iplanding-next/internal/cache"
	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/models"
	"github.com/iplanding-next/internal/queue"
	"github.com/iplanding-next/internal/repository"
	"github.com/iplanding-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	VisitorLogRepo repository.VisitorLogRepository

	// Services
	AuthService       *service.AuthService
	GeoIPService      *service.GeoIPService
	ForwardService    *service.ForwardService
	VisitorLogService *service.VisitorLogService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.VisitorLogRepo = repository.NewVisitorLogRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.GeoIPService = service.NewGeoIPService(cfg.Geo)
	c.ForwardService = service.NewForwardService(cfg.Forward)
	c.VisitorLogService = service.NewVisitorLogService(
		c.VisitorLogRepo,
		c.GeoIPService,
		c.ForwardService,
		service.NewContactFormValidator(cfg.Form),
		cfg.Visitor,
	)
}
