package router

import (
	"fmt"
	"strings"

	"github.com/iplanding-next/internal/cache"
	"github.com/iplanding-next/internal/config"
	adminhandlers "github.com/iplanding-next/internal/http/handlers/admin"
	publichandlers "github.com/iplanding-next/internal/http/handlers/public"
	"github.com/iplanding-next/internal/http/response"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ipl"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "Too many login attempts. Please try again later.",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SecurityHeadersMiddleware())

	// 运维入口
	r.GET("/health", publicHandler.HealthCheck)
	r.GET("/robots.txt", publicHandler.RobotsTxt)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.POST("/visits", publicHandler.RecordVisit)
			public.POST("/contact", publicHandler.SubmitContactForm)
			public.POST("/relay", publicHandler.RelayPayload)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)

			// 需鉴权的管理接口
			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authed.GET("/visitors", adminHandler.GetVisitors)
				authed.GET("/visitors/:id", adminHandler.GetVisitorDetail)
				authed.GET("/stats", adminHandler.GetStats)
				authed.GET("/stats/daily", adminHandler.GetDailyStats)
				authed.POST("/maintenance/refresh-locations", adminHandler.RefreshLocations)
				authed.POST("/maintenance/cleanup", adminHandler.CleanupOldVisits)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	return r
}
