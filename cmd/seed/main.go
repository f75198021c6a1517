package main

import (
	"time"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加示例访客记录
	now := time.Now()
	logs := []models.VisitorLog{
		{
			IPAddress:   "8.8.8.8",
			Country:     strPtr("United States"),
			CountryCode: strPtr("US"),
			City:        strPtr("Mountain View"),
			Region:      strPtr("California"),
			Latitude:    floatPtr(37.386),
			Longitude:   floatPtr(-122.0838),
			Timezone:    strPtr("America/Los_Angeles"),
			Org:         strPtr("Google LLC"),
			ASN:         strPtr("AS15169"),
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			CreatedAt:   now.Add(-48 * time.Hour),
		},
		{
			IPAddress:   "1.1.1.1",
			Country:     strPtr("Australia"),
			CountryCode: strPtr("AU"),
			City:        strPtr("Sydney"),
			Region:      strPtr("New South Wales"),
			Latitude:    floatPtr(-33.8688),
			Longitude:   floatPtr(151.2093),
			Timezone:    strPtr("Australia/Sydney"),
			Org:         strPtr("Cloudflare, Inc."),
			ASN:         strPtr("AS13335"),
			UserAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15",
			CreatedAt:   now.Add(-24 * time.Hour),
		},
		{
			IPAddress:   "9.9.9.9",
			Country:     strPtr("Germany"),
			CountryCode: strPtr("DE"),
			City:        strPtr("Berlin"),
			Region:      strPtr("Berlin"),
			Latitude:    floatPtr(52.52),
			Longitude:   floatPtr(13.405),
			Timezone:    strPtr("Europe/Berlin"),
			Org:         strPtr("Quad9"),
			ASN:         strPtr("AS19281"),
			UserAgent:   "Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/126.0",
			FormData: models.JSON{
				"name":    "Erika Mustermann",
				"email":   "erika@example.com",
				"message": "Interested in your service.",
			},
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}

	for _, log := range logs {
		var count int64
		models.DB.Model(&models.VisitorLog{}).
			Where("ip_address = ? AND created_at = ?", log.IPAddress, log.CreatedAt).
			Count(&count)
		if count > 0 {
			stdLog.Printf("Visitor log already exists: %s", log.IPAddress)
			continue
		}
		record := log
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("Failed to create visitor log %s: %v", log.IPAddress, err)
			continue
		}
		stdLog.Printf("Created visitor log: %s", log.IPAddress)
	}

	stdLog.Printf("Seed finished")
}
