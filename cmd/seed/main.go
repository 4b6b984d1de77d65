package main

import (
	"flag"
	"fmt"

	"github.com/futbolprime-next/internal/app"
	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/models"
	"github.com/futbolprime-next/internal/provider"
)

func main() {
	var email, password string
	flag.StringVar(&email, "email", "", "演示用户邮箱，默认读取 mock_backend.seed_email")
	flag.StringVar(&password, "password", "", "演示用户密码，默认读取 mock_backend.seed_password")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.App.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if email != "" {
		cfg.MockBackend.SeedEmail = email
	}
	if password != "" {
		cfg.MockBackend.SeedPassword = password
	}

	// 连接数据库并迁移
	db, err := app.OpenDatabase(cfg.MockBackend.Database, false, models.AutoMigrateBackend)
	if err != nil {
		stdLog.Fatalf("Failed to open database: %v", err)
	}

	result, err := provider.NewBackendContainer(cfg, db).Seed()
	if err != nil {
		stdLog.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Printf("Seed completed: %d products, demo user created: %v\n", result.Products, result.UserCreated)
}
