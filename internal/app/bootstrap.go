package app

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/models"
	"github.com/futbolprime-next/internal/provider"
	"github.com/futbolprime-next/internal/router"
	"github.com/futbolprime-next/internal/service"
	"github.com/futbolprime-next/internal/worker"

	"gorm.io/gorm"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !ValidMode(mode) {
		return nil, fmt.Errorf("unsupported mode: %s", mode)
	}

	runner := NewRunner()
	debug := cfg.App.Mode != "release"

	// 模拟后端
	if mode == ModeAll || mode == ModeBackend {
		db, err := OpenDatabase(cfg.MockBackend.Database, debug, models.AutoMigrateBackend)
		if err != nil {
			return nil, fmt.Errorf("backend database: %w", err)
		}
		runner.OnShutdown(func() { closeDB(db) })

		backendContainer := provider.NewBackendContainer(cfg, db)
		seeded, err := backendContainer.Seed()
		if err != nil {
			runner.shutdown()
			return nil, fmt.Errorf("backend seed: %w", err)
		}
		logger.Infow("backend_seeded", "products", seeded.Products, "user_created", seeded.UserCreated)

		addr := net.JoinHostPort(cfg.MockBackend.Host, cfg.MockBackend.Port)
		runner.Add(NewHTTPService("backend", addr, router.SetupBackendRouter(backendContainer)))
	}

	// 网关
	if mode == ModeAll || mode == ModeGateway {
		sessionDB, err := OpenDatabase(cfg.Session.Database, debug, models.AutoMigrateSession)
		if err != nil {
			runner.shutdown()
			return nil, fmt.Errorf("session database: %w", err)
		}
		runner.OnShutdown(func() { closeDB(sessionDB) })

		container, err := provider.NewContainer(cfg, sessionDB)
		if err != nil {
			runner.shutdown()
			return nil, err
		}
		runner.OnShutdown(container.Close)

		addr := net.JoinHostPort(cfg.Gateway.Host, cfg.Gateway.Port)
		runner.Add(NewHTTPService("gateway", addr, router.SetupRouter(cfg, container)))
	}

	// 异步通知消费者，all 模式下队列未启用时跳过
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(service.NewLogDispatcher(logger.Named("worker")))
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			runner.shutdown()
			return nil, err
		}
		runner.Add(workerService)
	}

	if len(runner.services) == 0 {
		runner.shutdown()
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return runner, nil
}

// OpenDatabase 打开数据库并执行迁移，sqlite 文件目录不存在时自动创建
func OpenDatabase(cfg config.DatabaseConfig, debug bool, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	if err := ensureSQLiteDir(cfg.Driver, cfg.DSN); err != nil {
		return nil, err
	}
	db, err := models.OpenDB(cfg.Driver, cfg.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Pool.ConnMaxIdleTimeSeconds,
	}, debug)
	if err != nil {
		return nil, err
	}
	if migrate != nil {
		if err := migrate(db); err != nil {
			closeDB(db)
			return nil, err
		}
	}
	return db, nil
}

func ensureSQLiteDir(driver, dsn string) error {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver != "" && driver != "sqlite" {
		return nil
	}
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warnw("database_close_failed", "error", err)
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"mode", opts.Mode,
		"gateway", net.JoinHostPort(opts.Config.Gateway.Host, opts.Config.Gateway.Port),
		"backend", opts.Config.Backend.BaseURL,
	)
	return RunWithOptions(runner, opts)
}
