package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/futbolprime-next/internal/app"
	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), gateway, worker, backend")
	flag.Parse()

	printStartupBanner(mode)

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.App.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if !app.ValidMode(mode) {
		stdLog.Fatalf("未知启动模式: %s", mode)
	}
	if mode == app.ModeAll || mode == app.ModeBackend {
		if isWeakSecret(cfg.MockBackend.JWTSecret) {
			if cfg.App.Mode == "release" {
				stdLog.Fatalf("模拟后端 JWT secret 过弱或仍为默认值，请配置强随机密钥")
			}
			stdLog.Printf("警告: 模拟后端 JWT secret 过弱或仍为默认值")
		}
	}

	if cfg.App.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiGreen + ansiBold + "⚽ FutbolPrime storefront" + ansiReset)
	fmt.Println(ansiCyan + "  mode: " + mode + ansiReset)
	fmt.Println(ansiYellow + "  gateway  -> /api/v1 (sesión, carrito, checkout)" + ansiReset)
	fmt.Println(ansiYellow + "  backend  -> /api (catálogo, carritos, órdenes)" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
