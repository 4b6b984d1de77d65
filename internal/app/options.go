package app

import (
	"os"
	"time"

	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/logger"

	"go.uber.org/zap"
)

const (
	ModeAll     = "all"
	ModeGateway = "gateway"
	ModeWorker  = "worker"
	ModeBackend = "backend"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}

// ValidMode 判断启动模式是否受支持
func ValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeGateway, ModeWorker, ModeBackend:
		return true
	}
	return false
}
