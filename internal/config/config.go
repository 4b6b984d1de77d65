package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/futbolprime-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Log         LogConfig         `mapstructure:"log"`
	Backend     BackendConfig     `mapstructure:"backend"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Session     SessionConfig     `mapstructure:"session"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Gateway     GatewayConfig     `mapstructure:"gateway"`
	MockBackend MockBackendConfig `mapstructure:"mock_backend"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name string `mapstructure:"name"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// BackendConfig 远端商城 API 配置
type BackendConfig struct {
	BaseURL               string        `mapstructure:"base_url"`
	APIPrefix             string        `mapstructure:"api_prefix"`
	UserAgent             string        `mapstructure:"user_agent"`
	ConnectTimeoutSeconds int           `mapstructure:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int           `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds   int           `mapstructure:"write_timeout_seconds"`
	Breaker               BreakerConfig `mapstructure:"breaker"`
}

// ConnectTimeout 建连超时
func (c BackendConfig) ConnectTimeout() time.Duration {
	return secondsOr(c.ConnectTimeoutSeconds, 30)
}

// ReadTimeout 读超时（等待响应头）
func (c BackendConfig) ReadTimeout() time.Duration {
	return secondsOr(c.ReadTimeoutSeconds, 30)
}

// WriteTimeout 写超时（发送请求体）
func (c BackendConfig) WriteTimeout() time.Duration {
	return secondsOr(c.WriteTimeoutSeconds, 30)
}

// BreakerConfig 熔断配置
type BreakerConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxFailures int  `mapstructure:"max_failures"`
	OpenSeconds int  `mapstructure:"open_seconds"`
}

// CatalogConfig 商品目录配置
type CatalogConfig struct {
	Currency            string `mapstructure:"currency"`
	CurrencyExponent    int    `mapstructure:"currency_exponent"`
	CacheTTLSeconds     int    `mapstructure:"cache_ttl_seconds"`
	BackfillConcurrency int    `mapstructure:"backfill_concurrency"`
}

// CacheTTL 商品缓存有效期
func (c CatalogConfig) CacheTTL() time.Duration {
	return secondsOr(c.CacheTTLSeconds, 300)
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// SessionConfig 本地会话存储配置
type SessionConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// GatewayConfig 面向前端展示层的网关配置
type GatewayConfig struct {
	Host           string          `mapstructure:"host"`
	Port           string          `mapstructure:"port"`
	CORS           CORSConfig      `mapstructure:"cors"`
	LoginRateLimit RateLimitConfig `mapstructure:"login_rate_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// RateLimitConfig 频率限制配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// MockBackendConfig 本地模拟后端配置
type MockBackendConfig struct {
	Host         string         `mapstructure:"host"`
	Port         string         `mapstructure:"port"`
	Database     DatabaseConfig `mapstructure:"database"`
	JWTSecret    string         `mapstructure:"jwt_secret"`
	JWTExpireHrs int            `mapstructure:"jwt_expire_hours"`
	SeedEmail    string         `mapstructure:"seed_email"`
	SeedPassword string         `mapstructure:"seed_password"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")   // 从 cmd/storefront 运行
	v.AddConfigPath("./etc") // etc 文件夹

	setDefaults(v)

	// 环境变量支持：backend.base_url -> BACKEND_BASE_URL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := decode(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// Default 返回仅包含默认值的配置，测试与工具命令使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Errorf("默认配置解析失败: %w", err))
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "futbolprime-storefront")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "storefront.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)

	v.SetDefault("backend.base_url", "http://127.0.0.1:8080")
	v.SetDefault("backend.api_prefix", "/api")
	v.SetDefault("backend.user_agent", "futbolprime-storefront/1.0")
	v.SetDefault("backend.connect_timeout_seconds", 30)
	v.SetDefault("backend.read_timeout_seconds", 30)
	v.SetDefault("backend.write_timeout_seconds", 30)
	v.SetDefault("backend.breaker.enabled", true)
	v.SetDefault("backend.breaker.max_failures", 5)
	v.SetDefault("backend.breaker.open_seconds", 20)

	v.SetDefault("catalog.currency", "CLP")
	v.SetDefault("catalog.currency_exponent", 0)
	v.SetDefault("catalog.cache_ttl_seconds", 300)
	v.SetDefault("catalog.backfill_concurrency", 4)

	v.SetDefault("session.database.driver", "sqlite")
	v.SetDefault("session.database.dsn", "./db/session.db")
	v.SetDefault("session.database.pool.max_open_conns", 1)
	v.SetDefault("session.database.pool.max_idle_conns", 1)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fp")

	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"default": 1,
	})

	v.SetDefault("gateway.host", "127.0.0.1")
	v.SetDefault("gateway.port", "9090")
	v.SetDefault("gateway.cors.allowed_origins", []string{"*"})
	v.SetDefault("gateway.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("gateway.cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	v.SetDefault("gateway.cors.allow_credentials", false)
	v.SetDefault("gateway.cors.max_age", 600)
	v.SetDefault("gateway.login_rate_limit.window_seconds", 300)
	v.SetDefault("gateway.login_rate_limit.max_attempts", 5)

	v.SetDefault("mock_backend.host", "127.0.0.1")
	v.SetDefault("mock_backend.port", "8080")
	v.SetDefault("mock_backend.database.driver", "sqlite")
	v.SetDefault("mock_backend.database.dsn", "./db/backend.db")
	v.SetDefault("mock_backend.database.pool.max_open_conns", 1)
	v.SetDefault("mock_backend.database.pool.max_idle_conns", 1)
	v.SetDefault("mock_backend.jwt_secret", "mock-backend-change-me")
	v.SetDefault("mock_backend.jwt_expire_hours", 24)
	v.SetDefault("mock_backend.seed_email", "demo@futbolprime.cl")
	v.SetDefault("mock_backend.seed_password", "futbol123")
}

func secondsOr(value int, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
