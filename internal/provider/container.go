package provider

import (
	"time"

	"github.com/futbolprime-next/internal/apiclient"
	"github.com/futbolprime-next/internal/cache"
	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/queue"
	"github.com/futbolprime-next/internal/service"
	"github.com/futbolprime-next/internal/session"

	"gorm.io/gorm"
)

// Container 店面依赖注入容器（客户端侧）
type Container struct {
	Config      *config.Config
	Cache       *cache.Store
	QueueClient *queue.Client
	API         *apiclient.Client

	// Session
	SessionStore   *session.Store
	SessionService *session.Service

	// Services
	ProductResolver *service.ProductResolver
	CartStore       *service.CartStore
	Checkout        *service.CheckoutOrchestrator
	OrderHistory    *service.OrderHistory
	Notifier        *service.QueueNotifier
}

// NewContainer 初始化容器，sessionDB 为已迁移的本地会话库
func NewContainer(cfg *config.Config, sessionDB *gorm.DB) (*Container, error) {
	store, err := session.NewStore(sessionDB)
	if err != nil {
		return nil, err
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:       cfg,
		Cache:        cache.New(&cfg.Redis),
		QueueClient:  queueClient,
		SessionStore: store,
	}
	c.initClient()
	c.initServices()
	return c, nil
}

func (c *Container) initClient() {
	backend := c.Config.Backend
	c.API = apiclient.New(apiclient.Options{
		BaseURL:          backend.BaseURL,
		APIPrefix:        backend.APIPrefix,
		UserAgent:        backend.UserAgent,
		ConnectTimeout:   backend.ConnectTimeout(),
		ReadTimeout:      backend.ReadTimeout(),
		WriteTimeout:     backend.WriteTimeout(),
		CurrencyExponent: c.Config.Catalog.CurrencyExponent,
		Breaker: apiclient.BreakerOptions{
			Enabled:     backend.Breaker.Enabled,
			MaxFailures: backend.Breaker.MaxFailures,
			OpenTimeout: secondsDuration(backend.Breaker.OpenSeconds),
		},
	},
		apiclient.WithTokenSource(c.SessionStore),
		apiclient.WithLogger(logger.Named("apiclient")),
	)
}

func (c *Container) initServices() {
	c.SessionService = session.NewService(c.SessionStore, c.API, logger.Named("session"))
	c.ProductResolver = service.NewProductResolver(c.API, c.Cache, c.Config.Catalog.CacheTTL(), logger.Named("products"))
	c.CartStore = service.NewCartStore(c.API, c.ProductResolver, service.CartStoreOptions{
		BackfillConcurrency: c.Config.Catalog.BackfillConcurrency,
		Auth:                c.SessionStore,
		Logger:              logger.Named("cart_store"),
	})
	c.Notifier = service.NewQueueNotifier(c.QueueClient, nil, logger.Named("notification"))
	c.Checkout = service.NewCheckoutOrchestrator(c.CartStore, c.API, service.CheckoutOptions{
		Notifier: c.Notifier,
		Auth:     c.SessionStore,
		Logger:   logger.Named("checkout"),
	})
	c.OrderHistory = service.NewOrderHistory(c.API)
}

// Close 释放连接
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.Cache != nil && c.Cache.Enabled() {
		if err := c.Cache.Client().Close(); err != nil {
			logger.Warnw("provider_close_cache_failed", "error", err)
		}
	}
}

func secondsDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
