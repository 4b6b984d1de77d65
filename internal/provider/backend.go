package provider

import (
	"github.com/futbolprime-next/internal/backend"
	"github.com/futbolprime-next/internal/config"
	"github.com/futbolprime-next/internal/repository"

	"gorm.io/gorm"
)

// BackendContainer 模拟商城后端依赖
type BackendContainer struct {
	Config *config.Config
	DB     *gorm.DB

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Services
	CatalogService *backend.CatalogService
	CartService    *backend.CartService
	OrderService   *backend.OrderService
	AuthService    *backend.AuthService
}

// NewBackendContainer 初始化后端容器，db 需已完成迁移
func NewBackendContainer(cfg *config.Config, db *gorm.DB) *BackendContainer {
	c := &BackendContainer{Config: cfg, DB: db}
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)

	mock := cfg.MockBackend
	c.CatalogService = backend.NewCatalogService(c.ProductRepo)
	c.CartService = backend.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = backend.NewOrderService(c.OrderRepo, c.ProductRepo, cfg.Catalog.Currency)
	c.AuthService = backend.NewAuthService(c.UserRepo, mock.JWTSecret, mock.JWTExpireHrs)
	return c
}

// Seed 写入默认目录与演示用户
func (c *BackendContainer) Seed() (backend.SeedResult, error) {
	return backend.Seed(c.ProductRepo, c.UserRepo, c.Config.MockBackend.SeedEmail, c.Config.MockBackend.SeedPassword)
}
