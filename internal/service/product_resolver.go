package service

import (
	"context"
	"strings"
	"time"

	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/logger"

	"go.uber.org/zap"
)

// CatalogBackend 商品目录数据源
type CatalogBackend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByType(ctx context.Context, productType string) ([]domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (domain.Product, error)
}

// ProductCache 商品快照缓存
type ProductCache interface {
	GetProduct(ctx context.Context, sku string) (domain.Product, bool, error)
	SetProduct(ctx context.Context, product domain.Product, ttl time.Duration) error
	DelProduct(ctx context.Context, sku string) error
}

// ProductResolver 商品查询与补全
type ProductResolver struct {
	backend CatalogBackend
	cache   ProductCache
	ttl     time.Duration
	log     *zap.SugaredLogger
}

// NewProductResolver 创建商品解析器，cache 可为 nil
func NewProductResolver(backend CatalogBackend, cache ProductCache, ttl time.Duration, log *zap.SugaredLogger) *ProductResolver {
	if log == nil {
		log = logger.Named("product_resolver")
	}
	return &ProductResolver{backend: backend, cache: cache, ttl: ttl, log: log}
}

// FetchAll 获取全部商品，失败时返回空列表并记录日志
func (r *ProductResolver) FetchAll(ctx context.Context) []domain.Product {
	products, err := r.backend.ListProducts(ctx)
	if err != nil {
		r.log.Warnw("product_fetch_all_failed", "error", err)
		return []domain.Product{}
	}
	r.warm(ctx, products)
	return products
}

// FetchByType 按分类获取商品，失败策略同 FetchAll
func (r *ProductResolver) FetchByType(ctx context.Context, productType string) []domain.Product {
	products, err := r.backend.ListProductsByType(ctx, productType)
	if err != nil {
		r.log.Warnw("product_fetch_by_type_failed", "type", productType, "error", err)
		return []domain.Product{}
	}
	r.warm(ctx, products)
	return products
}

// FetchBySKU 按 SKU 获取商品，先读缓存
func (r *ProductResolver) FetchBySKU(ctx context.Context, sku string) (domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return domain.Product{}, &Error{Kind: KindNotFound, Op: "product.fetch_by_sku", Message: "sku is empty", Err: ErrNotFound}
	}
	if r.cache != nil {
		cached, hit, err := r.cache.GetProduct(ctx, sku)
		if err != nil {
			r.log.Debugw("product_cache_read_failed", "sku", sku, "error", err)
		} else if hit && !cached.Incomplete() {
			return cached, nil
		}
	}

	product, err := r.backend.GetProductBySKU(ctx, sku)
	if err != nil {
		return domain.Product{}, classify("product.fetch_by_sku", err)
	}
	r.store(ctx, product)
	return product, nil
}

// Invalidate 丢弃缓存的商品快照，库存变动后调用
func (r *ProductResolver) Invalidate(ctx context.Context, skus ...string) {
	if r.cache == nil {
		return
	}
	for _, sku := range skus {
		sku = strings.TrimSpace(sku)
		if sku == "" {
			continue
		}
		if err := r.cache.DelProduct(ctx, sku); err != nil {
			r.log.Debugw("product_cache_invalidate_failed", "sku", sku, "error", err)
		}
	}
}

func (r *ProductResolver) warm(ctx context.Context, products []domain.Product) {
	for _, product := range products {
		r.store(ctx, product)
	}
}

func (r *ProductResolver) store(ctx context.Context, product domain.Product) {
	if r.cache == nil || !product.HasBackendID() {
		return
	}
	if err := r.cache.SetProduct(ctx, product, r.ttl); err != nil {
		r.log.Debugw("product_cache_write_failed", "sku", product.SKU, "error", err)
	}
}
