package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futbolprime-next/internal/domain"
)

const defaultProductTTL = 5 * time.Minute

func productSKUKey(sku string) string {
	return fmt.Sprintf("product:sku:%s", strings.ToUpper(strings.TrimSpace(sku)))
}

// GetProduct 读取商品快照缓存
func (s *Store) GetProduct(ctx context.Context, sku string) (domain.Product, bool, error) {
	var product domain.Product
	hit, err := s.GetJSON(ctx, productSKUKey(sku), &product)
	if err != nil || !hit {
		return domain.Product{}, false, err
	}
	return product, true, nil
}

// SetProduct 写入商品快照缓存，仅缓存持有后端 ID 的商品
func (s *Store) SetProduct(ctx context.Context, product domain.Product, ttl time.Duration) error {
	if !product.HasBackendID() || strings.TrimSpace(product.SKU) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultProductTTL
	}
	return s.SetJSON(ctx, productSKUKey(product.SKU), product, ttl)
}

// DelProduct 删除商品快照缓存
func (s *Store) DelProduct(ctx context.Context, sku string) error {
	return s.Del(ctx, productSKUKey(sku))
}
