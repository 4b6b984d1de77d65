package backend

import (
	"strings"

	"github.com/futbolprime-next/internal/models"
	"github.com/futbolprime-next/internal/repository"
)

// CatalogService 商品目录
type CatalogService struct {
	products repository.ProductRepository
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// List 上架商品列表，可按分类与关键字过滤，page 为 0 时不分页
func (s *CatalogService) List(productType, search string, page, pageSize int) ([]models.Product, error) {
	products, err := s.products.List(repository.ProductListFilter{
		Type:       productType,
		Search:     search,
		Page:       page,
		PageSize:   pageSize,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetBySKU 按 SKU 获取上架商品
func (s *CatalogService) GetBySKU(sku string) (*models.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrInvalidInput
	}
	product, err := s.products.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}
