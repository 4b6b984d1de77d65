package domain

import "strings"

// Product 商品（价格为最小货币单位整数）
type Product struct {
	ID          int64  `json:"id"` // 后端分配的 ID，> 0 才可用于购物车/订单
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

// HasBackendID 是否持有后端分配的商品 ID
func (p Product) HasBackendID() bool {
	return p.ID > 0
}

// Incomplete 购物车内嵌商品快照是否缺少展示关键字段
func (p Product) Incomplete() bool {
	return !p.HasBackendID() ||
		strings.TrimSpace(p.ImageURL) == "" ||
		strings.TrimSpace(p.Name) == ""
}

// MergeMissing 用 other 补齐当前快照中为空的字段，已有值保持不变
func (p Product) MergeMissing(other Product) Product {
	merged := p
	if !merged.HasBackendID() && other.HasBackendID() {
		merged.ID = other.ID
	}
	merged.SKU = firstNonBlank(merged.SKU, other.SKU)
	merged.Name = firstNonBlank(merged.Name, other.Name)
	merged.Brand = firstNonBlank(merged.Brand, other.Brand)
	merged.Type = firstNonBlank(merged.Type, other.Type)
	merged.Description = firstNonBlank(merged.Description, other.Description)
	merged.Size = firstNonBlank(merged.Size, other.Size)
	merged.Color = firstNonBlank(merged.Color, other.Color)
	merged.ImageURL = firstNonBlank(merged.ImageURL, other.ImageURL)
	if merged.Price <= 0 {
		merged.Price = other.Price
	}
	if merged.Stock <= 0 {
		merged.Stock = other.Stock
	}
	return merged
}

func firstNonBlank(current, fallback string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return strings.TrimSpace(fallback)
}
