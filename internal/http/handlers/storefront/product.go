package storefront

import (
	"strings"

	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表，type 为空时返回全部
func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	if productType := strings.TrimSpace(c.Query("type")); productType != "" {
		response.Success(c, h.ProductResolver.FetchByType(ctx, productType))
		return
	}
	response.Success(c, h.ProductResolver.FetchAll(ctx))
}

// GetProduct 按 SKU 获取商品
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductResolver.FetchBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.Success(c, product)
}
