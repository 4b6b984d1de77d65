package api

import (
	"strconv"
	"strings"

	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表，支持 type、q、page、page_size
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := 0, 0
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		parsedPage, _ := strconv.Atoi(raw)
		parsedSize, _ := strconv.Atoi(c.Query("page_size"))
		page, pageSize = shared.NormalizePagination(parsedPage, parsedSize)
	}
	products, err := h.CatalogService.List(c.Query("type"), c.Query("q"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct 按 SKU 获取商品
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.CatalogService.GetBySKU(c.Param("sku"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}
