package storefront

import (
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orders, err := h.OrderHistory.List(c.Request.Context(), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderHistory.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.Success(c, order)
}
