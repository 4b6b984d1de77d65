package api

import (
	"net/http"

	"github.com/futbolprime-next/internal/backend"
	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/http/handlers/shared"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateOrder 创建订单，Idempotency-Key 相同时返回已有订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req backend.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	if !ensureOwner(c, req.UserID) {
		return
	}
	req.IdempotencyKey = c.GetHeader(constants.HeaderIdempotencyKey)
	order, replayed, err := h.OrderService.Create(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	shared.RequestLog(c).Infow("backend_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"replayed", replayed,
	)
	if replayed {
		c.JSON(http.StatusOK, response.Response{StatusCode: response.CodeOK, Msg: "replayed", Data: order})
		return
	}
	response.Created(c, order)
}

// ListUserOrders 用户订单列表
func (h *Handler) ListUserOrders(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok || !ensureOwner(c, userID) {
		return
	}
	orders, err := h.OrderService.ListByUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !ensureOwner(c, order.UserID) {
		return
	}
	response.Success(c, order)
}
