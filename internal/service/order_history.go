package service

import (
	"context"

	"github.com/futbolprime-next/internal/domain"
)

// OrderQueryBackend 远端订单查询
type OrderQueryBackend interface {
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
}

// OrderHistory 用户订单查询
type OrderHistory struct {
	backend OrderQueryBackend
}

// NewOrderHistory 创建订单查询服务
func NewOrderHistory(backend OrderQueryBackend) *OrderHistory {
	return &OrderHistory{backend: backend}
}

// List 用户订单列表
func (h *OrderHistory) List(ctx context.Context, userID int64) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, newError(KindNotAuthenticated, "orders.list", ErrNotAuthenticated)
	}
	orders, err := h.backend.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, classify("orders.list", err)
	}
	return orders, nil
}

// Get 订单详情，仅返回属于该用户的订单
func (h *OrderHistory) Get(ctx context.Context, userID, orderID int64) (domain.Order, error) {
	const op = "orders.get"
	if userID <= 0 {
		return domain.Order{}, newError(KindNotAuthenticated, op, ErrNotAuthenticated)
	}
	if orderID <= 0 {
		return domain.Order{}, &Error{Kind: KindNotFound, Op: op, Message: "order not found", Err: ErrNotFound}
	}
	order, err := h.backend.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, classify(op, err)
	}
	if order.UserID != userID {
		return domain.Order{}, &Error{Kind: KindNotFound, Op: op, Message: "order not found", Err: ErrNotFound}
	}
	return order, nil
}
