package api

import (
	"github.com/futbolprime-next/internal/backend"
	"github.com/futbolprime-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	UserID    uint `json:"user_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest 改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取用户购物车，不存在时创建空购物车
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok || !ensureOwner(c, userID) {
		return
	}
	cart, err := h.CartService.GetByUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加购
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	if !ensureOwner(c, req.UserID) {
		return
	}
	item, err := h.CartService.AddItem(backend.AddCartItemInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	owner, err := h.CartService.ItemOwner(itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !ensureOwner(c, owner) {
		return
	}
	item, err := h.CartService.UpdateItem(itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// RemoveCartProduct 删除购物车中的商品
func (h *Handler) RemoveCartProduct(c *gin.Context) {
	cartID, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok || !h.ensureCartOwner(c, cartID) {
		return
	}
	if err := h.CartService.RemoveProduct(cartID, productID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// EmptyCart 清空购物车
func (h *Handler) EmptyCart(c *gin.Context) {
	cartID, ok := parseID(c, "id")
	if !ok || !h.ensureCartOwner(c, cartID) {
		return
	}
	if err := h.CartService.Empty(cartID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) ensureCartOwner(c *gin.Context, cartID uint) bool {
	owner, err := h.CartService.Owner(cartID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	return ensureOwner(c, owner)
}
