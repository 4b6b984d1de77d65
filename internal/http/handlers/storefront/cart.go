package storefront

import (
	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/http/response"
	"github.com/futbolprime-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartView 购物车展示数据
type CartView struct {
	Cart      domain.Cart `json:"cart"`
	ItemCount int         `json:"item_count"`
	Total     int64       `json:"total"`
	Loading   bool        `json:"loading"`
	Error     string      `json:"error,omitempty"`
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// QuantityRequest 改数量请求
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// StepRequest 增减请求
type StepRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) cartView() CartView {
	cart := h.CartStore.Snapshot()
	return CartView{
		Cart:      cart,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
		Loading:   h.CartStore.Loading().Get(),
		Error:     service.UserMessage(h.CartStore.Errors().Get()),
	}
}

func (h *Handler) dispatch(c *gin.Context, cmd service.CartCommand) {
	if err := h.CartStore.Dispatch(c.Request.Context(), cmd); err != nil {
		respondEngineError(c, err)
		return
	}
	response.Success(c, h.cartView())
}

// GetCart 当前购物车快照
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.cartView())
}

// LoadCart 从后端重新加载购物车
func (h *Handler) LoadCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	h.dispatch(c, service.LoadCart{UserID: userID})
}

// StreamCart 以 SSE 推送购物车变化
func (h *Handler) StreamCart(c *gin.Context) {
	streamReadable(c, "cart", h.CartStore.Cart())
}

// AddItem 加购
func (h *Handler) AddItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	h.dispatch(c, service.AddItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity})
}

// UpdateItem 修改行数量
func (h *Handler) UpdateItem(c *gin.Context) {
	lineID, ok := parseID(c, "lineId")
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	h.dispatch(c, service.UpdateQuantity{Line: domain.ResolvedLine(lineID), Quantity: req.Quantity})
}

// StepItem 按增量调整行数量
func (h *Handler) StepItem(c *gin.Context) {
	lineID, ok := parseID(c, "lineId")
	if !ok {
		return
	}
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "solicitud inválida", nil)
		return
	}
	h.dispatch(c, service.StepQuantity{Line: domain.ResolvedLine(lineID), Delta: req.Delta})
}

// RemoveItem 移除商品
func (h *Handler) RemoveItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	h.dispatch(c, service.RemoveItem{UserID: userID, Cart: h.CartStore.CartRef(), ProductID: productID})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	h.dispatch(c, service.ClearCart{Cart: h.CartStore.CartRef()})
}
