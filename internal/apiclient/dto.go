package apiclient

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/models"
)

// envelope 后端统一响应结构
type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

// ProductDTO 商品线上结构（价格为主货币单位 decimal）
type ProductDTO struct {
	ID          int64        `json:"id"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Brand       string       `json:"brand"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Size        string       `json:"size"`
	Color       string       `json:"color"`
	Stock       int          `json:"stock"`
	ImageURL    string       `json:"image_url"`
}

// CartItemDTO 购物车项线上结构
type CartItemDTO struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   *ProductDTO `json:"product"`
}

// CartDTO 购物车线上结构
type CartDTO struct {
	ID     int64         `json:"id"`
	UserID int64         `json:"user_id"`
	Items  []CartItemDTO `json:"items"`
}

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemRequest 改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// OrderItemDTO 订单项线上结构
type OrderItemDTO struct {
	ProductID int64        `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// OrderDTO 订单线上结构
type OrderDTO struct {
	ID              int64          `json:"id"`
	OrderNo         string         `json:"order_no"`
	UserID          int64          `json:"user_id"`
	Status          string         `json:"status"`
	Currency        string         `json:"currency"`
	TotalAmount     models.Money   `json:"total_amount"`
	ShippingAddress string         `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	Items           []OrderItemDTO `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginDTO 登录响应
type LoginDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func (p ProductDTO) toDomain(exponent int) domain.Product {
	return domain.Product{
		ID:          p.ID,
		SKU:         strings.TrimSpace(p.SKU),
		Name:        strings.TrimSpace(p.Name),
		Brand:       strings.TrimSpace(p.Brand),
		Type:        strings.TrimSpace(p.Type),
		Description: p.Description,
		Price:       p.Price.Minor(exponent),
		Size:        strings.TrimSpace(p.Size),
		Color:       strings.TrimSpace(p.Color),
		Stock:       p.Stock,
		ImageURL:    strings.TrimSpace(p.ImageURL),
	}
}

func (i CartItemDTO) toDomain(exponent int) domain.CartLine {
	var product domain.Product
	if i.Product != nil {
		product = i.Product.toDomain(exponent)
	}
	if !product.HasBackendID() && i.ProductID > 0 {
		product.ID = i.ProductID
	}
	quantity := i.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return domain.CartLine{
		Ref:      domain.ResolvedLine(i.ID),
		Product:  product,
		Quantity: quantity,
	}
}

func (c CartDTO) toDomain(exponent int) domain.Cart {
	lines := make([]domain.CartLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, item.toDomain(exponent))
	}
	return domain.Cart{
		Ref:    domain.ResolvedCart(c.ID),
		UserID: c.UserID,
		Lines:  lines,
	}
}

func (o OrderDTO) toDomain(exponent int) domain.Order {
	items := make([]domain.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Minor(exponent),
		})
	}
	return domain.Order{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		Status:          o.Status,
		Total:           o.TotalAmount.Minor(exponent),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

func (l LoginDTO) toDomain() domain.LoginResult {
	return domain.LoginResult{
		User: domain.User{
			ID:    l.ID,
			Name:  l.Name,
			Email: l.Email,
			Role:  l.Role,
		},
		Token: l.Token,
	}
}
