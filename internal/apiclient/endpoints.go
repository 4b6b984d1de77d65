package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/domain"
)

// ListProducts 获取全部商品
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.listProducts(ctx, nil)
}

// ListProductsByType 按分类获取商品
func (c *Client) ListProductsByType(ctx context.Context, productType string) ([]domain.Product, error) {
	productType = strings.TrimSpace(productType)
	if productType == "" {
		return c.listProducts(ctx, nil)
	}
	return c.listProducts(ctx, url.Values{"type": []string{productType}})
}

func (c *Client) listProducts(ctx context.Context, query url.Values) ([]domain.Product, error) {
	var dtos []ProductDTO
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, nil, &dtos); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, dto.toDomain(c.exponent))
	}
	return products, nil
}

// GetProductBySKU 按 SKU 获取商品
func (c *Client) GetProductBySKU(ctx context.Context, sku string) (domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return domain.Product{}, fmt.Errorf("%w: sku is empty", ErrNotFound)
	}
	var dto ProductDTO
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(sku), nil, nil, nil, &dto); err != nil {
		return domain.Product{}, err
	}
	return dto.toDomain(c.exponent), nil
}

// GetCart 获取用户购物车
func (c *Client) GetCart(ctx context.Context, userID int64) (domain.Cart, error) {
	var dto CartDTO
	if err := c.do(ctx, http.MethodGet, "/carts/"+formatID(userID), nil, nil, nil, &dto); err != nil {
		return domain.Cart{}, err
	}
	cart := dto.toDomain(c.exponent)
	if cart.UserID <= 0 {
		cart.UserID = userID
	}
	return cart, nil
}

// AddCartItem 加购
func (c *Client) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (domain.CartLine, error) {
	var dto CartItemDTO
	req := AddCartItemRequest{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/cart-items", nil, req, nil, &dto); err != nil {
		return domain.CartLine{}, err
	}
	return dto.toDomain(c.exponent), nil
}

// UpdateCartItem 修改购物车项数量
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (domain.CartLine, error) {
	var dto CartItemDTO
	req := UpdateCartItemRequest{Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, "/cart-items/"+formatID(itemID), nil, req, nil, &dto); err != nil {
		return domain.CartLine{}, err
	}
	return dto.toDomain(c.exponent), nil
}

// RemoveCartProduct 从购物车移除商品
func (c *Client) RemoveCartProduct(ctx context.Context, cartID, productID int64) error {
	path := "/carts/" + formatID(cartID) + "/products/" + formatID(productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, nil)
}

// EmptyCart 清空购物车
func (c *Client) EmptyCart(ctx context.Context, cartID int64) error {
	return c.do(ctx, http.MethodDelete, "/carts/"+formatID(cartID)+"/empty", nil, nil, nil, nil)
}

// CreateOrder 创建订单，idempotencyKey 非空时随请求发送
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (domain.Order, error) {
	var headers http.Header
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		headers = http.Header{}
		headers.Set(constants.HeaderIdempotencyKey, key)
	}
	var dto OrderDTO
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, headers, &dto); err != nil {
		return domain.Order{}, err
	}
	return dto.toDomain(c.exponent), nil
}

// ListOrdersByUser 用户订单列表
func (c *Client) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var dtos []OrderDTO
	if err := c.do(ctx, http.MethodGet, "/orders/user/"+formatID(userID), nil, nil, nil, &dtos); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(dtos))
	for _, dto := range dtos {
		orders = append(orders, dto.toDomain(c.exponent))
	}
	return orders, nil
}

// GetOrder 订单详情
func (c *Client) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	var dto OrderDTO
	if err := c.do(ctx, http.MethodGet, "/orders/"+formatID(orderID), nil, nil, nil, &dto); err != nil {
		return domain.Order{}, err
	}
	return dto.toDomain(c.exponent), nil
}

// Login 用户登录
func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	var dto LoginDTO
	req := LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, req, nil, &dto); err != nil {
		return domain.LoginResult{}, err
	}
	if dto.ID <= 0 {
		return domain.LoginResult{}, fmt.Errorf("%w: login response missing user id", ErrResponseInvalid)
	}
	return dto.toDomain(), nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
