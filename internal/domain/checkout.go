package domain

import (
	"sort"
	"strings"
	"time"
)

// CheckoutForm 结算表单
type CheckoutForm struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	ShippingAddress string `json:"shipping_address"`
	CardNumber      string `json:"card_number"` // 仅数字，客户端替代字段
}

// CardLast4 卡号末四位，不足四位返回原值
func (f CheckoutForm) CardLast4() string {
	digits := strings.TrimSpace(f.CardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// ValidationResult 字段名到错误信息的映射，缺省即有效
type ValidationResult struct {
	Errors map[string]string `json:"errors"`
}

// Valid 所有字段均无错误
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Error 返回指定字段的错误信息
func (r ValidationResult) Error(field string) (string, bool) {
	msg, ok := r.Errors[field]
	return msg, ok
}

// Fields 有错误的字段名（排序后）
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for field := range r.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// OrderItem 下单行
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest 下单请求，提交时由购物车快照与表单构造
type OrderRequest struct {
	UserID          int64       `json:"user_id"`
	CartID          int64       `json:"cart_id"`
	Items           []OrderItem `json:"items"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	CardLast4       string      `json:"card_last4"`
}

// Order 后端创建的订单
type Order struct {
	ID              int64       `json:"id"`
	OrderNo         string      `json:"order_no"`
	UserID          int64       `json:"user_id"`
	Status          string      `json:"status"`
	Total           int64       `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []OrderLine `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderLine 订单行
type OrderLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// ItemCount 订单商品总件数
func (o Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// User 登录用户
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult 登录结果
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
