package constants

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskCheckoutOrderPlaced = "checkout:order_placed"
)

// 订单状态常量（模拟后端）
const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCanceled  = "canceled"
	OrderStatusDelivered = "delivered"
)

// 支付方式常量
const (
	PaymentMethodCard = "card"
)

// 用户角色常量
const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"
)

// 结算表单字段名
const (
	FieldFullName        = "full_name"
	FieldEmail           = "email"
	FieldShippingAddress = "shipping_address"
	FieldCardNumber      = "card_number"
)

// 结算表单规则
const (
	CardNumberMinDigits = 12
	PasswordMinLength   = 6
)

// 网关上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
)

// HTTP 头
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)
