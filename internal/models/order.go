package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                     // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                            // 用户ID
	CartID          uint           `gorm:"index" json:"cart_id"`                                     // 下单时的购物车ID
	IdempotencyKey  string         `gorm:"type:varchar(64);index" json:"-"`                          // 幂等键
	Status          string         `gorm:"index;not null" json:"status"`                             // 订单状态
	Currency        string         `gorm:"type:varchar(8);not null" json:"currency"`                 // 币种
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 合计
	FullName        string         `gorm:"not null" json:"full_name"`                                // 收件人
	Email           string         `gorm:"not null" json:"email"`                                    // 联系邮箱
	ShippingAddress string         `gorm:"type:text;not null" json:"shipping_address"`               // 收货地址
	PaymentMethod   string         `gorm:"type:varchar(20);not null" json:"payment_method"`          // 支付方式
	CardLast4       string         `gorm:"type:varchar(4)" json:"card_last4"`                        // 卡号末四位
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
