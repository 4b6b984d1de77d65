package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                       // 主键
	SKU         string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`           // SKU（自然键）
	Name        string         `gorm:"not null" json:"name"`                                       // 名称
	Brand       string         `gorm:"type:varchar(64);index" json:"brand"`                        // 品牌
	Type        string         `gorm:"type:varchar(32);index" json:"type"`                         // 分类（camiseta/botin/...）
	Description string         `gorm:"type:text" json:"description"`                               // 描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 单价（主货币单位）
	Size        string         `gorm:"type:varchar(16)" json:"size"`                               // 尺码
	Color       string         `gorm:"type:varchar(32)" json:"color"`                              // 颜色
	Stock       int            `gorm:"not null;default:0" json:"stock"`                            // 库存
	ImageURL    string         `gorm:"type:varchar(512)" json:"image_url"`                         // 图片
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                        // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                          // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
