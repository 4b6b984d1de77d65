package models

import "time"

// SessionRowID 本地会话表只保存一行
const SessionRowID uint = 1

// Session 客户端本地会话
type Session struct {
	ID        uint       `gorm:"primarykey" json:"id"`           // 固定为 SessionRowID
	UserID    int64      `gorm:"not null;default:0" json:"user_id"` // 当前用户ID
	Name      string     `gorm:"default:''" json:"name"`         // 姓名
	Email     string     `gorm:"default:''" json:"email"`        // 邮箱
	Role      string     `gorm:"default:''" json:"role"`         // 角色
	Token     string     `gorm:"type:text" json:"-"`             // 访问令牌
	ExpiresAt *time.Time `json:"expires_at"`                     // 令牌过期时间（非 JWT 时为空）
	CreatedAt time.Time  `json:"created_at"`                     // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`                     // 更新时间
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}
