package models

import "time"

// User 用户表
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                 // 主键
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱
	Username     string    `gorm:"uniqueIndex;not null" json:"username"` // 用户名
	PasswordHash string    `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	DisplayName  string    `gorm:"default:''" json:"display_name"`       // 昵称
	AvatarURL    *string   `json:"avatar_url"`                           // 头像
	Role         string    `gorm:"not null;default:'editor';index" json:"role"`
	TokenVersion uint64    `gorm:"not null;default:0" json:"-"` // Token 版本（登出后递增）
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
