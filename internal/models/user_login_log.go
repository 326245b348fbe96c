package models

import "time"

// UserLoginLog 登录审计记录
// 失败时 UserID 可能为 0，未知邮箱与密码错误记录为同一原因
type UserLoginLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	Email      string    `gorm:"index;not null" json:"email"`
	Status     string    `gorm:"type:varchar(16);index;not null" json:"status"` // success / failed
	FailReason string    `gorm:"type:varchar(64)" json:"fail_reason"`
	ClientIP   string    `gorm:"type:varchar(64);index" json:"client_ip"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	RequestID  string    `gorm:"type:varchar(64)" json:"request_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}
