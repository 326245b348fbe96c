package models

import "time"

// AuthzAuditLog 角色策略变更记录
type AuthzAuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Operator  string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator"`
	Action    string    `gorm:"type:varchar(32);index;not null" json:"action"` // grant / revoke
	Role      string    `gorm:"type:varchar(120);index;not null" json:"role"`
	Object    string    `gorm:"type:varchar(255);not null;default:''" json:"object"`
	Method    string    `gorm:"type:varchar(20);not null;default:''" json:"method"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
