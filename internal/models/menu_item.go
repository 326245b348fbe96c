package models

import "time"

// MenuItem 导航菜单项
type MenuItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Label      string    `gorm:"not null" json:"label"`
	URL        string    `gorm:"not null" json:"url"`
	OrderIndex int       `gorm:"not null;default:0;index" json:"order_index"`
	ParentID   *uint     `gorm:"index" json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}
