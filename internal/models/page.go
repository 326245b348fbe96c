package models

import "time"

// Page 独立页面表
type Page struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"not null;index" json:"slug"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	AuthorID    uint       `gorm:"index" json:"author_id"`
	Status      string     `gorm:"not null;default:'draft';index" json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduled_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (Page) TableName() string {
	return "pages"
}
