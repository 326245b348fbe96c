package models

import "time"

// ImportQueueItem 批量导入暂存项
type ImportQueueItem struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	BatchID          string    `gorm:"index;not null" json:"batch_id"`
	Title            string    `gorm:"not null" json:"title"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	Excerpt          *string   `json:"excerpt"`
	FeaturedImageURL *string   `json:"featured_image_url"`
	Category         *string   `json:"category"`
	Tags             *string   `json:"tags"`
	Status           string    `gorm:"not null;default:'pending';index" json:"status"`
	ErrorMessage     *string   `gorm:"type:text" json:"error_message"`
	PostID           *uint     `json:"post_id"`
	Attempts         int       `gorm:"not null;default:0" json:"attempts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `gorm:"index" json:"updated_at"`
}

// TableName 指定表名
func (ImportQueueItem) TableName() string {
	return "import_queue"
}
