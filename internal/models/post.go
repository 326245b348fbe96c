package models

import "time"

// Post 文章表
type Post struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"not null;index" json:"slug"` // 不保证唯一
	Content          string     `gorm:"type:text;not null" json:"content"`
	Excerpt          *string    `json:"excerpt"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	Category         *string    `gorm:"index" json:"category"`
	Tags             *string    `json:"tags"` // 逗号分隔
	AuthorID         uint       `gorm:"index" json:"author_id"`
	Status           string     `gorm:"not null;default:'draft';index" json:"status"`
	Views            int64      `gorm:"not null;default:0" json:"views"`
	IsTrendingPost   bool       `gorm:"not null;default:false;index" json:"is_trending_post"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	ScheduledAt      *time.Time `gorm:"index" json:"scheduled_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
