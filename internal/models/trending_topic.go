package models

import "time"

// TrendingTopic 热门话题
type TrendingTopic struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Topic           string    `gorm:"uniqueIndex;not null" json:"topic"`
	IsPublished     bool      `gorm:"not null;default:false;index" json:"is_published"`
	PublishedPostID *uint     `json:"published_post_id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (TrendingTopic) TableName() string {
	return "trending_topics"
}
