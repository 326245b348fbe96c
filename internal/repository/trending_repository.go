package repository

import (
	"time"

	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrendingRepository 热门话题数据访问接口
type TrendingRepository interface {
	ListLatest(limit int) ([]models.TrendingTopic, error)
	UpsertTopic(topic string) (*models.TrendingTopic, error)
	ListUnpublished(limit int) ([]models.TrendingTopic, error)
	CountUnpublished() (int64, error)
	MarkPublished(id uint, postID uint) (bool, error)
	WithTx(tx *gorm.DB) *GormTrendingRepository
}

// GormTrendingRepository GORM 实现
type GormTrendingRepository struct {
	db *gorm.DB
}

// NewTrendingRepository 创建热门话题仓库
func NewTrendingRepository(db *gorm.DB) *GormTrendingRepository {
	return &GormTrendingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTrendingRepository) WithTx(tx *gorm.DB) *GormTrendingRepository {
	if tx == nil {
		return r
	}
	return &GormTrendingRepository{db: tx}
}

// ListLatest 最新话题
func (r *GormTrendingRepository) ListLatest(limit int) ([]models.TrendingTopic, error) {
	var topics []models.TrendingTopic
	query := r.db.Order("created_at DESC").Order("id DESC")
	if err := applyLimitOffset(query, limit, 0).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// UpsertTopic 按话题文本写入，已存在时仅刷新更新时间
func (r *GormTrendingRepository) UpsertTopic(topic string) (*models.TrendingTopic, error) {
	row := &models.TrendingTopic{Topic: topic}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "topic"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": time.Now()}),
	}).Create(row).Error; err != nil {
		return nil, err
	}
	var saved models.TrendingTopic
	if err := r.db.Where("topic = ?", topic).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListUnpublished 未发布的话题，最早的优先
func (r *GormTrendingRepository) ListUnpublished(limit int) ([]models.TrendingTopic, error) {
	var topics []models.TrendingTopic
	query := r.db.Where("is_published = ?", false).Order("created_at ASC").Order("id ASC")
	if err := applyLimitOffset(query, limit, 0).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// CountUnpublished 未发布话题数量
func (r *GormTrendingRepository) CountUnpublished() (int64, error) {
	var count int64
	if err := r.db.Model(&models.TrendingTopic{}).Where("is_published = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkPublished 标记话题已发布，已被其他流程标记时返回 false
func (r *GormTrendingRepository) MarkPublished(id uint, postID uint) (bool, error) {
	result := r.db.Model(&models.TrendingTopic{}).
		Where("id = ? AND is_published = ?", id, false).
		Updates(map[string]interface{}{
			"is_published":      true,
			"published_post_id": postID,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
