package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	IncrementViews(id uint) (int64, bool, error)
	ListTrending(limit int) ([]models.Post, error)
	CountTrending() (int64, error)
	ListPublished(limit int) ([]models.Post, error)
	ListDueScheduled(now time.Time, limit int) ([]models.Post, error)
	PublishScheduled(id uint, now time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormPostRepository
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostRepository) WithTx(tx *gorm.DB) *GormPostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

// List 文章列表，按发布时间倒序（空值置后），再按创建时间倒序
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if slug := strings.TrimSpace(filter.Slug); slug != "" {
		query = query.Where("slug = ?", slug)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"title", "excerpt"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	query = applyLimitOffset(query, filter.Limit, filter.Offset)
	if err := query.Order(descNullsLast(r.db, "published_at")).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID 根据 ID 获取文章
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug 根据 slug 获取文章，同名时取最新
func (r *GormPostRepository) GetBySlug(slug string, onlyPublished bool) (*models.Post, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.ContentStatusPublished)
	}
	var post models.Post
	if err := query.Order("created_at DESC").First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update 更新文章
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete 删除文章
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// IncrementViews 原子递增阅读数，返回新值与是否存在
func (r *GormPostRepository) IncrementViews(id uint) (int64, bool, error) {
	result := r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	var views int64
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Pluck("views", &views).Error; err != nil {
		return 0, true, err
	}
	return views, true, nil
}

// ListTrending 最近的热点文章
func (r *GormPostRepository) ListTrending(limit int) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.Where("is_trending_post = ?", true).Order("created_at DESC")
	if err := applyLimitOffset(query, limit, 0).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountTrending 热点文章总数
func (r *GormPostRepository) CountTrending() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("is_trending_post = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListPublished 最近发布的文章，用于订阅源与站点地图
func (r *GormPostRepository) ListPublished(limit int) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.Where("status = ?", constants.ContentStatusPublished).
		Order(descNullsLast(r.db, "published_at")).
		Order("created_at DESC")
	if err := applyLimitOffset(query, limit, 0).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListDueScheduled 到期待发布的定时文章
func (r *GormPostRepository) ListDueScheduled(now time.Time, limit int) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", constants.ContentStatusScheduled, now).
		Order("scheduled_at ASC")
	if err := applyLimitOffset(query, limit, 0).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// PublishScheduled 条件发布：仍为定时状态且已到期才更新
func (r *GormPostRepository) PublishScheduled(id uint, now time.Time) (bool, error) {
	result := r.db.Model(&models.Post{}).
		Where("id = ? AND status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", id, constants.ContentStatusScheduled, now).
		Updates(map[string]interface{}{
			"status":       constants.ContentStatusPublished,
			"published_at": now,
			"scheduled_at": nil,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
