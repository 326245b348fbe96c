package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// PageRepository 页面数据访问接口
type PageRepository interface {
	List(filter PageListFilter) ([]models.Page, error)
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Page, error)
	Create(page *models.Page) error
	Update(page *models.Page) error
	Delete(id uint) error
	ListPublished() ([]models.Page, error)
	ListDueScheduled(now time.Time, limit int) ([]models.Page, error)
	PublishScheduled(id uint, now time.Time) (bool, error)
}

// GormPageRepository GORM 实现
type GormPageRepository struct {
	db *gorm.DB
}

// NewPageRepository 创建页面仓库
func NewPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

// List 页面列表，按创建时间倒序
func (r *GormPageRepository) List(filter PageListFilter) ([]models.Page, error) {
	query := r.db.Model(&models.Page{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	var pages []models.Page
	if err := query.Order("created_at DESC").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// GetByID 根据 ID 获取页面
func (r *GormPageRepository) GetByID(id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

// GetBySlug 根据 slug 获取页面
func (r *GormPageRepository) GetBySlug(slug string, onlyPublished bool) (*models.Page, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.ContentStatusPublished)
	}
	var page models.Page
	if err := query.Order("created_at DESC").First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

// Create 创建页面
func (r *GormPageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

// Update 更新页面
func (r *GormPageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

// Delete 删除页面
func (r *GormPageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Page{}, id).Error
}

// ListPublished 所有已发布页面
func (r *GormPageRepository) ListPublished() ([]models.Page, error) {
	return r.List(PageListFilter{Status: constants.ContentStatusPublished})
}

// ListDueScheduled 到期待发布的定时页面
func (r *GormPageRepository) ListDueScheduled(now time.Time, limit int) ([]models.Page, error) {
	var pages []models.Page
	query := r.db.Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", constants.ContentStatusScheduled, now).
		Order("scheduled_at ASC")
	if err := applyLimitOffset(query, limit, 0).Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// PublishScheduled 条件发布定时页面
func (r *GormPageRepository) PublishScheduled(id uint, now time.Time) (bool, error) {
	result := r.db.Model(&models.Page{}).
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
