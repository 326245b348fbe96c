package repository

import (
	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// UserLoginLogRepository 登录审计数据访问接口
type UserLoginLogRepository interface {
	Create(log *models.UserLoginLog) error
	ListRecent(filter LoginLogFilter) ([]models.UserLoginLog, error)
}

// GormUserLoginLogRepository GORM 实现
type GormUserLoginLogRepository struct {
	db *gorm.DB
}

// NewUserLoginLogRepository 创建登录审计仓库
func NewUserLoginLogRepository(db *gorm.DB) *GormUserLoginLogRepository {
	return &GormUserLoginLogRepository{db: db}
}

// Create 写入登录记录
func (r *GormUserLoginLogRepository) Create(log *models.UserLoginLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListRecent 按时间倒序查询登录记录
func (r *GormUserLoginLogRepository) ListRecent(filter LoginLogFilter) ([]models.UserLoginLog, error) {
	query := r.db.Model(&models.UserLoginLog{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	logs := make([]models.UserLoginLog, 0)
	if err := applyLimitOffset(query.Order("id DESC"), filter.Limit, 0).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
