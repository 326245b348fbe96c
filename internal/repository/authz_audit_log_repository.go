package repository

import (
	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// AuthzAuditLogRepository 权限审计日志数据访问接口
type AuthzAuditLogRepository interface {
	Create(log *models.AuthzAuditLog) error
	List(filter AuthzAuditLogFilter) ([]models.AuthzAuditLog, error)
}

// GormAuthzAuditLogRepository GORM 实现
type GormAuthzAuditLogRepository struct {
	db *gorm.DB
}

// NewAuthzAuditLogRepository 创建权限审计日志仓库
func NewAuthzAuditLogRepository(db *gorm.DB) *GormAuthzAuditLogRepository {
	return &GormAuthzAuditLogRepository{db: db}
}

// Create 创建权限审计日志
func (r *GormAuthzAuditLogRepository) Create(log *models.AuthzAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 按时间倒序查询，可按角色过滤
func (r *GormAuthzAuditLogRepository) List(filter AuthzAuditLogFilter) ([]models.AuthzAuditLog, error) {
	query := r.db.Model(&models.AuthzAuditLog{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	logs := make([]models.AuthzAuditLog, 0)
	if err := applyLimitOffset(query.Order("id DESC"), filter.Limit, 0).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
