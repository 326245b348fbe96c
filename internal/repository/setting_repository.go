package repository

import (
	"errors"

	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// SettingRepository 站点设置数据访问接口
type SettingRepository interface {
	Get() (*models.Settings, error)
	Upsert(settings *models.Settings) error
}

// GormSettingRepository GORM 实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建设置仓库
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get 获取单行设置，不存在时返回 nil
func (r *GormSettingRepository) Get() (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.First(&settings, models.SettingsSingletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert 写入单行设置，ID 固定为 1
func (r *GormSettingRepository) Upsert(settings *models.Settings) error {
	if settings == nil {
		return nil
	}
	settings.ID = models.SettingsSingletonID
	return r.db.Save(settings).Error
}
