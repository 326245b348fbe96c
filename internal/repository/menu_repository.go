package repository

import (
	"errors"

	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// MenuRepository 菜单数据访问接口
type MenuRepository interface {
	List() ([]models.MenuItem, error)
	GetByID(id uint) (*models.MenuItem, error)
	Create(item *models.MenuItem) error
	Update(item *models.MenuItem) error
	Delete(id uint) error
}

// GormMenuRepository GORM 实现
type GormMenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository 创建菜单仓库
func NewMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// List 按排序值与 ID 升序返回全部菜单项
func (r *GormMenuRepository) List() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Order("order_index ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据 ID 获取菜单项
func (r *GormMenuRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建菜单项
func (r *GormMenuRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// Update 更新菜单项
func (r *GormMenuRepository) Update(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

// Delete 删除菜单项，子项的 parent_id 置空
func (r *GormMenuRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MenuItem{}, id).Error
	})
}
