package repository

import (
	"errors"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Count() (int64, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	ExistsByEmailOrUsername(email, username string) (bool, error)
	FirstAdmin() (*models.User, error)
	Create(user *models.User) error
	IncrementTokenVersion(id uint) (uint64, error)
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// Count 用户总数
func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByEmailOrUsername 邮箱或用户名是否已被占用
func (r *GormUserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FirstAdmin 最早创建的管理员，导入文章以其为作者
func (r *GormUserRepository) FirstAdmin() (*models.User, error) {
	var user models.User
	if err := r.db.Where("role = ?", constants.RoleAdmin).Order("id ASC").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// IncrementTokenVersion 递增 token 版本并返回新值
func (r *GormUserRepository) IncrementTokenVersion(id uint) (uint64, error) {
	var version uint64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", id).
			UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Pluck("token_version", &version).Error
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}
