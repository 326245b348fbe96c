package repository

import (
	"errors"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"

	"gorm.io/gorm"
)

// ImportQueueRepository 导入队列数据访问接口
type ImportQueueRepository interface {
	CreateBatch(items []models.ImportQueueItem) error
	GetByID(id uint) (*models.ImportQueueItem, error)
	ListByBatch(batchID string) ([]models.ImportQueueItem, error)
	SummarizeBatch(batchID string) (ImportStatusSummary, error)
	MarkProcessing(id uint, staleBefore time.Time) (bool, error)
	MarkCompleted(id uint, postID *uint) error
	MarkFailed(id uint, message string) error
	ListStale(filter StaleImportFilter) ([]models.ImportQueueItem, error)
	Requeue(id uint, staleBefore time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormImportQueueRepository
}

// GormImportQueueRepository GORM 实现
type GormImportQueueRepository struct {
	db *gorm.DB
}

// NewImportQueueRepository 创建导入队列仓库
func NewImportQueueRepository(db *gorm.DB) *GormImportQueueRepository {
	return &GormImportQueueRepository{db: db}
}

// WithTx 绑定事务
func (r *GormImportQueueRepository) WithTx(tx *gorm.DB) *GormImportQueueRepository {
	if tx == nil {
		return r
	}
	return &GormImportQueueRepository{db: tx}
}

// CreateBatch 批量写入暂存项
func (r *GormImportQueueRepository) CreateBatch(items []models.ImportQueueItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// GetByID 根据 ID 获取暂存项
func (r *GormImportQueueRepository) GetByID(id uint) (*models.ImportQueueItem, error) {
	var item models.ImportQueueItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByBatch 批次内所有暂存项
func (r *GormImportQueueRepository) ListByBatch(batchID string) ([]models.ImportQueueItem, error) {
	var items []models.ImportQueueItem
	if err := r.db.Where("batch_id = ?", batchID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SummarizeBatch 按状态统计批次
func (r *GormImportQueueRepository) SummarizeBatch(batchID string) (ImportStatusSummary, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	if err := r.db.Model(&models.ImportQueueItem{}).
		Select("status, COUNT(*) AS total").
		Where("batch_id = ?", batchID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return ImportStatusSummary{}, err
	}
	var summary ImportStatusSummary
	for _, item := range rows {
		switch item.Status {
		case constants.ImportStatusPending:
			summary.Pending = item.Total
		case constants.ImportStatusProcessing:
			summary.Processing = item.Total
		case constants.ImportStatusCompleted:
			summary.Completed = item.Total
		case constants.ImportStatusFailed:
			summary.Failed = item.Total
		}
	}
	return summary, nil
}

// MarkProcessing 认领暂存项并递增尝试次数
// 只认领 pending/failed 行，或 updated_at 早于 staleBefore 的 processing 行；同一行只有一个调用方能拿到 true
func (r *GormImportQueueRepository) MarkProcessing(id uint, staleBefore time.Time) (bool, error) {
	result := r.db.Model(&models.ImportQueueItem{}).
		Where("id = ? AND post_id IS NULL", id).
		Where(r.db.Where("status IN ?", []string{constants.ImportStatusPending, constants.ImportStatusFailed}).
			Or("status = ? AND updated_at < ?", constants.ImportStatusProcessing, staleBefore)).
		Updates(map[string]interface{}{
			"status":     constants.ImportStatusProcessing,
			"attempts":   gorm.Expr("attempts + ?", 1),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkCompleted 标记完成并记录生成的文章
func (r *GormImportQueueRepository) MarkCompleted(id uint, postID *uint) error {
	updates := map[string]interface{}{
		"status":        constants.ImportStatusCompleted,
		"error_message": nil,
		"updated_at":    time.Now(),
	}
	if postID != nil {
		updates["post_id"] = *postID
	}
	return r.db.Model(&models.ImportQueueItem{}).Where("id = ?", id).Updates(updates).Error
}

// MarkFailed 标记失败并记录原因
func (r *GormImportQueueRepository) MarkFailed(id uint, message string) error {
	return r.db.Model(&models.ImportQueueItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        constants.ImportStatusFailed,
		"error_message": message,
		"updated_at":    time.Now(),
	}).Error
}

// ListStale 长时间停留在 pending/processing 的暂存项
func (r *GormImportQueueRepository) ListStale(filter StaleImportFilter) ([]models.ImportQueueItem, error) {
	var items []models.ImportQueueItem
	query := r.db.Where("status IN ? AND updated_at < ?",
		[]string{constants.ImportStatusPending, constants.ImportStatusProcessing}, filter.Before).
		Order("id ASC")
	if err := applyLimitOffset(query, filter.Limit, 0).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Requeue 将超时的 pending/processing 行复位为 pending 并刷新更新时间
// 条件与 ListStale 一致，并发扫描时只有一方能复位成功
func (r *GormImportQueueRepository) Requeue(id uint, staleBefore time.Time) (bool, error) {
	result := r.db.Model(&models.ImportQueueItem{}).
		Where("id = ? AND status IN ? AND updated_at < ?", id,
			[]string{constants.ImportStatusPending, constants.ImportStatusProcessing}, staleBefore).
		Updates(map[string]interface{}{
			"status":     constants.ImportStatusPending,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
