package repository

import "gorm.io/gorm"

// applyLimitOffset 应用 limit/offset，非法值按不分页或从 0 开始处理。
func applyLimitOffset(query *gorm.DB, limit, offset int) *gorm.DB {
	if query == nil || limit <= 0 {
		return query
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
