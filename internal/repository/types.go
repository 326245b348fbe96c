package repository

import "time"

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Status   string // 为空表示不过滤
	Category string
	Slug     string
	Search   string
	Limit    int
	Offset   int
}

// PageListFilter 查询页面列表的过滤条件
type PageListFilter struct {
	Status string
}

// ImportStatusSummary 导入批次各状态计数
type ImportStatusSummary struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// StaleImportFilter 查询卡住的导入项
type StaleImportFilter struct {
	Before time.Time
	Limit  int
}

// LoginLogFilter 登录记录查询条件
type LoginLogFilter struct {
	UserID uint
	Email  string
	Status string
	Limit  int
}

// AuthzAuditLogFilter 权限审计查询条件
type AuthzAuditLogFilter struct {
	Role   string
	Action string
	Limit  int
}
