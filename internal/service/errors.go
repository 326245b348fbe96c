package service

import "errors"

var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("not found")
	// ErrForbidden 无权操作
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized 会话缺失或已失效
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials 邮箱或密码错误，不区分具体原因
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWeakPassword 密码不满足策略
	ErrWeakPassword = errors.New("weak password")
	// ErrUserExists 邮箱或用户名已被占用
	ErrUserExists = errors.New("user already exists")
	// ErrRegisterFieldsRequired 注册缺少必填字段
	ErrRegisterFieldsRequired = errors.New("email, password and username are required")
	// ErrLoginFieldsRequired 登录缺少必填字段
	ErrLoginFieldsRequired = errors.New("email and password are required")
	// ErrRoleNotAllowed 非管理员不可申请管理员角色
	ErrRoleNotAllowed = errors.New("role not allowed")
	// ErrTitleContentRequired 标题与正文必填
	ErrTitleContentRequired = errors.New("title and content required")
	// ErrInvalidStatus 内容状态非法
	ErrInvalidStatus = errors.New("invalid status")
	// ErrScheduledAtRequired 定时发布缺少时间
	ErrScheduledAtRequired = errors.New("scheduled_at required")
	// ErrInvalidImportPayload 导入数据为空或格式错误
	ErrInvalidImportPayload = errors.New("invalid posts array")
	// ErrMenuItemInvalid 菜单项缺少名称或链接
	ErrMenuItemInvalid = errors.New("label and url required")
	// ErrCaptchaRequired 需要验证码
	ErrCaptchaRequired = errors.New("captcha required")
	// ErrCaptchaInvalid 验证码错误
	ErrCaptchaInvalid = errors.New("captcha invalid")
	// ErrCaptchaConfigInvalid 验证码未启用或配置错误
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
	// ErrDatabaseUnavailable 数据库未配置
	ErrDatabaseUnavailable = errors.New("database not configured")
)
