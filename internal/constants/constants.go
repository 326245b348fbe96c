package constants

// 内容状态常量
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusScheduled = "scheduled"
	// ContentStatusAll 列表查询时表示不过滤状态
	ContentStatusAll = "all"
)

// 用户角色常量
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// 导入队列状态常量
const (
	ImportStatusPending    = "pending"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// 自动发布默认值
const (
	AutoPublishBatchSize   = 5
	AutoPublishCategory    = "Technology"
	AutoPublishTagSuffix   = "News,Analysis,Trending"
	TrendingListLimit      = 10
	TrendingDefaultTake    = 5
	RecentTrendingPostSize = 10
)

// 列表分页默认值
const (
	PostListDefaultLimit = 10
	PostListMaxLimit     = 100
	FeedItemLimit        = 20
)

// 验证码场景
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 会话相关
const (
	CSRFSessionName = "newsroom_csrf"
	CSRFHeaderName  = "X-CSRF-Token"
	CSRFSessionKey  = "csrf_token"
)

// 队列与任务类型
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskImportProcessItem       = "import:process_item"
	TaskContentPublishScheduled = "content:publish_scheduled"
)

// 定时发布的内容类型
const (
	ContentKindPost = "post"
	ContentKindPage = "page"
)

// 登录审计
const (
	LoginStatusSuccess = "success"
	LoginStatusFailed  = "failed"

	LoginFailInvalidCredentials = "invalid_credentials"
	LoginFailCaptcha            = "captcha"
)

// 权限审计动作
const (
	AuthzAuditActionGrant  = "grant"
	AuthzAuditActionRevoke = "revoke"
)
