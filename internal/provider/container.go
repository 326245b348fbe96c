package provider

import (
	"github.com/newsroom-next/internal/authz"
	"github.com/newsroom-next/internal/cache"
	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/queue"
	"github.com/newsroom-next/internal/repository"
	"github.com/newsroom-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
// 数据库未配置时只初始化与数据库无关的部分
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	PostRepo     repository.PostRepository
	PageRepo     repository.PageRepository
	SettingRepo  repository.SettingRepository
	MenuRepo     repository.MenuRepository
	TrendingRepo repository.TrendingRepository
	ImportRepo   repository.ImportQueueRepository
	LoginLogRepo repository.UserLoginLogRepository
	AuditLogRepo repository.AuthzAuditLogRepository

	// Services
	SessionIssuer      *service.SessionIssuer
	CaptchaService     *service.CaptchaService
	CSRFService        *service.CSRFService
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	PostService        *service.PostService
	PageService        *service.PageService
	SettingService     *service.SettingService
	MenuService        *service.MenuService
	TrendingService    *service.TrendingService
	AutoPublishService *service.AutoPublishService
	ImportService      *service.ImportService
	SchedulerService   *service.SchedulerService
	FeedService        *service.FeedService
}

// NewContainer 初始化容器，db 为 nil 表示未配置数据库
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时返回空实现
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		return nil, err
	}

	c := &Container{
		Config:         cfg,
		DB:             db,
		QueueClient:    queueClient,
		SessionIssuer:  service.NewSessionIssuer(cfg.JWT),
		CaptchaService: service.NewCaptchaService(cfg.Captcha),
		CSRFService:    service.NewCSRFService(cfg),
	}
	if db == nil {
		logger.Warnw("provider_database_not_configured")
		return c, nil
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// DatabaseReady 数据库是否可用
func (c *Container) DatabaseReady() bool {
	return c != nil && c.DB != nil
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.PageRepo = repository.NewPageRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.MenuRepo = repository.NewMenuRepository(db)
	c.TrendingRepo = repository.NewTrendingRepository(db)
	c.ImportRepo = repository.NewImportQueueRepository(db)
	c.LoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.AuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.SessionIssuer, c.CaptchaService).WithLoginLog(c.LoginLogRepo)
	c.PostService = service.NewPostService(c.PostRepo, c.QueueClient)
	c.PageService = service.NewPageService(c.PageRepo, c.QueueClient)
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.MenuService = service.NewMenuService(c.MenuRepo)
	c.TrendingService = service.NewTrendingService(c.TrendingRepo, c.Config.Trending.SourceFile, c.Config.Trending.Take)
	c.AutoPublishService = service.NewAutoPublishService(c.DB, c.TrendingRepo, c.PostRepo)
	c.ImportService = service.NewImportService(c.DB, c.ImportRepo, c.PostRepo, c.UserRepo, c.QueueClient, c.Config.Import.StaleAfterSeconds)
	c.SchedulerService = service.NewSchedulerService(c.PostRepo, c.PageRepo)
	c.FeedService = service.NewFeedService(c.PostRepo, c.PageRepo, c.SettingRepo)
	return nil
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
