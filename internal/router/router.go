package router

import (
	"fmt"
	"strings"

	"github.com/newsroom-next/internal/cache"
	"github.com/newsroom-next/internal/config"
	adminhandlers "github.com/newsroom-next/internal/http/handlers/admin"
	publichandlers "github.com/newsroom-next/internal/http/handlers/public"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "nr"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "Too many login attempts, please retry in %d seconds",
	}

	// 数据库未配置时 AuthService 为空，避免写入带 nil 指针的接口
	var resolver SessionResolver
	if c.AuthService != nil {
		resolver = c.AuthService
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	if cfg.Observability.MetricsEnabled {
		r.Use(MetricsMiddleware())
	}
	r.Use(TracingMiddleware())
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SetupModeMiddleware(c.DatabaseReady()))
	r.Use(OptionalSessionMiddleware(resolver, cfg.Session.CookieName))

	csrf := CSRFMiddleware(c.CSRFService)
	requireSession := RequireSessionMiddleware()

	// 运维接口
	r.GET("/healthz", publicHandler.Healthz)
	r.GET("/setup", publicHandler.Setup)
	if cfg.Observability.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 订阅源
	r.GET("/rss.xml", publicHandler.RSS)
	r.GET("/sitemap.xml", publicHandler.Sitemap)

	api := r.Group("/api")
	{
		// 认证接口
		auth := api.Group("/auth")
		{
			auth.GET("/check-users", publicHandler.CheckUsers)
			auth.GET("/captcha", publicHandler.Captcha)
			auth.POST("/register", csrf, publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)

			authed := auth.Group("", requireSession, csrf)
			{
				authed.POST("/logout", publicHandler.Logout)
				authed.GET("/me", publicHandler.Me)
				authed.GET("/logins", publicHandler.LoginHistory)
				authed.GET("/csrf", publicHandler.CSRFToken)
			}
		}

		// 公开读取接口
		api.GET("/posts", publicHandler.GetPosts)
		api.GET("/posts/slug/:slug", publicHandler.GetPostBySlug)
		api.GET("/posts/:id", publicHandler.GetPost)
		api.POST("/posts/:id/view", publicHandler.IncrementPostView)
		api.GET("/pages", publicHandler.GetPages)
		api.GET("/pages/:id", publicHandler.GetPage)
		api.GET("/settings", publicHandler.GetSettings)
		api.GET("/menu", publicHandler.GetMenu)
		api.GET("/trending", publicHandler.GetTrending)
		api.GET("/auto-publish", publicHandler.GetAutoPublishStatus)

		// 需登录且按角色授权的写入接口
		authorized := api.Group("", requireSession, csrf, RBACMiddleware(c.AuthzService))
		{
			// 文章
			authorized.POST("/posts", adminHandler.CreatePost)
			authorized.PUT("/posts/:id", adminHandler.UpdatePost)
			authorized.DELETE("/posts/:id", adminHandler.DeletePost)

			// 页面
			authorized.POST("/pages", adminHandler.CreatePage)
			authorized.PUT("/pages/:id", adminHandler.UpdatePage)
			authorized.DELETE("/pages/:id", adminHandler.DeletePage)

			// 站点设置与菜单（仅管理员）
			authorized.PUT("/settings", adminHandler.UpdateSettings)
			authorized.POST("/menu", adminHandler.CreateMenuItem)
			authorized.PUT("/menu/:id", adminHandler.UpdateMenuItem)
			authorized.DELETE("/menu/:id", adminHandler.DeleteMenuItem)

			// 热门话题、导入与自动发布
			authorized.POST("/trending", adminHandler.FetchTrending)
			authorized.POST("/import", adminHandler.ImportPosts)
			authorized.GET("/import/:batch_id", adminHandler.GetImportBatch)
			authorized.POST("/auto-publish", adminHandler.RunAutoPublish)
		}
	}

	return r
}
