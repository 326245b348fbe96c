package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/newsroom-next/internal/authz"
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionResolver 校验会话 token
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*service.Session, error)
}

// OptionalSessionMiddleware 存在有效会话时写入上下文，不拦截请求
// Cookie 优先，其次 Authorization: Bearer
func OptionalSessionMiddleware(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			c.Next()
			return
		}
		token, viaCookie := extractSessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		session, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil || session == nil {
			c.Next()
			return
		}
		session.ViaCookie = viaCookie
		handlershared.SetSession(c, session)
		c.Set("user_id", session.UserID)
		c.Next()
	}
}

// RequireSessionMiddleware 要求已登录，需放在 OptionalSessionMiddleware 之后
func RequireSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if handlershared.CurrentSession(c) == nil {
			response.Unauthorized(c, handlershared.MsgUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFVerifier 校验 CSRF token
type CSRFVerifier interface {
	Enabled() bool
	Verify(r *http.Request) error
}

// CSRFMiddleware Cookie 会话的写操作需携带 X-CSRF-Token
// Bearer 认证的请求不受 CSRF 影响
func CSRFMiddleware(verifier CSRFVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil || !verifier.Enabled() || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		session := handlershared.CurrentSession(c)
		if session == nil || !session.ViaCookie {
			c.Next()
			return
		}
		if err := verifier.Verify(c.Request); err != nil {
			handlershared.RequestLog(c).Warnw("csrf_verify_failed",
				"user_id", session.UserID,
				"path", c.Request.URL.Path,
			)
			response.Forbidden(c, "Invalid CSRF token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RBACMiddleware 按会话角色与路由模板做授权
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := handlershared.CurrentSession(c)
		if session == nil {
			response.Unauthorized(c, handlershared.MsgUnauthorized)
			c.Abort()
			return
		}
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			response.Error(c, response.CodeServiceUnavailable, handlershared.MsgDatabaseNotConfigured)
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceRole(session.Role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"user_id", session.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Error(c, response.CodeInternal, handlershared.MsgInternal)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"user_id", session.UserID,
				"role", session.Role,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, handlershared.MsgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetupModeMiddleware 数据库未配置时的访问控制
// 后台与登录页重定向到 /setup，其余数据接口返回 503
func SetupModeMiddleware(configured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configured {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		if isSetupAllowedPath(path) {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodGet && isSetupRedirectPath(path) {
			c.Redirect(http.StatusTemporaryRedirect, "/setup")
			c.Abort()
			return
		}
		response.ServiceUnavailable(c, handlershared.MsgDatabaseNotConfigured)
		c.Abort()
	}
}

func isSetupAllowedPath(path string) bool {
	switch path {
	case "/setup", "/healthz", "/metrics", "/api/auth/check-users", "/api/auth/captcha":
		return true
	}
	return false
}

func isSetupRedirectPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/") || path == "/login"
}

func extractSessionToken(c *gin.Context, cookieName string) (string, bool) {
	if cookieName != "" {
		if value, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
