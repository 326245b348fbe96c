package public

import (
	"net/http"
	"time"

	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

var registerErrorRules = []handlershared.MappedError{
	{Target: service.ErrRegisterFieldsRequired, Code: response.CodeBadRequest, Msg: "Email, password, and username are required"},
	// 文案带最小长度，直接使用错误文本
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest},
	{Target: service.ErrUserExists, Code: response.CodeConflict, Msg: "User with this email or username already exists"},
	{Target: service.ErrRoleNotAllowed, Code: response.CodeForbidden, Msg: "Only admins can assign the admin role"},
}

var loginErrorRules = []handlershared.MappedError{
	{Target: service.ErrLoginFieldsRequired, Code: response.CodeBadRequest, Msg: "Email and password required"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Msg: "Invalid credentials"},
}

// UserView 对外暴露的用户字段
type UserView struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func toUserView(user *models.User) UserView {
	return UserView{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
}

// CheckUsers 返回是否已有用户，未配置数据库时不报错
func (h *Handler) CheckUsers(c *gin.Context) {
	if !h.DatabaseReady() {
		response.Success(c, gin.H{"has_users": false, "configured": false, "user_count": 0})
		return
	}
	stats, err := h.AuthService.CheckUsers()
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, gin.H{
		"has_users":  stats.HasUsers,
		"configured": true,
		"user_count": stats.UserCount,
	})
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	handlershared.CaptchaPayloadRequest
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email, password, and username are required", nil)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Captcha:     req.ToServicePayload(),
		Requester:   handlershared.CurrentSession(c),
	})
	if err != nil {
		respondMappedError(c, err, registerErrorRules, handlershared.CaptchaErrorRules)
		return
	}

	response.Created(c, "User created successfully", gin.H{
		"message": "User created successfully",
		"user":    toUserView(user),
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	handlershared.CaptchaPayloadRequest
}

// Login 邮箱密码登录，写入会话 Cookie 并签发 CSRF token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email and password required", nil)
		return
	}

	result, err := h.AuthService.Login(service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		Captcha:   req.ToServicePayload(),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString("request_id"),
	})
	if err != nil {
		respondMappedError(c, err, loginErrorRules, handlershared.CaptchaErrorRules)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	csrfToken, err := h.CSRFService.Issue(c.Writer, c.Request)
	if err != nil {
		respondError(c, response.CodeInternal, handlershared.MsgInternal, err)
		return
	}
	requestLog(c).Infow("user_login", "user_id", result.User.ID)

	response.Success(c, gin.H{
		"user":       toUserView(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.UTC().Format(time.RFC3339),
		"csrf_token": csrfToken,
	})
}

// Logout 递增 token 版本并清除 Cookie
func (h *Handler) Logout(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(c.Request.Context(), session.UserID); err != nil {
		respondMappedError(c, err)
		return
	}
	h.clearSessionCookie(c)
	if err := h.CSRFService.Clear(c.Writer, c.Request); err != nil {
		requestLog(c).Warnw("csrf_session_clear_failed", "error", err)
	}
	response.Success(c, gin.H{"success": true})
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	user, err := h.AuthService.CurrentUser(session.UserID)
	if err != nil {
		respondMappedError(c, err, []handlershared.MappedError{
			{Target: service.ErrNotFound, Code: response.CodeUnauthorized, Msg: handlershared.MsgUnauthorized},
		})
		return
	}
	response.Success(c, gin.H{"user": toUserView(user)})
}

// LoginHistory 当前用户最近的登录记录
func (h *Handler) LoginHistory(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	limit, _ := handlershared.ParseLimitOffset(c)
	logs, err := h.AuthService.RecentLogins(session.UserID, limit)
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, gin.H{"logins": logs})
}

// CSRFToken 返回当前会话的 CSRF token
func (h *Handler) CSRFToken(c *gin.Context) {
	if _, ok := handlershared.MustSession(c); !ok {
		return
	}
	token, err := h.CSRFService.Current(c.Writer, c.Request)
	if err != nil {
		respondError(c, response.CodeInternal, handlershared.MsgInternal, err)
		return
	}
	response.Success(c, gin.H{"csrf_token": token})
}

// Captcha 生成图片验证码
func (h *Handler) Captcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondMappedError(c, err, handlershared.CaptchaErrorRules)
		return
	}
	response.Success(c, challenge)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if hours := h.Config.Session.MaxAgeHours; hours > 0 && hours*3600 < maxAge {
		maxAge = hours * 3600
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Config.Session.CookieName, token, maxAge, "/", "", h.Config.Server.IsRelease(), true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Config.Session.CookieName, "", -1, "/", "", h.Config.Server.IsRelease(), true)
}
