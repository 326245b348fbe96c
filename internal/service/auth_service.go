package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/newsroom-next/internal/cache"
	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"
)

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// dummyPasswordHash 未知邮箱时用于消耗等量的校验时间
func dummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("newsroom-dummy-password")
	})
	return dummyHash
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
	Role        string
	Captcha     CaptchaVerifyPayload
	// Requester 发起注册的已登录会话，可为空
	Requester *Session
}

// LoginInput 登录参数
type LoginInput struct {
	Email    string
	Password string
	Captcha  CaptchaVerifyPayload
	// 以下字段只用于登录审计
	ClientIP  string
	UserAgent string
	RequestID string
}

// LoginResult 登录结果
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// UserStats 用户概况
type UserStats struct {
	HasUsers  bool  `json:"has_users"`
	UserCount int64 `json:"user_count"`
}

// AuthService 用户认证服务
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	issuer   *SessionIssuer
	captcha  *CaptchaService

	loginLogs repository.UserLoginLogRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, issuer *SessionIssuer, captcha *CaptchaService) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		issuer:   issuer,
		captcha:  captcha,
	}
}

// WithLoginLog 启用登录审计
func (s *AuthService) WithLoginLog(repo repository.UserLoginLogRepository) *AuthService {
	s.loginLogs = repo
	return s
}

func (s *AuthService) passwordMinLength() int {
	if s.cfg == nil {
		return 6
	}
	return s.cfg.Security.PasswordMinLength
}

// CheckUsers 是否已有用户，用于首次安装引导
func (s *AuthService) CheckUsers() (UserStats, error) {
	count, err := s.userRepo.Count()
	if err != nil {
		return UserStats{}, err
	}
	return UserStats{HasUsers: count > 0, UserCount: count}, nil
}

// Register 注册用户
// 首个用户强制为管理员；管理员角色只能由已登录管理员指定
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || input.Password == "" || username == "" {
		return nil, ErrRegisterFieldsRequired
	}
	if err := validatePassword(s.passwordMinLength(), input.Password); err != nil {
		return nil, err
	}
	if err := s.captcha.Verify(constants.CaptchaSceneRegister, input.Captcha); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	count, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	role, err := resolveRegisterRole(count == 0, input.Role, input.Requester)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	logger.Infow("user_registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func resolveRegisterRole(firstUser bool, requested string, requester *Session) (string, error) {
	if firstUser {
		return constants.RoleAdmin, nil
	}
	role := strings.ToLower(strings.TrimSpace(requested))
	switch role {
	case "":
		return constants.RoleEditor, nil
	case constants.RoleEditor, constants.RoleViewer:
		return role, nil
	case constants.RoleAdmin:
		if requester != nil && requester.Role == constants.RoleAdmin {
			return role, nil
		}
		return "", ErrRoleNotAllowed
	default:
		return constants.RoleEditor, nil
	}
}

// Login 邮箱密码登录
// 未知邮箱与密码错误返回同一错误
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrLoginFieldsRequired
	}
	if err := s.captcha.Verify(constants.CaptchaSceneLogin, input.Captcha); err != nil {
		s.recordLogin(input, email, 0, constants.LoginFailCaptcha)
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		VerifyPassword(input.Password, dummyPasswordHash())
		s.recordLogin(input, email, 0, constants.LoginFailInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(input.Password, user.PasswordHash) {
		s.recordLogin(input, email, user.ID, constants.LoginFailInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("auth_state_cache_write_failed", "user_id", user.ID, "error", err)
	}
	s.recordLogin(input, email, user.ID, "")
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// recordLogin 写入登录审计，failReason 为空表示成功
// 写入失败只记日志，不影响登录结果
func (s *AuthService) recordLogin(input LoginInput, email string, userID uint, failReason string) {
	if s.loginLogs == nil {
		return
	}
	status := constants.LoginStatusSuccess
	if failReason != "" {
		status = constants.LoginStatusFailed
	}
	entry := &models.UserLoginLog{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   strings.TrimSpace(input.ClientIP),
		UserAgent:  input.UserAgent,
		RequestID:  input.RequestID,
	}
	if err := s.loginLogs.Create(entry); err != nil {
		logger.Warnw("login_log_write_failed", "email", email, "error", err)
	}
}

// RecentLogins 查询用户最近的登录记录
func (s *AuthService) RecentLogins(userID uint, limit int) ([]models.UserLoginLog, error) {
	if s.loginLogs == nil {
		return []models.UserLoginLog{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.loginLogs.ListRecent(repository.LoginLogFilter{UserID: userID, Limit: limit})
}

// Logout 递增 token 版本使所有已签发 token 失效
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	if _, err := s.userRepo.IncrementTokenVersion(userID); err != nil {
		return err
	}
	if err := cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Warnw("auth_state_cache_delete_failed", "user_id", userID, "error", err)
	}
	return nil
}

// CurrentUser 获取会话对应用户
func (s *AuthService) CurrentUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ResolveSession 校验 token 并与当前 token 版本比对
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	state, err := s.loadAuthState(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.TokenVersion != claims.TokenVersion {
		return nil, ErrUnauthorized
	}
	return &Session{UserID: state.UserID, Role: state.Role}, nil
}

func (s *AuthService) loadAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, userID)
	if err != nil {
		logger.Warnw("auth_state_cache_read_failed", "user_id", userID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	state = cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Warnw("auth_state_cache_write_failed", "user_id", userID, "error", err)
	}
	return state, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
