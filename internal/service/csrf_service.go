package service

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/constants"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// ErrCSRFTokenMismatch CSRF 校验失败
var ErrCSRFTokenMismatch = errors.New("csrf token mismatch")

// CSRFService 基于签名 Cookie 会话的 CSRF token
// token 保存在 newsroom_csrf 会话中，请求通过 X-CSRF-Token 回传
type CSRFService struct {
	enabled bool
	store   *sessions.CookieStore
}

// NewCSRFService 创建 CSRF 服务
func NewCSRFService(cfg *config.Config) *CSRFService {
	store := sessions.NewCookieStore([]byte(cfg.Session.CSRFSecret))
	maxAgeHours := cfg.Session.MaxAgeHours
	if maxAgeHours <= 0 {
		maxAgeHours = 168
	}
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAgeHours * 3600,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Server.IsRelease(),
	}
	return &CSRFService{
		enabled: cfg.Security.CSRF.Enabled,
		store:   store,
	}
}

// Enabled 是否启用 CSRF 校验
func (s *CSRFService) Enabled() bool {
	return s != nil && s.enabled
}

// Issue 生成新 token 并写入会话 Cookie
func (s *CSRFService) Issue(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := s.store.Get(r, constants.CSRFSessionName)
	if err != nil && sess == nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
	sess.Values[constants.CSRFSessionKey] = token
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return token, nil
}

// Current 读取会话中的 token，不存在时新签发
func (s *CSRFService) Current(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := s.stored(r); token != "" {
		return token, nil
	}
	return s.Issue(w, r)
}

// Verify 比对请求头与会话中的 token
func (s *CSRFService) Verify(r *http.Request) error {
	if !s.Enabled() {
		return nil
	}
	expected := s.stored(r)
	provided := strings.TrimSpace(r.Header.Get(constants.CSRFHeaderName))
	if expected == "" || provided == "" {
		return ErrCSRFTokenMismatch
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		return ErrCSRFTokenMismatch
	}
	return nil
}

// Clear 删除 CSRF 会话 Cookie
func (s *CSRFService) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.store.Get(r, constants.CSRFSessionName)
	if err != nil && sess == nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func (s *CSRFService) stored(r *http.Request) string {
	sess, err := s.store.Get(r, constants.CSRFSessionName)
	if err != nil || sess == nil {
		return ""
	}
	token, _ := sess.Values[constants.CSRFSessionKey].(string)
	return token
}
