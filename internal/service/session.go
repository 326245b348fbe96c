package service

import (
	"errors"
	"strings"
	"time"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Session 已校验的登录会话
type Session struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	ViaCookie bool   `json:"-"`
}

// SessionClaims 会话 JWT 声明
type SessionClaims struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// SessionIssuer 签发与解析会话 token
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer 创建会话签发器
func NewSessionIssuer(cfg config.JWTConfig) *SessionIssuer {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = 168
	}
	return &SessionIssuer{
		secret: []byte(cfg.SecretKey),
		ttl:    time.Duration(hours) * time.Hour,
		now:    time.Now,
	}
}

// Issue 为用户签发 token
func (i *SessionIssuer) Issue(user *models.User) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := SessionClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse 校验签名与有效期
func (i *SessionIssuer) Parse(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrUnauthorized
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
