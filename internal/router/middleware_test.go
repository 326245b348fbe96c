package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newsroom-next/internal/config"
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

func TestCORSPolicyAllowOrigin(t *testing.T) {
	cases := []struct {
		name   string
		cfg    config.CORSConfig
		origin string
		want   string
	}{
		{name: "default wildcard", origin: "https://example.com", want: "*"},
		{name: "wildcard with credentials echoes", cfg: config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}, origin: "https://example.com", want: "https://example.com"},
		{name: "allow-list match", cfg: config.CORSConfig{AllowedOrigins: []string{"https://a.example.com", "https://b.example.com"}}, origin: "https://A.example.com", want: "https://A.example.com"},
		{name: "allow-list miss", cfg: config.CORSConfig{AllowedOrigins: []string{"https://a.example.com"}}, origin: "https://x.example.com", want: ""},
		{name: "no origin header", cfg: config.CORSConfig{AllowedOrigins: []string{"https://a.example.com"}}, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := newCORSPolicy(tc.cfg).allowOrigin(tc.origin); got != tc.want {
				t.Fatalf("allowOrigin want %q got %q", tc.want, got)
			}
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}, AllowCredentials: true, MaxAge: 600}))
	r.POST("/api/posts", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Fatalf("allow origin got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" || w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Fatalf("unexpected preflight headers: %v", w.Header())
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req2.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w2, req2)
	if w2.Header().Get("Access-Control-Allow-Origin") != "" || w2.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatalf("foreign origin must not be allowed: %v", w2.Header())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if strings.TrimSpace(generated) == "" {
		t.Fatalf("generated request id should not be blank")
	}

	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req3.Header.Set(requestIDHeader, "bad id\nInjected: 1")
	r.ServeHTTP(w3, req3)
	if got := w3.Header().Get(requestIDHeader); got == "bad id\nInjected: 1" || got == "" {
		t.Fatalf("invalid upstream request id should be replaced, got %q", got)
	}
}

func TestValidRequestID(t *testing.T) {
	if !validRequestID("8f14e45f-ceea-467f-a0e6-2c1b4f5c1e9a") {
		t.Fatalf("uuid should be accepted")
	}
	if validRequestID(strings.Repeat("a", maxRequestIDLen+1)) {
		t.Fatalf("overlong id should be rejected")
	}
	if validRequestID("a b") || validRequestID("") {
		t.Fatalf("blank or spaced id should be rejected")
	}
}

type stubCSRFVerifier struct {
	err error
}

func (s stubCSRFVerifier) Enabled() bool { return true }

func (s stubCSRFVerifier) Verify(*http.Request) error { return s.err }

func TestCSRFMiddlewareOnlyChecksCookieSessions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		method    string
		session   *service.Session
		verifyErr error
		want      int
	}{
		{name: "safe method", method: http.MethodGet, session: &service.Session{UserID: 1, ViaCookie: true}, verifyErr: errors.New("bad"), want: http.StatusOK},
		{name: "bearer write", method: http.MethodPost, session: &service.Session{UserID: 1}, verifyErr: errors.New("bad"), want: http.StatusOK},
		{name: "anonymous write", method: http.MethodPost, verifyErr: errors.New("bad"), want: http.StatusOK},
		{name: "cookie write rejected", method: http.MethodPost, session: &service.Session{UserID: 1, ViaCookie: true}, verifyErr: errors.New("bad"), want: http.StatusForbidden},
		{name: "cookie write accepted", method: http.MethodPost, session: &service.Session{UserID: 1, ViaCookie: true}, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				handlershared.SetSession(c, tc.session)
				c.Next()
			})
			r.Use(CSRFMiddleware(stubCSRFVerifier{err: tc.verifyErr}))
			r.Handle(tc.method, "/x", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, "/x", nil))
			if w.Code != tc.want {
				t.Fatalf("status want %d got %d", tc.want, w.Code)
			}
		})
	}
}

func TestExtractSessionTokenPrefersCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer header-token")
	token, viaCookie := extractSessionToken(c, "user_id")
	if token != "header-token" || viaCookie {
		t.Fatalf("bearer token want header-token got %s cookie=%v", token, viaCookie)
	}

	c.Request.AddCookie(&http.Cookie{Name: "user_id", Value: "cookie-token"})
	token, viaCookie = extractSessionToken(c, "user_id")
	if token != "cookie-token" || !viaCookie {
		t.Fatalf("cookie token want cookie-token got %s cookie=%v", token, viaCookie)
	}
}

func TestRequireSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequireSessionMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 || resp.Msg != "Unauthorized" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
