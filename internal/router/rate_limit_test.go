package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestPeekJSONFieldIgnoresNonStrings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":42}`))
	if got := peekJSONField(c, "email"); got != "" {
		t.Fatalf("numeric field should be ignored, got %q", got)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`not json`))
	if got := peekJSONField(c, "email"); got != "" {
		t.Fatalf("invalid body should be ignored, got %q", got)
	}
	body, _ := io.ReadAll(c.Request.Body)
	if string(body) != "not json" {
		t.Fatalf("body should be restored, got %q", body)
	}
}

func TestRateLimitMiddlewareRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	r := gin.New()
	r.Use(RateLimitMiddleware(client, RateLimitRule{WindowSeconds: 60, MaxRequests: 5}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("redis failure should return 503, got %d", w.Code)
	}
}

func TestRateLimitMiddlewareBlocksAfterMax(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.Use(RateLimitMiddleware(client, RateLimitRule{
		Prefix:        "nr:rate:login",
		WindowSeconds: 60,
		MaxRequests:   2,
		Message:       "Too many login attempts, please retry in %d seconds",
	}, KeyByIPAndJSONField("email")))
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	send := func(email string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		w := send("a@example.com")
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d want 200 got %d", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(1-i) {
			t.Fatalf("attempt %d remaining want %d got %s", i+1, 1-i, got)
		}
	}
	w := send("a@example.com")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt want 429 got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if !strings.Contains(w.Body.String(), "Too many login attempts") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if w := send("b@example.com"); w.Code != http.StatusOK {
		t.Fatalf("other email should not be limited, got %d", w.Code)
	}
}
