package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// maxPeekBodyBytes 取限流字段时最多读取的请求体大小
const maxPeekBodyBytes = 64 << 10

const msgRateLimitUnavailable = "Rate limiter unavailable"

// RateLimitKeyFunc 从请求中取限流维度，返回空串时退回客户端 IP
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	// Message 可包含一个 %d，替换为需要等待的秒数
	Message string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return r.Prefix + ":" + raw
}

func (r RateLimitRule) message(wait int) string {
	format := strings.TrimSpace(r.Message)
	if format == "" {
		format = handlershared.MsgTooManyRequests
	}
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, wait)
	}
	return format
}

// 窗口内首次计数时设置过期，返回 {计数, 剩余秒数}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware 基于 redis 的固定窗口限流
// 未配置 redis 或规则时放行；redis 出错时返回 503，不放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		raw := ""
		if keyFunc != nil {
			raw = strings.TrimSpace(keyFunc(c))
		}
		if raw == "" {
			raw = c.ClientIP()
		}
		key := rule.key(raw)

		values, err := fixedWindowScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Int64Slice()
		if err != nil || len(values) < 2 {
			handlershared.RequestLog(c).Errorw("rate_limit_check_failed", "key", key, "error", err)
			response.ServiceUnavailable(c, msgRateLimitUnavailable)
			c.Abort()
			return
		}
		count, ttl := values[0], values[1]

		remaining := int64(rule.MaxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rule.MaxRequests) {
			wait := int(ttl)
			if wait < 1 {
				wait = rule.WindowSeconds
			}
			c.Header("Retry-After", strconv.Itoa(wait))
			response.Error(c, response.CodeTooManyRequests, rule.message(wait))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段（转小写）加客户端 IP 限流
// 同一 IP 尝试不同邮箱时分别计数
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONField(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONField 读取 JSON 请求体中的字符串字段，并还原请求体供后续绑定
func peekJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBodyBytes))
	if err != nil {
		return ""
	}
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), c.Request.Body), c.Request.Body}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(head, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
