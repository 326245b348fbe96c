package shared

import (
	"errors"

	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 通用错误提示
const (
	MsgBadRequest            = "Invalid request body"
	MsgUnauthorized          = "Unauthorized"
	MsgForbidden             = "Forbidden"
	MsgInternal              = "Internal server error"
	MsgDatabaseNotConfigured = "Database not configured. Visit /setup to configure."
	MsgTooManyRequests       = "Too many requests, please retry in %d seconds"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
// 原始错误只写日志，不回显给客户端。
func RespondError(c *gin.Context, code int, msg string, err error) {
	apiErr := response.NewAPIError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"status", apiErr.Status,
			"message", apiErr.Public,
			"path", c.FullPath(),
			"error", err,
		)
	}
	response.Error(c, apiErr.Status, apiErr.Public)
}

// MappedError 业务错误到接口响应的映射
// Msg 为空时使用错误本身的文本
type MappedError struct {
	Target error
	Code   int
	Msg    string
}

// CommonErrorRules 各资源共享的映射
var CommonErrorRules = []MappedError{
	{Target: service.ErrUnauthorized, Code: response.CodeUnauthorized, Msg: MsgUnauthorized},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Msg: MsgForbidden},
	{Target: service.ErrDatabaseUnavailable, Code: response.CodeServiceUnavailable, Msg: MsgDatabaseNotConfigured},
}

// RespondMappedError 按规则映射错误，未命中时返回 500 并记录原始错误
// 已是 APIError 的错误直接按其状态码返回
func RespondMappedError(c *gin.Context, err error, rules ...[]MappedError) {
	if apiErr, ok := response.AsAPIError(err); ok {
		RespondError(c, apiErr.Status, apiErr.Public, apiErr.Cause)
		return
	}
	for _, group := range append(rules, CommonErrorRules) {
		for _, rule := range group {
			if !errors.Is(err, rule.Target) {
				continue
			}
			msg := rule.Msg
			if msg == "" {
				msg = err.Error()
			}
			RespondError(c, rule.Code, msg, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, MsgInternal, err)
}
