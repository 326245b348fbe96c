package shared

import (
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionContextKey gin 上下文中的会话键
const SessionContextKey = "session"

// SetSession 写入已校验的会话
func SetSession(c *gin.Context, session *service.Session) {
	if session == nil {
		return
	}
	c.Set(SessionContextKey, session)
}

// CurrentSession 读取会话，未登录返回 nil
func CurrentSession(c *gin.Context) *service.Session {
	if c == nil {
		return nil
	}
	value, ok := c.Get(SessionContextKey)
	if !ok {
		return nil
	}
	session, ok := value.(*service.Session)
	if !ok || session == nil || session.UserID == 0 {
		return nil
	}
	return session
}

// MustSession 读取会话，缺失时直接返回 401
func MustSession(c *gin.Context) (*service.Session, bool) {
	session := CurrentSession(c)
	if session == nil {
		RespondError(c, response.CodeUnauthorized, MsgUnauthorized, nil)
		return nil, false
	}
	return session, true
}
