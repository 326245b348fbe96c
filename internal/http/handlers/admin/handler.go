package admin

import (
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 后台写入接口处理器入口
// 说明：路由层已完成会话与角色校验。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondMappedError(c *gin.Context, err error, rules ...[]handlershared.MappedError) {
	handlershared.RespondMappedError(c, err, rules...)
}
