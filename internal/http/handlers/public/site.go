package public

import (
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSettings 站点设置
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.SettingService.Get(c.Request.Context())
	if err != nil {
		respondMappedError(c, err, []handlershared.MappedError{
			{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "Settings not found"},
		})
		return
	}
	response.Success(c, gin.H{"settings": settings})
}

// GetMenu 导航菜单
func (h *Handler) GetMenu(c *gin.Context) {
	items, err := h.MenuService.List()
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// GetTrending 最新热门话题
func (h *Handler) GetTrending(c *gin.Context) {
	topics, err := h.TrendingService.Latest()
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, gin.H{"topics": topics})
}

// GetAutoPublishStatus 自动发布概况
func (h *Handler) GetAutoPublishStatus(c *gin.Context) {
	status, err := h.AutoPublishService.Status()
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, status)
}
