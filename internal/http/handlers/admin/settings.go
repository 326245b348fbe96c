package admin

import (
	"github.com/newsroom-next/internal/constants"
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateSettings 全量更新站点设置，仅管理员
func (h *Handler) UpdateSettings(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	if session.Role != constants.RoleAdmin {
		respondError(c, response.CodeForbidden, handlershared.MsgForbidden, nil)
		return
	}
	var req service.SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, handlershared.MsgBadRequest, nil)
		return
	}
	settings, err := h.SettingService.Update(c.Request.Context(), req)
	if err != nil {
		respondMappedError(c, err)
		return
	}
	requestLog(c).Infow("settings_updated", "user_id", session.UserID)
	response.Success(c, gin.H{"settings": settings})
}
