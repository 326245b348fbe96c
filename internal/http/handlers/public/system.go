package public

import (
	"github.com/newsroom-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Healthz 存活检查
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok", "configured": h.DatabaseReady()})
}

// Setup 安装引导状态
func (h *Handler) Setup(c *gin.Context) {
	hasUsers := false
	if h.DatabaseReady() {
		stats, err := h.AuthService.CheckUsers()
		if err != nil {
			respondMappedError(c, err)
			return
		}
		hasUsers = stats.HasUsers
	}
	response.Success(c, gin.H{"configured": h.DatabaseReady(), "has_users": hasUsers})
}
