package public

import (
	"strings"

	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

var pageNotFoundRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "Page not found"},
}

// GetPages 传入 slug 时返回单个页面，否则按状态列出页面
// 未登录访问 slug 只能看到已发布页面
func (h *Handler) GetPages(c *gin.Context) {
	if slug := strings.TrimSpace(c.Query("slug")); slug != "" {
		onlyPublished := handlershared.CurrentSession(c) == nil
		page, err := h.PageService.GetBySlug(slug, onlyPublished)
		if err != nil {
			respondMappedError(c, err, pageNotFoundRules)
			return
		}
		response.Success(c, gin.H{"page": page})
		return
	}

	pages, err := h.PageService.List(c.Query("status"))
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, gin.H{"pages": pages})
}

// GetPage 按 ID 获取页面
func (h *Handler) GetPage(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, "Page not found", nil)
		return
	}
	page, err := h.PageService.Get(id)
	if err != nil {
		respondMappedError(c, err, pageNotFoundRules)
		return
	}
	response.Success(c, gin.H{"page": page})
}
