package admin

import (
	"time"

	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PageRequest 页面写入请求，更新时缺省字段保持不变
type PageRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Status      *string    `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// CreatePage 创建页面
func (h *Handler) CreatePage(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgTitleContentRequired, nil)
		return
	}

	page, err := h.PageService.Create(session.UserID, service.PageInput{
		Title:       derefString(req.Title),
		Content:     derefString(req.Content),
		Status:      derefString(req.Status),
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		respondMappedError(c, err, pageErrorRules)
		return
	}
	requestLog(c).Infow("page_created", "page_id", page.ID, "status", page.Status)
	response.Created(c, "", gin.H{"page": page})
}

// UpdatePage 更新页面，仅作者本人可操作
func (h *Handler) UpdatePage(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, msgPageNotFound, nil)
		return
	}
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		existing, getErr := h.PageService.Get(id)
		if getErr != nil {
			respondMappedError(c, getErr, pageErrorRules)
			return
		}
		if existing.AuthorID != session.UserID {
			respondError(c, response.CodeForbidden, handlershared.MsgForbidden, nil)
			return
		}
		respondError(c, response.CodeBadRequest, handlershared.MsgBadRequest, nil)
		return
	}

	page, err := h.PageService.Update(session.UserID, id, service.UpdatePageInput{
		Title:       req.Title,
		Content:     req.Content,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		respondMappedError(c, err, pageErrorRules)
		return
	}
	response.Success(c, gin.H{"page": page})
}

// DeletePage 删除页面
func (h *Handler) DeletePage(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, msgPageNotFound, nil)
		return
	}
	if err := h.PageService.Delete(session.UserID, id); err != nil {
		respondMappedError(c, err, pageErrorRules)
		return
	}
	requestLog(c).Infow("page_deleted", "page_id", id)
	response.Success(c, gin.H{"success": true})
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
