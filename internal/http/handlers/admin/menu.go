package admin

import (
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateMenuItemRequest 新增菜单项请求
type CreateMenuItemRequest struct {
	Label      string `json:"label"`
	URL        string `json:"url"`
	OrderIndex int    `json:"order_index"`
	ParentID   *uint  `json:"parent_id"`
}

// UpdateMenuItemRequest 更新菜单项请求
type UpdateMenuItemRequest struct {
	Label       *string `json:"label"`
	URL         *string `json:"url"`
	OrderIndex  *int    `json:"order_index"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

// CreateMenuItem 新增菜单项
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Label and url required", nil)
		return
	}
	item, err := h.MenuService.Create(service.MenuItemInput{
		Label:      req.Label,
		URL:        req.URL,
		OrderIndex: req.OrderIndex,
		ParentID:   req.ParentID,
	})
	if err != nil {
		respondMappedError(c, err, menuErrorRules)
		return
	}
	response.Created(c, "", gin.H{"item": item})
}

// UpdateMenuItem 更新菜单项
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, msgMenuItemNotFound, nil)
		return
	}
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, handlershared.MsgBadRequest, nil)
		return
	}
	item, err := h.MenuService.Update(id, service.UpdateMenuItemInput{
		Label:       req.Label,
		URL:         req.URL,
		OrderIndex:  req.OrderIndex,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		respondMappedError(c, err, menuErrorRules)
		return
	}
	response.Success(c, gin.H{"item": item})
}

// DeleteMenuItem 删除菜单项
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, msgMenuItemNotFound, nil)
		return
	}
	if err := h.MenuService.Delete(id); err != nil {
		respondMappedError(c, err, menuErrorRules)
		return
	}
	response.Success(c, gin.H{"success": true})
}
