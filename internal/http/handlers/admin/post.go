package admin

import (
	"time"

	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Excerpt          *string    `json:"excerpt"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	Category         *string    `json:"category"`
	Tags             *string    `json:"tags"`
	Status           string     `json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
}

// UpdatePostRequest 部分更新文章请求，缺省字段保持不变
type UpdatePostRequest struct {
	Title            *string    `json:"title"`
	Content          *string    `json:"content"`
	Excerpt          *string    `json:"excerpt"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	Category         *string    `json:"category"`
	Tags             *string    `json:"tags"`
	Status           *string    `json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgTitleContentRequired, nil)
		return
	}

	post, err := h.PostService.Create(session.UserID, service.CreatePostInput{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		Category:         req.Category,
		Tags:             req.Tags,
		Status:           req.Status,
		ScheduledAt:      req.ScheduledAt,
	})
	if err != nil {
		respondMappedError(c, err, postErrorRules)
		return
	}
	requestLog(c).Infow("post_created", "post_id", post.ID, "status", post.Status)
	response.Created(c, "", gin.H{"post": post})
}

// UpdatePost 更新文章，仅作者本人可操作
func (h *Handler) UpdatePost(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, msgPostNotFound, nil)
		return
	}
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 请求体非法时仍先完成归属校验
		existing, getErr := h.PostService.Get(id)
		if getErr != nil {
			respondMappedError(c, getErr, postErrorRules)
			return
		}
		if existing.AuthorID != session.UserID {
			respondError(c, response.CodeForbidden, handlershared.MsgForbidden, nil)
			return
		}
		respondError(c, response.CodeBadRequest, handlershared.MsgBadRequest, nil)
		return
	}

	post, err := h.PostService.Update(session.UserID, id, service.UpdatePostInput{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		Category:         req.Category,
		Tags:             req.Tags,
		Status:           req.Status,
		ScheduledAt:      req.ScheduledAt,
	})
	if err != nil {
		respondMappedError(c, err, postErrorRules)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// DeletePost 删除文章，仅作者本人可操作
func (h *Handler) DeletePost(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, msgPostNotFound, nil)
		return
	}
	if err := h.PostService.Delete(session.UserID, id); err != nil {
		respondMappedError(c, err, postErrorRules)
		return
	}
	requestLog(c).Infow("post_deleted", "post_id", id)
	response.Success(c, gin.H{"success": true})
}
