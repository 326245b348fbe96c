package public

import (
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

var postNotFoundRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "Post not found"},
}

// GetPosts 文章列表，默认只返回已发布文章
func (h *Handler) GetPosts(c *gin.Context) {
	limit, offset := handlershared.ParseLimitOffset(c)
	posts, total, err := h.PostService.List(service.PostListInput{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Slug:     c.Query("slug"),
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts, "total": total})
}

// GetPost 按 ID 获取文章
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, "Post not found", nil)
		return
	}
	post, err := h.PostService.Get(id)
	if err != nil {
		respondMappedError(c, err, postNotFoundRules)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// GetPostBySlug 按 slug 获取已发布文章
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.PostService.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		respondMappedError(c, err, postNotFoundRules)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// IncrementPostView 浏览量加一
func (h *Handler) IncrementPostView(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, "Post not found", nil)
		return
	}
	views, err := h.PostService.IncrementView(id)
	if err != nil {
		respondMappedError(c, err, postNotFoundRules)
		return
	}
	response.Success(c, gin.H{"views": views})
}
