package public

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RSS 最新文章 RSS
func (h *Handler) RSS(c *gin.Context) {
	body, err := h.FeedService.RSS(requestBaseURL(c))
	if err != nil {
		respondMappedError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}

// Sitemap 站点地图
func (h *Handler) Sitemap(c *gin.Context) {
	body, err := h.FeedService.Sitemap(requestBaseURL(c))
	if err != nil {
		respondMappedError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// requestBaseURL 站点未设置 site_url 时按请求推断
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded == "https" || forwarded == "http" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host
}
