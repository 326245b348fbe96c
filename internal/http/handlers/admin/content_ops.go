package admin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImportBodyBytes = 10 << 20

// FetchTrending 拉取热门话题并入库
func (h *Handler) FetchTrending(c *gin.Context) {
	topics, err := h.TrendingService.Fetch(c.Request.Context())
	if err != nil {
		respondMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Trends fetched and saved", gin.H{
		"message": "Trends fetched and saved",
		"count":   len(topics),
		"topics":  topics,
	})
}

// ImportRequest JSON 导入请求
type ImportRequest struct {
	Posts []service.ImportPostInput `json:"posts"`
}

// ImportPosts 暂存导入数据并异步处理，支持 JSON 与 text/csv
func (h *Handler) ImportPosts(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBodyBytes)

	var (
		batch *service.ImportBatch
		err   error
	)
	if strings.HasPrefix(c.ContentType(), "text/csv") {
		raw, readErr := io.ReadAll(c.Request.Body)
		if readErr != nil {
			respondMappedError(c, importBodyError(readErr))
			return
		}
		batch, err = h.ImportService.StageCSV(c.Request.Context(), string(raw))
	} else {
		var req ImportRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			respondMappedError(c, importBodyError(bindErr))
			return
		}
		batch, err = h.ImportService.Stage(c.Request.Context(), req.Posts)
	}
	if err != nil {
		respondMappedError(c, err, importErrorRules)
		return
	}

	requestLog(c).Infow("import_batch_staged", "batch_id", batch.BatchID, "count", batch.Count)
	response.SuccessWithMsg(c, "Import started", gin.H{
		"message":  "Import started",
		"batch_id": batch.BatchID,
		"count":    batch.Count,
		"items":    batch.Items,
	})
}

// importBodyError 请求体读取失败时的响应，超限为 413
func importBodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return response.NewAPIError(response.CodePayloadTooLarge, msgImportTooLarge, nil)
	}
	return response.NewAPIError(response.CodeBadRequest, msgInvalidPostsArray, nil)
}

// GetImportBatch 查询导入批次进度
func (h *Handler) GetImportBatch(c *gin.Context) {
	status, err := h.ImportService.BatchStatus(c.Param("batch_id"))
	if err != nil {
		respondMappedError(c, err, importErrorRules)
		return
	}
	response.Success(c, status)
}

// RunAutoPublish 将未发布话题生成文章
func (h *Handler) RunAutoPublish(c *gin.Context) {
	session, ok := handlershared.MustSession(c)
	if !ok {
		return
	}
	result, err := h.AutoPublishService.Run(c.Request.Context(), session.UserID)
	if err != nil {
		respondMappedError(c, err)
		return
	}
	if result.Topics == 0 {
		response.SuccessWithMsg(c, "No unpublished topics found", gin.H{
			"message":   "No unpublished topics found",
			"published": 0,
		})
		return
	}
	msg := fmt.Sprintf("Successfully published %d posts", result.Published)
	response.SuccessWithMsg(c, msg, gin.H{
		"message":   msg,
		"published": result.Published,
		"posts":     result.Posts,
	})
}
