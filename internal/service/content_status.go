package service

import (
	"strings"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/queue"
)

// publishState 文章与页面共用的发布时间字段
type publishState struct {
	Status      string
	PublishedAt *time.Time
	ScheduledAt *time.Time
}

func normalizeContentStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch status {
	case "":
		return constants.ContentStatusDraft, nil
	case constants.ContentStatusDraft, constants.ContentStatusPublished, constants.ContentStatusScheduled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// normalizeListStatus 列表查询状态，默认已发布，all 表示不过滤
func normalizeListStatus(raw string) string {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch status {
	case "":
		return constants.ContentStatusPublished
	case constants.ContentStatusAll:
		return ""
	default:
		return status
	}
}

// transition 切换发布状态
// 已有的 published_at 不会被覆盖，切回草稿或定时会清空
func (s *publishState) transition(status string, scheduledAt *time.Time, now time.Time) error {
	switch status {
	case constants.ContentStatusPublished:
		if s.PublishedAt == nil {
			publishedAt := now
			s.PublishedAt = &publishedAt
		}
		s.ScheduledAt = nil
	case constants.ContentStatusDraft:
		s.PublishedAt = nil
		s.ScheduledAt = nil
	case constants.ContentStatusScheduled:
		if scheduledAt == nil {
			scheduledAt = s.ScheduledAt
		}
		if scheduledAt == nil || scheduledAt.IsZero() {
			return ErrScheduledAtRequired
		}
		at := scheduledAt.UTC()
		s.ScheduledAt = &at
		s.PublishedAt = nil
	default:
		return ErrInvalidStatus
	}
	s.Status = status
	return nil
}

// enqueueScheduledPublish 推送定时发布任务，失败时交给定时扫描兜底
func enqueueScheduledPublish(client *queue.Client, kind string, id uint, at *time.Time) {
	if at == nil || !client.Enabled() {
		return
	}
	payload := queue.PublishScheduledPayload{Kind: kind, ID: id}
	if err := client.EnqueuePublishScheduled(payload, *at); err != nil {
		logger.Warnw("scheduled_publish_enqueue_failed",
			"kind", kind,
			"id", id,
			"scheduled_at", at,
			"error", err,
		)
	}
}

func optionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeListLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = constants.PostListDefaultLimit
	}
	if limit > constants.PostListMaxLimit {
		limit = constants.PostListMaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
