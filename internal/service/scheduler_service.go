package service

import (
	"context"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/observability"
	"github.com/newsroom-next/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const scheduledSweepLimit = 100

// ScheduleSweepResult 定时扫描结果
type ScheduleSweepResult struct {
	Posts int `json:"posts"`
	Pages int `json:"pages"`
}

// SchedulerService 定时发布服务
type SchedulerService struct {
	postRepo repository.PostRepository
	pageRepo repository.PageRepository
	now      func() time.Time
}

// NewSchedulerService 创建定时发布服务
func NewSchedulerService(postRepo repository.PostRepository, pageRepo repository.PageRepository) *SchedulerService {
	return &SchedulerService{
		postRepo: postRepo,
		pageRepo: pageRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PublishScheduled 发布单条定时内容
// 行已被改为其他状态或尚未到期时返回 false
func (s *SchedulerService) PublishScheduled(ctx context.Context, kind string, id uint) (published bool, err error) {
	_, span := observability.StartSpan(ctx, "scheduler.publish",
		attribute.String("content.kind", kind),
		attribute.Int("content.id", int(id)),
	)
	defer func() { observability.EndSpan(span, err) }()

	now := s.now()
	switch kind {
	case constants.ContentKindPost:
		published, err = s.postRepo.PublishScheduled(id, now)
	case constants.ContentKindPage:
		published, err = s.pageRepo.PublishScheduled(id, now)
	default:
		return false, ErrInvalidStatus
	}
	if err != nil {
		return false, err
	}
	if published {
		observability.RecordScheduledPublished(kind)
		logger.Infow("scheduled_content_published", "kind", kind, "id", id)
	}
	return published, nil
}

// PublishDueScheduled 扫描所有到期的定时内容并发布
func (s *SchedulerService) PublishDueScheduled(ctx context.Context) (ScheduleSweepResult, error) {
	var result ScheduleSweepResult
	now := s.now()

	posts, err := s.postRepo.ListDueScheduled(now, scheduledSweepLimit)
	if err != nil {
		return result, err
	}
	for _, post := range posts {
		ok, err := s.PublishScheduled(ctx, constants.ContentKindPost, post.ID)
		if err != nil {
			logger.Warnw("scheduled_publish_failed", "kind", constants.ContentKindPost, "id", post.ID, "error", err)
			continue
		}
		if ok {
			result.Posts++
		}
	}

	pages, err := s.pageRepo.ListDueScheduled(now, scheduledSweepLimit)
	if err != nil {
		return result, err
	}
	for _, page := range pages {
		ok, err := s.PublishScheduled(ctx, constants.ContentKindPage, page.ID)
		if err != nil {
			logger.Warnw("scheduled_publish_failed", "kind", constants.ContentKindPage, "id", page.ID, "error", err)
			continue
		}
		if ok {
			result.Pages++
		}
	}
	return result, nil
}
