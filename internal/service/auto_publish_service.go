package service

import (
	"context"
	"errors"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/content"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/observability"
	"github.com/newsroom-next/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// errTopicAlreadyPublished 话题在本次事务前已被其他请求发布
var errTopicAlreadyPublished = errors.New("topic already published")

// AutoPublishResult 自动发布结果
type AutoPublishResult struct {
	Topics    int           `json:"topics"` // 本次读取的未发布话题数
	Published int           `json:"published"`
	Posts     []models.Post `json:"posts"`
}

// AutoPublishStatus 自动发布概况
type AutoPublishStatus struct {
	UnpublishedTopics   int64         `json:"unpublished_topics"`
	RecentAutoPublished int64         `json:"recent_auto_published"`
	Posts               []models.Post `json:"posts"`
}

// AutoPublishService 将热门话题生成文章并发布
type AutoPublishService struct {
	db           *gorm.DB
	trendingRepo repository.TrendingRepository
	postRepo     repository.PostRepository
	picker       content.Picker
	now          func() time.Time
}

// NewAutoPublishService 创建自动发布服务
func NewAutoPublishService(db *gorm.DB, trendingRepo repository.TrendingRepository, postRepo repository.PostRepository) *AutoPublishService {
	return &AutoPublishService{
		db:           db,
		trendingRepo: trendingRepo,
		postRepo:     postRepo,
		picker:       content.RandomPicker,
		now:          time.Now,
	}
}

// Run 最多处理 5 个未发布话题，每个话题单独一个事务
// 单个话题失败只记录日志，不影响其余话题
func (s *AutoPublishService) Run(ctx context.Context, authorID uint) (*AutoPublishResult, error) {
	ctx, span := observability.StartSpan(ctx, "auto_publish.run")
	topics, err := s.trendingRepo.ListUnpublished(constants.AutoPublishBatchSize)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("auto_publish.topics", len(topics)))

	result := &AutoPublishResult{Topics: len(topics), Posts: make([]models.Post, 0, len(topics))}
	for _, topic := range topics {
		post, err := s.publishTopic(ctx, topic, authorID)
		if err != nil {
			logger.Warnw("auto_publish_topic_failed",
				"topic_id", topic.ID,
				"topic", topic.Topic,
				"error", err,
			)
			continue
		}
		result.Posts = append(result.Posts, *post)
	}
	result.Published = len(result.Posts)
	observability.RecordAutoPublished(result.Published)
	span.SetAttributes(attribute.Int("auto_publish.published", result.Published))
	observability.EndSpan(span, nil)
	logger.Infow("auto_publish_completed", "topics", len(topics), "published", result.Published)
	return result, nil
}

func (s *AutoPublishService) publishTopic(ctx context.Context, topic models.TrendingTopic, authorID uint) (*models.Post, error) {
	_, span := observability.StartSpan(ctx, "auto_publish.topic", attribute.Int("topic.id", int(topic.ID)))
	article := content.GenerateArticle(topic.Topic, constants.AutoPublishCategory, s.picker)
	now := s.now()
	post := &models.Post{
		Title:          article.Title,
		Slug:           content.Slugify(article.Title),
		Content:        article.Content,
		Excerpt:        optionalText(&article.Excerpt),
		Category:       optionalText(&article.Category),
		Tags:           optionalText(&article.Tags),
		AuthorID:       authorID,
		Status:         constants.ContentStatusPublished,
		IsTrendingPost: true,
		PublishedAt:    &now,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Create(post); err != nil {
			return err
		}
		marked, err := s.trendingRepo.WithTx(tx).MarkPublished(topic.ID, post.ID)
		if err != nil {
			return err
		}
		if !marked {
			return errTopicAlreadyPublished
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Status 自动发布概况
func (s *AutoPublishService) Status() (*AutoPublishStatus, error) {
	unpublished, err := s.trendingRepo.CountUnpublished()
	if err != nil {
		return nil, err
	}
	trending, err := s.postRepo.CountTrending()
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListTrending(constants.RecentTrendingPostSize)
	if err != nil {
		return nil, err
	}
	return &AutoPublishStatus{
		UnpublishedTopics:   unpublished,
		RecentAutoPublished: trending,
		Posts:               posts,
	}, nil
}
