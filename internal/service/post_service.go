package service

import (
	"strings"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/content"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/queue"
	"github.com/newsroom-next/internal/repository"
)

// PostService 文章业务服务
type PostService struct {
	repo        repository.PostRepository
	queueClient *queue.Client
	now         func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, queueClient *queue.Client) *PostService {
	return &PostService{repo: repo, queueClient: queueClient, now: time.Now}
}

// PostListInput 文章列表查询参数
type PostListInput struct {
	Status   string
	Category string
	Slug     string
	Search   string
	Limit    int
	Offset   int
}

// CreatePostInput 创建文章输入
type CreatePostInput struct {
	Title            string
	Content          string
	Excerpt          *string
	FeaturedImageURL *string
	Category         *string
	Tags             *string
	Status           string
	ScheduledAt      *time.Time
}

// UpdatePostInput 部分更新输入，nil 表示未提供
type UpdatePostInput struct {
	Title            *string
	Content          *string
	Excerpt          *string
	FeaturedImageURL *string
	Category         *string
	Tags             *string
	Status           *string
	ScheduledAt      *time.Time
}

// List 文章列表
func (s *PostService) List(input PostListInput) ([]models.Post, int64, error) {
	limit, offset := normalizeListLimit(input.Limit, input.Offset)
	return s.repo.List(repository.PostListFilter{
		Status:   normalizeListStatus(input.Status),
		Category: strings.TrimSpace(input.Category),
		Slug:     strings.TrimSpace(input.Slug),
		Search:   strings.TrimSpace(input.Search),
		Limit:    limit,
		Offset:   offset,
	})
}

// Get 根据 ID 获取文章
func (s *PostService) Get(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetPublishedBySlug 按 slug 获取已发布文章
func (s *PostService) GetPublishedBySlug(slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	post, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create 创建文章，作者为当前会话用户
func (s *PostService) Create(authorID uint, input CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Content)
	if title == "" || body == "" {
		return nil, ErrTitleContentRequired
	}
	status, err := normalizeContentStatus(input.Status)
	if err != nil {
		return nil, err
	}
	state := publishState{}
	if err := state.transition(status, input.ScheduledAt, s.now()); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:            title,
		Slug:             content.Slugify(title),
		Content:          body,
		Excerpt:          optionalText(input.Excerpt),
		FeaturedImageURL: optionalText(input.FeaturedImageURL),
		Category:         optionalText(input.Category),
		Tags:             optionalText(input.Tags),
		AuthorID:         authorID,
		Status:           state.Status,
		PublishedAt:      state.PublishedAt,
		ScheduledAt:      state.ScheduledAt,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	if post.Status == constants.ContentStatusScheduled {
		enqueueScheduledPublish(s.queueClient, constants.ContentKindPost, post.ID, post.ScheduledAt)
	}
	return post, nil
}

// Update 部分更新文章，仅作者可改
func (s *PostService) Update(sessionUserID, id uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.AuthorID != sessionUserID {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleContentRequired
		}
		post.Title = title
		post.Slug = content.Slugify(title)
	}
	if input.Content != nil {
		body := strings.TrimSpace(*input.Content)
		if body == "" {
			return nil, ErrTitleContentRequired
		}
		post.Content = body
	}
	if input.Excerpt != nil {
		post.Excerpt = optionalText(input.Excerpt)
	}
	if input.FeaturedImageURL != nil {
		post.FeaturedImageURL = optionalText(input.FeaturedImageURL)
	}
	if input.Category != nil {
		post.Category = optionalText(input.Category)
	}
	if input.Tags != nil {
		post.Tags = optionalText(input.Tags)
	}

	reschedule := false
	state := publishState{Status: post.Status, PublishedAt: post.PublishedAt, ScheduledAt: post.ScheduledAt}
	switch {
	case input.Status != nil:
		status, err := normalizeContentStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		if err := state.transition(status, input.ScheduledAt, s.now()); err != nil {
			return nil, err
		}
		reschedule = status == constants.ContentStatusScheduled
	case input.ScheduledAt != nil && post.Status == constants.ContentStatusScheduled:
		if err := state.transition(constants.ContentStatusScheduled, input.ScheduledAt, s.now()); err != nil {
			return nil, err
		}
		reschedule = true
	}
	post.Status = state.Status
	post.PublishedAt = state.PublishedAt
	post.ScheduledAt = state.ScheduledAt
	post.UpdatedAt = s.now()

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	if reschedule {
		enqueueScheduledPublish(s.queueClient, constants.ContentKindPost, post.ID, post.ScheduledAt)
	}
	return post, nil
}

// Delete 删除文章，仅作者可删
func (s *PostService) Delete(sessionUserID, id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if post.AuthorID != sessionUserID {
		return ErrForbidden
	}
	return s.repo.Delete(id)
}

// IncrementView 阅读数加一
func (s *PostService) IncrementView(id uint) (int64, error) {
	views, found, err := s.repo.IncrementViews(id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotFound
	}
	return views, nil
}
