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

// PageService 独立页面服务
type PageService struct {
	repo        repository.PageRepository
	queueClient *queue.Client
	now         func() time.Time
}

// NewPageService 创建页面服务
func NewPageService(repo repository.PageRepository, queueClient *queue.Client) *PageService {
	return &PageService{repo: repo, queueClient: queueClient, now: time.Now}
}

// PageInput 页面创建输入
type PageInput struct {
	Title       string
	Content     string
	Status      string
	ScheduledAt *time.Time
}

// UpdatePageInput 页面部分更新输入
type UpdatePageInput struct {
	Title       *string
	Content     *string
	Status      *string
	ScheduledAt *time.Time
}

// List 页面列表
func (s *PageService) List(status string) ([]models.Page, error) {
	return s.repo.List(repository.PageListFilter{Status: normalizeListStatus(status)})
}

// GetBySlug 按 slug 获取页面，未登录时只返回已发布页面
func (s *PageService) GetBySlug(slug string, onlyPublished bool) (*models.Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	page, err := s.repo.GetBySlug(slug, onlyPublished)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return page, nil
}

// Get 根据 ID 获取页面
func (s *PageService) Get(id uint) (*models.Page, error) {
	page, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return page, nil
}

// Create 创建页面
func (s *PageService) Create(authorID uint, input PageInput) (*models.Page, error) {
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
	page := &models.Page{
		Title:       title,
		Slug:        content.Slugify(title),
		Content:     body,
		AuthorID:    authorID,
		Status:      state.Status,
		PublishedAt: state.PublishedAt,
		ScheduledAt: state.ScheduledAt,
	}
	if err := s.repo.Create(page); err != nil {
		return nil, err
	}
	if page.Status == constants.ContentStatusScheduled {
		enqueueScheduledPublish(s.queueClient, constants.ContentKindPage, page.ID, page.ScheduledAt)
	}
	return page, nil
}

// Update 部分更新页面，仅作者可改
func (s *PageService) Update(sessionUserID, id uint, input UpdatePageInput) (*models.Page, error) {
	page, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	if page.AuthorID != sessionUserID {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleContentRequired
		}
		page.Title = title
		page.Slug = content.Slugify(title)
	}
	if input.Content != nil {
		body := strings.TrimSpace(*input.Content)
		if body == "" {
			return nil, ErrTitleContentRequired
		}
		page.Content = body
	}

	reschedule := false
	state := publishState{Status: page.Status, PublishedAt: page.PublishedAt, ScheduledAt: page.ScheduledAt}
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
	case input.ScheduledAt != nil && page.Status == constants.ContentStatusScheduled:
		if err := state.transition(constants.ContentStatusScheduled, input.ScheduledAt, s.now()); err != nil {
			return nil, err
		}
		reschedule = true
	}
	page.Status = state.Status
	page.PublishedAt = state.PublishedAt
	page.ScheduledAt = state.ScheduledAt
	page.UpdatedAt = s.now()

	if err := s.repo.Update(page); err != nil {
		return nil, err
	}
	if reschedule {
		enqueueScheduledPublish(s.queueClient, constants.ContentKindPage, page.ID, page.ScheduledAt)
	}
	return page, nil
}

// Delete 删除页面，仅作者可删
func (s *PageService) Delete(sessionUserID, id uint) error {
	page, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if page == nil {
		return ErrNotFound
	}
	if page.AuthorID != sessionUserID {
		return ErrForbidden
	}
	return s.repo.Delete(id)
}
