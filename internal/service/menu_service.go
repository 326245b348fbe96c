package service

import (
	"strings"

	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"
)

// MenuService 导航菜单服务
type MenuService struct {
	repo repository.MenuRepository
}

// NewMenuService 创建菜单服务
func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

// MenuItemInput 菜单项创建输入
type MenuItemInput struct {
	Label      string
	URL        string
	OrderIndex int
	ParentID   *uint
}

// UpdateMenuItemInput 菜单项部分更新输入
type UpdateMenuItemInput struct {
	Label       *string
	URL         *string
	OrderIndex  *int
	ParentID    *uint
	ClearParent bool
}

// List 菜单项列表
func (s *MenuService) List() ([]models.MenuItem, error) {
	return s.repo.List()
}

// Create 创建菜单项
func (s *MenuService) Create(input MenuItemInput) (*models.MenuItem, error) {
	label := strings.TrimSpace(input.Label)
	url := strings.TrimSpace(input.URL)
	if label == "" || url == "" {
		return nil, ErrMenuItemInvalid
	}
	if err := s.ensureParent(input.ParentID, 0); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		Label:      label,
		URL:        url,
		OrderIndex: input.OrderIndex,
		ParentID:   normalizeParentID(input.ParentID),
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update 更新菜单项
func (s *MenuService) Update(id uint, input UpdateMenuItemInput) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			return nil, ErrMenuItemInvalid
		}
		item.Label = label
	}
	if input.URL != nil {
		url := strings.TrimSpace(*input.URL)
		if url == "" {
			return nil, ErrMenuItemInvalid
		}
		item.URL = url
	}
	if input.OrderIndex != nil {
		item.OrderIndex = *input.OrderIndex
	}
	switch {
	case input.ClearParent:
		item.ParentID = nil
	case input.ParentID != nil:
		if err := s.ensureParent(input.ParentID, item.ID); err != nil {
			return nil, err
		}
		item.ParentID = normalizeParentID(input.ParentID)
	}
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除菜单项，子项提升为顶级
func (s *MenuService) Delete(id uint) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func (s *MenuService) ensureParent(parentID *uint, selfID uint) error {
	if parentID == nil || *parentID == 0 {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return ErrMenuItemInvalid
	}
	parent, err := s.repo.GetByID(*parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return ErrMenuItemInvalid
	}
	return nil
}

func normalizeParentID(parentID *uint) *uint {
	if parentID == nil || *parentID == 0 {
		return nil
	}
	id := *parentID
	return &id
}
