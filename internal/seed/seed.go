// Package seed 生成开发环境演示数据
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/provider"
	"github.com/newsroom-next/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var categories = []string{"Technology", "Politics", "Business", "Science", "Culture"}

// Options 演示数据参数
type Options struct {
	Posts         int
	Pages         int
	Seed          int64
	AdminEmail    string
	AdminUsername string
	AdminPassword string
}

// Result 演示数据统计
type Result struct {
	AdminID   uint `json:"admin_id"`
	Posts     int  `json:"posts"`
	Pages     int  `json:"pages"`
	MenuItems int  `json:"menu_items"`
	Settings  bool `json:"settings"`
}

// Seeder 通过服务层写入演示数据，复用校验与清洗逻辑
type Seeder struct {
	c     *provider.Container
	faker *gofakeit.Faker
}

// New 创建 Seeder，seed 为 0 时使用随机种子
func New(c *provider.Container, seed int64) *Seeder {
	return &Seeder{c: c, faker: gofakeit.New(seed)}
}

// Run 写入管理员、站点设置、菜单、页面与文章
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if s.c == nil || !s.c.DatabaseReady() {
		return nil, errors.New("database not configured")
	}
	admin, err := s.ensureAdmin(opts)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	result := &Result{AdminID: admin.ID}

	if _, err := s.c.SettingService.Get(ctx); errors.Is(err, service.ErrNotFound) {
		if _, err := s.c.SettingService.Update(ctx, service.SettingsInput{
			SiteName:        "Newsroom Demo",
			SiteDescription: s.faker.Sentence(10),
			SiteURL:         "http://localhost:8080",
		}); err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
		result.Settings = true
	} else if err != nil {
		return nil, err
	}

	items, err := s.c.MenuService.List()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		for i, category := range categories {
			if _, err := s.c.MenuService.Create(service.MenuItemInput{
				Label:      category,
				URL:        "/?category=" + category,
				OrderIndex: i,
			}); err != nil {
				return nil, fmt.Errorf("seed menu: %w", err)
			}
			result.MenuItems++
		}
	}

	for i := 0; i < opts.Pages; i++ {
		if _, err := s.c.PageService.Create(admin.ID, service.PageInput{
			Title:   s.faker.Sentence(3),
			Content: s.paragraphs(3),
			Status:  constants.ContentStatusPublished,
		}); err != nil {
			logger.Warnw("seed_page_skipped", "error", err)
			continue
		}
		result.Pages++
	}

	for i := 0; i < opts.Posts; i++ {
		if _, err := s.c.PostService.Create(admin.ID, s.postInput(i)); err != nil {
			logger.Warnw("seed_post_skipped", "error", err)
			continue
		}
		result.Posts++
	}

	logger.Infow("seed_completed",
		"admin_id", result.AdminID,
		"posts", result.Posts,
		"pages", result.Pages,
		"menu_items", result.MenuItems,
	)
	return result, nil
}

func (s *Seeder) ensureAdmin(opts Options) (*models.User, error) {
	admin, err := s.c.UserRepo.FirstAdmin()
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}
	stats, err := s.c.AuthService.CheckUsers()
	if err != nil {
		return nil, err
	}
	if stats.HasUsers {
		return nil, errors.New("users exist but none is admin")
	}
	email := strings.TrimSpace(opts.AdminEmail)
	if email == "" {
		email = "admin@example.com"
	}
	username := strings.TrimSpace(opts.AdminUsername)
	if username == "" {
		username = "admin"
	}
	password := opts.AdminPassword
	if password == "" {
		password = s.faker.Password(true, true, true, false, false, 16)
		logger.Warnw("seed_admin_generated_password", "email", email, "password", password)
	}
	return s.c.AuthService.Register(service.RegisterInput{
		Email:       email,
		Password:    password,
		Username:    username,
		DisplayName: s.faker.Name(),
	})
}

func (s *Seeder) postInput(i int) service.CreatePostInput {
	excerpt := s.faker.Sentence(16)
	category := categories[i%len(categories)]
	image := fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", s.faker.UUID())
	tags := strings.Join([]string{s.faker.Word(), s.faker.Word(), s.faker.Word()}, ",")
	status := constants.ContentStatusPublished
	if i%5 == 4 {
		status = constants.ContentStatusDraft
	}
	return service.CreatePostInput{
		Title:            s.faker.Sentence(6),
		Content:          s.paragraphs(4),
		Excerpt:          &excerpt,
		FeaturedImageURL: &image,
		Category:         &category,
		Tags:             &tags,
		Status:           status,
	}
}

func (s *Seeder) paragraphs(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("<p>")
		b.WriteString(s.faker.Paragraph(1, 4, 12, " "))
		b.WriteString("</p>")
	}
	return b.String()
}
