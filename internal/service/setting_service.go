package service

import (
	"context"
	"strings"
	"time"

	"github.com/newsroom-next/internal/cache"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"
)

// SettingService 站点设置服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// SettingsInput 站点设置全量写入参数
type SettingsInput struct {
	SiteName          string `json:"site_name"`
	SiteDescription   string `json:"site_description"`
	SiteURL           string `json:"site_url"`
	LogoURL           string `json:"logo_url"`
	FaviconURL        string `json:"favicon_url"`
	AdsenseClientID   string `json:"adsense_client_id"`
	AdsenseSlotIDs    string `json:"adsense_slot_ids"`
	HeaderCode        string `json:"header_code"`
	FooterCode        string `json:"footer_code"`
	GoogleAnalyticsID string `json:"google_analytics_id"`
}

// Get 读取站点设置，优先走缓存
func (s *SettingService) Get(ctx context.Context) (*models.Settings, error) {
	if cached, hit, err := cache.GetSiteSettings(ctx); err != nil {
		logger.Warnw("site_settings_cache_read_failed", "error", err)
	} else if hit {
		return cached, nil
	}

	settings, err := s.repo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ErrNotFound
	}
	if err := cache.SetSiteSettings(ctx, settings); err != nil {
		logger.Warnw("site_settings_cache_write_failed", "error", err)
	}
	return settings, nil
}

// Update 覆盖写入单行设置
// header_code 与 footer_code 为站长注入的代码，原样保存
func (s *SettingService) Update(ctx context.Context, input SettingsInput) (*models.Settings, error) {
	settings := &models.Settings{
		ID:                models.SettingsSingletonID,
		SiteName:          strings.TrimSpace(input.SiteName),
		SiteDescription:   strings.TrimSpace(input.SiteDescription),
		SiteURL:           strings.TrimRight(strings.TrimSpace(input.SiteURL), "/"),
		LogoURL:           strings.TrimSpace(input.LogoURL),
		FaviconURL:        strings.TrimSpace(input.FaviconURL),
		AdsenseClientID:   strings.TrimSpace(input.AdsenseClientID),
		AdsenseSlotIDs:    strings.TrimSpace(input.AdsenseSlotIDs),
		HeaderCode:        input.HeaderCode,
		FooterCode:        input.FooterCode,
		GoogleAnalyticsID: strings.TrimSpace(input.GoogleAnalyticsID),
		UpdatedAt:         time.Now(),
	}
	if err := s.repo.Upsert(settings); err != nil {
		return nil, err
	}
	if err := cache.DelSiteSettings(ctx); err != nil {
		logger.Warnw("site_settings_cache_invalidate_failed", "error", err)
	}
	return settings, nil
}
