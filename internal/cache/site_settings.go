package cache

import (
	"context"
	"time"

	"github.com/newsroom-next/internal/models"
)

const siteSettingsKey = "site:settings"

// 公开页面每次渲染都读设置，保存设置时主动失效
var siteSettings = NewEntry[models.Settings](5 * time.Minute)

// GetSiteSettings 读取站点设置缓存
func GetSiteSettings(ctx context.Context) (*models.Settings, bool, error) {
	return siteSettings.Get(ctx, siteSettingsKey)
}

// SetSiteSettings 写入站点设置缓存
func SetSiteSettings(ctx context.Context, settings *models.Settings) error {
	return siteSettings.Set(ctx, siteSettingsKey, settings)
}

// DelSiteSettings 失效站点设置缓存
func DelSiteSettings(ctx context.Context) error {
	return siteSettings.Del(ctx, siteSettingsKey)
}
