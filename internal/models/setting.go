package models

import "time"

// SettingsSingletonID 站点设置固定行 ID
const SettingsSingletonID uint = 1

// Settings 站点设置（单行）
type Settings struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	SiteName          string    `gorm:"default:''" json:"site_name"`
	SiteDescription   string    `gorm:"default:''" json:"site_description"`
	SiteURL           string    `gorm:"default:''" json:"site_url"`
	LogoURL           string    `gorm:"default:''" json:"logo_url"`
	FaviconURL        string    `gorm:"default:''" json:"favicon_url"`
	AdsenseClientID   string    `gorm:"default:''" json:"adsense_client_id"`
	AdsenseSlotIDs    string    `gorm:"default:''" json:"adsense_slot_ids"`
	HeaderCode        string    `gorm:"type:text" json:"header_code"` // 原样存储的注入代码
	FooterCode        string    `gorm:"type:text" json:"footer_code"`
	GoogleAnalyticsID string    `gorm:"default:''" json:"google_analytics_id"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}
