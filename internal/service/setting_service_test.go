package service

import (
	"context"
	"testing"

	"github.com/newsroom-next/internal/cache"
	"github.com/newsroom-next/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingServiceGetAndUpdate(t *testing.T) {
	db := setupServiceTestDB(t)
	mr := miniredis.RunT(t)
	cache.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { cache.UseClient(nil, "") })

	svc := NewSettingService(repository.NewSettingRepository(db))
	ctx := context.Background()

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := svc.Update(ctx, SettingsInput{
		SiteName:   " Daily News ",
		SiteURL:    "https://news.example.com/",
		HeaderCode: `<script async src="https://ads.example.com/a.js"></script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), saved.ID)
	assert.Equal(t, "Daily News", saved.SiteName)
	assert.Equal(t, "https://news.example.com", saved.SiteURL)
	assert.Contains(t, saved.HeaderCode, "<script")

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Daily News", got.SiteName)
	assert.True(t, mr.Exists(cache.BuildKey("site:settings")))

	_, err = svc.Update(ctx, SettingsInput{SiteName: "Renamed"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.BuildKey("site:settings")))

	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.SiteName)
	assert.Empty(t, got.HeaderCode)
}
