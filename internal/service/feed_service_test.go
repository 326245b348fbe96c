package service

import (
	"context"
	"testing"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRSSAndSitemap(t *testing.T) {
	db := setupServiceTestDB(t)
	author := seedServiceUser(t, db, "feeder", constants.RoleEditor)
	posts := NewPostService(repository.NewPostRepository(db), nil)
	pages := NewPageService(repository.NewPageRepository(db), nil)

	_, err := posts.Create(author.ID, CreatePostInput{Title: "Public Story", Content: "body", Excerpt: strPtr("short & sweet"), Status: "published"})
	require.NoError(t, err)
	_, err = posts.Create(author.ID, CreatePostInput{Title: "Hidden Draft", Content: "body"})
	require.NoError(t, err)
	_, err = pages.Create(author.ID, PageInput{Title: "About", Content: "body", Status: "published"})
	require.NoError(t, err)

	svc := NewFeedService(repository.NewPostRepository(db), repository.NewPageRepository(db), repository.NewSettingRepository(db))

	rss, err := svc.RSS("http://localhost:8080")
	require.NoError(t, err)
	body := string(rss)
	assert.Contains(t, body, `<rss version="2.0">`)
	assert.Contains(t, body, "<title>Newsroom</title>")
	assert.Contains(t, body, "<link>http://localhost:8080/post/public-story</link>")
	assert.Contains(t, body, "short &amp; sweet")
	assert.NotContains(t, body, "Hidden Draft")

	_, err = NewSettingService(repository.NewSettingRepository(db)).Update(context.Background(), SettingsInput{SiteName: "Daily", SiteURL: "https://daily.example.com"})
	require.NoError(t, err)

	sitemap, err := svc.Sitemap("http://localhost:8080")
	require.NoError(t, err)
	body = string(sitemap)
	assert.Contains(t, body, "<loc>https://daily.example.com/</loc>")
	assert.Contains(t, body, "<loc>https://daily.example.com/post/public-story</loc>")
	assert.Contains(t, body, "<loc>https://daily.example.com/about</loc>")
	assert.NotContains(t, body, "hidden-draft")
}
