package service

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description,omitempty"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// FeedService 订阅源与站点地图
type FeedService struct {
	postRepo    repository.PostRepository
	pageRepo    repository.PageRepository
	settingRepo repository.SettingRepository
}

// NewFeedService 创建订阅源服务
func NewFeedService(postRepo repository.PostRepository, pageRepo repository.PageRepository, settingRepo repository.SettingRepository) *FeedService {
	return &FeedService{postRepo: postRepo, pageRepo: pageRepo, settingRepo: settingRepo}
}

// siteMeta 站点名称与根地址，未设置时回退到请求地址
func (s *FeedService) siteMeta(fallbackBaseURL string) (name, description, baseURL string, err error) {
	settings, err := s.settingRepo.Get()
	if err != nil {
		return "", "", "", err
	}
	name = "Newsroom"
	baseURL = fallbackBaseURL
	if settings != nil {
		if settings.SiteName != "" {
			name = settings.SiteName
		}
		description = settings.SiteDescription
		if settings.SiteURL != "" {
			baseURL = settings.SiteURL
		}
	}
	return name, description, strings.TrimRight(baseURL, "/"), nil
}

// RSS 最近发布文章的 RSS 2.0 文档
func (s *FeedService) RSS(fallbackBaseURL string) ([]byte, error) {
	name, description, baseURL, err := s.siteMeta(fallbackBaseURL)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListPublished(constants.FeedItemLimit)
	if err != nil {
		return nil, err
	}
	channel := rssChannel{
		Title:       name,
		Link:        baseURL + "/",
		Description: description,
		Items:       make([]rssItem, 0, len(posts)),
	}
	for i, post := range posts {
		link := postLink(baseURL, post)
		item := rssItem{
			Title: post.Title,
			Link:  link,
			GUID:  link,
		}
		if post.Excerpt != nil {
			item.Description = *post.Excerpt
		}
		if post.Category != nil {
			item.Category = *post.Category
		}
		if post.PublishedAt != nil {
			item.PubDate = post.PublishedAt.UTC().Format(time.RFC1123Z)
			if i == 0 {
				channel.LastBuildDate = item.PubDate
			}
		}
		channel.Items = append(channel.Items, item)
	}
	return marshalXML(rssDocument{Version: "2.0", Channel: channel})
}

// Sitemap 站点根、已发布文章与页面
func (s *FeedService) Sitemap(fallbackBaseURL string) ([]byte, error) {
	_, _, baseURL, err := s.siteMeta(fallbackBaseURL)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListPublished(0)
	if err != nil {
		return nil, err
	}
	pages, err := s.pageRepo.ListPublished()
	if err != nil {
		return nil, err
	}
	urls := make([]sitemapURL, 0, len(posts)+len(pages)+1)
	urls = append(urls, sitemapURL{Loc: baseURL + "/"})
	for _, post := range posts {
		urls = append(urls, sitemapURL{Loc: postLink(baseURL, post), LastMod: post.UpdatedAt.UTC().Format("2006-01-02")})
	}
	for _, page := range pages {
		urls = append(urls, sitemapURL{Loc: baseURL + "/" + page.Slug, LastMod: page.UpdatedAt.UTC().Format("2006-01-02")})
	}
	return marshalXML(sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: urls})
}

func postLink(baseURL string, post models.Post) string {
	return baseURL + "/post/" + post.Slug
}

func marshalXML(v interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
