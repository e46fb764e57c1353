package site

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CDNamchu/plume/internal/config"
	"github.com/CDNamchu/plume/internal/content"
)

// feedItemLimit bounds the RSS feed to the most recent posts.
const feedItemLimit = 20

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
}

// writeFeed renders feed.xml with the most recent posts.
func writeFeed(cfg config.Config, posts []*content.Post, outputDir string) error {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	n := feedItemLimit
	if n > len(posts) {
		n = len(posts)
	}

	items := make([]rssItem, 0, n)
	for _, post := range posts[:n] {
		items = append(items, rssItem{
			Title:       post.Title,
			Link:        base + post.Permalink,
			GUID:        base + post.Permalink,
			PubDate:     post.Date.Format(time.RFC1123Z),
			Description: post.Summary,
			Author:      cfg.Author,
		})
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Title,
			Link:        base + "/",
			Description: cfg.Title,
			Items:       items,
		},
	}
	return writeXML(filepath.Join(outputDir, "feed.xml"), feed)
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap renders sitemap.xml covering the homepage, all pages, and all
// posts.
func writeSitemap(cfg config.Config, site *Site, outputDir string) error {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	urls := []sitemapURL{{Loc: base + "/"}}
	for _, page := range site.Pages {
		if page.Permalink == "/" {
			continue
		}
		urls = append(urls, sitemapURL{Loc: base + page.Permalink})
	}
	for _, post := range site.Posts {
		urls = append(urls, sitemapURL{
			Loc:     base + post.Permalink,
			LastMod: post.Date.Format("2006-01-02"),
		})
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return writeXML(filepath.Join(outputDir, "sitemap.xml"), set)
}

func writeXML(path string, v any) error {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
