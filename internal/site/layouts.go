package site

import (
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/CDNamchu/plume/internal/config"
	"github.com/CDNamchu/plume/internal/content"
)

// Platform-specific date display conventions.
const (
	jekyllDateFormat    = "Jan 2, 2006"
	wordPressDateFormat = "January 2, 2006"
)

// loadLayouts parses all .html files under dir into one template set. The
// base layout and partials parse first so page layouts can redefine their
// blocks; the home layout parses last for the same reason.
func (b *Builder) loadLayouts(dir string) (*template.Template, error) {
	var basePath, homePath string
	var partials, others []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case d.Name() == baseLayout && filepath.Dir(path) == dir:
			basePath = path
		case strings.HasPrefix(filepath.Dir(path), filepath.Join(dir, partialsSubdir)):
			partials = append(partials, path)
		case d.Name() == homeLayout && filepath.Dir(path) == dir:
			homePath = path
		default:
			others = append(others, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan layouts in %s: %w", dir, err)
	}
	if basePath == "" {
		return nil, fmt.Errorf("%s not found in layouts directory %s", baseLayout, dir)
	}

	layouts := template.New(baseLayout).Funcs(b.templateFuncs())

	layouts, err = layouts.ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("parse base layout and partials: %w", err)
	}
	if len(others) > 0 {
		layouts, err = layouts.ParseFiles(others...)
		if err != nil {
			return nil, fmt.Errorf("parse page layouts: %w", err)
		}
	}
	if homePath != "" {
		layouts, err = layouts.ParseFiles(homePath)
		if err != nil {
			return nil, fmt.Errorf("parse home layout: %w", err)
		}
	}
	return layouts, nil
}

func (b *Builder) templateFuncs() template.FuncMap {
	dateFormat := jekyllDateFormat
	if b.cfg.Platform == config.PlatformWordPress {
		dateFormat = wordPressDateFormat
	}
	return template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format(dateFormat) },
		"isoDate":    func(t time.Time) string { return t.Format("2006-01-02") },
		"slugify":    content.Slugify,
		"limit": func(n int, posts []*content.Post) []*content.Post {
			if n > len(posts) {
				n = len(posts)
			}
			if n < 0 {
				n = 0
			}
			return posts[:n]
		},
		"absURL": func(path string) string {
			return strings.TrimSuffix(b.cfg.BaseURL, "/") + path
		},
	}
}
