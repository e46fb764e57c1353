// Package content assembles the site's content model: standalone pages and
// the date-ordered posts collection, built by scanning a content directory of
// Markdown files with YAML front-matter.
package content

import (
	"html/template"
	"sort"
	"time"
)

// PermalinkStyle controls the URL shape generated for posts.
type PermalinkStyle int

const (
	// PermalinkDated renders post URLs as /YYYY/MM/DD/slug/ (Jekyll-style).
	PermalinkDated PermalinkStyle = iota
	// PermalinkPlain renders post URLs as /slug/ (WordPress-style).
	PermalinkPlain
)

// Post is a dated entry in the posts collection.
type Post struct {
	Title      string
	Date       time.Time
	Slug       string
	Categories []string
	Tags       []string
	Summary    string
	Layout     string
	Draft      bool
	SourcePath string
	Permalink  string
	Meta       map[string]any
	Content    template.HTML
}

// Page is a standalone content file outside the posts collection.
type Page struct {
	Title      string
	Slug       string
	Layout     string
	SourcePath string
	Permalink  string
	Meta       map[string]any
	Content    template.HTML
}

// Collection is the assembled content of a site. Posts are sorted by date
// descending; posts with equal dates keep their scan encounter order.
type Collection struct {
	Posts      []*Post
	Pages      []*Page
	Categories map[string][]*Post
	Tags       map[string][]*Post
}

// Recent returns at most n of the most recent posts.
func (c *Collection) Recent(n int) []*Post {
	if n < 0 {
		n = 0
	}
	if n > len(c.Posts) {
		n = len(c.Posts)
	}
	return c.Posts[:n]
}

// CategoryNames returns the category names present, sorted.
func (c *Collection) CategoryNames() []string { return sortedKeys(c.Categories) }

// TagNames returns the tag names present, sorted.
func (c *Collection) TagNames() []string { return sortedKeys(c.Tags) }

func sortedKeys(m map[string][]*Post) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
