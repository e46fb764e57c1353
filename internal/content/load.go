package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/CDNamchu/plume/internal/frontmatter"
	"github.com/CDNamchu/plume/internal/markdown"
)

// postsDirName is the directory under the content root whose files form the
// posts collection. Everything else is a standalone page.
const postsDirName = "posts"

// filenameMeta matches the YYYY-MM-DD-title-slug naming convention for post
// files, from which date and slug are inferred when front-matter omits them.
var filenameMeta = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// dateFormats are tried in order against front-matter date strings.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var titleCaser = cases.Title(language.English)

// Options controls content loading.
type Options struct {
	// Drafts includes posts marked draft: true.
	Drafts bool
	// ForceSkip logs and skips files that fail to parse instead of
	// aborting the load.
	ForceSkip bool
	// Permalink selects the post URL shape.
	Permalink PermalinkStyle
	// SummaryLength bounds generated summaries, in runes.
	SummaryLength int
	Logger        *slog.Logger
}

// Load scans dir and assembles the site's content collection. Markdown files
// under dir/posts become posts; all other Markdown files become pages. Posts
// are sorted by date descending with encounter order preserved on ties.
func Load(dir string, opts Options) (*Collection, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	col := &Collection{
		Categories: map[string][]*Post{},
		Tags:       map[string][]*Post{},
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		if isPostPath(rel) {
			post, err := loadPost(path, opts)
			if err != nil {
				if opts.ForceSkip {
					log.Error("skipping post", "path", path, "error", err)
					return nil
				}
				return err
			}
			if post.Draft && !opts.Drafts {
				log.Debug("excluding draft", "path", path)
				return nil
			}
			col.Posts = append(col.Posts, post)
			return nil
		}

		page, err := loadPage(path, rel)
		if err != nil {
			if opts.ForceSkip {
				log.Error("skipping page", "path", path, "error", err)
				return nil
			}
			return err
		}
		col.Pages = append(col.Pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(col.Posts, func(i, j int) bool {
		return col.Posts[i].Date.After(col.Posts[j].Date)
	})

	for _, post := range col.Posts {
		for _, c := range post.Categories {
			col.Categories[c] = append(col.Categories[c], post)
		}
		for _, t := range post.Tags {
			col.Tags[t] = append(col.Tags[t], post)
		}
	}

	return col, nil
}

func isPostPath(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return len(parts) > 1 && parts[0] == postsDirName
}

func loadPost(path string, opts Options) (*Post, error) {
	doc, err := frontmatter.ParseFile(path)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fnDate, fnSlug := parseFilename(base)

	date, err := metaDate(doc.Meta)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	if date.IsZero() {
		date = fnDate
	}
	if date.IsZero() {
		return nil, fmt.Errorf("post %s: no parseable date in front matter or filename", path)
	}

	slug := metaString(doc.Meta, "slug")
	if slug == "" {
		slug = fnSlug
	}
	if slug == "" {
		slug = Slugify(base)
	}

	title := metaString(doc.Meta, "title")
	if title == "" {
		title = titleFromSlug(slug)
	}

	html, err := markdown.ToHTML(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("post %s: render markdown: %w", path, err)
	}

	summary := metaString(doc.Meta, "summary")
	if summary == "" {
		summary = markdown.Summary(doc.Body, opts.SummaryLength)
	}

	return &Post{
		Title:      title,
		Date:       date,
		Slug:       slug,
		Categories: metaStrings(doc.Meta, "categories"),
		Tags:       metaStrings(doc.Meta, "tags"),
		Summary:    summary,
		Layout:     metaString(doc.Meta, "layout"),
		Draft:      metaBool(doc.Meta, "draft"),
		SourcePath: path,
		Permalink:  postPermalink(opts.Permalink, date, slug),
		Meta:       doc.Meta,
		Content:    html,
	}, nil
}

func loadPage(path, rel string) (*Page, error) {
	doc, err := frontmatter.ParseFile(path)
	if err != nil {
		return nil, err
	}

	slugPath := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	slug := Slugify(filepath.Base(slugPath))

	title := metaString(doc.Meta, "title")
	if title == "" {
		title = titleFromSlug(slug)
	}

	html, err := markdown.ToHTML(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("page %s: render markdown: %w", path, err)
	}

	permalink := "/" + slugPath + "/"
	if slugPath == "index" {
		permalink = "/"
	}

	return &Page{
		Title:      title,
		Slug:       slug,
		Layout:     metaString(doc.Meta, "layout"),
		SourcePath: path,
		Permalink:  permalink,
		Meta:       doc.Meta,
		Content:    html,
	}, nil
}

func postPermalink(style PermalinkStyle, date time.Time, slug string) string {
	if style == PermalinkPlain {
		return "/" + slug + "/"
	}
	return fmt.Sprintf("/%04d/%02d/%02d/%s/", date.Year(), date.Month(), date.Day(), slug)
}

func parseFilename(base string) (time.Time, string) {
	m := filenameMeta.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, ""
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, Slugify(m[2])
	}
	return date, Slugify(m[2])
}

// metaDate reads the date key, accepting time.Time values and the common
// string formats. An absent date is not an error; an unparseable one is.
func metaDate(meta map[string]any) (time.Time, error) {
	raw, ok := meta["date"]
	if !ok {
		return time.Time{}, nil
	}
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, format := range dateFormats {
			if date, err := time.Parse(format, v); err == nil {
				return date, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", v)
	default:
		return time.Time{}, fmt.Errorf("date has unexpected type %T", raw)
	}
}

func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

func metaBool(meta map[string]any, key string) bool {
	b, _ := meta[key].(bool)
	return b
}

// metaStrings reads a sequence-of-string key, tolerating a single bare
// string value.
func metaStrings(meta map[string]any, key string) []string {
	switch v := meta[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses non-alphanumeric runs to hyphens.
func Slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

func titleFromSlug(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
