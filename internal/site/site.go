// Package site renders a content collection into a deployable static site:
// detail pages, the homepage, paginated post listings, taxonomy archives,
// feeds, and copied static assets.
package site

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/CDNamchu/plume/internal/config"
	"github.com/CDNamchu/plume/internal/content"
)

// Conventional source layout, relative to the site root.
const (
	ContentDir = "content"
	LayoutsDir = "layouts"
	StaticDir  = "static"

	baseLayout     = "base.html"
	homeLayout     = "home.html"
	singleLayout   = "single.html"
	postLayout     = "single-post.html"
	listLayout     = "list-posts.html"
	archiveLayout  = "archive.html"
	partialsSubdir = "partials"
)

// Options controls a build.
type Options struct {
	// Drafts includes posts marked draft: true.
	Drafts bool
	// Force skips files that fail to parse instead of aborting.
	Force bool
}

// Builder renders a site root into its configured output directory.
type Builder struct {
	cfg  config.Config
	opts Options
	log  *slog.Logger
}

func New(cfg config.Config, log *slog.Logger, opts Options) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{cfg: cfg, opts: opts, log: log}
}

// Site is the template-visible view of the whole site.
type Site struct {
	Title      string
	Author     string
	BaseURL    string
	Platform   string
	Posts      []*content.Post
	Pages      []*content.Page
	Categories map[string][]*content.Post
	Tags       map[string][]*content.Post

	col *content.Collection
}

// Recent returns at most n of the most recent posts.
func (s *Site) Recent(n int) []*content.Post { return s.col.Recent(n) }

// Context is the data every layout executes against. Exactly one of Post,
// Page, Paginator, or Term is set depending on the page kind.
type Context struct {
	Site      *Site
	Post      *content.Post
	Page      *content.Page
	Paginator *Paginator
	// Term is the category or tag an archive page lists.
	Term  string
	Posts []*content.Post
}

// Build runs a full single-pass build of the site rooted at root.
func (b *Builder) Build(root string) error {
	start := time.Now()

	contentDir := filepath.Join(root, ContentDir)
	layoutsDir := b.layoutsDir(root)
	staticDir := filepath.Join(root, StaticDir)
	outputDir := b.outputDir(root)

	if _, err := os.Stat(contentDir); os.IsNotExist(err) {
		return fmt.Errorf("content directory %s not found", contentDir)
	}
	if _, err := os.Stat(layoutsDir); os.IsNotExist(err) {
		return fmt.Errorf("layouts directory %s not found", layoutsDir)
	}

	b.log.Info("building site",
		"platform", b.cfg.Platform,
		"output", outputDir,
		"drafts", b.opts.Drafts)

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("clean output directory %s: %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	if _, err := os.Stat(staticDir); err == nil {
		if err := copyDir(staticDir, outputDir); err != nil {
			return fmt.Errorf("copy static assets: %w", err)
		}
	} else {
		b.log.Debug("no static directory, skipping asset copy", "dir", staticDir)
	}

	layouts, err := b.loadLayouts(layoutsDir)
	if err != nil {
		return err
	}

	col, err := content.Load(contentDir, content.Options{
		Drafts:        b.opts.Drafts,
		ForceSkip:     b.opts.Force,
		Permalink:     b.permalinkStyle(),
		SummaryLength: b.cfg.SummaryLength,
		Logger:        b.log,
	})
	if err != nil {
		return err
	}

	site := &Site{
		Title:      b.cfg.Title,
		Author:     b.cfg.Author,
		BaseURL:    b.cfg.BaseURL,
		Platform:   b.cfg.Platform,
		Posts:      col.Posts,
		Pages:      col.Pages,
		Categories: col.Categories,
		Tags:       col.Tags,
		col:        col,
	}

	if err := b.renderDetails(layouts, site, outputDir); err != nil {
		return err
	}
	if err := b.renderHome(layouts, site, outputDir); err != nil {
		return err
	}
	if err := b.renderListings(layouts, site, outputDir); err != nil {
		return err
	}
	if err := b.renderArchives(layouts, site, outputDir); err != nil {
		return err
	}
	if err := writeFeed(b.cfg, col.Posts, outputDir); err != nil {
		return err
	}
	if err := writeSitemap(b.cfg, site, outputDir); err != nil {
		return err
	}

	b.log.Info("build complete",
		"posts", len(col.Posts),
		"pages", len(col.Pages),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// OutputDir resolves the configured output directory against root.
func (b *Builder) OutputDir(root string) string { return b.outputDir(root) }

func (b *Builder) outputDir(root string) string {
	if filepath.IsAbs(b.cfg.OutputDir) {
		return b.cfg.OutputDir
	}
	return filepath.Join(root, b.cfg.OutputDir)
}

// layoutsDir prefers a theme subtree when one exists.
func (b *Builder) layoutsDir(root string) string {
	base := filepath.Join(root, LayoutsDir)
	if b.cfg.Theme != "" && b.cfg.Theme != "default" {
		themed := filepath.Join(base, b.cfg.Theme)
		if info, err := os.Stat(themed); err == nil && info.IsDir() {
			return themed
		}
		b.log.Warn("theme directory not found, using default layouts", "theme", b.cfg.Theme)
	}
	return base
}

func (b *Builder) permalinkStyle() content.PermalinkStyle {
	if b.cfg.Platform == config.PlatformWordPress {
		return content.PermalinkPlain
	}
	return content.PermalinkDated
}

func (b *Builder) renderDetails(layouts *template.Template, site *Site, outputDir string) error {
	for _, post := range site.Posts {
		layout := b.pickLayout(layouts, post.Layout, postLayout, singleLayout)
		if layout == "" {
			return fmt.Errorf("no layout found for post %s: need %s, %s, or %s",
				post.SourcePath, post.Layout, postLayout, baseLayout)
		}
		ctx := Context{Site: site, Post: post}
		out := filepath.Join(outputDir, filepath.FromSlash(post.Permalink), "index.html")
		if err := executeToFile(layouts, layout, out, ctx); err != nil {
			return fmt.Errorf("render post %s: %w", post.SourcePath, err)
		}
		b.log.Debug("generated", "path", out, "layout", layout)
	}

	for _, page := range site.Pages {
		layout := b.pickLayout(layouts, page.Layout, singleLayout)
		if layout == "" {
			return fmt.Errorf("no layout found for page %s", page.SourcePath)
		}
		ctx := Context{Site: site, Page: page}
		out := filepath.Join(outputDir, filepath.FromSlash(page.Permalink), "index.html")
		if err := executeToFile(layouts, layout, out, ctx); err != nil {
			return fmt.Errorf("render page %s: %w", page.SourcePath, err)
		}
		b.log.Debug("generated", "path", out, "layout", layout)
	}
	return nil
}

func (b *Builder) renderHome(layouts *template.Template, site *Site, outputDir string) error {
	if layouts.Lookup(homeLayout) == nil {
		return fmt.Errorf("homepage layout %s not found in layouts directory", homeLayout)
	}
	out := filepath.Join(outputDir, "index.html")
	if err := executeToFile(layouts, homeLayout, out, Context{Site: site}); err != nil {
		return fmt.Errorf("render homepage: %w", err)
	}
	return nil
}

func (b *Builder) renderArchives(layouts *template.Template, site *Site, outputDir string) error {
	if layouts.Lookup(archiveLayout) == nil {
		b.log.Debug("archive layout not found, skipping taxonomy pages", "layout", archiveLayout)
		return nil
	}

	render := func(kind, term string, posts []*content.Post) error {
		out := filepath.Join(outputDir, kind, content.Slugify(term), "index.html")
		ctx := Context{Site: site, Term: term, Posts: posts}
		if err := executeToFile(layouts, archiveLayout, out, ctx); err != nil {
			return fmt.Errorf("render %s archive %q: %w", kind, term, err)
		}
		return nil
	}

	for _, name := range site.col.CategoryNames() {
		if err := render("categories", name, site.Categories[name]); err != nil {
			return err
		}
	}
	for _, name := range site.col.TagNames() {
		if err := render("tags", name, site.Tags[name]); err != nil {
			return err
		}
	}
	return nil
}

// pickLayout returns the first layout that exists: the explicit front-matter
// choice, then each preferred name, then base.html. Empty means not even the
// base layout resolved.
func (b *Builder) pickLayout(layouts *template.Template, explicit string, preferred ...string) string {
	if explicit != "" {
		if layouts.Lookup(explicit) != nil {
			return explicit
		}
		b.log.Warn("front-matter layout not found, falling back", "layout", explicit)
	}
	for _, name := range preferred {
		if layouts.Lookup(name) != nil {
			return name
		}
	}
	if layouts.Lookup(baseLayout) != nil {
		return baseLayout
	}
	return ""
}

func executeToFile(layouts *template.Template, name, path string, ctx Context) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := layouts.ExecuteTemplate(f, name, ctx); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
