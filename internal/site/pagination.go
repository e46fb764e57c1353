package site

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/CDNamchu/plume/internal/content"
)

// Paginator is one page of the posts listing.
type Paginator struct {
	Posts      []*content.Post
	PageNumber int
	TotalPages int
	TotalPosts int
}

func (p *Paginator) HasPrev() bool { return p.PageNumber > 1 }
func (p *Paginator) HasNext() bool { return p.PageNumber < p.TotalPages }

func (p *Paginator) PrevURL() string { return listingURL(p.PageNumber - 1) }
func (p *Paginator) NextURL() string { return listingURL(p.PageNumber + 1) }

func listingURL(page int) string {
	if page <= 1 {
		return "/posts/"
	}
	return fmt.Sprintf("/posts/page/%d/", page)
}

// paginate splits posts into pages of size perPage. An empty collection still
// yields one (empty) page so the listing exists.
func paginate(posts []*content.Post, perPage int) []*Paginator {
	total := (len(posts) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}

	pages := make([]*Paginator, 0, total)
	for i := 0; i < total; i++ {
		lo := i * perPage
		hi := lo + perPage
		if hi > len(posts) {
			hi = len(posts)
		}
		pages = append(pages, &Paginator{
			Posts:      posts[lo:hi],
			PageNumber: i + 1,
			TotalPages: total,
			TotalPosts: len(posts),
		})
	}
	return pages
}

// renderListings writes the paginated posts index: page 1 at /posts/,
// page N at /posts/page/N/.
func (b *Builder) renderListings(layouts *template.Template, site *Site, outputDir string) error {
	if layouts.Lookup(listLayout) == nil {
		b.log.Warn("list layout not found, skipping posts listing", "layout", listLayout)
		return nil
	}

	for _, pg := range paginate(site.Posts, b.cfg.PostsPerPage) {
		out := filepath.Join(outputDir, filepath.FromSlash(listingURL(pg.PageNumber)), "index.html")
		ctx := Context{Site: site, Paginator: pg, Posts: pg.Posts}
		if err := executeToFile(layouts, listLayout, out, ctx); err != nil {
			return fmt.Errorf("render posts listing page %d: %w", pg.PageNumber, err)
		}
	}
	return nil
}
