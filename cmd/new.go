package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CDNamchu/plume/internal/content"
	"github.com/CDNamchu/plume/internal/frontmatter"
	"github.com/CDNamchu/plume/internal/site"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffolds a new draft post",
	Long: `The new command creates a post file under './content/posts/' named
YYYY-MM-DD-title-slug.md with front-matter pre-filled from the title and
today's date. The post starts as a draft; remove 'draft: true' to publish.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		slug := content.Slugify(title)
		if slug == "" {
			return fmt.Errorf("title %q produces an empty slug", title)
		}

		now := time.Now()
		name := fmt.Sprintf("%s-%s.md", now.Format("2006-01-02"), slug)
		path := filepath.Join(site.ContentDir, "posts", name)

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		doc := &frontmatter.Document{
			Meta: map[string]any{
				"title":      title,
				"date":       now.Format("2006-01-02"),
				"categories": []string{},
				"tags":       []string{},
				"draft":      true,
			},
			Body: []byte("\nWrite your post here.\n"),
		}
		raw, err := frontmatter.Serialize(doc)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		logger.Info("created post", "path", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
