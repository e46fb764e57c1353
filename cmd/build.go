package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CDNamchu/plume/internal/site"
)

var (
	buildDrafts bool
	buildForce  bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from content, layouts, and static assets",
	Long: `The build command processes Markdown files from './content/',
extracts front-matter, applies templates from './layouts/' (including
partials), copies static assets from './static/', and generates the site in
the configured output directory (default './public/').

Files under './content/posts/' form the posts collection, sorted by date
descending. A post whose front-matter is malformed aborts the build unless
--force is given, in which case the file is skipped with an error logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := site.New(appConfig, logger, site.Options{
			Drafts: buildDrafts,
			Force:  buildForce,
		})
		return builder.Build(".")
	},
}

func init() {
	buildCmd.Flags().BoolVarP(&buildDrafts, "drafts", "D", false, "include posts marked as drafts")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "skip files that fail to parse instead of aborting")
	rootCmd.AddCommand(buildCmd)
}
