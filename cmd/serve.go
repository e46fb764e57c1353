package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/CDNamchu/plume/internal/livereload"
	"github.com/CDNamchu/plume/internal/site"
)

var (
	servePort   int
	serveDrafts bool
	serveForce  bool
)

// debounceDuration batches bursts of file events into one rebuild.
const debounceDuration = 500 * time.Millisecond

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a
local web server for the output directory. It watches the content, layouts,
and static directories for changes, rebuilds automatically, and tells
connected browsers to reload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := site.New(appConfig, logger, site.Options{
			Drafts: serveDrafts,
			Force:  serveForce,
		})

		logger.Info("performing initial build")
		if err := builder.Build("."); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		hub := livereload.NewHub(logger)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create file watcher: %w", err)
		}
		defer watcher.Close()

		go watchLoop(watcher, builder, hub)

		for _, dir := range []string{site.ContentDir, site.LayoutsDir, site.StaticDir} {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				logger.Debug("directory not found, not watching", "dir", dir)
				continue
			}
			if err := watchRecursive(watcher, dir); err != nil {
				logger.Warn("failed to watch directory", "dir", dir, "error", err)
			}
		}

		outputDir := builder.OutputDir(".")
		mux := http.NewServeMux()
		mux.Handle(livereload.Endpoint, hub)
		mux.Handle("/", devFileHandler(outputDir))

		addr := fmt.Sprintf(":%d", servePort)
		logger.Info("serving site", "dir", outputDir, "url", fmt.Sprintf("http://localhost%s", addr))
		return http.ListenAndServe(addr, mux)
	},
}

// watchLoop rebuilds on file events, debounced, and broadcasts a reload on
// success.
func watchLoop(watcher *fsnotify.Watcher, builder *site.Builder, hub *livereload.Hub) {
	var rebuildTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			rebuildTimer = time.AfterFunc(debounceDuration, func() {
				logger.Info("rebuilding site")
				if err := builder.Build("."); err != nil {
					logger.Error("rebuild failed", "error", err)
					return
				}
				hub.Broadcast(context.Background())
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

// devFileHandler serves the output directory with no-cache headers, a
// directory-listing guard, and the live-reload script injected into HTML
// responses.
func devFileHandler(outputDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean(r.URL.Path)
		target := filepath.Join(outputDir, filepath.FromSlash(clean))

		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			target = filepath.Join(target, "index.html")
			info, err = os.Stat(target)
		}
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if strings.HasSuffix(target, ".html") {
			page, err := os.ReadFile(target)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(livereload.Inject(page))
			return
		}

		http.ServeFile(w, r, target)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 1313, "port to serve the site on")
	serveCmd.Flags().BoolVarP(&serveDrafts, "drafts", "D", false, "include posts marked as drafts")
	serveCmd.Flags().BoolVar(&serveForce, "force", false, "skip files that fail to parse instead of aborting")
	rootCmd.AddCommand(serveCmd)
}
