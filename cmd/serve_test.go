package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevFileHandler(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"),
		[]byte("<html><body>home</body></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "style.css"),
		[]byte("body{}"), 0o644))

	handler := devFileHandler(out)

	t.Run("serves directory index with reload script", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "home")
		assert.Contains(t, body, "WebSocket", "html responses carry the live-reload client")
		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("serves assets without injection", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/style.css", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
	})

	t.Run("guards directories without an index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing file is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope.html", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
