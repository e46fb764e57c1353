package livereload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectBeforeClosingBody(t *testing.T) {
	page := []byte("<html><body><p>hi</p></body></html>")
	out := string(Inject(page))

	assert.Contains(t, out, "WebSocket")
	assert.Less(t, strings.Index(out, "<script>"), strings.Index(out, "</body>"))
	assert.Contains(t, out, Endpoint)
}

func TestInjectWithoutBodyTag(t *testing.T) {
	out := string(Inject([]byte("<p>fragment</p>")))
	assert.True(t, strings.HasPrefix(out, "<p>fragment</p>"))
	assert.Contains(t, out, "<script>")
}

func TestHubStartsEmpty(t *testing.T) {
	hub := NewHub(nil)
	assert.Equal(t, 0, hub.ClientCount())
}
