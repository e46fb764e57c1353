package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	html, err := ToHTML([]byte("# Heading\n\nSome *emphasis* and a [link](https://example.com).\n"))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, `<h1 id="heading">Heading</h1>`)
	assert.Contains(t, out, "<em>emphasis</em>")
	assert.Contains(t, out, `href="https://example.com"`)
}

func TestToHTMLGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	html, err := ToHTML([]byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		source string
		limit  int
		want   string
	}{
		{
			name:   "first paragraph only",
			source: "First paragraph here.\n\nSecond paragraph ignored.",
			limit:  200,
			want:   "First paragraph here.",
		},
		{
			name:   "skips leading heading",
			source: "# Title\n\nReal opening text.",
			limit:  200,
			want:   "Real opening text.",
		},
		{
			name:   "strips inline markdown",
			source: "Uses **dbt** and `postgresql` daily.",
			limit:  200,
			want:   "Uses dbt and postgresql daily.",
		},
		{
			name:   "empty body",
			source: "",
			limit:  80,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary([]byte(tt.source), tt.limit))
		})
	}
}

func TestSummaryTruncatesOnWordBoundary(t *testing.T) {
	src := "one two three four five six seven eight nine ten"
	got := Summary([]byte(src), 20)

	assert.True(t, strings.HasSuffix(got, "…"))
	trimmed := strings.TrimSuffix(got, "…")
	assert.LessOrEqual(t, len([]rune(trimmed)), 20)
	assert.False(t, strings.HasSuffix(trimmed, " "))
}
