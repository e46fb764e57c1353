package frontmatter

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta map[string]any
		wantBody string
	}{
		{
			name: "full front matter",
			input: "---\n" +
				"title: Building ETL Pipelines\n" +
				"date: 2025-11-19\n" +
				"categories:\n  - data\n" +
				"tags:\n  - dbt\n  - postgresql\n" +
				"---\n" +
				"Body text here.\n",
			wantMeta: map[string]any{
				"title":      "Building ETL Pipelines",
				"date":       "2025-11-19",
				"categories": []any{"data"},
				"tags":       []any{"dbt", "postgresql"},
			},
			wantBody: "Body text here.\n",
		},
		{
			name:     "no front matter",
			input:    "# Just Markdown\n\nNothing else.\n",
			wantMeta: map[string]any{},
			wantBody: "# Just Markdown\n\nNothing else.\n",
		},
		{
			name:     "empty block",
			input:    "---\n---\nbody\n",
			wantMeta: map[string]any{},
			wantBody: "body\n",
		},
		{
			name: "crlf delimiters",
			input: "---\r\n" +
				"title: Windows Authored\r\n" +
				"---\r\n" +
				"body\r\n",
			wantMeta: map[string]any{"title": "Windows Authored"},
			wantBody: "body\r\n",
		},
		{
			name:     "dashes inside body only",
			input:    "intro\n---\nnot front matter\n",
			wantMeta: map[string]any{},
			wantBody: "intro\n---\nnot front matter\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.Equal(t, tt.wantMeta, doc.Meta)
			assert.Equal(t, tt.wantBody, strings.TrimLeft(string(doc.Body), "\r\n"))
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "unterminated block",
			input: "---\ntitle: No Closing Delimiter\n\nThis never ends.\n",
		},
		{
			name:  "opening delimiter alone",
			input: "---",
		},
		{
			name:  "invalid yaml",
			input: "---\ntitle: [unbalanced\n---\nbody\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, doc, "a malformed file must not yield a partial document")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseUnterminatedSentinel(t *testing.T) {
	_, err := Parse(strings.NewReader("---\ntitle: open\n"))
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestRoundTrip(t *testing.T) {
	docs := []*Document{
		{
			Meta: map[string]any{
				"layout":     "post",
				"title":      "Graph Neural Networks in Practice",
				"date":       "2025-10-02",
				"categories": []any{"ml", "graphs"},
				"tags":       []any{"gnn", "pytorch"},
			},
			Body: []byte("## Intro\n\nSome prose.\n"),
		},
		{
			Meta: map[string]any{"title": "About"},
			Body: []byte("About this site.\n"),
		},
		{
			Meta: map[string]any{},
			Body: []byte("plain body, no metadata\n"),
		},
	}

	for _, orig := range docs {
		raw, err := Serialize(orig)
		require.NoError(t, err)

		parsed, err := Parse(strings.NewReader(string(raw)))
		require.NoError(t, err)

		assert.Equal(t, orig.Meta, parsed.Meta, "every key/value pair survives the round trip")
		assert.Equal(t, string(orig.Body), strings.TrimLeft(string(parsed.Body), "\n"))
	}
}

func TestParseThenSerializeThenParse(t *testing.T) {
	input := "---\n" +
		"layout: post\n" +
		"title: Scanning Dependencies at a Hackathon\n" +
		"date: 2025-07-20\n" +
		"tags:\n  - security\n  - tooling\n" +
		"---\n" +
		"Write-up body.\n"

	first, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	raw, err := Serialize(first)
	require.NoError(t, err)

	second, err := Parse(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, first.Meta, second.Meta)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.md")
	assert.Error(t, err)
}

func TestParseFileAnnotatesPath(t *testing.T) {
	path := t.TempDir() + "/broken.md"
	writeFile(t, path, "---\ntitle: never closed\n")

	_, err := ParseFile(path)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
