// Package markdown converts Markdown content bodies to HTML.
package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
	),
)

// ToHTML renders a Markdown body to HTML.
func ToHTML(source []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var (
	mdSyntax   = regexp.MustCompile("[#*_`>\\[\\]()!]")
	whitespace = regexp.MustCompile(`\s+`)
)

// Summary extracts a plain-text summary from a Markdown body: the first
// paragraph, truncated to at most limit runes on a word boundary.
func Summary(source []byte, limit int) string {
	text := string(source)

	// First non-heading paragraph.
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		text = block
		break
	}

	text = mdSyntax.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
