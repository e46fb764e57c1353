// Package frontmatter parses and serializes the YAML metadata block that
// prefixes Markdown content files. Parsing is strict: a malformed block
// (unterminated delimiter, invalid YAML) yields a *ParseError and no
// document, never partial metadata.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var delimiter = []byte("---")

// ErrUnterminated reports a front-matter block whose opening delimiter is
// never closed.
var ErrUnterminated = errors.New("unterminated front matter block")

// ParseError wraps a front-matter failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("front matter: %v", e.Err)
	}
	return fmt.Sprintf("front matter in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is a parsed content file: metadata plus the remaining body.
type Document struct {
	Meta map[string]any
	Body []byte
}

// Parse reads a content file from r. A file without a leading delimiter is
// valid and parses to an empty Meta with the full input as Body.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if !opensBlock(raw) {
		return &Document{Meta: map[string]any{}, Body: raw}, nil
	}
	if !closesBlock(raw) {
		return nil, &ParseError{Err: ErrUnterminated}
	}

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return &Document{Meta: meta, Body: body}, nil
}

// ParseFile parses the file at path, annotating any error with the path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Serialize renders doc back to its on-disk form. Parsing the result yields
// the same metadata pairs and body. A document with no metadata serializes
// to its bare body.
func Serialize(doc *Document) ([]byte, error) {
	if len(doc.Meta) == 0 {
		return doc.Body, nil
	}

	meta, err := yaml.Marshal(doc.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.WriteByte('\n')
	buf.Write(meta)
	buf.Write(delimiter)
	buf.WriteByte('\n')
	buf.Write(doc.Body)
	return buf.Bytes(), nil
}

// opensBlock reports whether the input begins with a front-matter delimiter
// on its own line.
func opensBlock(raw []byte) bool {
	line, _, _ := bytes.Cut(raw, []byte("\n"))
	return bytes.Equal(bytes.TrimRight(line, "\r"), delimiter)
}

// closesBlock reports whether a closing delimiter line exists after the
// opening one.
func closesBlock(raw []byte) bool {
	nl := bytes.IndexByte(raw, '\n')
	if nl < 0 {
		return false
	}
	rest := raw[nl+1:]
	for len(rest) > 0 {
		line, tail, found := bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, "\r"), delimiter) {
			return true
		}
		if !found {
			break
		}
		rest = tail
	}
	return false
}
