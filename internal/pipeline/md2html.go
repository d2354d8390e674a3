package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// wordsPerMinute is the reading speed used for the reading time estimate.
const wordsPerMinute = 200

// Heading is one document heading extracted during conversion.
type Heading struct {
	Level int    // 1-6
	ID    string // anchor ID
	Text  string // plain text content
}

// Metadata describes the converted document.
type Metadata struct {
	Headings    []Heading
	WordCount   int
	ReadingTime int // minutes, rounded up
}

// Fragment is the result of markdown conversion: an HTML fragment (no
// document shell) plus extracted metadata.
type Fragment struct {
	HTML string
	Meta Metadata
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (*Fragment, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// newGoldmark builds the shared goldmark instance with GFM extensions
// and class-based syntax highlighting. The segmenter reuses the same
// configuration so slide content renders identically to document content.
func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so themes control colors
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // heading anchors for TOC links
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // newlines become <br>
			html.WithXHTML(),     // self-closing tags
			// WithUnsafe() intentionally NOT used. The ==highlight==
			// feature uses placeholders converted after Goldmark.
		),
	)
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions
// and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{md: newGoldmark()}
}

// ToHTML converts Markdown content to an HTML fragment with metadata.
// Supports context cancellation via goroutine + select since Goldmark
// doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (*Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		frag *Fragment
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		fragment := buf.String()
		done <- result{frag: &Fragment{
			HTML: fragment,
			Meta: buildMetadata(content, fragment),
		}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.frag, r.err
	}
}

// buildMetadata derives document metadata from the markdown source and
// the rendered fragment. Word count is measured on the source text, the
// way editors report it; headings come from the rendered markup so their
// anchor IDs match the output.
func buildMetadata(source, fragment string) Metadata {
	words := len(strings.Fields(source))
	return Metadata{
		Headings:    extractHeadings(fragment, 1, 6),
		WordCount:   words,
		ReadingTime: readingTime(words),
	}
}

// readingTime estimates minutes to read, rounding up. Zero words take
// zero minutes.
func readingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
