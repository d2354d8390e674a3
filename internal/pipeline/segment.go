package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ErrSlideSegmentation indicates slide segmentation failed.
var ErrSlideSegmentation = errors.New("slide segmentation failed")

// Slide is one segment of a deck: a title taken from a heading and the
// HTML rendered from the blocks that follow it.
type Slide struct {
	Title   string
	Content string
}

// SlideSegmenter splits markdown into slides.
type SlideSegmenter interface {
	Segment(ctx context.Context, content, fallbackTitle string) ([]Slide, error)
}

// HeadingSegmenter cuts a document into slides at level 1 and 2
// headings. It parses with the same CommonMark+GFM configuration as
// the primary converter, so slide bodies render identically to the
// document flow. Content before the first heading belongs to no slide
// and is dropped; a document with no headings at all becomes a single
// slide titled with fallbackTitle.
type HeadingSegmenter struct {
	md goldmark.Markdown
}

// NewHeadingSegmenter creates a HeadingSegmenter.
func NewHeadingSegmenter() *HeadingSegmenter {
	return &HeadingSegmenter{md: newGoldmark()}
}

// Compile-time check that HeadingSegmenter implements SlideSegmenter.
var _ SlideSegmenter = (*HeadingSegmenter)(nil)

// Segment parses content and returns its slides in document order.
func (s *HeadingSegmenter) Segment(ctx context.Context, content, fallbackTitle string) ([]Slide, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := []byte(normalizeLineEndings(content))
	doc := s.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var (
		slides  []Slide
		current *Slide
		body    bytes.Buffer
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(body.String())
		slides = append(slides, *current)
		current = nil
		body.Reset()
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if h, ok := node.(*ast.Heading); ok && h.Level <= 2 {
			flush()
			title := headingText(h, source)
			if title == "" {
				// Image-only or blank headings still start a slide; the
				// fallback matches the slide's position in the deck,
				// where the title slide is 1.
				title = fmt.Sprintf("Slide %d", len(slides)+2)
			}
			current = &Slide{Title: title}
			continue
		}
		if current == nil {
			// Preamble before the first heading.
			continue
		}
		if err := s.md.Renderer().Render(&body, source, node); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSlideSegmentation, err)
		}
	}
	flush()

	if len(slides) == 0 {
		all, err := s.renderAll(doc, source)
		if err != nil {
			return nil, err
		}
		title := strings.TrimSpace(fallbackTitle)
		if title == "" {
			title = "Presentation"
		}
		slides = append(slides, Slide{Title: title, Content: all})
	}

	return slides, nil
}

// renderAll renders every top-level block, used for the catch-all
// slide when the document has no headings.
func (s *HeadingSegmenter) renderAll(doc ast.Node, source []byte) (string, error) {
	var buf bytes.Buffer
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if err := s.md.Renderer().Render(&buf, source, node); err != nil {
			return "", fmt.Errorf("%w: %v", ErrSlideSegmentation, err)
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// headingText flattens the literal text of a heading node, skipping
// inline markup such as emphasis or code spans.
func headingText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
