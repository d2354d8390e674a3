package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		fallback   string
		wantTitles []string
	}{
		{
			name:       "splits at level one headings",
			content:    "# First\n\ntext one\n\n# Second\n\ntext two",
			wantTitles: []string{"First", "Second"},
		},
		{
			name:       "splits at level two headings",
			content:    "## Alpha\n\na\n\n## Beta\n\nb",
			wantTitles: []string{"Alpha", "Beta"},
		},
		{
			name:       "level three stays inside slide",
			content:    "# Top\n\n### Sub\n\ntext",
			wantTitles: []string{"Top"},
		},
		{
			name:       "mixed one and two",
			content:    "# Part\n\n## Chapter\n\n## Another",
			wantTitles: []string{"Part", "Chapter", "Another"},
		},
		{
			name:       "preamble before first heading dropped",
			content:    "orphan text\n\n# Start\n\nbody",
			wantTitles: []string{"Start"},
		},
		{
			name:       "no headings yields one catch-all",
			content:    "just some text\n\nmore text",
			fallback:   "My Document",
			wantTitles: []string{"My Document"},
		},
		{
			name:       "no headings empty fallback",
			content:    "plain",
			wantTitles: []string{"Presentation"},
		},
		{
			name:       "inline markup stripped from title",
			content:    "# Hello **World**\n\nbody",
			wantTitles: []string{"Hello World"},
		},
		{
			name:       "blank heading falls back to deck position",
			content:    "#\n\nmystery body\n\n# Named",
			wantTitles: []string{"Slide 2", "Named"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segmenter := NewHeadingSegmenter()
			slides, err := segmenter.Segment(context.Background(), tt.content, tt.fallback)
			if err != nil {
				t.Fatalf("Segment() error = %v", err)
			}

			if len(slides) != len(tt.wantTitles) {
				t.Fatalf("Segment() returned %d slides, want %d", len(slides), len(tt.wantTitles))
			}
			for i, want := range tt.wantTitles {
				if slides[i].Title != want {
					t.Errorf("slide[%d].Title = %q, want %q", i, slides[i].Title, want)
				}
			}
		})
	}
}

func TestSegmentContent(t *testing.T) {
	t.Parallel()

	segmenter := NewHeadingSegmenter()
	slides, err := segmenter.Segment(context.Background(),
		"# One\n\nfirst body\n\n# Two\n\n- a\n- b", "")
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("Segment() returned %d slides, want 2", len(slides))
	}

	if !strings.Contains(slides[0].Content, "<p>first body</p>") {
		t.Errorf("slide[0].Content = %q, want paragraph markup", slides[0].Content)
	}
	if strings.Contains(slides[0].Content, "Two") {
		t.Error("slide[0].Content leaked content from the next slide")
	}
	if !strings.Contains(slides[1].Content, "<li>a</li>") {
		t.Errorf("slide[1].Content = %q, want list markup", slides[1].Content)
	}
	for _, s := range slides {
		if strings.Contains(s.Content, "<h1") {
			t.Errorf("slide content %q contains its own heading tag", s.Content)
		}
	}
}

func TestSegmentHeadingOnlySlides(t *testing.T) {
	t.Parallel()

	segmenter := NewHeadingSegmenter()
	slides, err := segmenter.Segment(context.Background(), "# A\n\n# B", "")
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("Segment() returned %d slides, want 2", len(slides))
	}
	for i, s := range slides {
		if s.Content != "" {
			t.Errorf("slide[%d].Content = %q, want empty", i, s.Content)
		}
	}
}

func TestSegmentCatchAllContent(t *testing.T) {
	t.Parallel()

	segmenter := NewHeadingSegmenter()
	slides, err := segmenter.Segment(context.Background(), "text with **bold**", "Doc")
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("Segment() returned %d slides, want 1", len(slides))
	}
	if !strings.Contains(slides[0].Content, "<strong>bold</strong>") {
		t.Errorf("catch-all content = %q, want rendered markdown", slides[0].Content)
	}
}

func TestSegmentCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	segmenter := NewHeadingSegmenter()
	if _, err := segmenter.Segment(ctx, "# x", ""); err == nil {
		t.Error("Segment() with cancelled context returned nil error")
	}
}
