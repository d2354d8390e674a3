package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      string
		wantContains []string
	}{
		{
			name:         "heading gets anchor id",
			content:      "# Hello World",
			wantContains: []string{`<h1 id="hello-world">Hello World</h1>`},
		},
		{
			name:         "paragraph",
			content:      "just text",
			wantContains: []string{"<p>just text</p>"},
		},
		{
			name:         "gfm table",
			content:      "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<th>a</th>", "<td>2</td>"},
		},
		{
			name:         "gfm strikethrough",
			content:      "~~gone~~",
			wantContains: []string{"<del>gone</del>"},
		},
		{
			name:         "gfm task list",
			content:      "- [x] done\n- [ ] open",
			wantContains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:         "footnote",
			content:      "text[^1]\n\n[^1]: the note",
			wantContains: []string{"fn:1", "the note"},
		},
		{
			name:         "hard wrap",
			content:      "line one\nline two",
			wantContains: []string{"<br"},
		},
		{
			name:         "fenced code highlighted with classes",
			content:      "```go\npackage main\n```",
			wantContains: []string{"<pre", "<code"},
		},
		{
			name:         "raw html omitted without unsafe mode",
			content:      "<script>alert(1)</script>",
			wantContains: []string{"<!-- raw HTML omitted -->"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			converter := NewGoldmarkConverter()
			got, err := converter.ToHTML(context.Background(), tt.content)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got.HTML, want) {
					t.Errorf("ToHTML(%q) = %q, missing %q", tt.content, got.HTML, want)
				}
			}
		})
	}
}

func TestGoldmarkToHTMLNoShell(t *testing.T) {
	t.Parallel()

	converter := NewGoldmarkConverter()
	got, err := converter.ToHTML(context.Background(), "# Title\n\nbody")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	for _, tag := range []string{"<html", "<head", "<body"} {
		if strings.Contains(strings.ToLower(got.HTML), tag) {
			t.Errorf("ToHTML() fragment contains document shell tag %q", tag)
		}
	}
}

func TestGoldmarkToHTMLMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		content         string
		wantWords       int
		wantMinutes     int
		wantHeadingIDs  []string
		wantHeadingText []string
	}{
		{
			name:        "empty content",
			content:     "",
			wantWords:   0,
			wantMinutes: 0,
		},
		{
			name:            "short document",
			content:         "# Intro\n\none two three",
			wantWords:       5, // marker characters count as fields
			wantMinutes:     1,
			wantHeadingIDs:  []string{"intro"},
			wantHeadingText: []string{"Intro"},
		},
		{
			name:        "reading time rounds up",
			content:     strings.Repeat("word ", 201),
			wantWords:   201,
			wantMinutes: 2,
		},
		{
			name:            "nested headings in order",
			content:         "# A\n\n## B\n\n### C",
			wantWords:       6,
			wantMinutes:     1,
			wantHeadingIDs:  []string{"a", "b", "c"},
			wantHeadingText: []string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			converter := NewGoldmarkConverter()
			got, err := converter.ToHTML(context.Background(), tt.content)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}

			if got.Meta.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", got.Meta.WordCount, tt.wantWords)
			}
			if got.Meta.ReadingTime != tt.wantMinutes {
				t.Errorf("ReadingTime = %d, want %d", got.Meta.ReadingTime, tt.wantMinutes)
			}
			if len(got.Meta.Headings) != len(tt.wantHeadingIDs) {
				t.Fatalf("Headings = %d entries, want %d", len(got.Meta.Headings), len(tt.wantHeadingIDs))
			}
			for i, h := range got.Meta.Headings {
				if h.ID != tt.wantHeadingIDs[i] {
					t.Errorf("heading[%d].ID = %q, want %q", i, h.ID, tt.wantHeadingIDs[i])
				}
				if h.Text != tt.wantHeadingText[i] {
					t.Errorf("heading[%d].Text = %q, want %q", i, h.Text, tt.wantHeadingText[i])
				}
			}
		})
	}
}

func TestGoldmarkToHTMLCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	converter := NewGoldmarkConverter()
	if _, err := converter.ToHTML(ctx, "# x"); !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words int
		want  int
	}{
		{name: "zero words", words: 0, want: 0},
		{name: "one word", words: 1, want: 1},
		{name: "exact minute", words: 200, want: 1},
		{name: "just over a minute", words: 201, want: 2},
		{name: "ten minutes", words: 2000, want: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := readingTime(tt.words); got != tt.want {
				t.Errorf("readingTime(%d) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}
