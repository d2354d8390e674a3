package format

import (
	"fmt"
	"html"
	"strings"
)

// SlidesGenerator assembles the slide-deck HTML presentation. The body
// opens with a synthesized title slide built from the job metadata
// (never from markdown), continues with one section per segmented
// slide numbered from 2, and ends with a synthesized closing slide.
// The navigation script is injected after assembly.
type SlidesGenerator struct{}

// NewSlidesGenerator creates a SlidesGenerator.
func NewSlidesGenerator() *SlidesGenerator {
	return &SlidesGenerator{}
}

// Compile-time check that SlidesGenerator implements Generator.
var _ Generator = (*SlidesGenerator)(nil)

// BuildStyles emits palette variables and the base and slide
// stylesheets.
func (g *SlidesGenerator) BuildStyles(job *Job) string {
	var sb strings.Builder
	sb.WriteString(paletteVars(job))
	sb.WriteString("\n")
	sb.WriteString(job.BaseCSS)
	sb.WriteString("\n")
	sb.WriteString(job.FormatCSS)
	return sb.String()
}

// BuildHeader renders the navigation progress bar. It sits outside the
// slide sections so it survives slide switching.
func (g *SlidesGenerator) BuildHeader(job *Job) string {
	return "<div class=\"slide-progress\"></div>\n"
}

// BuildBody renders the full slide sequence.
func (g *SlidesGenerator) BuildBody(job *Job) (string, error) {
	var sb strings.Builder

	// Title slide is always slide 1.
	sb.WriteString(`<section class="slide slide-title active" data-slide="1">` + "\n")
	sb.WriteString("<h1 class=\"doc-title\">" + html.EscapeString(job.Title) + "</h1>\n")
	if job.Author != "" {
		sb.WriteString(`<div class="doc-author">` + html.EscapeString(job.Author) + "</div>\n")
	}
	if job.Description != "" {
		sb.WriteString(`<p class="doc-description">` + html.EscapeString(job.Description) + "</p>\n")
	}
	sb.WriteString("</section>\n")

	for i, slide := range job.Slides {
		fmt.Fprintf(&sb, "<section class=\"slide\" data-slide=\"%d\">\n", i+2)
		sb.WriteString("<h2>" + html.EscapeString(slide.Title) + "</h2>\n")
		if slide.Content != "" {
			sb.WriteString(`<div class="slide-content">` + "\n" + slide.Content + "\n</div>\n")
		}
		sb.WriteString("</section>\n")
	}

	fmt.Fprintf(&sb, "<section class=\"slide slide-closing\" data-slide=\"%d\">\n", len(job.Slides)+2)
	sb.WriteString(`<div class="closing-message">Thank You</div>` + "\n")
	if job.Author != "" {
		sb.WriteString(`<div class="doc-author">` + html.EscapeString(job.Author) + "</div>\n")
	}
	sb.WriteString("</section>\n")

	return sb.String(), nil
}

// BuildFooter renders the slide counter and keyboard hint chrome.
func (g *SlidesGenerator) BuildFooter(job *Job) string {
	total := len(job.Slides) + 2
	return fmt.Sprintf("<div class=\"slide-counter\">1 / %d</div>\n", total) +
		"<div class=\"slide-hint\">Arrow keys or swipe to navigate</div>\n"
}
