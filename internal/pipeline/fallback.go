package pipeline

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// Inline markdown patterns for the fallback converter. Input is
// HTML-escaped before these run, so replacements cannot introduce
// markup beyond the tags emitted here.
var (
	fallbackImage  = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	fallbackLink   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	fallbackBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	fallbackItalic = regexp.MustCompile(`\*([^*]+)\*`)
	fallbackCode   = regexp.MustCompile("`([^`]+)`")

	fallbackHeading = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	fallbackBullet  = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	fallbackOrdered = regexp.MustCompile(`^\d+\.\s+(.*)$`)

	slugStrip = regexp.MustCompile(`[^a-z0-9]+`)
)

// FallbackConverter is a degraded line-oriented markdown converter used
// when the primary parser fails. It understands headings, bold/italic,
// links, images, inline and fenced code, blockquotes, flat lists, and
// hard line breaks. It always produces some HTML and never returns an
// error besides context cancellation.
type FallbackConverter struct{}

// NewFallbackConverter creates a FallbackConverter.
func NewFallbackConverter() *FallbackConverter {
	return &FallbackConverter{}
}

// ToHTML converts markdown to an HTML fragment using regex rules.
func (f *FallbackConverter) ToHTML(ctx context.Context, content string) (*Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragment := convertFallback(content)
	return &Fragment{
		HTML: fragment,
		Meta: buildMetadata(content, fragment),
	}, nil
}

// lineState tracks the open block while scanning lines.
type lineState int

const (
	stateNone lineState = iota
	stateParagraph
	stateBullet
	stateOrdered
	stateQuote
	stateFence
)

func convertFallback(content string) string {
	content = normalizeLineEndings(content)

	var (
		out   strings.Builder
		state = stateNone
		para  []string
	)

	closeBlock := func() {
		switch state {
		case stateParagraph:
			out.WriteString("<p>")
			out.WriteString(strings.Join(para, "<br />\n"))
			out.WriteString("</p>\n")
			para = para[:0]
		case stateBullet:
			out.WriteString("</ul>\n")
		case stateOrdered:
			out.WriteString("</ol>\n")
		case stateQuote:
			out.WriteString("</blockquote>\n")
		case stateFence:
			out.WriteString("</code></pre>\n")
		}
		state = stateNone
	}

	for _, line := range strings.Split(content, "\n") {
		escaped := html.EscapeString(line)

		// Fences toggle raw mode and swallow the marker line.
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if state == stateFence {
				closeBlock()
			} else {
				closeBlock()
				out.WriteString("<pre><code>")
				state = stateFence
			}
			continue
		}

		if state == stateFence {
			out.WriteString(escaped)
			out.WriteString("\n")
			continue
		}

		trimmed := strings.TrimSpace(escaped)

		if trimmed == "" {
			closeBlock()
			continue
		}

		if m := fallbackHeading.FindStringSubmatch(trimmed); m != nil {
			closeBlock()
			level := len(m[1])
			text := fallbackInline(m[2])
			tag := string(rune('0' + level))
			out.WriteString("<h" + tag + ` id="` + headingSlug(m[2]) + `">` + text + "</h" + tag + ">\n")
			continue
		}

		if m := fallbackBullet.FindStringSubmatch(trimmed); m != nil {
			if state != stateBullet {
				closeBlock()
				out.WriteString("<ul>\n")
				state = stateBullet
			}
			out.WriteString("<li>" + fallbackInline(m[1]) + "</li>\n")
			continue
		}

		if m := fallbackOrdered.FindStringSubmatch(trimmed); m != nil {
			if state != stateOrdered {
				closeBlock()
				out.WriteString("<ol>\n")
				state = stateOrdered
			}
			out.WriteString("<li>" + fallbackInline(m[1]) + "</li>\n")
			continue
		}

		if strings.HasPrefix(trimmed, "&gt;") {
			if state != stateQuote {
				closeBlock()
				out.WriteString("<blockquote>\n")
				state = stateQuote
			}
			quoted := strings.TrimSpace(strings.TrimPrefix(trimmed, "&gt;"))
			out.WriteString("<p>" + fallbackInline(quoted) + "</p>\n")
			continue
		}

		if state != stateParagraph {
			closeBlock()
			state = stateParagraph
		}
		para = append(para, fallbackInline(trimmed))
	}

	closeBlock()
	return out.String()
}

// fallbackInline applies inline markdown rules to escaped text.
// Code spans run first so their content stays literal-ish; images
// before links so the leading ! is consumed.
func fallbackInline(s string) string {
	s = fallbackCode.ReplaceAllString(s, "<code>$1</code>")
	s = fallbackImage.ReplaceAllString(s, `<img src="$2" alt="$1" />`)
	s = fallbackLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = fallbackBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = fallbackItalic.ReplaceAllString(s, "<em>$1</em>")
	return s
}

// headingSlug builds a stable anchor ID from heading text, mirroring
// the primary parser's lowercase-hyphen style.
func headingSlug(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "section"
	}
	return slug
}
