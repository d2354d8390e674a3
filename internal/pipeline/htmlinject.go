package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content, before </head>
// when present. CSS content is sanitized so it cannot close the style
// tag prematurely.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}
	return insertBeforeHeadEnd(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ScriptInjector defines the contract for script injection into HTML.
type ScriptInjector interface {
	InjectScript(ctx context.Context, htmlContent, scriptContent string) string
}

// ScriptInjection injects JavaScript as a <script> block into HTML
// content.
type ScriptInjection struct{}

// scriptClosePattern matches a closing script sequence inside script
// source, in any case.
var scriptClosePattern = regexp.MustCompile(`(?i)</script`)

// InjectScript inserts a <script> block before </body>, or appends it
// when no body close tag exists. Script content is sanitized so it
// cannot terminate the script element early.
func (s *ScriptInjection) InjectScript(ctx context.Context, htmlContent, scriptContent string) string {
	if scriptContent == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}
	sanitized := scriptClosePattern.ReplaceAllString(scriptContent, `<\/script`)
	return insertBeforeBodyEnd(htmlContent, "<script>\n"+sanitized+"\n</script>")
}

// insertBeforeHeadEnd inserts fragment before </head>. When the
// document has no head close tag it falls back to just after the
// <body> open tag, then to prepending.
func insertBeforeHeadEnd(htmlContent, fragment string) string {
	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}
	return insertAfterBodyOpen(htmlContent, fragment)
}

// insertAfterBodyOpen inserts fragment right after the <body> open
// tag, falling back to prepending.
func insertAfterBodyOpen(htmlContent, fragment string) string {
	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + fragment + htmlContent[insertPos:]
		}
	}
	return fragment + htmlContent
}

// insertBeforeBodyEnd inserts fragment before </body>, falling back to
// appending.
func insertBeforeBodyEnd(htmlContent, fragment string) string {
	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}
	return htmlContent + fragment
}

// headingPattern matches h1-h6 tags with id attribute.
// Captures: 1=level, 2=id, 3=inner HTML (may contain inline tags)
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes HTML tags from a string, decodes HTML entities,
// and trims whitespace. Decoding entities avoids double-encoding when
// the text is later escaped again for output.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// extractHeadings parses HTML and returns headings between minLevel
// and maxLevel. Headings without IDs are skipped, which keeps
// generator-built title blocks out of the result.
func extractHeadings(htmlContent string, minLevel, maxLevel int) []Heading {
	matches := headingPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var headings []Heading
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level < minLevel || level > maxLevel {
			continue
		}
		headings = append(headings, Heading{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// numberingState tracks hierarchical numbering for TOC entries.
// The first heading seen defines level 1, and skipped levels are
// treated as direct children rather than opening empty depths.
type numberingState struct {
	counters     [6]int
	minLevelSeen int
	lastLevel    int
}

func newNumberingState() *numberingState {
	return &numberingState{}
}

// next returns the number string and effective depth for a heading
// level, e.g. "1.2." at depth 2.
func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	effectiveDepth = level - n.minLevelSeen + 1
	if effectiveDepth < 1 {
		effectiveDepth = 1
	}

	// A jump such as H1 -> H3 nests one step, not two.
	if n.lastLevel > 0 && effectiveDepth > n.lastLevel+1 {
		effectiveDepth = n.lastLevel + 1
	}

	for i := effectiveDepth; i < 6; i++ {
		n.counters[i] = 0
	}

	n.counters[effectiveDepth-1]++
	n.lastLevel = effectiveDepth

	var parts []string
	for i := 0; i < effectiveDepth; i++ {
		parts = append(parts, strconv.Itoa(n.counters[i]))
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}

// generateNumberedTOC creates HTML for a numbered table of contents.
// Entries are <div> elements instead of <ul>/<li> to stay clear of
// list-style rules in document themes.
func generateNumberedTOC(headings []Heading, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)

	if title != "" {
		buf.WriteString(`<h2 class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</h2>`)
	}

	buf.WriteString(`<div class="toc-list">`)

	numbering := newNumberingState()
	for _, h := range headings {
		num, effectiveDepth := numbering.next(h.Level)
		indent := float64(effectiveDepth-1) * 1.5

		buf.WriteString(`<div class="toc-item"`)
		if indent > 0 {
			buf.WriteString(fmt.Sprintf(` style="padding-left:%.1fem"`, indent))
		}
		buf.WriteString(`><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(num)
		buf.WriteString(` `)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</div></nav>`)
	return buf.String()
}

// TOCData holds TOC configuration for injection.
type TOCData struct {
	Title    string
	MinLevel int // minimum heading level, default 2
	MaxLevel int // maximum heading level, default 3
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// Compile-time check that TOCInjection implements TOCInjector.
var _ TOCInjector = (*TOCInjection)(nil)

// headerEndPattern locates the end of a generator-built document
// header block, the preferred TOC anchor point.
var headerEndPattern = regexp.MustCompile(`(?i)</header>`)

// InjectTOC extracts headings and injects a numbered TOC after the
// document header block, or after the body open tag when the document
// has no header. If data is nil, returns htmlContent unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	minLevel := data.MinLevel
	if minLevel < 1 {
		minLevel = 2
	}
	maxLevel := data.MaxLevel
	if maxLevel < minLevel {
		maxLevel = 3
		if maxLevel < minLevel {
			maxLevel = minLevel
		}
	}

	headings := extractHeadings(htmlContent, minLevel, maxLevel)
	if len(headings) == 0 {
		return htmlContent, nil
	}

	tocHTML := generateNumberedTOC(headings, data.Title)
	if loc := headerEndPattern.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[1]] + tocHTML + htmlContent[loc[1]:], nil
	}
	return insertAfterBodyOpen(htmlContent, tocHTML), nil
}
