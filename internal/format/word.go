package format

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/avrile/go-mdexport/internal/pipeline"
)

// wordDisallowedTags are removed together with their content. Word's
// HTML import either ignores or mangles these.
var wordDisallowedTags = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"form":   true,
	"input":  true,
	"button": true,
	"video":  true,
	"audio":  true,
}

// WordGenerator assembles Word-compatible HTML served as a .doc
// artifact: Office XML namespaces, mso-* style hints, a forced
// black-on-white palette, sanitized source content, and emoji
// preservation spans applied after sanitization so they survive it.
type WordGenerator struct {
	emoji pipeline.EmojiEncoder
}

// NewWordGenerator creates a WordGenerator.
func NewWordGenerator() *WordGenerator {
	return &WordGenerator{emoji: pipeline.NewSpanEmojiEncoder()}
}

// Compile-time checks for the Generator interface and the shell hooks.
var (
	_ Generator       = (*WordGenerator)(nil)
	_ shellCustomizer = (*WordGenerator)(nil)
)

func (g *WordGenerator) htmlOpenTag() string {
	return `<html xmlns:o="urn:schemas-microsoft-com:office:office"` +
		` xmlns:w="urn:schemas-microsoft-com:office:word"` +
		` xmlns="http://www.w3.org/TR/REC-html40" lang="en">`
}

func (g *WordGenerator) headExtras(job *Job) string {
	return "<meta name=\"ProgId\" content=\"Word.Document\" />\n" +
		"<!--[if gte mso 9]><xml><w:WordDocument><w:View>Print</w:View>" +
		"<w:Zoom>100</w:Zoom><w:DoNotOptimizeForBrowser/></w:WordDocument></xml><![endif]-->\n"
}

// BuildStyles emits page geometry, palette variables, and the Word
// stylesheet. The Word stylesheet pins text to black on white, so a
// themed palette cannot leak into the artifact.
func (g *WordGenerator) BuildStyles(job *Job) string {
	var sb strings.Builder
	sb.WriteString(pageRule(job))
	sb.WriteString("\n")
	sb.WriteString(paletteVars(job))
	sb.WriteString("\n")
	sb.WriteString(job.BaseCSS)
	sb.WriteString("\n")
	sb.WriteString(job.FormatCSS)
	return sb.String()
}

// BuildHeader renders the document title block.
func (g *WordGenerator) BuildHeader(job *Job) string {
	return documentHeader(job)
}

// BuildBody sanitizes the converted fragment for Word and applies the
// emoji preservation spans to the cleaned markup.
func (g *WordGenerator) BuildBody(job *Job) (string, error) {
	clean, err := sanitizeWordHTML(job.Fragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWordSanitize, err)
	}
	encoded := g.emoji.Encode(clean)
	return `<div class="word-body">` + "\n" + encoded + "\n</div>\n", nil
}

// BuildFooter renders the running footer band when enabled.
func (g *WordGenerator) BuildFooter(job *Job) string {
	return documentFooter(job)
}

// sanitizeWordHTML strips tags and attributes Word cannot consume from
// source content: disallowed elements with their children, plus
// style, data-*, and event handler attributes. Markup added by the
// generator afterwards (emoji spans, header chrome) is not affected.
func sanitizeWordHTML(fragment string) (string, error) {
	bodyContext := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, n := range nodes {
		if !sanitizeNode(n) {
			continue
		}
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// sanitizeNode filters one node in place and recurses into children.
// Returns false when the node was removed from its parent.
func sanitizeNode(n *html.Node) bool {
	if n.Type == html.ElementNode {
		if wordDisallowedTags[n.Data] {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return false
		}
		n.Attr = filterWordAttrs(n.Attr)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		sanitizeNode(c)
		c = next
	}
	return true
}

// filterWordAttrs drops style, data-*, and on* attributes.
func filterWordAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		switch {
		case key == "style":
		case strings.HasPrefix(key, "data-"):
		case strings.HasPrefix(key, "on"):
		default:
			kept = append(kept, a)
		}
	}
	return kept
}
