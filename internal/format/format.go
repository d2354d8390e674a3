// Package format assembles complete export documents. One Generator
// implementation exists per output format; all of them compose the
// same section capabilities (styles, header, body, footer) around the
// converted markdown fragment and the resolved theme palette.
package format

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/avrile/go-mdexport/internal/pipeline"
	"github.com/avrile/go-mdexport/internal/theme"
)

// Sentinel errors for document generation.
var (
	ErrUnknownKind  = errors.New("unknown export format")
	ErrWordSanitize = errors.New("word content sanitization failed")
)

// Kind identifies an export format.
type Kind string

// Supported export formats.
const (
	Print  Kind = "print"
	Word   Kind = "word"
	Ebook  Kind = "ebook"
	Slides Kind = "slides"
)

// Kinds returns all supported formats in a stable order.
func Kinds() []Kind {
	return []Kind{Print, Word, Ebook, Slides}
}

// Valid reports whether k names a supported format.
func (k Kind) Valid() bool {
	switch k {
	case Print, Word, Ebook, Slides:
		return true
	}
	return false
}

// Extension returns the artifact file extension for k, including the
// leading dot.
func (k Kind) Extension() string {
	switch k {
	case Print:
		return ".pdf"
	case Word:
		return ".doc"
	default:
		return ".html"
	}
}

// MIME returns the artifact media type for k.
func (k Kind) MIME() string {
	switch k {
	case Print:
		return "application/pdf"
	case Word:
		return "application/msword"
	default:
		return "text/html"
	}
}

// Job carries everything a generator needs to assemble one document.
// Title, Author, and Description are raw user input; generators escape
// them at interpolation points.
type Job struct {
	Title       string
	Author      string
	Description string
	Date        string // resolved display date, empty to omit

	FontSize    int
	FontFamily  string
	PageSize    string
	Orientation string

	IncludePageNumbers bool
	HeaderFooter       bool

	Palette theme.Palette

	Fragment string            // converted markdown fragment
	Meta     pipeline.Metadata // conversion metadata
	Slides   []pipeline.Slide  // populated for the slides format only

	BaseCSS   string // shared stylesheet
	FormatCSS string // per-format stylesheet
}

// Generator builds the four sections of one export format.
type Generator interface {
	BuildStyles(job *Job) string
	BuildHeader(job *Job) string
	BuildBody(job *Job) (string, error)
	BuildFooter(job *Job) string
}

// shellCustomizer lets a generator replace parts of the document shell.
// The Word generator uses it for Office namespaces.
type shellCustomizer interface {
	htmlOpenTag() string
	headExtras(job *Job) string
}

// For returns the generator for a format kind.
func For(kind Kind) (Generator, error) {
	switch kind {
	case Print:
		return NewPrintGenerator(), nil
	case Word:
		return NewWordGenerator(), nil
	case Ebook:
		return NewEbookGenerator(), nil
	case Slides:
		return NewSlidesGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

// Generate assembles a complete standalone document from the
// generator's sections.
func Generate(g Generator, job *Job) (string, error) {
	body, err := g.BuildBody(job)
	if err != nil {
		return "", err
	}

	openTag := `<html lang="en">`
	extras := ""
	if sc, ok := g.(shellCustomizer); ok {
		openTag = sc.htmlOpenTag()
		extras = sc.headExtras(job)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(openTag + "\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\" />\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	sb.WriteString("<title>" + html.EscapeString(job.Title) + "</title>\n")
	if job.Author != "" {
		sb.WriteString(`<meta name="author" content="` + html.EscapeString(job.Author) + "\" />\n")
	}
	if job.Description != "" {
		sb.WriteString(`<meta name="description" content="` + html.EscapeString(job.Description) + "\" />\n")
	}
	if extras != "" {
		sb.WriteString(extras)
	}
	sb.WriteString("<style>\n" + g.BuildStyles(job) + "\n</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(g.BuildHeader(job))
	sb.WriteString(body)
	sb.WriteString(g.BuildFooter(job))
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String(), nil
}

// paletteVars emits the :root custom properties the embedded
// stylesheets consume.
func paletteVars(job *Job) string {
	var sb strings.Builder
	sb.WriteString(":root{")
	sb.WriteString("--doc-background:" + job.Palette.Background + ";")
	sb.WriteString("--doc-body-color:" + job.Palette.Body + ";")
	sb.WriteString("--doc-title-color:" + job.Palette.Title + ";")
	sb.WriteString("--doc-author-color:" + job.Palette.Author + ";")
	sb.WriteString("--doc-border-color:" + job.Palette.Border + ";")
	sb.WriteString("--doc-font-family:" + cssFontFamily(job.FontFamily) + ";")
	sb.WriteString("--doc-font-size:" + strconv.Itoa(job.FontSize) + "px;")
	sb.WriteString("}")
	return sb.String()
}

// fontFamilyStrip removes characters with meaning inside a CSS
// declaration, keeping letters, digits, spaces, commas, hyphens, and
// single quotes.
var fontFamilyStrip = regexp.MustCompile(`[^a-zA-Z0-9 ,'\-]`)

// defaultFontFamily is used when the requested family sanitizes away.
const defaultFontFamily = "Georgia, 'Times New Roman', serif"

func cssFontFamily(family string) string {
	family = fontFamilyStrip.ReplaceAllString(family, "")
	family = strings.TrimSpace(family)
	if family == "" {
		return defaultFontFamily
	}
	return family
}

// documentHeader renders the title block shared by the page formats.
// The running footer band is separate and controlled by HeaderFooter;
// this block always appears because every artifact must identify its
// title and author.
func documentHeader(job *Job) string {
	var sb strings.Builder
	sb.WriteString(`<header class="document-header">` + "\n")
	sb.WriteString("<h1 class=\"document-title\">" + html.EscapeString(job.Title) + "</h1>\n")
	if job.Author != "" {
		sb.WriteString(`<div class="document-author">` + html.EscapeString(job.Author) + "</div>\n")
	}
	if job.Date != "" {
		sb.WriteString(`<div class="document-date">` + html.EscapeString(job.Date) + "</div>\n")
	}
	if job.Description != "" {
		sb.WriteString(`<p class="document-description">` + html.EscapeString(job.Description) + "</p>\n")
	}
	sb.WriteString("</header>\n")
	return sb.String()
}

// documentFooter renders the running footer band, or nothing when the
// job disables header/footer chrome.
func documentFooter(job *Job) string {
	if !job.HeaderFooter {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<footer class="document-footer">`)
	sb.WriteString(html.EscapeString(job.Title))
	if job.Author != "" {
		sb.WriteString(" &middot; " + html.EscapeString(job.Author))
	}
	if job.Date != "" {
		sb.WriteString(" &middot; " + html.EscapeString(job.Date))
	}
	sb.WriteString("</footer>\n")
	return sb.String()
}
