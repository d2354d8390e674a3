package format

import "strings"

// pageSizes maps option values to CSS @page size keywords.
var pageSizes = map[string]string{
	"A4":     "A4",
	"Letter": "letter",
	"Legal":  "legal",
}

// PrintGenerator assembles the print-ready document. Page geometry
// comes from the pageSize and orientation options; the palette is
// expected to be the print palette (black on white).
type PrintGenerator struct{}

// NewPrintGenerator creates a PrintGenerator.
func NewPrintGenerator() *PrintGenerator {
	return &PrintGenerator{}
}

// Compile-time check that PrintGenerator implements Generator.
var _ Generator = (*PrintGenerator)(nil)

// BuildStyles emits @page geometry, palette variables, and the base
// and print stylesheets.
func (g *PrintGenerator) BuildStyles(job *Job) string {
	var sb strings.Builder
	sb.WriteString(pageRule(job))
	sb.WriteString("\n")
	sb.WriteString(paletteVars(job))
	sb.WriteString("\n")
	sb.WriteString(job.BaseCSS)
	sb.WriteString("\n")
	sb.WriteString(job.FormatCSS)
	if job.IncludePageNumbers {
		sb.WriteString("\n@page{@bottom-right{content:counter(page)}}")
	}
	return sb.String()
}

// BuildHeader renders the document title block.
func (g *PrintGenerator) BuildHeader(job *Job) string {
	return documentHeader(job)
}

// BuildBody wraps the converted fragment in the document main element.
func (g *PrintGenerator) BuildBody(job *Job) (string, error) {
	return `<main class="document-body">` + "\n" + job.Fragment + "\n</main>\n", nil
}

// BuildFooter renders the running footer band when enabled.
func (g *PrintGenerator) BuildFooter(job *Job) string {
	return documentFooter(job)
}

// pageRule builds the @page rule from page size and orientation.
// Unknown sizes fall back to A4 portrait.
func pageRule(job *Job) string {
	size, ok := pageSizes[job.PageSize]
	if !ok {
		size = "A4"
	}
	orientation := "portrait"
	if job.Orientation == "landscape" {
		orientation = "landscape"
	}
	return "@page{size:" + size + " " + orientation + ";margin:2cm}"
}
