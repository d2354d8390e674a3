package format

import (
	"fmt"
	"strings"
)

// EbookGenerator assembles the e-book style HTML document: a single
// measured serif column with the resolved theme palette, shadowed
// media, and a reading time line under the title block.
type EbookGenerator struct{}

// NewEbookGenerator creates an EbookGenerator.
func NewEbookGenerator() *EbookGenerator {
	return &EbookGenerator{}
}

// Compile-time check that EbookGenerator implements Generator.
var _ Generator = (*EbookGenerator)(nil)

// BuildStyles emits palette variables and the base and e-book
// stylesheets.
func (g *EbookGenerator) BuildStyles(job *Job) string {
	var sb strings.Builder
	sb.WriteString(paletteVars(job))
	sb.WriteString("\n")
	sb.WriteString(job.BaseCSS)
	sb.WriteString("\n")
	sb.WriteString(job.FormatCSS)
	return sb.String()
}

// BuildHeader renders the title block plus the estimated reading time
// when the document has any words.
func (g *EbookGenerator) BuildHeader(job *Job) string {
	header := documentHeader(job)
	if job.Meta.ReadingTime > 0 {
		header = strings.Replace(header, "</header>",
			fmt.Sprintf("<div class=\"document-reading-time\">%d min read</div>\n</header>", job.Meta.ReadingTime), 1)
	}
	return header
}

// BuildBody wraps the converted fragment in the document main element.
func (g *EbookGenerator) BuildBody(job *Job) (string, error) {
	return `<main class="document-body">` + "\n" + job.Fragment + "\n</main>\n", nil
}

// BuildFooter renders the running footer band when enabled.
func (g *EbookGenerator) BuildFooter(job *Job) string {
	return documentFooter(job)
}
