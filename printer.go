package mdexport

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/avrile/go-mdexport/internal/fileutil"
	"github.com/avrile/go-mdexport/internal/process"
)

// PrintDispatcher hands a finished print document to a rendering
// backend and returns the rendered bytes. The library ships a
// headless-Chrome dispatcher; tests substitute fakes.
type PrintDispatcher interface {
	Dispatch(ctx context.Context, doc string, opts *PrintOptions) ([]byte, error)
	Close() error
}

// pageRenderer abstracts rendering from an HTML file so dispatch logic
// is testable without a browser.
type pageRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *PrintOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ PrintDispatcher = (*rodDispatcher)(nil)
	_ pageRenderer    = (*rodRenderer)(nil)
)

// PrintOptions carries the page geometry and footer configuration for
// one print rendering.
type PrintOptions struct {
	PageSize           string // "A4", "Letter", "Legal"
	Orientation        string // "portrait", "landscape"
	IncludePageNumbers bool

	// FooterText is shown in the native footer band next to the page
	// counter. Empty means no text.
	FooterText string
}

// Paper dimensions in inches, portrait orientation.
var paperDimensions = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"Letter": {8.5, 11},
	"Legal":  {8.5, 14},
}

// Print margins in inches.
const (
	printMarginInches      = 0.5
	marginBottomWithFooter = 0.75
)

// printSettleDelay gives the loaded page a beat for web fonts and
// layout before printing, mirroring the interactive print flow.
const printSettleDelay = 150 * time.Millisecond

// rodRenderer renders HTML files through headless Chrome via go-rod.
// Rod downloads a Chromium build on first run when none is found.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser, so
// non-print exports never pay the startup cost.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser when specified (containerized setups).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close disconnects from the browser and kills the browser process
// tree. Chrome spawns helper processes that outlive a plain close on
// some platforms.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	r.browser = nil

	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome, waits for
// load plus a settle delay, and renders it to PDF bytes.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *PrintOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(printSettleDelay):
	}

	reader, err := page.PDF(buildPrintToPDF(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading render stream: %v", ErrGeneration, err)
	}

	return data, nil
}

// buildPrintToPDF maps print options to Chrome's print parameters.
// Chrome ignores @page margin boxes, so page numbers and footer text
// go through the native footer template instead.
func buildPrintToPDF(opts *PrintOptions) *proto.PagePrintToPDF {
	width, height := paperSize(opts)

	marginBottom := printMarginInches
	hasFooter := opts != nil && (opts.IncludePageNumbers || opts.FooterText != "")
	if hasFooter {
		marginBottom = marginBottomWithFooter
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(printMarginInches),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(printMarginInches),
		MarginRight:     floatPtr(printMarginInches),
		PrintBackground: true,
	}

	if hasFooter {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = buildFooterTemplate(opts)
	}

	return pdfOpts
}

// paperSize returns paper width and height in inches, swapping the
// axes for landscape. Unknown sizes fall back to A4.
func paperSize(opts *PrintOptions) (width, height float64) {
	size := "A4"
	landscape := false
	if opts != nil {
		if _, ok := paperDimensions[opts.PageSize]; ok {
			size = opts.PageSize
		}
		landscape = strings.EqualFold(opts.Orientation, "landscape")
	}

	dims := paperDimensions[size]
	if landscape {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// buildFooterTemplate generates the HTML template for Chrome's native
// footer band. Page counters use Chrome's pageNumber/totalPages CSS
// classes.
func buildFooterTemplate(opts *PrintOptions) string {
	var parts []string

	if opts.FooterText != "" {
		parts = append(parts, html.EscapeString(opts.FooterText))
	}
	if opts.IncludePageNumbers {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	content := strings.Join(parts, " &middot; ")
	return fmt.Sprintf(`<div style="font-size:10px;color:#aaa;width:100%%;text-align:right;padding:0 0.5in;">%s</div>`, content)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodDispatcher renders print documents through headless Chrome.
type rodDispatcher struct {
	renderer pageRenderer
}

func newRodDispatcher(timeout time.Duration) *rodDispatcher {
	return &rodDispatcher{renderer: newRodRenderer(timeout)}
}

// Dispatch writes the document to a temp file and renders it. The file
// URL keeps relative file:// references inside the document resolvable.
func (d *rodDispatcher) Dispatch(ctx context.Context, doc string, opts *PrintOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return d.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (d *rodDispatcher) Close() error {
	if d.renderer != nil {
		return d.renderer.Close()
	}
	return nil
}
