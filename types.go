package mdexport

import (
	"fmt"
	"strings"
	"time"

	"github.com/avrile/go-mdexport/internal/format"
	"github.com/avrile/go-mdexport/internal/theme"
)

// Format selects one of the export pipelines.
type Format string

// Supported export formats.
const (
	FormatPrint  Format = "print"
	FormatWord   Format = "word"
	FormatEbook  Format = "ebook"
	FormatSlides Format = "slides"
)

// Formats returns all supported formats in display order.
func Formats() []Format {
	return []Format{FormatPrint, FormatWord, FormatEbook, FormatSlides}
}

// ThemeNames returns the registered theme names in sorted order.
func ThemeNames() []string {
	return theme.Names()
}

// KnownTheme reports whether name refers to a registered theme.
// Matching is case-insensitive. Unknown names do not fail an export;
// Lookup falls back to the default theme.
func KnownTheme(name string) bool {
	return theme.Known(name)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatPrint, FormatWord, FormatEbook, FormatSlides:
		return true
	}
	return false
}

// Extension returns the artifact file extension for the format,
// including the leading dot.
func (f Format) Extension() string {
	return f.kind().Extension()
}

// MIME returns the artifact media type for the format.
func (f Format) MIME() string {
	return f.kind().MIME()
}

// kind maps the public format to the internal generator kind.
func (f Format) kind() format.Kind {
	return format.Kind(f)
}

// Page size constants. Matching is case-insensitive; Normalize
// canonicalizes to these spellings.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"
	PageSizeLegal  = "Legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Font size bounds in points.
const (
	MinFontSize     = 8
	MaxFontSize     = 24
	DefaultFontSize = 12
)

// DefaultFontFamily is applied when no font family is requested.
const DefaultFontFamily = "Georgia, 'Times New Roman', serif"

// canonicalPageSizes maps lowercase page size names to their canonical
// spelling.
var canonicalPageSizes = map[string]string{
	"a4":     PageSizeA4,
	"letter": PageSizeLetter,
	"legal":  PageSizeLegal,
}

// ExportOptions configures one export. Zero values for page size,
// orientation, font size, font family, and theme mean "use the
// default"; Validate rejects non-empty invalid values and Normalize
// fills the defaults in.
type ExportOptions struct {
	Format      Format
	Title       string
	Author      string
	Description string

	// Date is a preformatted display date for the document header.
	// Empty means no date line.
	Date string

	PageSize    string // "A4", "Letter", "Legal"
	Orientation string // "portrait", "landscape"
	FontSize    int    // points, within [MinFontSize, MaxFontSize]
	FontFamily  string
	ThemeName   string

	IncludeTOC         bool
	IncludePageNumbers bool
	HeaderFooter       bool

	// WatermarkText tiles the document with a diagonal watermark when
	// non-empty.
	WatermarkText string

	// CustomCSS is appended after the built-in stylesheets so user
	// rules win the cascade.
	CustomCSS string

	// SourceDir, when set, resolves relative image and link paths in
	// the markdown against this directory.
	SourceDir string
}

// Validate checks all option constraints and reports every violation
// together in one *ValidationError rather than stopping at the first.
func (o *ExportOptions) Validate() error {
	var violations []string

	if !o.Format.Valid() {
		violations = append(violations, fmt.Sprintf("format %q must be one of print, word, ebook, slides", o.Format))
	}
	if strings.TrimSpace(o.Title) == "" {
		violations = append(violations, "title cannot be empty")
	}
	if strings.TrimSpace(o.Author) == "" {
		violations = append(violations, "author cannot be empty")
	}
	if o.PageSize != "" {
		if _, ok := canonicalPageSizes[strings.ToLower(o.PageSize)]; !ok {
			violations = append(violations, fmt.Sprintf("page size %q must be A4, Letter, or Legal", o.PageSize))
		}
	}
	if o.Orientation != "" && !isValidOrientation(o.Orientation) {
		violations = append(violations, fmt.Sprintf("orientation %q must be portrait or landscape", o.Orientation))
	}
	if o.FontSize != 0 && (o.FontSize < MinFontSize || o.FontSize > MaxFontSize) {
		violations = append(violations, fmt.Sprintf("font size %d must be between %d and %d", o.FontSize, MinFontSize, MaxFontSize))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Normalize trims user text and fills defaults for unset fields.
// Call after Validate; it assumes non-empty values are valid.
func (o *ExportOptions) Normalize() {
	o.Title = strings.TrimSpace(o.Title)
	o.Author = strings.TrimSpace(o.Author)
	o.Description = strings.TrimSpace(o.Description)

	if o.PageSize == "" {
		o.PageSize = PageSizeLetter
	} else {
		o.PageSize = canonicalPageSizes[strings.ToLower(o.PageSize)]
	}
	if o.Orientation == "" {
		o.Orientation = OrientationPortrait
	} else {
		o.Orientation = strings.ToLower(o.Orientation)
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if strings.TrimSpace(o.FontFamily) == "" {
		o.FontFamily = DefaultFontFamily
	}
	if strings.TrimSpace(o.ThemeName) == "" {
		o.ThemeName = theme.DefaultThemeName
	}
}

// isValidOrientation checks orientation case-insensitively.
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Artifact is one finished export: the document bytes plus download
// metadata. Artifacts are produced fresh per call and never cached.
type Artifact struct {
	Format   Format
	Data     []byte
	Filename string
	MIME     string
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for an Exporter.
type exporterConfig struct {
	timeout   time.Duration
	assetPath string
	clock     func() time.Time
	idSource  func() string
}

// DefaultTimeout bounds print rendering when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// WithTimeout sets the print rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdexport: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithProgressFunc registers an observer for export state changes.
// The callback runs on the exporting goroutine and must not block.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(e *Exporter) {
		e.notify = fn
	}
}

// WithPrintDispatcher replaces the headless-browser print dispatcher,
// typically with a fake in tests.
func WithPrintDispatcher(d PrintDispatcher) Option {
	return func(e *Exporter) {
		e.dispatcher = d
	}
}

// WithAssetPath loads stylesheets and scripts from the given directory,
// falling back to the embedded assets for names not present there.
func WithAssetPath(path string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = path
	}
}

// ThemeProbe carries pre-sampled host environment signals used to break
// ties when the theme itself does not determine dark or light mode.
type ThemeProbe struct {
	// DataTheme is the document's explicit theme attribute value:
	// "dark", "light", or "" when absent.
	DataTheme string
	// DocumentDark reports whether the document root carries a dark
	// marker class. Absence of the class decides nothing.
	DocumentDark bool
	// PrefersDark reports the OS color-scheme preference. False can
	// mean either "light" or "no preference", so it decides nothing.
	PrefersDark bool
	// StoredPreference is the persisted user choice: "dark", "light",
	// or "" when never set.
	StoredPreference string
}

// WithThemeProbe supplies pre-sampled host environment signals for the
// dark/light decision. The zero probe means no host signals.
func WithThemeProbe(probe ThemeProbe) Option {
	return func(e *Exporter) {
		e.probe = theme.EnvProbe(probe)
	}
}

// WithClock fixes the timestamp source used in watermark forensics.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.cfg.clock = now
	}
}

// WithIDSource fixes the identifier source used in watermark forensics.
func WithIDSource(fn func() string) Option {
	return func(e *Exporter) {
		e.cfg.idSource = fn
	}
}
