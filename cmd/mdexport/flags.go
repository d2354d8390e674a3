package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	profile string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title       string
	author      string
	description string
	date        string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size         string
	orientation  string
	numbers      bool
	headerFooter bool
}

// fontFlags holds typography flags.
type fontFlags struct {
	size   int
	family string
}

// styleFlags holds theme and styling flags.
type styleFlags struct {
	theme     string
	css       string // CSS file or inline rules appended after built-in styles
	assetPath string // custom asset directory
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	disabled bool
}

// watermarkFlags holds watermark flags.
type watermarkFlags struct {
	text     string
	disabled bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	format    string
	output    string
	workers   int
	timeout   string
	document  documentFlags
	page      pageFlags
	font      fontFlags
	style     styleFlags
	toc       tocFlags
	watermark watermarkFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.profile, "profile", "c", "", "profile name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from H1)")
	fs.StringVar(&f.author, "author", "", "author name")
	fs.StringVar(&f.description, "description", "", "document description")
	fs.StringVar(&f.date, "date", "", "document date: \"auto\", \"auto:FORMAT\", or literal")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.BoolVar(&f.numbers, "page-numbers", false, "show page numbers")
	fs.BoolVar(&f.headerFooter, "header-footer", false, "show running header/footer band")
}

// addFontFlags adds typography flags to a FlagSet.
func addFontFlags(fs *flag.FlagSet, f *fontFlags) {
	fs.IntVar(&f.size, "font-size", 0, "font size in points (8-24)")
	fs.StringVar(&f.family, "font-family", "", "CSS font stack")
}

// addStyleFlags adds theme and styling flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.theme, "theme", "", "color theme name")
	fs.StringVar(&f.css, "css", "", "CSS file or inline rules appended after built-in styles")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addTOCFlags adds table of contents flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "include a numbered table of contents")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// addWatermarkFlags adds watermark flags to a FlagSet.
func addWatermarkFlags(fs *flag.FlagSet, f *watermarkFlags) {
	fs.StringVar(&f.text, "watermark", "", "watermark text (e.g., DRAFT)")
	fs.BoolVar(&f.disabled, "no-watermark", false, "disable watermark")
}

// parseExportFlags parses export command flags and returns positional
// args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}

	// I/O flags
	fs.StringVarP(&f.format, "format", "f", "", "export format: print, word, ebook, slides")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "print render timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addPageFlags(fs, &f.page)
	addFontFlags(fs, &f.font)
	addStyleFlags(fs, &f.style)
	addTOCFlags(fs, &f.toc)
	addWatermarkFlags(fs, &f.watermark)

	fs.Usage = func() { printExportUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
