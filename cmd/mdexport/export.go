package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	mdexport "github.com/avrile/go-mdexport"
	"github.com/avrile/go-mdexport/internal/config"
	"github.com/avrile/go-mdexport/internal/dateutil"
	"github.com/avrile/go-mdexport/internal/fileutil"
)

// ErrUnknownTheme reports a theme name outside the registered set. The
// library falls back to the default theme for unknown names; the CLI
// fails loudly instead so typos don't silently restyle a batch.
var ErrUnknownTheme = errors.New("unknown theme")

// defaultAuthor fills the author line when neither flags, environment,
// nor profile supply one. Every artifact identifies its author, so the
// CLI needs a stand-in where the editor would use the account name.
const defaultAuthor = "Anonymous"

// exportParams groups parameters shared across batch/file export.
type exportParams struct {
	format    mdexport.Format
	customCSS string
	profile   *config.Profile
}

// runExport orchestrates the export process.
func runExport(ctx context.Context, positionalArgs []string, flags *exportFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Load the profile: flag name wins over the environment's.
	prof := config.DefaultProfile()
	profileName := flags.common.profile
	if profileName == "" {
		profileName = envCfg.Profile
	}
	if profileName != "" {
		var err error
		prof, err = config.LoadProfile(profileName)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
	}

	// Environment fills profile gaps; CLI flags override both.
	applyEnvProfile(envCfg, prof)
	mergeFlags(flags, prof)

	if err := validateWorkers(prof.Workers); err != nil {
		return err
	}

	if prof.Theme != "" && !mdexport.KnownTheme(prof.Theme) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, prof.Theme)
	}

	// Resolve "auto" date once for the entire batch
	resolvedDate, err := resolveDateWithTime(prof.Document.Date, env.Now)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	prof.Document.Date = resolvedDate

	exportFormat, err := resolveFormat(prof.Format)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, prof)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, prof)

	files, err := discoverFiles(inputPath, outputDir, exportFormat.Extension())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	customCSS, err := resolveCustomCSS(prof)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout, prof.Timeout)
	if err != nil {
		return err
	}

	poolSize := mdexport.ResolvePoolSize(prof.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := mdexport.NewExporterPool(poolSize, exporterOptions(prof, timeout)...)
	defer pool.Close()

	params := &exportParams{
		format:    exportFormat,
		customCSS: customCSS,
		profile:   prof,
	}

	results := exportBatch(ctx, &poolAdapter{pool: pool}, files, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d export(s) failed", failedCount)
	}

	return nil
}

// mergeFlags merges CLI flags into the profile. CLI values override
// profile values.
func mergeFlags(flags *exportFlags, prof *config.Profile) {
	if flags.format != "" {
		prof.Format = flags.format
	}
	if flags.workers > 0 {
		prof.Workers = flags.workers
	}

	// Document flags
	if flags.document.title != "" {
		prof.Document.Title = flags.document.title
	}
	if flags.document.author != "" {
		prof.Document.Author = flags.document.author
	}
	if flags.document.description != "" {
		prof.Document.Description = flags.document.description
	}
	if flags.document.date != "" {
		prof.Document.Date = flags.document.date
	}

	// Page flags
	if flags.page.size != "" {
		prof.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		prof.Page.Orientation = flags.page.orientation
	}
	if flags.page.numbers {
		prof.Page.Numbers = true
	}
	if flags.page.headerFooter {
		prof.Page.HeaderFoot = true
	}

	// Font flags
	if flags.font.size > 0 {
		prof.Font.Size = flags.font.size
	}
	if flags.font.family != "" {
		prof.Font.Family = flags.font.family
	}

	// Style flags
	if flags.style.theme != "" {
		prof.Theme = flags.style.theme
	}
	if flags.style.css != "" {
		prof.CSS.Style = flags.style.css
	}
	if flags.style.assetPath != "" {
		prof.Assets.BasePath = flags.style.assetPath
	}

	// TOC flags
	if flags.toc.enabled {
		prof.TOC = true
	}
	if flags.toc.disabled {
		prof.TOC = false
	}

	// Watermark flags
	if flags.watermark.text != "" {
		prof.Watermark.Text = flags.watermark.text
		prof.Watermark.Enabled = true
	}
	if flags.watermark.disabled {
		prof.Watermark.Enabled = false
	}
}

// resolveDateWithTime resolves "auto" and "auto:FORMAT" to a formatted
// date.
func resolveDateWithTime(date string, now func() time.Time) (string, error) {
	return dateutil.ResolveDate(date, now())
}

// resolveFormat maps a format name to the export format. Empty means
// print, keeping bare invocations PDF-producing.
func resolveFormat(name string) (mdexport.Format, error) {
	if name == "" {
		return mdexport.FormatPrint, nil
	}
	f := mdexport.Format(strings.ToLower(name))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", mdexport.ErrUnknownFormat, name)
	}
	return f, nil
}

// resolveInputPath determines the input path from args or profile.
func resolveInputPath(args []string, prof *config.Profile) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if prof.Input.DefaultDir != "" {
		return prof.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or
// profile.
func resolveOutputDir(flagOutput string, prof *config.Profile) string {
	if flagOutput != "" {
		return flagOutput
	}
	return prof.Output.DefaultDir
}

// resolveCustomCSS resolves the custom stylesheet from the merged
// profile: inline CSS passes through, anything else is read as a file.
// Flags are merged into the profile by mergeFlags before this is
// called.
func resolveCustomCSS(prof *config.Profile) (string, error) {
	input := prof.CSS.Style
	if input == "" {
		return "", nil
	}

	// Remote URL? Exports stay offline.
	if fileutil.IsURL(input) {
		return "", fmt.Errorf("%w: remote stylesheet %q is not fetched, save it locally first", ErrReadCSS, input)
	}

	// CSS content? (contains { but no path separator)
	if !fileutil.IsFilePath(input) && fileutil.IsCSS(input) {
		return input, nil
	}

	// File path, or a bare file name in the working directory.
	content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// resolveTimeout determines the print render timeout.
// Priority: flag > environment > profile; zero means the library
// default applies.
func resolveTimeout(flagValue string, envValue time.Duration, profileSeconds int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %v", flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %v", d)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	if profileSeconds > 0 {
		return time.Duration(profileSeconds) * time.Second, nil
	}
	return 0, nil
}

// exporterOptions maps the merged profile and resolved timeout to
// exporter construction options.
func exporterOptions(prof *config.Profile, timeout time.Duration) []mdexport.Option {
	var opts []mdexport.Option
	if timeout > 0 {
		opts = append(opts, mdexport.WithTimeout(timeout))
	}
	if prof.Assets.BasePath != "" {
		opts = append(opts, mdexport.WithAssetPath(prof.Assets.BasePath))
	}
	return opts
}

// firstHeadingPattern matches the first # heading in markdown content.
var firstHeadingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractFirstHeading extracts the first # heading from markdown
// content.
func extractFirstHeading(markdown string) string {
	matches := firstHeadingPattern.FindStringSubmatch(markdown)
	if len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// buildExportOptions assembles per-file export options from the merged
// profile. Title falls back from profile to first heading to filename.
func buildExportOptions(f mdexport.Format, prof *config.Profile, customCSS, markdown, inputPath string) mdexport.ExportOptions {
	title := prof.Document.Title
	if title == "" {
		title = extractFirstHeading(markdown)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}

	author := prof.Document.Author
	if author == "" {
		author = defaultAuthor
	}

	var watermark string
	if prof.Watermark.Enabled {
		watermark = prof.Watermark.Text
	}

	return mdexport.ExportOptions{
		Format:             f,
		Title:              title,
		Author:             author,
		Description:        prof.Document.Description,
		Date:               prof.Document.Date,
		PageSize:           prof.Page.Size,
		Orientation:        prof.Page.Orientation,
		FontSize:           prof.Font.Size,
		FontFamily:         prof.Font.Family,
		ThemeName:          prof.Theme,
		IncludeTOC:         prof.TOC,
		IncludePageNumbers: prof.Page.Numbers,
		HeaderFooter:       prof.Page.HeaderFoot,
		WatermarkText:      watermark,
		CustomCSS:          customCSS,
		SourceDir:          filepath.Dir(inputPath),
	}
}
