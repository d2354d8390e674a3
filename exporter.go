package mdexport

import (
	"context"
	"fmt"
	"strings"

	"github.com/avrile/go-mdexport/internal/assets"
	"github.com/avrile/go-mdexport/internal/format"
	"github.com/avrile/go-mdexport/internal/pipeline"
	"github.com/avrile/go-mdexport/internal/theme"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile
// time, catching signature mismatches before runtime.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.FallbackConverter)(nil)
	_ pipeline.SlideSegmenter       = (*pipeline.HeadingSegmenter)(nil)
	_ pipeline.EmojiEncoder         = (*pipeline.SpanEmojiEncoder)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.ScriptInjector       = (*pipeline.ScriptInjection)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
	_ pipeline.WatermarkInjector    = (*pipeline.TiledWatermark)(nil)
)

// Exporter orchestrates the multi-format export pipeline.
// Create with NewExporter, run exports with Export, and Close when
// done to release browser resources held by the print dispatcher.
type Exporter struct {
	cfg            exporterConfig
	probe          theme.EnvProbe
	notify         ProgressFunc
	assetLoader    assets.AssetLoader
	preprocessor   pipeline.MarkdownPreprocessor
	converter      pipeline.HTMLConverter
	fallback       pipeline.HTMLConverter
	segmenter      pipeline.SlideSegmenter
	cssInjector    pipeline.CSSInjector
	scriptInjector pipeline.ScriptInjector
	tocInjector    pipeline.TOCInjector
	watermark      pipeline.WatermarkInjector
	dispatcher     PrintDispatcher

	baseCSS   string
	navScript string
}

// NewExporter creates an Exporter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithAssetPath,
// WithThemeProbe).
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg:            exporterConfig{timeout: DefaultTimeout},
		assetLoader:    assets.NewEmbeddedLoader(),
		preprocessor:   &pipeline.CommonMarkPreprocessor{},
		converter:      pipeline.NewGoldmarkConverter(),
		fallback:       pipeline.NewFallbackConverter(),
		segmenter:      pipeline.NewHeadingSegmenter(),
		cssInjector:    &pipeline.CSSInjection{},
		scriptInjector: &pipeline.ScriptInjection{},
		tocInjector:    pipeline.NewTOCInjection(),
	}

	for _, opt := range opts {
		opt(e)
	}

	// Custom asset directories fall back to the embedded assets for
	// names they do not carry.
	if e.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("resolving asset path: %w", err)
		}
		e.assetLoader = resolver
	}

	baseCSS, err := e.assetLoader.LoadStyle("base")
	if err != nil {
		return nil, fmt.Errorf("loading base stylesheet: %w", err)
	}
	e.baseCSS = baseCSS

	navScript, err := e.assetLoader.LoadScript("slides-nav")
	if err != nil {
		return nil, fmt.Errorf("loading slides navigation script: %w", err)
	}
	e.navScript = navScript

	guardScript, err := e.assetLoader.LoadScript("watermark-guard")
	if err != nil {
		return nil, fmt.Errorf("loading watermark guard script: %w", err)
	}
	wm := pipeline.NewTiledWatermark(guardScript)
	if e.cfg.clock != nil {
		wm.Now = e.cfg.clock
	}
	if e.cfg.idSource != nil {
		wm.NewID = e.cfg.idSource
	}
	e.watermark = wm

	// Create the print dispatcher if not injected (e.g., by tests).
	// The browser itself launches lazily on first print export.
	if e.dispatcher == nil {
		e.dispatcher = newRodDispatcher(e.cfg.timeout)
	}

	return e, nil
}

// Export runs the full pipeline for one document and returns the
// finished artifact. Any error aborts atomically: progress resets,
// the busy flag clears, and no partial artifact is returned.
// Recovers from internal panics so assembly bugs surface as
// ErrGeneration instead of crashing the caller.
func (e *Exporter) Export(ctx context.Context, markdown string, opts ExportOptions) (artifact *Artifact, err error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyContent
	}

	tracker := newProgressTracker(e.notify)
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = fmt.Errorf("%w: internal error: %v", ErrGeneration, r)
		}
		tracker.reset()
	}()

	tracker.enter(StageInitializing)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Normalize()

	kind := opts.Format.kind()
	gen, err := format.For(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	formatCSS, err := e.assetLoader.LoadStyle(string(kind))
	if err != nil {
		return nil, fmt.Errorf("loading %s stylesheet: %w", kind, err)
	}

	// Paper-oriented formats always print black on white; on-screen
	// formats follow the theme and host signals.
	cfg := theme.Lookup(opts.ThemeName)
	var palette theme.Palette
	if kind == format.Print || kind == format.Word {
		palette = theme.ResolvePrint(cfg)
	} else {
		palette = theme.Resolve(cfg, e.probe)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracker.enter(StageProcessing)
	source := e.preprocessor.PreprocessMarkdown(ctx, markdown)

	fragment, err := e.converter.ToHTML(ctx, source)
	if err != nil {
		// Degraded conversion keeps the pipeline yielding output.
		fragment, err = e.fallback.ToHTML(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("converting markdown: %w", err)
		}
	}

	body := pipeline.ConvertMarkPlaceholders(fragment.HTML)
	if opts.SourceDir != "" {
		body, err = pipeline.RewriteRelativePaths(body, opts.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracker.enter(StageGenerating)
	job := &format.Job{
		Title:              opts.Title,
		Author:             opts.Author,
		Description:        opts.Description,
		Date:               opts.Date,
		FontSize:           opts.FontSize,
		FontFamily:         opts.FontFamily,
		PageSize:           opts.PageSize,
		Orientation:        opts.Orientation,
		IncludePageNumbers: opts.IncludePageNumbers,
		// The print path renders its footer through the dispatcher's
		// native per-page band, not the in-document one.
		HeaderFooter: opts.HeaderFooter && kind != format.Print,
		Palette:      palette,
		Fragment:     body,
		Meta:         fragment.Meta,
		BaseCSS:      e.baseCSS,
		FormatCSS:    formatCSS,
	}

	if kind == format.Slides {
		slides, err := e.segmenter.Segment(ctx, source, opts.Title)
		if err != nil {
			return nil, fmt.Errorf("segmenting slides: %w", err)
		}
		for i := range slides {
			content := pipeline.ConvertMarkPlaceholders(slides[i].Content)
			if opts.SourceDir != "" {
				content, err = pipeline.RewriteRelativePaths(content, opts.SourceDir)
				if err != nil {
					return nil, fmt.Errorf("rewriting relative paths: %w", err)
				}
			}
			slides[i].Content = content
		}
		job.Slides = slides
	}

	doc, err := format.Generate(gen, job)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if kind == format.Print {
		tracker.enter(StageStyling)
	}

	doc = e.cssInjector.InjectCSS(ctx, doc, opts.CustomCSS)

	if opts.IncludeTOC && kind != format.Slides {
		doc, err = e.tocInjector.InjectTOC(ctx, doc, &pipeline.TOCData{Title: "Contents"})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
	}

	if kind == format.Slides {
		doc = e.scriptInjector.InjectScript(ctx, doc, e.navScript)
	}

	if opts.WatermarkText != "" {
		doc = e.watermark.Inject(doc, opts.WatermarkText)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracker.enter(StageFinalizing)
	out := &Artifact{
		Format:   opts.Format,
		Filename: SanitizeFilename(opts.Title, kind.Extension()),
		MIME:     kind.MIME(),
	}

	if kind == format.Print {
		data, err := e.dispatcher.Dispatch(ctx, doc, printOptions(opts))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPrintWindow, err)
		}
		out.Data = data
	} else {
		out.Data = []byte(doc)
	}

	tracker.enter(StageComplete)
	return out, nil
}

// Close releases resources held by the print dispatcher.
func (e *Exporter) Close() error {
	if e.dispatcher != nil {
		return e.dispatcher.Close()
	}
	return nil
}

// printOptions maps export options to the dispatcher's print options.
func printOptions(opts ExportOptions) *PrintOptions {
	p := &PrintOptions{
		PageSize:           opts.PageSize,
		Orientation:        opts.Orientation,
		IncludePageNumbers: opts.IncludePageNumbers,
	}
	if opts.HeaderFooter {
		parts := []string{opts.Title}
		if opts.Author != "" {
			parts = append(parts, opts.Author)
		}
		if opts.Date != "" {
			parts = append(parts, opts.Date)
		}
		p.FooterText = strings.Join(parts, " - ")
	}
	return p
}
