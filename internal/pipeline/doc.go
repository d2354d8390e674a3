// Package pipeline implements the markdown-to-document transformation stages.
//
// The stages compose in a fixed order:
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Markdown to HTML conversion via Goldmark, with a regex fallback that
//     guarantees some HTML is always produced
//   - Slide segmentation at h1/h2 boundaries from the parsed block sequence
//   - Emoji preservation wrapping so glyphs survive palette overrides
//   - Watermark injection (tiles, forensic payload, guard script)
//   - CSS/script injection and table-of-contents generation
//
// Document assembly per export format is handled by internal/format, and
// the print dialog interaction by the root package. This separation keeps
// the pipeline focused on content transforms: every stage is a pure
// string-to-string (or string-to-records) function apart from context
// cancellation checks.
package pipeline
