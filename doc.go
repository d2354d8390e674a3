// Package mdexport exports markdown documents to print-ready,
// Word-compatible, e-book, and slide-deck artifacts.
//
// The pipeline preprocesses CommonMark+GFM markdown, converts it to
// HTML with code highlighting, assembles a complete styled document
// for the requested format, and finishes with optional table of
// contents, custom CSS, watermark, and slide navigation injection.
// The print format renders the document to PDF bytes through headless
// Chrome; the other formats return the assembled document directly.
//
// Basic usage:
//
//	exporter, err := mdexport.NewExporter()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer exporter.Close()
//
//	artifact, err := exporter.Export(ctx, markdown, mdexport.ExportOptions{
//		Format: mdexport.FormatEbook,
//		Title:  "My Document",
//		Author: "Jane Doe",
//	})
//
// Progress is observable per invocation via WithProgressFunc; theme
// resolution accepts pre-sampled host signals via WithThemeProbe so
// dark-mode decisions stay deterministic and testable.
package mdexport
