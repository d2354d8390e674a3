package mdexport_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	mdexport "github.com/avrile/go-mdexport"
)

// Example demonstrates a basic e-book export.
// Print exports additionally require Chrome.
func Example() {
	exporter, err := mdexport.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exporter.Close()

	artifact, err := exporter.Export(context.Background(), "# Hello World\n\nThis is a test.", mdexport.ExportOptions{
		Format: mdexport.FormatEbook,
		Title:  "Hello World",
		Author: "Jane Smith",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(artifact.Filename)
	fmt.Println(artifact.MIME)
	// Output:
	// Hello_World.html
	// text/html
}

// Example_slides demonstrates exporting a deck. Each level 1 or 2
// heading starts a new slide.
func Example_slides() {
	exporter, err := mdexport.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exporter.Close()

	markdown := `# Introduction

Welcome to the talk.

# Findings

The numbers are up.
`

	artifact, err := exporter.Export(context.Background(), markdown, mdexport.ExportOptions{
		Format: mdexport.FormatSlides,
		Title:  "Quarterly Review",
		Author: "Jane Smith",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Two content slides plus the generated title and closing slides.
	fmt.Println(strings.Count(string(artifact.Data), "<section"), "slides")
	// Output: 4 slides
}

// Example_withWatermark demonstrates tiling a watermark across the
// document.
func Example_withWatermark() {
	exporter, err := mdexport.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exporter.Close()

	artifact, err := exporter.Export(context.Background(), "# Draft Proposal\n\nNot for distribution.", mdexport.ExportOptions{
		Format:        mdexport.FormatEbook,
		Title:         "Draft Proposal",
		Author:        "Jane Smith",
		WatermarkText: "DRAFT",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(artifact.Data), `data-wm-text="DRAFT"`) {
		fmt.Println("Watermark applied")
	}
	// Output: Watermark applied
}

// Example_withTOC demonstrates adding a table of contents.
func Example_withTOC() {
	exporter, err := mdexport.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exporter.Close()

	markdown := `# Field Guide

## Habitats

Where to look.

## Species

What to look for.
`

	artifact, err := exporter.Export(context.Background(), markdown, mdexport.ExportOptions{
		Format:     mdexport.FormatEbook,
		Title:      "Field Guide",
		Author:     "Jane Smith",
		IncludeTOC: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(artifact.Data), `<nav class="toc">`) {
		fmt.Println("TOC generated")
	}
	// Output: TOC generated
}

// ExampleExporterPool demonstrates parallel batch exporting.
func ExampleExporterPool() {
	pool := mdexport.NewExporterPool(2)

	docs := []string{
		"# Document 1\n\nFirst document.",
		"# Document 2\n\nSecond document.",
	}

	results := make(chan bool, len(docs))
	var wg sync.WaitGroup

	for i, doc := range docs {
		wg.Add(1)
		go func(n int, markdown string) {
			defer wg.Done()

			exporter, err := pool.Acquire()
			if err != nil {
				results <- false
				return
			}
			defer pool.Release(exporter)

			artifact, err := exporter.Export(context.Background(), markdown, mdexport.ExportOptions{
				Format: mdexport.FormatEbook,
				Title:  fmt.Sprintf("Document %d", n),
				Author: "Jane Smith",
			})
			results <- err == nil && len(artifact.Data) > 0
		}(i+1, doc)
	}

	wg.Wait()
	pool.Close()

	success := 0
	for range docs {
		if <-results {
			success++
		}
	}
	fmt.Printf("Exported %d documents\n", success)
	// Output: Exported 2 documents
}

// ExampleSanitizeFilename demonstrates download-safe filename
// generation.
func ExampleSanitizeFilename() {
	fmt.Println(mdexport.SanitizeFilename("Q3 Report: Final <rev 2>", ".pdf"))
	fmt.Println(mdexport.SanitizeFilename("///", ".doc"))
	// Output:
	// Q3_Report_Final_rev_2.pdf
	// document.doc
}
