package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdexport "github.com/avrile/go-mdexport"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadCSS       = errors.New("failed to read CSS file")
	ErrReadMarkdown  = errors.New("failed to read markdown file")
	ErrWriteArtifact = errors.New("failed to write artifact")
	ErrExporterInit  = errors.New("failed to initialize exporter")
)

// Runner is the interface one pooled export worker satisfies.
type Runner interface {
	Export(ctx context.Context, markdown string, opts mdexport.ExportOptions) (*mdexport.Artifact, error)
}

// Compile-time interface implementation check.
var _ Runner = (*mdexport.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (Runner, error)
	Release(Runner)
	Size() int
}

// poolAdapter exposes an ExporterPool through the Pool interface.
type poolAdapter struct {
	pool *mdexport.ExporterPool
}

func (a *poolAdapter) Acquire() (Runner, error) {
	exp, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// Release hands the runner back to the underlying pool. Only runners
// that came from Acquire are valid; anything else is a programmer
// error.
func (a *poolAdapter) Release(r Runner) {
	exp, ok := r.(*mdexport.Exporter)
	if !ok {
		panic(fmt.Sprintf("pool adapter: unexpected type %T", r))
	}
	a.pool.Release(exp)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// ExportResult holds the outcome of a single export.
type ExportResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// exportBatch processes files concurrently using the exporter pool.
func exportBatch(ctx context.Context, pool Pool, files []FileToExport, params *exportParams) []ExportResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ExportResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			runner, err := pool.Acquire()
			if err != nil {
				// Exporter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrExporterInit, err),
					}
				}
				return
			}
			defer pool.Release(runner)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, runner, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile processes a single file and returns the result.
func exportFile(ctx context.Context, runner Runner, f FileToExport, params *exportParams) ExportResult {
	start := time.Now()
	result := ExportResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	opts := buildExportOptions(params.format, params.profile, params.customCSS, string(content), f.InputPath)

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	artifact, err := runner.Export(ctx, string(content), opts)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- artifacts are meant to be readable
	if err := os.WriteFile(f.OutputPath, artifact.Data, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteArtifact, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed exports.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed exports.
func countResults(results []ExportResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs export results using the provided
// writers and returns the failure count.
func printResultsWithWriter(results []ExportResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
