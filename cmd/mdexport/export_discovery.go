package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdexport "github.com/avrile/go-mdexport"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToExport represents a single file to process.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files to export. artifactExt is the
// output extension for the selected format, including the leading dot.
func discoverFiles(inputPath, outputDir, artifactExt string) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", artifactExt)
		return []FileToExport{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".markdown" {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, artifactExt)
		files = append(files, FileToExport{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the artifact output path for a markdown
// file. An outputDir already carrying the artifact extension names the
// output file directly; directory trees mirror into outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, artifactExt string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+artifactExt)
	}

	if strings.HasSuffix(outputDir, artifactExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+artifactExt)
		}
	}

	return filepath.Join(outputDir, base+artifactExt)
}

// validateMarkdownExtension checks that the file has a .md or
// .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdexport.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdexport.MaxPoolSize)
	}
	return nil
}
