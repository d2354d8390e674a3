package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avrile/go-mdexport/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	Profile string        // MDEXPORT_PROFILE: profile name or path
	Format  string        // MDEXPORT_FORMAT: print, word, ebook, slides
	Timeout time.Duration // MDEXPORT_TIMEOUT: print render timeout

	// Tier 2 - I/O and identity
	InputDir  string // MDEXPORT_INPUT_DIR: default input directory
	OutputDir string // MDEXPORT_OUTPUT_DIR: default output directory
	Author    string // MDEXPORT_AUTHOR: author name

	// Tier 3 - Extended
	Theme         string // MDEXPORT_THEME: color theme name
	PageSize      string // MDEXPORT_PAGE_SIZE: a4, letter, legal
	WatermarkText string // MDEXPORT_WATERMARK_TEXT: watermark text
	Date          string // MDEXPORT_DATE: document date
	Workers       int    // MDEXPORT_WORKERS: parallel workers
}

// knownEnvVars lists valid MDEXPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MDEXPORT_PROFILE": true,
	"MDEXPORT_FORMAT":  true,
	"MDEXPORT_TIMEOUT": true,
	// Tier 2 - I/O and identity
	"MDEXPORT_INPUT_DIR":  true,
	"MDEXPORT_OUTPUT_DIR": true,
	"MDEXPORT_AUTHOR":     true,
	// Tier 3 - Extended
	"MDEXPORT_THEME":          true,
	"MDEXPORT_PAGE_SIZE":      true,
	"MDEXPORT_WATERMARK_TEXT": true,
	"MDEXPORT_DATE":           true,
	"MDEXPORT_WORKERS":        true,
	// Container override consumed by the doctor command
	"MDEXPORT_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MDEXPORT_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		Profile: os.Getenv("MDEXPORT_PROFILE"),
		Format:  os.Getenv("MDEXPORT_FORMAT"),
		// Tier 2
		InputDir:  os.Getenv("MDEXPORT_INPUT_DIR"),
		OutputDir: os.Getenv("MDEXPORT_OUTPUT_DIR"),
		Author:    os.Getenv("MDEXPORT_AUTHOR"),
		// Tier 3
		Theme:         os.Getenv("MDEXPORT_THEME"),
		PageSize:      os.Getenv("MDEXPORT_PAGE_SIZE"),
		WatermarkText: os.Getenv("MDEXPORT_WATERMARK_TEXT"),
		Date:          os.Getenv("MDEXPORT_DATE"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("MDEXPORT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("MDEXPORT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDEXPORT_*
// variables. Helps catch typos like MDEXPORT_AUTOR instead of
// MDEXPORT_AUTHOR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDEXPORT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvProfile applies environment variable values to the profile.
// Only sets values the profile leaves empty or zero, so an explicit
// profile beats the ambient environment and CLI flags beat both
// (flags are applied later via mergeFlags).
func applyEnvProfile(env *envConfig, prof *config.Profile) {
	// Tier 1 - Format (timeout handled separately in resolveTimeout)
	if env.Format != "" && prof.Format == "" {
		prof.Format = env.Format
	}

	// Tier 2 - I/O
	if env.InputDir != "" && prof.Input.DefaultDir == "" {
		prof.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && prof.Output.DefaultDir == "" {
		prof.Output.DefaultDir = env.OutputDir
	}

	// Tier 2 - Identity
	if env.Author != "" && prof.Document.Author == "" {
		prof.Document.Author = env.Author
	}

	// Tier 3 - Styling
	if env.Theme != "" && prof.Theme == "" {
		prof.Theme = env.Theme
	}
	if env.PageSize != "" && prof.Page.Size == "" {
		prof.Page.Size = env.PageSize
	}

	// Tier 3 - Watermark (auto-enable)
	if env.WatermarkText != "" && prof.Watermark.Text == "" {
		prof.Watermark.Text = env.WatermarkText
		if !prof.Watermark.Enabled {
			prof.Watermark.Enabled = true
		}
	}

	// Tier 3 - Date and workers
	if env.Date != "" && prof.Document.Date == "" {
		prof.Document.Date = env.Date
	}
	if env.Workers > 0 && prof.Workers == 0 {
		prof.Workers = env.Workers
	}
}
