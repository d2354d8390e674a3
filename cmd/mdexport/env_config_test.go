package main

// Notes:
// - loadEnvConfig and warnUnknownEnvVars read the process environment,
//   so those tests use t.Setenv and must not run in parallel.
// - applyEnvProfile is a pure function and is tested in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/avrile/go-mdexport/internal/config"
)

// clearKnownEnv blanks every recognized variable so ambient settings
// cannot leak into assertions.
func clearKnownEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	t.Run("tier 1 essentials", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_PROFILE", "work")
		t.Setenv("MDEXPORT_FORMAT", "ebook")
		t.Setenv("MDEXPORT_TIMEOUT", "2m")

		cfg := loadEnvConfig()

		if cfg.Profile != "work" {
			t.Errorf("Profile = %q, want %q", cfg.Profile, "work")
		}
		if cfg.Format != "ebook" {
			t.Errorf("Format = %q, want %q", cfg.Format, "ebook")
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
	})

	t.Run("tier 2 io and identity", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_INPUT_DIR", "./docs")
		t.Setenv("MDEXPORT_OUTPUT_DIR", "./dist")
		t.Setenv("MDEXPORT_AUTHOR", "Ada Lovelace")

		cfg := loadEnvConfig()

		if cfg.InputDir != "./docs" {
			t.Errorf("InputDir = %q, want %q", cfg.InputDir, "./docs")
		}
		if cfg.OutputDir != "./dist" {
			t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "./dist")
		}
		if cfg.Author != "Ada Lovelace" {
			t.Errorf("Author = %q, want %q", cfg.Author, "Ada Lovelace")
		}
	})

	t.Run("tier 3 extended", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_THEME", "dark")
		t.Setenv("MDEXPORT_PAGE_SIZE", "a4")
		t.Setenv("MDEXPORT_WATERMARK_TEXT", "DRAFT")
		t.Setenv("MDEXPORT_DATE", "auto")
		t.Setenv("MDEXPORT_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.Theme != "dark" {
			t.Errorf("Theme = %q, want %q", cfg.Theme, "dark")
		}
		if cfg.PageSize != "a4" {
			t.Errorf("PageSize = %q, want %q", cfg.PageSize, "a4")
		}
		if cfg.WatermarkText != "DRAFT" {
			t.Errorf("WatermarkText = %q, want %q", cfg.WatermarkText, "DRAFT")
		}
		if cfg.Date != "auto" {
			t.Errorf("Date = %q, want %q", cfg.Date, "auto")
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("invalid timeout ignored", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_TIMEOUT", "not-a-duration")

		cfg := loadEnvConfig()
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
	})

	t.Run("negative timeout ignored", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_TIMEOUT", "-5s")

		cfg := loadEnvConfig()
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_WORKERS", "many")

		cfg := loadEnvConfig()
		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})

	t.Run("negative workers ignored", func(t *testing.T) {
		clearKnownEnv(t)
		t.Setenv("MDEXPORT_WORKERS", "-2")

		cfg := loadEnvConfig()
		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})

	t.Run("empty environment yields zero values", func(t *testing.T) {
		clearKnownEnv(t)

		cfg := loadEnvConfig()

		if cfg.Profile != "" || cfg.Format != "" || cfg.Timeout != 0 {
			t.Errorf("tier 1 not zero: %+v", cfg)
		}
		if cfg.InputDir != "" || cfg.OutputDir != "" || cfg.Author != "" {
			t.Errorf("tier 2 not zero: %+v", cfg)
		}
		if cfg.Theme != "" || cfg.PageSize != "" || cfg.WatermarkText != "" || cfg.Date != "" || cfg.Workers != 0 {
			t.Errorf("tier 3 not zero: %+v", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	t.Run("warns about unknown MDEXPORT variable", func(t *testing.T) {
		t.Setenv("MDEXPORT_AUTOR", "typo")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		out := buf.String()
		if !strings.Contains(out, "MDEXPORT_AUTOR") {
			t.Errorf("output = %q, want warning naming MDEXPORT_AUTOR", out)
		}
		if !strings.Contains(out, "typo?") {
			t.Errorf("output = %q, want typo hint", out)
		}
	})

	t.Run("known variables do not warn", func(t *testing.T) {
		t.Setenv("MDEXPORT_AUTHOR", "Ada")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "MDEXPORT_AUTHOR") {
			t.Errorf("output = %q, want no warning for known variable", buf.String())
		}
	})

	t.Run("variables without the prefix are ignored", func(t *testing.T) {
		t.Setenv("OTHER_TOOL_SETTING", "x")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "OTHER_TOOL_SETTING") {
			t.Errorf("output = %q, want no warning for foreign variable", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvProfile - Environment values fill profile gaps
// ---------------------------------------------------------------------------

func TestApplyEnvProfile(t *testing.T) {
	t.Parallel()

	t.Run("fills empty profile", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Format:        "slides",
			InputDir:      "./in",
			OutputDir:     "./out",
			Author:        "Ada",
			Theme:         "dark",
			PageSize:      "a4",
			WatermarkText: "DRAFT",
			Date:          "auto",
			Workers:       3,
		}
		prof := config.DefaultProfile()

		applyEnvProfile(env, prof)

		if prof.Format != "slides" {
			t.Errorf("Format = %q, want slides", prof.Format)
		}
		if prof.Input.DefaultDir != "./in" {
			t.Errorf("Input.DefaultDir = %q, want ./in", prof.Input.DefaultDir)
		}
		if prof.Output.DefaultDir != "./out" {
			t.Errorf("Output.DefaultDir = %q, want ./out", prof.Output.DefaultDir)
		}
		if prof.Document.Author != "Ada" {
			t.Errorf("Author = %q, want Ada", prof.Document.Author)
		}
		if prof.Theme != "dark" {
			t.Errorf("Theme = %q, want dark", prof.Theme)
		}
		if prof.Page.Size != "a4" {
			t.Errorf("Page.Size = %q, want a4", prof.Page.Size)
		}
		if prof.Watermark.Text != "DRAFT" || !prof.Watermark.Enabled {
			t.Errorf("Watermark = %+v, want DRAFT enabled", prof.Watermark)
		}
		if prof.Document.Date != "auto" {
			t.Errorf("Date = %q, want auto", prof.Document.Date)
		}
		if prof.Workers != 3 {
			t.Errorf("Workers = %d, want 3", prof.Workers)
		}
	})

	t.Run("does not override explicit profile values", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Format:  "slides",
			Author:  "Env Author",
			Theme:   "dark",
			Workers: 6,
		}
		prof := config.DefaultProfile()
		prof.Format = "print"
		prof.Document.Author = "Profile Author"
		prof.Theme = "sepia"
		prof.Workers = 2

		applyEnvProfile(env, prof)

		if prof.Format != "print" {
			t.Errorf("Format = %q, want print", prof.Format)
		}
		if prof.Document.Author != "Profile Author" {
			t.Errorf("Author = %q, want Profile Author", prof.Document.Author)
		}
		if prof.Theme != "sepia" {
			t.Errorf("Theme = %q, want sepia", prof.Theme)
		}
		if prof.Workers != 2 {
			t.Errorf("Workers = %d, want 2", prof.Workers)
		}
	})

	t.Run("watermark keeps existing profile text", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{WatermarkText: "DRAFT"}
		prof := config.DefaultProfile()
		prof.Watermark.Text = "CONFIDENTIAL"

		applyEnvProfile(env, prof)

		if prof.Watermark.Text != "CONFIDENTIAL" {
			t.Errorf("Watermark.Text = %q, want CONFIDENTIAL", prof.Watermark.Text)
		}
		if prof.Watermark.Enabled {
			t.Error("Watermark.Enabled = true, want unchanged false")
		}
	})

	t.Run("empty environment is a no-op", func(t *testing.T) {
		t.Parallel()

		prof := config.DefaultProfile()
		applyEnvProfile(&envConfig{}, prof)

		want := config.DefaultProfile()
		if *prof != *want {
			t.Errorf("profile changed: %+v, want %+v", prof, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestKnownEnvVars - Recognized variable registry
// ---------------------------------------------------------------------------

func TestKnownEnvVars(t *testing.T) {
	t.Parallel()

	want := []string{
		"MDEXPORT_PROFILE",
		"MDEXPORT_FORMAT",
		"MDEXPORT_TIMEOUT",
		"MDEXPORT_INPUT_DIR",
		"MDEXPORT_OUTPUT_DIR",
		"MDEXPORT_AUTHOR",
		"MDEXPORT_THEME",
		"MDEXPORT_PAGE_SIZE",
		"MDEXPORT_WATERMARK_TEXT",
		"MDEXPORT_DATE",
		"MDEXPORT_WORKERS",
		"MDEXPORT_CONTAINER",
	}

	if len(knownEnvVars) != len(want) {
		t.Errorf("knownEnvVars has %d entries, want %d", len(knownEnvVars), len(want))
	}
	for _, name := range want {
		if !knownEnvVars[name] {
			t.Errorf("knownEnvVars missing %s", name)
		}
	}
}
