// Package config loads and validates export profiles: YAML files that
// capture the document, page, and pipeline settings for a batch of
// exports so they do not have to be repeated on the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avrile/go-mdexport/internal/yamlutil"
)

// Sentinel errors for profile operations.
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrEmptyProfileName = errors.New("profile name cannot be empty")
	ErrProfileParse     = errors.New("failed to parse profile")
	ErrFieldTooLong     = errors.New("field exceeds maximum length")
)

// Field length limits for multi-tenant safety.
const (
	MaxTitleLength         = 200  // Document title
	MaxAuthorLength        = 100  // Author name
	MaxDescriptionLength   = 500  // Document description
	MaxDateLength          = 40   // "2026-08-23", "auto:January 2, 2006"
	MaxPageSizeLength      = 10   // "letter", "a4", "legal"
	MaxOrientationLength   = 10   // "portrait", "landscape"
	MaxFontFamilyLength    = 200  // CSS font stack
	MaxThemeLength         = 50   // Theme name
	MaxWatermarkTextLength = 50   // "DRAFT", "CONFIDENTIAL"
	MaxPathLength          = 2048 // Directory and file paths
)

// Profile holds all configuration for a batch of exports.
type Profile struct {
	Format    string          `yaml:"format"` // "print", "word", "ebook", "slides" (empty = CLI default)
	Document  DocumentConfig  `yaml:"document"`
	Page      PageConfig      `yaml:"page"`
	Font      FontConfig      `yaml:"font"`
	Theme     string          `yaml:"theme"` // Theme name (empty = default)
	TOC       bool            `yaml:"toc"`
	Watermark WatermarkConfig `yaml:"watermark"`
	CSS       CSSConfig       `yaml:"css"`
	Assets    AssetsConfig    `yaml:"assets"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Workers   int             `yaml:"workers"`        // Parallel exporters, 0 = auto
	Timeout   int             `yaml:"timeoutSeconds"` // Print render timeout, 0 = default
}

// DocumentConfig defines document metadata defaults.
type DocumentConfig struct {
	Title       string `yaml:"title"`  // Empty = derive from first heading or filename
	Author      string `yaml:"author"` // Required at export time; may come from the CLI instead
	Description string `yaml:"description"`
	Date        string `yaml:"date"` // Literal, "auto", or "auto:FORMAT"
}

// PageConfig defines page geometry for print-oriented formats.
type PageConfig struct {
	Size        string `yaml:"size"`        // "a4", "letter", "legal" (default: "letter")
	Orientation string `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Numbers     bool   `yaml:"numbers"`     // Page numbers in the footer band
	HeaderFoot  bool   `yaml:"headerFooter"`
}

// FontConfig defines typography defaults.
type FontConfig struct {
	Size   int    `yaml:"size"`   // Points, 0 = default
	Family string `yaml:"family"` // CSS font stack, empty = default
}

// WatermarkConfig defines watermark options.
type WatermarkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Text    string `yaml:"text"` // Text to tile (e.g., "DRAFT", "CONFIDENTIAL")
}

// CSSConfig defines custom styling options.
type CSSConfig struct {
	Style string `yaml:"style"` // File path or inline CSS appended after built-in styles
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// Validate checks enum values, ranges, and field lengths. Called
// automatically by LoadProfile, but available for consumers who
// construct a Profile manually.
func (p *Profile) Validate() error {
	if p.Format != "" {
		switch strings.ToLower(p.Format) {
		case "print", "word", "ebook", "slides":
		default:
			return fmt.Errorf("format: invalid value %q (must be print, word, ebook, or slides)", p.Format)
		}
	}

	if err := validateFieldLength("document.title", p.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.author", p.Document.Author, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.description", p.Document.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.date", p.Document.Date, MaxDateLength); err != nil {
		return err
	}

	if err := validateFieldLength("page.size", p.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if p.Page.Size != "" {
		switch strings.ToLower(p.Page.Size) {
		case "a4", "letter", "legal":
		default:
			return fmt.Errorf("page.size: invalid value %q (must be a4, letter, or legal)", p.Page.Size)
		}
	}
	if err := validateFieldLength("page.orientation", p.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if p.Page.Orientation != "" {
		switch strings.ToLower(p.Page.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("page.orientation: invalid value %q (must be portrait or landscape)", p.Page.Orientation)
		}
	}

	if p.Font.Size != 0 && (p.Font.Size < 8 || p.Font.Size > 24) {
		return fmt.Errorf("font.size: must be between 8 and 24 points, got %d", p.Font.Size)
	}
	if err := validateFieldLength("font.family", p.Font.Family, MaxFontFamilyLength); err != nil {
		return err
	}

	if err := validateFieldLength("theme", p.Theme, MaxThemeLength); err != nil {
		return err
	}

	if p.Watermark.Enabled {
		if p.Watermark.Text == "" {
			return fmt.Errorf("watermark.text: required when watermark is enabled")
		}
	}
	if err := validateFieldLength("watermark.text", p.Watermark.Text, MaxWatermarkTextLength); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", p.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("input.defaultDir", p.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", p.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	if p.Workers < 0 {
		return fmt.Errorf("workers: must be zero or positive, got %d", p.Workers)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("timeoutSeconds: must be zero or positive, got %d", p.Timeout)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultProfile returns a neutral profile with all features disabled.
func DefaultProfile() *Profile {
	return &Profile{
		Format:    "",
		Theme:     "",
		Watermark: WatermarkConfig{Enabled: false},
	}
}

// LoadProfile loads a profile from a file path or profile name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a profile name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
func LoadProfile(nameOrPath string) (*Profile, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyProfileName
	}

	var profilePath string
	var err error

	if isFilePath(nameOrPath) {
		profilePath = nameOrPath
	} else {
		profilePath, err = resolveProfilePath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(profilePath) // #nosec G304 -- profile path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profilePath)
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p Profile
	if err := yamlutil.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileParse, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveProfilePath searches for a profile file by name in standard
// locations. Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdexport/
func resolveProfilePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdexport", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrProfileNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
