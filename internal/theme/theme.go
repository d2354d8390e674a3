// Package theme resolves named color themes and host environment signals
// into concrete palettes for document rendering.
//
// Resolution is pure: all environment sampling (media queries, document
// attributes, stored preferences) happens before the call and arrives as
// an EnvProbe value, so resolution is deterministic and unit-testable.
package theme

import (
	"sort"
	"strings"
)

// Contrast targets, per WCAG 2.1. Body and title text use the AA
// normal-text ratio; borders and muted text use the UI component ratio.
const (
	textContrast = 4.5
	uiContrast   = 3.0
)

// darkLuminanceCutoff classifies a background as dark when its relative
// luminance falls below this value.
const darkLuminanceCutoff = 0.5

// DefaultThemeName is used when a requested theme is unknown.
const DefaultThemeName = "default"

// Config describes a color theme. Background may hold any CSS color
// expression including gradients; only flat colors participate in the
// dark/light classification.
type Config struct {
	Name       string
	Background string
	Text       string
	Primary    string
	Accent     string
	Surface    string
}

// EnvProbe carries pre-sampled host environment signals used to break
// ties when the theme itself does not determine dark or light.
type EnvProbe struct {
	// DataTheme is the document's explicit theme attribute value:
	// "dark", "light", or "" when absent.
	DataTheme string
	// DocumentDark reports whether the document root carries a dark
	// marker class. Absence of the class decides nothing.
	DocumentDark bool
	// PrefersDark reports the OS color-scheme preference. False can
	// mean either "light" or "no preference", so it decides nothing.
	PrefersDark bool
	// StoredPreference is the persisted user choice: "dark", "light",
	// or "" when never set.
	StoredPreference string
}

// Palette holds the resolved colors for one export.
type Palette struct {
	Title      string
	Body       string
	Author     string
	Border     string
	Background string
	Dark       bool
}

// Flat fallback backgrounds used when a theme's background does not
// parse as a flat color (gradients, named colors).
const (
	lightFallbackBackground = "#ffffff"
	darkFallbackBackground  = "#1a1a2e"
)

// builtins holds the registered themes, keyed by lowercase name.
var builtins = map[string]Config{
	"default": {
		Name:       "default",
		Background: "#ffffff",
		Text:       "#333333",
		Primary:    "#2c3e50",
		Accent:     "#3498db",
		Surface:    "#f8f9fa",
	},
	"dark": {
		Name:       "dark",
		Background: "#1a1a2e",
		Text:       "#e8e8e8",
		Primary:    "#90caf9",
		Accent:     "#64b5f6",
		Surface:    "#16213e",
	},
	"sepia": {
		Name:       "sepia",
		Background: "#f4ecd8",
		Text:       "#5b4636",
		Primary:    "#8b4513",
		Accent:     "#a0522d",
		Surface:    "#efe5cc",
	},
	"solarized": {
		Name:       "solarized",
		Background: "#fdf6e3",
		Text:       "#657b83",
		Primary:    "#268bd2",
		Accent:     "#2aa198",
		Surface:    "#eee8d5",
	},
}

// Lookup returns the registered theme for name, falling back to the
// default theme when name is unknown. Matching is case-insensitive.
func Lookup(name string) Config {
	if cfg, ok := builtins[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cfg
	}
	return builtins[DefaultThemeName]
}

// Known reports whether name refers to a registered theme.
func Known(name string) bool {
	_, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the registered theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isDark decides the dark/light mode for a theme plus environment.
// Signals are consulted in a fixed precedence order, first match wins:
//
//  1. the theme is literally named "dark"
//  2. the theme's background luminance, when it parses as a flat color
//  3. the document's explicit theme attribute
//  4. the document's dark marker class
//  5. the OS color-scheme preference
//  6. the stored user preference
//
// When nothing matches, the mode is light.
func isDark(cfg Config, probe EnvProbe) bool {
	if strings.EqualFold(cfg.Name, "dark") {
		return true
	}
	if c, ok := parseColor(cfg.Background); ok {
		return c.luminance() < darkLuminanceCutoff
	}
	switch strings.ToLower(probe.DataTheme) {
	case "dark":
		return true
	case "light":
		return false
	}
	if probe.DocumentDark {
		return true
	}
	if probe.PrefersDark {
		return true
	}
	switch strings.ToLower(probe.StoredPreference) {
	case "dark":
		return true
	case "light":
		return false
	}
	return false
}

// Resolve computes the palette for on-screen formats. The dark/light
// decision follows the documented precedence; accent-derived colors are
// nudged toward readable contrast against the effective background.
func Resolve(cfg Config, probe EnvProbe) Palette {
	dark := isDark(cfg, probe)

	bg := cfg.Background
	if _, ok := parseColor(bg); !ok {
		if dark {
			bg = darkFallbackBackground
		} else {
			bg = lightFallbackBackground
		}
	}

	body := cfg.Text
	if body == "" {
		if dark {
			body = "#e8e8e8"
		} else {
			body = "#333333"
		}
	}
	body = ensureContrast(body, bg, textContrast)

	title := cfg.Primary
	if title == "" {
		title = cfg.Accent
	}
	title = ensureContrast(title, bg, textContrast)

	return Palette{
		Title:      title,
		Body:       body,
		Author:     mutedVariant(body, bg),
		Border:     ensureContrast(cfg.Accent, bg, uiContrast),
		Background: bg,
		Dark:       dark,
	}
}

// ResolvePrint computes the palette for paper-oriented formats. Body
// text is forced to pure black on a white page regardless of theme;
// accent-derived colors keep their hue but are darkened until readable
// on white.
func ResolvePrint(cfg Config) Palette {
	title := cfg.Primary
	if title == "" {
		title = cfg.Accent
	}

	return Palette{
		Title:      ensureContrast(title, lightFallbackBackground, textContrast),
		Body:       "#000000",
		Author:     "#444444",
		Border:     ensureContrast(cfg.Accent, lightFallbackBackground, uiContrast),
		Background: lightFallbackBackground,
		Dark:       false,
	}
}

// mutedVariant fades body text toward the background for secondary
// text such as author lines, keeping at least the UI contrast ratio.
func mutedVariant(body, bg string) string {
	bodyc, okBody := parseColor(body)
	bgc, okBg := parseColor(bg)
	if !okBody || !okBg {
		return body
	}
	return ensureContrast(mix(bodyc, bgc, 0.35).hex(), bg, uiContrast)
}
