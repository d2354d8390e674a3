package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rgb holds one color channel triple in the 0-255 range.
type rgb struct {
	r, g, b float64
}

// parseColor parses CSS color notation into channel values.
// Supported forms: #RGB, #RRGGBB, rgb(r, g, b) and rgba(r, g, b, a).
// Gradients, named colors, and anything else report ok=false so callers
// can fall through to environment signals instead of guessing.
func parseColor(s string) (rgb, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return rgb{}, false
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		open := strings.Index(s, "(")
		end := strings.LastIndex(s, ")")
		if end <= open {
			return rgb{}, false
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) < 3 {
			return rgb{}, false
		}
		var out [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil || v < 0 || v > 255 {
				return rgb{}, false
			}
			out[i] = v
		}
		return rgb{out[0], out[1], out[2]}, true
	}

	return rgb{}, false
}

func parseHex(hex string) (rgb, bool) {
	switch len(hex) {
	case 3:
		var c [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i])+string(hex[i]), 16, 8)
			if err != nil {
				return rgb{}, false
			}
			c[i] = float64(v)
		}
		return rgb{c[0], c[1], c[2]}, true
	case 6:
		var c [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return rgb{}, false
			}
			c[i] = float64(v)
		}
		return rgb{c[0], c[1], c[2]}, true
	}
	return rgb{}, false
}

// hex renders the color as lowercase #rrggbb notation.
func (c rgb) hex() string {
	clamp := func(v float64) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return int(math.Round(v))
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.r), clamp(c.g), clamp(c.b))
}

// luminance computes WCAG relative luminance in [0, 1].
func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

// contrastRatio computes the WCAG contrast ratio between two colors,
// always >= 1 (identical colors) and <= 21 (black on white).
func contrastRatio(a, b rgb) float64 {
	la, lb := a.luminance(), b.luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// mix blends a toward b by t in [0, 1]; t=0 returns a, t=1 returns b.
func mix(a, b rgb, t float64) rgb {
	return rgb{
		r: a.r + (b.r-a.r)*t,
		g: a.g + (b.g-a.g)*t,
		b: a.b + (b.b-a.b)*t,
	}
}

// ensureContrast adjusts fg until it reaches the wanted contrast ratio
// against bg, mixing stepwise toward whichever pole (black or white)
// opposes the background. Returns the pole itself when mixing cannot
// reach the target. An unparseable fg snaps straight to the pole.
func ensureContrast(fg, bg string, want float64) string {
	bgc, ok := parseColor(bg)
	if !ok {
		// No background to measure against; keep the caller's color.
		return fg
	}

	pole := rgb{0, 0, 0}
	if bgc.luminance() < 0.5 {
		pole = rgb{255, 255, 255}
	}

	fgc, ok := parseColor(fg)
	if !ok {
		return pole.hex()
	}

	if contrastRatio(fgc, bgc) >= want {
		return fgc.hex()
	}

	for t := 0.1; t <= 1.0; t += 0.1 {
		candidate := mix(fgc, pole, t)
		if contrastRatio(candidate, bgc) >= want {
			return candidate.hex()
		}
	}
	return pole.hex()
}
