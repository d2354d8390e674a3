package mdexport

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filename limits.
const (
	// maxFilenameBase caps the sanitized name before the extension.
	maxFilenameBase = 100

	// fallbackFilename is used when nothing survives sanitization.
	fallbackFilename = "document"
)

// SanitizeFilename derives a download filename from a document title.
// Letters, digits, '-', '_' and '.' are kept, whitespace becomes
// underscores, and everything else is dropped. The base name is capped
// at 100 bytes on a rune boundary before the extension is appended;
// an empty result falls back to "document".
func SanitizeFilename(title, extension string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), "._")
	if len(name) > maxFilenameBase {
		cut := maxFilenameBase
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	if name == "" {
		name = fallbackFilename
	}
	return name + extension
}
