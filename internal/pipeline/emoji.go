package pipeline

import (
	"sort"
	"strings"
)

// Emoji spans carry an emoji-capable font stack and neutral color so
// downstream palette overrides (notably Word's) do not flatten the
// glyphs into plain text color.
const (
	emojiPreserveStyle = "color:inherit;-webkit-text-fill-color:initial;" +
		"font-family:'Segoe UI Emoji','Apple Color Emoji','Noto Color Emoji','Segoe UI Symbol',sans-serif;" +
		"mso-ascii-font-family:'Segoe UI Emoji';mso-bidi-font-family:'Segoe UI Emoji'"

	emojiColorStyle = "-webkit-text-fill-color:initial;" +
		"font-family:'Segoe UI Emoji','Apple Color Emoji','Noto Color Emoji','Segoe UI Symbol',sans-serif;" +
		"mso-ascii-font-family:'Segoe UI Emoji';mso-bidi-font-family:'Segoe UI Emoji'"
)

// emojiStartRanges lists the Unicode blocks that begin an emoji run:
// regional indicators, pictographs, emoticons, transport, supplemental
// and extended pictographs, miscellaneous symbols, and dingbats.
// U+2B00-2BFF (arrows block, including the star) is left out so those
// glyphs reach the literal-color pass unwrapped.
var emojiStartRanges = [...][2]rune{
	{0x1F1E6, 0x1F1FF},
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x1FA70, 0x1FAFF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
}

// emojiJoinRunes extend a run once started: variation selectors, the
// zero-width joiner, and the combining keycap. Skin tone modifiers
// already fall inside the pictograph block above.
var emojiJoinRunes = map[rune]bool{
	0xFE0E: true,
	0xFE0F: true,
	0x200D: true,
	0x20E3: true,
}

// emojiLiteralColors maps high-frequency emoji to explicit override
// colors applied by the second pass.
var emojiLiteralColors = map[string]string{
	"✅":       "#2ecc71", // check mark button
	"❌":       "#e74c3c", // cross mark
	"⭐":       "#f1c40f", // star
	"✨":       "#f39c12", // sparkles
	"\U0001F680":   "#e67e22", // rocket
	"\U0001F4A1":   "#f1c40f", // light bulb
	"\U0001F525":   "#e74c3c", // fire
	"⚠️": "#f39c12", // warning sign
	"\U0001F44D":   "#3498db", // thumbs up
	"\U0001F389":   "#9b59b6", // party popper
}

// emojiLiterals holds the table keys longest-first so multi-rune
// sequences match before their prefixes.
var emojiLiterals = sortedLiterals()

func sortedLiterals() []string {
	keys := make([]string, 0, len(emojiLiteralColors))
	for k := range emojiLiteralColors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// EmojiEncoder rewrites HTML so emoji survive format conversion.
type EmojiEncoder interface {
	Encode(html string) string
}

// SpanEmojiEncoder wraps emoji in styled inline spans. The first pass
// covers whole Unicode ranges with a neutral inherit style; the second
// applies literal colors to a fixed set of common glyphs that the
// first pass did not claim. Both passes skip text inside spans already
// marked with data-emoji, so Encode is idempotent.
type SpanEmojiEncoder struct{}

// NewSpanEmojiEncoder creates a SpanEmojiEncoder.
func NewSpanEmojiEncoder() *SpanEmojiEncoder {
	return &SpanEmojiEncoder{}
}

// Compile-time check that SpanEmojiEncoder implements EmojiEncoder.
var _ EmojiEncoder = (*SpanEmojiEncoder)(nil)

// Encode runs both preservation passes over an HTML string.
func (e *SpanEmojiEncoder) Encode(html string) string {
	html = transformFreeText(html, wrapEmojiRuns)
	html = transformFreeText(html, wrapEmojiLiterals)
	return html
}

// transformFreeText applies fn to text runs that sit outside markup
// and outside existing data-emoji spans. Tags and protected content
// are copied through untouched.
func transformFreeText(input string, fn func(string) string) string {
	var (
		out  strings.Builder
		i    int
		skip int
	)
	out.Grow(len(input))

	for i < len(input) {
		if input[i] == '<' {
			end := strings.IndexByte(input[i:], '>')
			if end < 0 {
				// Unterminated tag, treat the remainder as text.
				rest := input[i:]
				if skip == 0 {
					rest = fn(rest)
				}
				out.WriteString(rest)
				break
			}
			tag := input[i : i+end+1]
			out.WriteString(tag)
			switch {
			case skip > 0 && strings.HasPrefix(tag, "</span"):
				skip--
			case skip > 0 && strings.HasPrefix(tag, "<span"):
				skip++
			case skip == 0 && strings.HasPrefix(tag, "<span") && strings.Contains(tag, "data-emoji"):
				skip = 1
			}
			i += end + 1
			continue
		}

		next := strings.IndexByte(input[i:], '<')
		if next < 0 {
			next = len(input) - i
		}
		text := input[i : i+next]
		if skip == 0 {
			text = fn(text)
		}
		out.WriteString(text)
		i += next
	}

	return out.String()
}

// wrapEmojiRuns wraps each maximal emoji sequence in a preserve span.
// A run starts with a rune from emojiStartRanges and extends through
// joiner runes and further emoji, so flag pairs and joined sequences
// stay inside one span.
func wrapEmojiRuns(text string) string {
	runes := []rune(text)
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(runes); {
		if !isEmojiStart(runes[i]) {
			out.WriteRune(runes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && (isEmojiStart(runes[j]) || emojiJoinRunes[runes[j]]) {
			j++
		}
		out.WriteString(`<span data-emoji="preserve" style="` + emojiPreserveStyle + `">`)
		out.WriteString(string(runes[i:j]))
		out.WriteString(`</span>`)
		i = j
	}

	return out.String()
}

// wrapEmojiLiterals wraps table glyphs in a span carrying an explicit
// override color.
func wrapEmojiLiterals(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		matched := ""
		for _, lit := range emojiLiterals {
			if strings.HasPrefix(text[i:], lit) {
				matched = lit
				break
			}
		}
		if matched == "" {
			out.WriteByte(text[i])
			i++
			continue
		}
		out.WriteString(`<span data-emoji="color" style="color:` + emojiLiteralColors[matched] + `;` + emojiColorStyle + `">`)
		out.WriteString(matched)
		out.WriteString(`</span>`)
		i += len(matched)
	}

	return out.String()
}

func isEmojiStart(r rune) bool {
	for _, rg := range emojiStartRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}
