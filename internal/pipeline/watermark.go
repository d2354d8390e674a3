package pipeline

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"html"
	"strconv"
	"strings"
	"time"
)

// watermarkTile is one fixed placement of the repeated text. Offsets
// are percentages of the page, rotation in degrees, size in em.
type watermarkTile struct {
	left    int
	top     int
	rotate  int
	opacity float64
	size    float64
}

// watermarkTiles spreads seven tiles across the page with varied
// rotation and opacity, so cropping any corner still leaves visible
// copies.
var watermarkTiles = [...]watermarkTile{
	{left: 10, top: 12, rotate: -30, opacity: 0.10, size: 2.2},
	{left: 55, top: 8, rotate: -45, opacity: 0.08, size: 2.8},
	{left: 28, top: 34, rotate: -25, opacity: 0.12, size: 3.2},
	{left: 68, top: 46, rotate: -35, opacity: 0.09, size: 2.4},
	{left: 12, top: 58, rotate: -30, opacity: 0.11, size: 2.6},
	{left: 52, top: 72, rotate: -40, opacity: 0.08, size: 3.0},
	{left: 24, top: 86, rotate: -28, opacity: 0.10, size: 2.2},
}

// watermarkCSS styles the tile layer. Tiles render their text through
// content:attr(data-wm-text), so the text itself never appears inside
// a stylesheet and needs only HTML escaping. Selection and pointer
// events are disabled on every watermark node, print color adjustment
// is forced exact, and a print-only overlay covers the full page.
const watermarkCSS = `.wm-layer{position:fixed;inset:0;z-index:9999;pointer-events:none;overflow:hidden}
[data-wm-tile]{position:absolute;white-space:nowrap;color:#888;user-select:none;-webkit-user-select:none;-moz-user-select:none;pointer-events:none;-webkit-print-color-adjust:exact;print-color-adjust:exact}
[data-wm-tile]::before{content:attr(data-wm-text)}
.wm-forensic{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0 0 0 0);opacity:0}
.wm-print-overlay{display:none}
@media print{.wm-print-overlay{display:block;position:fixed;inset:0;z-index:9998;opacity:0.05;text-align:center;padding-top:42%;font-size:4em;transform:rotate(-30deg);pointer-events:none;-webkit-print-color-adjust:exact;print-color-adjust:exact}.wm-print-overlay::before{content:attr(data-wm-text)}}`

// WatermarkInjector overlays repeated annotations on a document.
type WatermarkInjector interface {
	Inject(doc, text string) string
}

// TiledWatermark injects the watermark text at seven fixed positions,
// embeds a hidden forensic payload in markup and document metadata,
// and installs protective CSS plus a tamper-logging guard script.
// Injection with empty text is a no-op. The scheme deters casual
// removal and cropping; it is not tamper-proof.
//
// Now and NewID default to the real clock and a random hex ID. Tests
// override them for reproducible payloads.
type TiledWatermark struct {
	Now   func() time.Time
	NewID func() string

	guardScript string
}

// NewTiledWatermark creates a TiledWatermark. guardScript is the
// source of the protection script appended to the document body; pass
// an empty string to omit it.
func NewTiledWatermark(guardScript string) *TiledWatermark {
	return &TiledWatermark{
		Now:         time.Now,
		NewID:       randomWatermarkID,
		guardScript: guardScript,
	}
}

// Compile-time check that TiledWatermark implements WatermarkInjector.
var _ WatermarkInjector = (*TiledWatermark)(nil)

// Inject returns doc with the watermark applied, or doc unchanged when
// text is blank.
func (w *TiledWatermark) Inject(doc, text string) string {
	if strings.TrimSpace(text) == "" {
		return doc
	}

	escaped := html.EscapeString(text)
	payload := w.forensicPayload(text)

	var head strings.Builder
	head.WriteString(`<meta name="wm-fingerprint" content="` + payload + "\">\n")
	head.WriteString("<style id=\"wm-style\">\n" + watermarkCSS + "\n</style>\n")

	var body strings.Builder
	body.WriteString("<div class=\"wm-layer\" aria-hidden=\"true\">\n")
	for i, tile := range watermarkTiles {
		fmt.Fprintf(&body,
			"<span data-wm-tile=\"%d\" data-wm-text=\"%s\" style=\"left:%d%%;top:%d%%;transform:rotate(%ddeg);opacity:%s;font-size:%sem\"></span>\n",
			i+1, escaped, tile.left, tile.top, tile.rotate,
			strconv.FormatFloat(tile.opacity, 'f', 2, 64),
			strconv.FormatFloat(tile.size, 'f', 1, 64))
	}
	body.WriteString(`<span class="wm-forensic" data-wm-payload="` + payload + "\"></span>\n")
	body.WriteString("</div>\n")
	body.WriteString(`<div class="wm-print-overlay" data-wm-text="` + escaped + "\" aria-hidden=\"true\"></div>\n")
	if w.guardScript != "" {
		body.WriteString("<script id=\"wm-guard\">\n" + w.guardScript + "\n</script>\n")
	}

	doc = insertBeforeHeadEnd(doc, head.String())
	return insertBeforeBodyEnd(doc, body.String())
}

// forensicPayload encodes text, timestamp, a random ID, and a CRC-32
// checksum as base64 for the hidden markers.
func (w *TiledWatermark) forensicPayload(text string) string {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	newID := w.NewID
	if newID == nil {
		newID = randomWatermarkID
	}

	fields := text + "|" + now().UTC().Format(time.RFC3339) + "|" + newID()
	sum := crc32.ChecksumIEEE([]byte(fields))
	return base64.StdEncoding.EncodeToString([]byte(fields + "|" + fmt.Sprintf("%08x", sum)))
}

// DecodeForensicPayload reverses forensicPayload. It reports ok=false
// when the encoding, field count, or checksum does not match.
func DecodeForensicPayload(encoded string) (text, timestamp, id string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", "", false
	}

	// The text field may itself contain separators, so split the three
	// trailing fields off the end.
	parts := strings.Split(string(raw), "|")
	if len(parts) < 4 {
		return "", "", "", false
	}
	sumField := parts[len(parts)-1]
	id = parts[len(parts)-2]
	timestamp = parts[len(parts)-3]
	text = strings.Join(parts[:len(parts)-3], "|")

	sum, err := strconv.ParseUint(sumField, 16, 32)
	if err != nil {
		return "", "", "", false
	}
	fields := text + "|" + timestamp + "|" + id
	if crc32.ChecksumIEEE([]byte(fields)) != uint32(sum) {
		return "", "", "", false
	}
	return text, timestamp, id, true
}

// randomWatermarkID returns 16 hex characters from a crypto source,
// falling back to a timestamp when the source is unavailable.
func randomWatermarkID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}
