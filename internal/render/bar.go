package render

import (
	"math"
	"strings"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// FullGlyph fills one whole cell of a bar.
const FullGlyph = '█'

// partialGlyphs resolve a quarter of a cell each. Index 0 means the
// remainder is too small to draw.
var partialGlyphs = [4]rune{0, '░', '▒', '▓'}

// Bar is a usage bar with sub-cell precision: Full solid cells followed by
// at most one partial cell.
type Bar struct {
	Full    int
	Partial rune
}

// NewBar sizes a bar for percentage of maxWidth cells. The result never
// uses more than maxWidth cells, and a full bar has no partial glyph.
func NewBar(maxWidth int, percentage float64) Bar {
	if maxWidth <= 0 {
		return Bar{}
	}
	p := snapshot.ClampPercent(percentage)
	if p >= 100 {
		return Bar{Full: maxWidth}
	}

	exact := float64(maxWidth) * p / 100
	full := int(math.Floor(exact))
	bucket := int((exact - float64(full)) * float64(len(partialGlyphs)))
	if bucket >= len(partialGlyphs) {
		bucket = len(partialGlyphs) - 1
	}

	b := Bar{Full: full, Partial: partialGlyphs[bucket]}
	if b.Cells() > maxWidth {
		b.Partial = 0
	}
	return b
}

// Cells returns the number of glyph cells the bar draws.
func (b Bar) Cells() int {
	if b.Partial != 0 {
		return b.Full + 1
	}
	return b.Full
}

// String returns the bar glyphs without padding.
func (b Bar) String() string {
	s := strings.Repeat(string(FullGlyph), b.Full)
	if b.Partial != 0 {
		s += string(b.Partial)
	}
	return s
}
