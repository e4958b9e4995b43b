package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Width returns the number of terminal cells s occupies.
func Width(s string) int { return runewidth.StringWidth(s) }

// Fit returns s unchanged if it fits in width cells, otherwise truncates it
// and ends it with an ellipsis.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if Width(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// Pad fits s to width and right-pads it with spaces to exactly width cells.
func Pad(s string, width int) string {
	s = Fit(s, width)
	if n := width - Width(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

// Band lays out left- and right-justified text across width cells. When
// both do not fit with one separating space, the left text is fitted with
// an ellipsis and the right text is dropped.
func Band(left, right string, width int) string {
	if width <= 0 {
		return ""
	}
	lw, rw := Width(left), Width(right)
	if right == "" || lw+1+rw > width {
		return Pad(left, width)
	}
	return left + strings.Repeat(" ", width-lw-rw) + right
}
