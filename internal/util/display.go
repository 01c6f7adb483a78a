package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// GetDisplayWidth calculates the display width of a string in terminal cells
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadDisplay pads s with spaces to width cells. Right alignment pads on the left.
func PadDisplay(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateDisplay shortens s to at most width cells, marking the cut with "…".
func TruncateDisplay(s string, width int) string {
	if GetDisplayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// FormatValue renders a table cell. Whole numbers print without a fraction;
// averaged cells keep up to two decimals.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
