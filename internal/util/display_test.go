package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadDisplay(t *testing.T) {
	assert.Equal(t, "ab  ", PadDisplay("ab", 4, true))
	assert.Equal(t, "  ab", PadDisplay("ab", 4, false))
	assert.Equal(t, "abcdef", PadDisplay("abcdef", 4, true))
	// Wide runes occupy two cells each
	assert.Equal(t, "物理 ", PadDisplay("物理", 5, true))
}

func TestTruncateDisplay(t *testing.T) {
	assert.Equal(t, "short", TruncateDisplay("short", 10))
	assert.Equal(t, "astro…", TruncateDisplay("astrophysics", 6))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{42, "42"},
		{2.5, "2.50"},
		{1.0 / 3.0, "0.33"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatValue(tt.input))
	}
}
