package style

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//go:embed default.mplstyle
var defaultSheet []byte

// Style sheet keys
const (
	KeyLineWidth = "lines.linewidth"
	KeyFigSize   = "figure.figsize"
	KeyDPI       = "figure.dpi"
	KeyFontSize  = "font.size"
	KeyPropCycle = "axes.prop_cycle"
)

// Style holds the cosmetic settings used when drawing a chart.
type Style struct {
	LineWidth vg.Length
	Width     vg.Length
	Height    vg.Length
	DPI       int
	FontSize  vg.Length
	Palette   []color.Color
}

// Default returns the built-in fallback values, used for keys a sheet omits.
func Default() *Style {
	return &Style{
		LineWidth: vg.Points(1.5),
		Width:     8 * vg.Inch,
		Height:    6 * vg.Inch,
		DPI:       100,
		FontSize:  vg.Points(10),
	}
}

// Color returns the i-th color of the cycle. Without a palette the gonum
// default cycle is used.
func (s *Style) Color(i int) color.Color {
	if len(s.Palette) == 0 {
		return plotutil.Color(i)
	}
	return s.Palette[i%len(s.Palette)]
}

// Bundled loads the style sheet compiled into the binary.
func Bundled() (*Style, error) {
	return Read(bytes.NewReader(defaultSheet), "yaml")
}

// Load reads the style sheet at path. An empty path selects the bundled
// sheet. matplotlib .mplstyle files are read as YAML; other extensions are
// handed to viper as-is.
func Load(path string) (*Style, error) {
	if path == "" {
		return Bundled()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".mplstyle" || ext == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read style sheet %s: %w", path, err)
	}
	return fromViper(v)
}

// Read parses a style sheet of the given viper config type from r.
func Read(r io.Reader, configType string) (*Style, error) {
	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse style sheet: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Style, error) {
	s := Default()

	if v.IsSet(KeyLineWidth) {
		w, err := cast.ToFloat64E(v.Get(KeyLineWidth))
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("style %s: invalid value %v", KeyLineWidth, v.Get(KeyLineWidth))
		}
		s.LineWidth = vg.Points(w)
	}

	if v.IsSet(KeyFigSize) {
		dims, err := floatList(v.Get(KeyFigSize))
		if err != nil || len(dims) != 2 || dims[0] <= 0 || dims[1] <= 0 {
			return nil, fmt.Errorf("style %s: expected two positive numbers, got %v", KeyFigSize, v.Get(KeyFigSize))
		}
		s.Width = vg.Length(dims[0]) * vg.Inch
		s.Height = vg.Length(dims[1]) * vg.Inch
	}

	if v.IsSet(KeyDPI) {
		dpi, err := cast.ToIntE(v.Get(KeyDPI))
		if err != nil || dpi <= 0 {
			return nil, fmt.Errorf("style %s: invalid value %v", KeyDPI, v.Get(KeyDPI))
		}
		s.DPI = dpi
	}

	if v.IsSet(KeyFontSize) {
		size, err := cast.ToFloat64E(v.Get(KeyFontSize))
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("style %s: invalid value %v", KeyFontSize, v.Get(KeyFontSize))
		}
		s.FontSize = vg.Points(size)
	}

	if v.IsSet(KeyPropCycle) {
		palette, err := parseCycle(v.Get(KeyPropCycle))
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", KeyPropCycle, err)
		}
		s.Palette = palette
	}

	return s, nil
}

// floatList accepts "8, 6", "8 6" or a YAML sequence.
func floatList(raw interface{}) ([]float64, error) {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '(' || r == ')' || r == '[' || r == ']'
		})
	default:
		items, err := cast.ToSliceE(raw)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			parts = append(parts, cast.ToString(item))
		}
	}

	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

var hexColor = regexp.MustCompile(`#?\b([0-9a-fA-F]{6})\b`)

// parseCycle extracts the hex colors of a cycler('color', [...]) value or
// a plain list of colors.
func parseCycle(raw interface{}) ([]color.Color, error) {
	var text string
	if s, ok := raw.(string); ok {
		text = s
	} else {
		items, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, err
		}
		text = strings.Join(items, " ")
	}

	matches := hexColor.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no hex colors in %q", text)
	}
	palette := make([]color.Color, 0, len(matches))
	for _, m := range matches {
		rgb, _ := strconv.ParseUint(m[1], 16, 32)
		palette = append(palette, color.RGBA{
			R: uint8(rgb >> 16),
			G: uint8(rgb >> 8),
			B: uint8(rgb),
			A: 0xff,
		})
	}
	return palette, nil
}
