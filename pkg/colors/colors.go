// Package colors resolves colour names and colour scales for the charts.
//
// Scales are gonum [palette.ColorMap] values so they plug straight into
// gonum plotters. Named scales come from the ColorBrewer tables shipped
// with gonum ([Lookup]); fixed lists use [Listed]. Single colours are
// parsed by [Parse], which understands hex strings, the one-letter
// shorthands (w, k, r, ...) and SVG colour names.
package colors

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/pdext/pkg/errors"
)

// shorthand holds the one-letter colour codes.
var shorthand = map[string]color.NRGBA{
	"b": {0, 0, 255, 255},
	"g": {0, 128, 0, 255},
	"r": {255, 0, 0, 255},
	"c": {0, 191, 191, 255},
	"m": {191, 0, 191, 255},
	"y": {191, 191, 0, 255},
	"k": {0, 0, 0, 255},
	"w": {255, 255, 255, 255},
}

// Parse converts a colour string into a colour.
//
// Accepted forms: "#rgb", "#rrggbb", "#rrggbbaa", one-letter codes,
// SVG names such as "whitesmoke", and "none" for transparent.
func Parse(s string) (color.Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	switch {
	case spec == "":
		return nil, errors.New(errors.ErrCodeInvalidColour, "empty colour")
	case spec == "none" || spec == "transparent":
		return color.Transparent, nil
	case strings.HasPrefix(spec, "#"):
		return parseHex(s, spec[1:])
	}
	if c, ok := shorthand[spec]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidColour, "unknown colour %q", s)
}

// MustParse is like Parse but panics on error. For package-level tables.
func MustParse(s string) color.Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseAll parses every colour string in specs.
func ParseAll(specs []string) ([]color.Color, error) {
	out := make([]color.Color, len(specs))
	for i, s := range specs {
		c, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func parseHex(orig, hex string) (color.Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, errors.New(errors.ErrCodeInvalidColour, "bad hex colour %q", orig)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColour, err, "bad hex colour %q", orig)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{n.R, n.G, n.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

// WithAlpha scales c's opacity by alpha in [0, 1].
func WithAlpha(c color.Color, alpha float64) color.Color {
	if alpha >= 1 {
		return c
	}
	if alpha < 0 {
		alpha = 0
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*alpha + 0.5)
	return n
}
