package figure

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/pdext/pkg/errors"
)

// BaseFontSize is the size "medium" resolves to, in points.
const BaseFontSize = 10

// FontSize is a size given either in points ("12", "12pt") or by name
// ("x-small" .. "xx-large").
type FontSize string

var namedSizes = map[string]float64{
	"xx-small": 0.579,
	"x-small":  0.694,
	"small":    0.833,
	"medium":   1.0,
	"large":    1.2,
	"x-large":  1.44,
	"xx-large": 1.728,
	"larger":   1.2,
	"smaller":  0.833,
}

// Points resolves the size.
func (s FontSize) Points() (vg.Length, error) {
	spec := strings.ToLower(strings.TrimSpace(string(s)))
	if spec == "" {
		return vg.Points(BaseFontSize), nil
	}
	if k, ok := namedSizes[spec]; ok {
		return vg.Points(BaseFontSize * k), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(spec, "pt"), 64)
	if err != nil || v <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid font size %q", string(s))
	}
	return vg.Points(v), nil
}

var weights = map[string]xfont.Weight{
	"ultralight": xfont.WeightExtraLight,
	"light":      xfont.WeightLight,
	"normal":     xfont.WeightNormal,
	"regular":    xfont.WeightNormal,
	"medium":     xfont.WeightMedium,
	"semibold":   xfont.WeightSemiBold,
	"demibold":   xfont.WeightSemiBold,
	"bold":       xfont.WeightBold,
	"heavy":      xfont.WeightExtraBold,
	"extra bold": xfont.WeightExtraBold,
	"black":      xfont.WeightBlack,
}

// ParseWeight resolves a weight name. Empty means normal.
func ParseWeight(s string) (xfont.Weight, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return xfont.WeightNormal, nil
	}
	if w, ok := weights[spec]; ok {
		return w, nil
	}
	if n, err := strconv.Atoi(spec); err == nil && n >= 100 && n <= 900 {
		return xfont.Weight(n/100 - 4), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid font weight %q", s)
}

// ParseStyle resolves "normal", "italic" or "oblique". Empty means normal.
func ParseStyle(s string) (xfont.Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return xfont.StyleNormal, nil
	case "italic":
		return xfont.StyleItalic, nil
	case "oblique":
		return xfont.StyleOblique, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid font style %q", s)
}

// ParseHAlign resolves "left", "center" or "right".
func ParseHAlign(s string) (text.XAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return draw.XLeft, nil
	case "", "center", "centre":
		return draw.XCenter, nil
	case "right":
		return draw.XRight, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid horizontal alignment %q", s)
}

// ParseVAlign resolves "top", "center", "bottom" or "baseline".
func ParseVAlign(s string) (text.YAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return draw.YTop, nil
	case "", "center", "centre", "center_baseline":
		return draw.YCenter, nil
	case "bottom", "baseline":
		return draw.YBottom, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid vertical alignment %q", s)
}

// Font describes a text style in config terms.
type Font struct {
	Size   FontSize `toml:"size" json:"size,omitempty"`
	Weight string   `toml:"weight" json:"weight,omitempty"`
	Style  string   `toml:"style" json:"style,omitempty"`
}

// TextStyle resolves f into a black, centred gonum text style.
func (f Font) TextStyle() (text.Style, error) {
	size, err := f.Size.Points()
	if err != nil {
		return text.Style{}, err
	}
	w, err := ParseWeight(f.Weight)
	if err != nil {
		return text.Style{}, err
	}
	st, err := ParseStyle(f.Style)
	if err != nil {
		return text.Style{}, err
	}
	// The bundled Liberation faces only come in normal and bold, upright
	// and italic.
	fnt := font.From(plot.DefaultFont, size)
	if w >= xfont.WeightSemiBold {
		fnt.Weight = xfont.WeightBold
	}
	if st != xfont.StyleNormal {
		fnt.Style = xfont.StyleItalic
	}
	return text.Style{
		Color:   color.Black,
		Font:    fnt,
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}, nil
}

// Aligned returns sty with the given alignments and rotation in degrees.
func Aligned(sty text.Style, ha text.XAlignment, va text.YAlignment, rotation float64) text.Style {
	sty.XAlign = ha
	sty.YAlign = va
	sty.Rotation = rotation * math.Pi / 180
	return sty
}

// LineStyle builds a stroke style from a colour, a width in points and a
// dash name ("-", "--", ":", "-."). Dash lengths scale with the width.
func LineStyle(c color.Color, width float64, dash string) (draw.LineStyle, error) {
	var pattern []float64
	switch strings.TrimSpace(dash) {
	case "", "-", "solid":
	case "--", "dashed":
		pattern = []float64{3.7, 1.6}
	case ":", "dotted":
		pattern = []float64{1, 1.65}
	case "-.", "dashdot":
		pattern = []float64{6.4, 1.6, 1, 1.6}
	case "None", "none":
		width = 0
	default:
		return draw.LineStyle{}, errors.New(errors.ErrCodeInvalidInput, "invalid line style %q", dash)
	}
	ls := draw.LineStyle{Color: c, Width: vg.Points(width)}
	for _, p := range pattern {
		ls.Dashes = append(ls.Dashes, vg.Points(p*math.Max(width, 1)))
	}
	return ls, nil
}
