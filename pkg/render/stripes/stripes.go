// Package stripes draws "warming stripes": one unit-wide coloured bar per
// row, where the colour encodes how far the row's value sits from a
// reference value.
//
// The colour limits are reference ± clim. The reference defaults to the
// value of the middle row, or the mean over a label window such as
// "1961:1990"; clim defaults to twice the sample standard deviation.
// Values beyond the limits take the end colours.
package stripes

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/pdext/pkg/colors"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/render/figure"
)

// Options configures a stripes chart.
type Options struct {
	// Column holds the values. Required.
	Column string `toml:"column" json:"column"`
	// Index names an integer column used as row labels. Empty uses row
	// numbers.
	Index string `toml:"index" json:"index,omitempty"`
	// Reference is an inclusive "start:end" label window whose mean is the
	// reference value. Empty uses the middle row.
	Reference string `toml:"reference" json:"reference,omitempty"`
	// CLim is the half-width of the colour range. Nil uses twice the
	// sample standard deviation.
	CLim *float64 `toml:"clim" json:"clim,omitempty"`
	// First and Last bound the labels drawn. Nil uses the first and last
	// labels of the data.
	First *int `toml:"first" json:"first,omitempty"`
	Last  *int `toml:"last" json:"last,omitempty"`
	// Colors is the listed palette. Nil uses colors.StripePalette.
	Colors []string `toml:"colors" json:"colors,omitempty"`
	// Width and Height are the figure size in inches.
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Width: 10, Height: 1}
}

// Stripe is one drawn bar.
type Stripe struct {
	Label int     `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Stripes is the computed chart.
type Stripes struct {
	Column    string   `json:"column"`
	Reference float64  `json:"reference"`
	CLim      float64  `json:"clim"`
	VMin      float64  `json:"vmin"`
	VMax      float64  `json:"vmax"`
	First     int      `json:"first"`
	Last      int      `json:"last"`
	Stripes   []Stripe `json:"stripes"`
}

type row struct {
	label int
	value float64
}

// Compute derives the reference, limits and stripe colours.
func Compute(f *frame.Frame, opts Options) (*Stripes, error) {
	if opts.Column == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stripes need a value column")
	}
	vals, err := f.Float64s(opts.Column)
	if err != nil {
		return nil, err
	}
	labels, err := rowLabels(f, opts.Index)
	if err != nil {
		return nil, err
	}

	var rows []row
	for i, v := range vals {
		if !math.IsNaN(v) {
			rows = append(rows, row{label: labels[i], value: v})
		}
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "column %q has no values", opts.Column)
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.value
	}

	ref := rows[len(rows)/2].value
	if opts.Reference != "" {
		if ref, err = windowMean(rows, opts.Reference); err != nil {
			return nil, err
		}
	}

	var clim float64
	if opts.CLim != nil {
		clim = *opts.CLim
	} else {
		if len(values) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"need at least two values to derive clim, got %d", len(values))
		}
		clim = 2 * stat.StdDev(values, nil)
	}
	if clim < 0 || math.IsNaN(clim) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "clim must be non-negative, got %v", clim)
	}

	first, last := rows[0].label, rows[len(rows)-1].label
	if opts.First != nil {
		first = *opts.First
	}
	if opts.Last != nil {
		last = *opts.Last
	}
	if first > last {
		return nil, errors.New(errors.ErrCodeInvalidInput, "first (%d) is after last (%d)", first, last)
	}

	palette := opts.Colors
	if len(palette) == 0 {
		palette = colors.StripePalette
	}
	cm, err := colors.ListedFromHex(palette)
	if err != nil {
		return nil, err
	}
	norm := colors.Normalize{Min: ref - clim, Max: ref + clim, Clip: true}

	s := &Stripes{
		Column:    opts.Column,
		Reference: ref,
		CLim:      clim,
		VMin:      ref - clim,
		VMax:      ref + clim,
		First:     first,
		Last:      last,
	}
	for _, r := range rows {
		if r.label < first || r.label > last {
			continue
		}
		s.Stripes = append(s.Stripes, Stripe{
			Label: r.label,
			Value: r.value,
			Color: colors.Hex(colors.At(cm, norm.Apply(r.value))),
		})
	}
	return s, nil
}

func rowLabels(f *frame.Frame, index string) ([]int, error) {
	labels := make([]int, f.Len())
	if index == "" {
		for i := range labels {
			labels[i] = i
		}
		return labels, nil
	}
	raw, err := f.Float64s(index)
	if err != nil {
		return nil, err
	}
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"index column %q row %d: %v is not an integer", index, i, v)
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// ParseWindow splits an inclusive "start:end" label window.
func ParseWindow(window string) (lo, hi float64, err error) {
	if err := errors.ValidateWindow(window); err != nil {
		return 0, 0, err
	}
	a, b, _ := strings.Cut(window, ":")
	if lo, err = strconv.ParseFloat(strings.TrimSpace(a), 64); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "window start %q", a)
	}
	if hi, err = strconv.ParseFloat(strings.TrimSpace(b), 64); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "window end %q", b)
	}
	return lo, hi, nil
}

func windowMean(rows []row, window string) (float64, error) {
	lo, hi, err := ParseWindow(window)
	if err != nil {
		return 0, err
	}
	var sel []float64
	for _, r := range rows {
		if l := float64(r.label); l >= lo && l <= hi {
			sel = append(sel, r.value)
		}
	}
	if len(sel) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "reference window %q selects no rows", window)
	}
	return stat.Mean(sel, nil), nil
}

// Plot computes the stripes and lays them out on a figure.
func Plot(f *frame.Frame, opts Options) (*figure.Figure, *Stripes, error) {
	s, err := Compute(f, opts)
	if err != nil {
		return nil, nil, err
	}
	fig, err := Draw(s, opts.Width, opts.Height)
	if err != nil {
		return nil, nil, err
	}
	return fig, s, nil
}

// Draw lays computed stripes out on a width×height inch figure. Zero
// sizes fall back to the defaults.
func Draw(s *Stripes, width, height float64) (*figure.Figure, error) {
	def := DefaultOptions()
	if width <= 0 {
		width = def.Width
	}
	if height <= 0 {
		height = def.Height
	}

	patches := make(figure.Patches, 0, len(s.Stripes))
	for _, st := range s.Stripes {
		c, err := colors.Parse(st.Color)
		if err != nil {
			return nil, err
		}
		x := float64(st.Label)
		patches = append(patches, figure.Patch{Points: figure.Rectangle(x, 0, x+1, 1), Fill: c})
	}

	fig := figure.New(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch)
	ax := fig.AddAxes(figure.Unit)
	ax.Plot.Add(patches)
	ax.Plot.X.Min, ax.Plot.X.Max = float64(s.First), float64(s.Last+1)
	ax.Plot.Y.Min, ax.Plot.Y.Max = 0, 1
	return fig, nil
}
