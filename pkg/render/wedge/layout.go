// Package wedge lays out and draws wedge charts: concentric rings of
// annular sectors where each row of a frame is a slice and each value
// column a ring.
//
// A slice is one row across all ring columns. A wedge is a single cell,
// one slice within one ring. Rings are listed innermost first; every ring
// has its own colour scale normalised to its own minimum and maximum, and
// an optional colour-bar legend beside the chart.
//
// [Layout] computes every shape and label as a [Chart] value, which is
// what the JSON sink serialises. [Plot] lays out and then draws.
package wedge

import (
	"math"

	"github.com/matzehuels/pdext/pkg/colors"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/render/figure"
)

// Limit is the half-width of the main axes in data units.
const Limit = 1.25

// ringLabelSpan is the arc, in degrees, blanked behind a ring label.
const ringLabelSpan = 360 * 0.01

// Shape kinds, in drawing order.
const (
	KindCentre    = "centre"
	KindBacking   = "backing"
	KindWedge     = "wedge"
	KindRingLabel = "ring_label"
)

// Shape is one filled annular sector. Angles are degrees
// counter-clockwise from three o'clock.
type Shape struct {
	Kind   string  `json:"kind"`
	Ring   int     `json:"ring"`
	Slice  int     `json:"slice"`
	Radius float64 `json:"radius"`
	Width  float64 `json:"width"`
	Theta1 float64 `json:"theta1"`
	Theta2 float64 `json:"theta2"`
	Fill   string  `json:"fill"`
	Alpha  float64 `json:"alpha"`
	// Edge strokes the outline with the chart's edge style.
	Edge bool `json:"edge"`
}

// Text is a label in data coordinates of the main axes.
type Text struct {
	Text     string      `json:"text"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	HAlign   string      `json:"ha"`
	VAlign   string      `json:"va"`
	Rotation float64     `json:"rotation"`
	Font     figure.Font `json:"font"`
}

// Ring summarises one value column.
type Ring struct {
	Column string    `json:"column"`
	Label  string    `json:"label"`
	Scale  string    `json:"scale"`
	Radius float64   `json:"radius"`
	Width  float64   `json:"width"`
	VMin   float64   `json:"vmin"`
	VMax   float64   `json:"vmax"`
	Values []float64 `json:"values"`
}

// Legend is one ring's colour bar, placed in figure fractions.
type Legend struct {
	Ring        int         `json:"ring"`
	Label       string      `json:"label"`
	Scale       string      `json:"scale"`
	Orientation string      `json:"orientation"`
	Rect        figure.Rect `json:"rect"`
	VMin        float64     `json:"vmin"`
	VMax        float64     `json:"vmax"`
	Alpha       float64     `json:"alpha"`
	Ticks       []float64   `json:"ticks"`
	TickLabels  []string    `json:"tick_labels"`
	Font        figure.Font `json:"font"`
}

// Title is the figure title in figure fractions.
type Title struct {
	Text string      `json:"text"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	Font figure.Font `json:"font"`
}

// Chart is a fully laid out wedge chart.
type Chart struct {
	Slices      int      `json:"slices"`
	SliceLabels []string `json:"slice_labels"`
	StartAngle  float64  `json:"start_angle"`
	SliceAngle  float64  `json:"slice_angle"`
	Hole        float64  `json:"hole"`
	Rings       []Ring   `json:"rings"`
	Shapes      []Shape  `json:"shapes"`
	Texts       []Text   `json:"texts"`
	Legends     []Legend `json:"legends,omitempty"`
	Title       *Title   `json:"title,omitempty"`

	Style StyleOptions `json:"style"`
}

// Layout computes the chart for f.
func Layout(f *frame.Frame, opts Options) (*Chart, error) {
	d := opts.Data
	if f.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "wedge chart needs at least one row")
	}

	labels, err := sliceLabels(f, d.SliceLabels)
	if err != nil {
		return nil, err
	}
	rings := d.Rings
	if len(rings) == 0 {
		for _, c := range f.NumericColumns() {
			if c != d.SliceLabels {
				rings = append(rings, c)
			}
		}
	}
	if len(rings) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "wedge chart needs at least one ring column")
	}
	geo, err := geometry(len(rings), d)
	if err != nil {
		return nil, err
	}
	names := d.WedgeLabels
	if names == nil {
		names = rings
	}
	if len(names) != len(rings) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%d wedge labels for %d rings", len(names), len(rings))
	}
	units, err := legendUnits(opts.Legend.Units, len(rings))
	if err != nil {
		return nil, err
	}
	format, err := labelFormatter(opts.Labels)
	if err != nil {
		return nil, err
	}
	ticks := opts.Legend.Ticks
	if ticks == nil {
		ticks = DefaultTicks
	}

	percent := d.Percent
	if percent <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "all-slices percent must be positive, got %v", percent)
	}
	if percent > 1 {
		percent = 1
	}

	n := f.Len()
	explode := opts.Labels.Explode
	radius := make([]float64, len(rings))
	for i, r := range geo.Radius {
		radius[i] = r + float64(i)*explode
	}
	ch := &Chart{
		Slices:      n,
		SliceLabels: labels,
		StartAngle:  d.StartAngle,
		SliceAngle:  360 * percent / float64(n),
		Hole:        radius[0] - geo.WedgeWidth[0] - explode,
		Style:       opts.Style,
	}
	outer := radius[len(radius)-1]
	theta := func(i int) (float64, float64) {
		a := d.StartAngle + float64(i)*ch.SliceAngle
		return a, a + ch.SliceAngle
	}

	if !opts.Display.HideCentreCircle {
		ch.Shapes = append(ch.Shapes, Shape{
			Kind: KindCentre, Ring: -1, Slice: -1,
			Radius: ch.Hole, Width: ch.Hole, Theta1: 0, Theta2: 360,
			Fill: opts.Style.BlankColour, Alpha: 1, Edge: true,
		})
		ch.Texts = append(ch.Texts, Text{
			Text: opts.Circle.Label, HAlign: opts.Circle.HAlign, VAlign: opts.Circle.VAlign,
			Font: opts.Circle.Font,
		})
	}

	if !opts.Display.HideSliceLabel {
		for i := 0; i < n; i++ {
			t1, t2 := theta(i)
			ch.Shapes = append(ch.Shapes, Shape{
				Kind: KindBacking, Ring: -1, Slice: i,
				Radius: outer, Width: outer, Theta1: t1, Theta2: t2,
				Fill: opts.Style.BlankColour, Alpha: 1,
			})
			mid := (t1 + t2) / 2
			ha := "right"
			if mid >= -90 && mid <= 90 {
				ha = "left"
			}
			ch.Texts = append(ch.Texts, radialText(labels[i], (1+opts.Labels.SliceNudge)*outer, mid,
				ha, opts.Labels.SliceRotate, opts.Style.LabelFont))
		}
	}

	ch.Rings = make([]Ring, len(rings))
	for idx := len(rings) - 1; idx >= 0; idx-- {
		vals, err := f.Float64s(rings[idx])
		if err != nil {
			return nil, err
		}
		lo, hi := finiteRange(vals)
		for i, v := range vals {
			if math.IsNaN(v) {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"ring %q row %d has no value", rings[idx], i)
			}
		}
		cm, err := colors.Lookup(geo.Colours[idx])
		if err != nil {
			return nil, err
		}
		norm := colors.Normalize{Min: lo, Max: hi, Clip: true}

		r := radius[idx]
		w := math.Min(geo.WedgeWidth[idx], r)
		dist := r - w/2
		ch.Rings[idx] = Ring{
			Column: rings[idx], Label: names[idx], Scale: geo.Colours[idx],
			Radius: r, Width: w, VMin: lo, VMax: hi, Values: vals,
		}

		for i, v := range vals {
			t1, t2 := theta(i)
			ch.Shapes = append(ch.Shapes, Shape{
				Kind: KindWedge, Ring: idx, Slice: i,
				Radius: r, Width: w, Theta1: t1, Theta2: t2,
				Fill: colors.Hex(colors.At(cm, norm.Apply(v))), Alpha: opts.Style.Alpha, Edge: true,
			})
			if opts.Display.HideWedgeLabel {
				continue
			}
			ch.Texts = append(ch.Texts, radialText(format.Format(v), dist, (t1+t2)/2,
				"center", opts.Labels.WedgeRotate, opts.Style.LabelFont))
		}

		if !opts.Display.HideLegend {
			lg := opts.Legend
			tks, tls := ticks.Ticks(vals, lg.RoundTo)
			if len(tks) != len(tls) {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"tick generator returned %d ticks and %d labels", len(tks), len(tls))
			}
			tls = append([]string(nil), tls...)
			if units != nil && len(tls) > 0 {
				tls[len(tls)-1] += " " + units[idx]
			}
			ch.Legends = append(ch.Legends, Legend{
				Ring: idx, Label: names[idx], Scale: geo.Colours[idx],
				Orientation: lg.Orientation,
				Rect: figure.Rect{
					Left:   1 + lg.XStart,
					Bottom: 1 + lg.YStart - float64(idx)*lg.Gap,
					Width:  lg.BoxWidth,
					Height: lg.BoxHeight,
				},
				VMin: lo, VMax: hi, Alpha: opts.Style.Alpha,
				Ticks: tks, TickLabels: tls, Font: lg.Font,
			})
		}

		if !opts.Display.HideRingLabel {
			a := d.StartAngle + 360*percent
			ha := "right"
			if a >= -180 && a <= 0 {
				ha = "left"
			}
			ch.Shapes = append(ch.Shapes, Shape{
				Kind: KindRingLabel, Ring: idx, Slice: -1,
				Radius: r, Width: w, Theta1: a, Theta2: a + ringLabelSpan,
				Fill: "w", Alpha: 1,
			})
			p := figure.Polar(dist, a+ringLabelSpan/2)
			ch.Texts = append(ch.Texts, Text{
				Text: names[idx], X: p.X, Y: p.Y, HAlign: ha, VAlign: "center", Font: opts.Legend.Font,
			})
		}
	}

	if opts.Title.Text != "" {
		ch.Title = &Title{Text: opts.Title.Text, X: opts.Title.X, Y: opts.Title.Y, Font: opts.Title.Font}
	}
	return ch, nil
}

// radialText places a label at distance dist along angle theta. Rotated
// labels follow the angle, flipped on the left half so they read upright.
func radialText(s string, dist, theta float64, ha string, rotate bool, font figure.Font) Text {
	p := figure.Polar(dist, theta)
	t := Text{Text: s, X: p.X, Y: p.Y, HAlign: ha, VAlign: "center", Font: font}
	if rotate {
		t.Rotation = theta
		if p.X <= 0 {
			t.Rotation += 180
		}
	}
	return t
}

func sliceLabels(f *frame.Frame, column string) ([]string, error) {
	if column == "" {
		return f.IndexLabels(), nil
	}
	if !f.Has(column) {
		return nil, errors.MissingColumn("slice label", column)
	}
	return f.Strings(column)
}

// geometry fills unset lists from the defaults and checks lengths.
func geometry(n int, d DataOptions) (Geometry, error) {
	g := Geometry{Colours: d.Colours, Radius: d.Radius, WedgeWidth: d.WedgeWidth}
	if def, ok := DefaultGeometry(n); ok {
		if g.Colours == nil {
			g.Colours = def.Colours
		}
		if g.Radius == nil {
			g.Radius = def.Radius
		}
		if g.WedgeWidth == nil {
			g.WedgeWidth = def.WedgeWidth
		}
	} else if g.Colours == nil || g.Radius == nil || g.WedgeWidth == nil {
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput,
			"%d rings need explicit colours, radius and wedge widths (defaults cover up to %d)",
			n, MaxDefaultRings)
	}
	for name, l := range map[string]int{
		"colours":      len(g.Colours),
		"radius":       len(g.Radius),
		"wedge widths": len(g.WedgeWidth),
	} {
		if l != n {
			return Geometry{}, errors.New(errors.ErrCodeInvalidInput, "%d %s for %d rings", l, name, n)
		}
	}
	return g, nil
}

func legendUnits(units []string, n int) ([]string, error) {
	switch len(units) {
	case 0:
		return nil, nil
	case 1:
		out := make([]string, n)
		for i := range out {
			out[i] = units[0]
		}
		return out, nil
	case n:
		return units, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "%d legend units for %d rings", len(units), n)
}

func labelFormatter(o LabelOptions) (LabelFormatter, error) {
	switch {
	case o.Format != nil:
		return o.Format, nil
	case o.FormatString != "":
		if err := validateVerb(o.FormatString); err != nil {
			return nil, err
		}
		return Printf(o.FormatString), nil
	}
	return DefaultFormat, nil
}
