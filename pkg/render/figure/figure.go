// Package figure composes gonum plots into a single page.
//
// A [Figure] has a nominal size and holds [Axes] positioned by
// figure-fraction rectangles, the way a matplotlib figure holds axes
// created with add_axes. Each Axes owns a gonum [plot.Plot]; the figure
// only decides where each plot lands on the canvas. Rectangles may reach
// outside the unit square (legends placed beside a chart, say): the
// rendered canvas grows to the union of all rectangles so nothing is cut
// off.
//
//	fig := figure.New(10*vg.Inch, 10*vg.Inch)
//	main := fig.AddAxes(figure.DefaultSubplot)
//	main.Plot.Add(myPlotter)
//	legend := fig.AddAxes(figure.Rect{Left: 1.1, Bottom: 0.4, Width: 0.25, Height: 0.05})
//	w, err := fig.Canvas("svg", 0)
package figure

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Rect is a rectangle in figure-fraction coordinates: (0, 0) is the
// bottom-left corner of the nominal figure and (1, 1) the top-right.
type Rect struct {
	Left, Bottom, Width, Height float64
}

// DefaultSubplot is the box a single subplot occupies by default.
var DefaultSubplot = Rect{Left: 0.125, Bottom: 0.11, Width: 0.775, Height: 0.77}

// Unit is the nominal figure box.
var Unit = Rect{Width: 1, Height: 1}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Bottom + r.Height }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	left := math.Min(r.Left, o.Left)
	bottom := math.Min(r.Bottom, o.Bottom)
	return Rect{
		Left:   left,
		Bottom: bottom,
		Width:  math.Max(r.Right(), o.Right()) - left,
		Height: math.Max(r.Top(), o.Top()) - bottom,
	}
}

// Axes is one plot placed on a figure.
type Axes struct {
	Rect Rect
	Plot *plot.Plot
	// EqualAspect shrinks the box around its centre so one data unit has
	// the same length on both axes.
	EqualAspect bool
}

// Figure is a page of axes.
type Figure struct {
	Width, Height vg.Length
	Background    color.Color
	// Loose disables growing the canvas to fit axes outside the unit box.
	Loose bool

	axes  []*Axes
	texts []Label
}

// New returns an empty white figure of the given nominal size.
func New(width, height vg.Length) *Figure {
	return &Figure{Width: width, Height: height, Background: color.White}
}

// AddAxes places a new plot with a transparent background at r. The plot
// starts with hidden axes and no padding; callers re-enable what they
// draw.
func (f *Figure) AddAxes(r Rect) *Axes {
	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	a := &Axes{Rect: r, Plot: p}
	f.axes = append(f.axes, a)
	return a
}

// Axes returns the figure's axes in drawing order.
func (f *Figure) Axes() []*Axes { return f.axes }

// AddText places a label in figure-fraction coordinates.
func (f *Figure) AddText(l Label) { f.texts = append(f.texts, l) }

// Texts returns the figure-level labels.
func (f *Figure) Texts() []Label { return f.texts }

// Bounds returns the figure-fraction rectangle the canvas covers.
func (f *Figure) Bounds() Rect {
	b := Unit
	if f.Loose {
		return b
	}
	for _, a := range f.axes {
		b = b.Union(a.Rect)
	}
	return b
}

// Size returns the rendered canvas size.
func (f *Figure) Size() (w, h vg.Length) {
	b := f.Bounds()
	return vg.Length(b.Width) * f.Width, vg.Length(b.Height) * f.Height
}

// Draw renders the figure onto dc, which should have the size returned by
// [Figure.Size].
func (f *Figure) Draw(dc draw.Canvas) {
	b := f.Bounds()
	toPt := func(x, y float64) vg.Point {
		return vg.Point{
			X: dc.Min.X + vg.Length((x-b.Left)/b.Width)*(dc.Max.X-dc.Min.X),
			Y: dc.Min.Y + vg.Length((y-b.Bottom)/b.Height)*(dc.Max.Y-dc.Min.Y),
		}
	}

	if f.Background != nil {
		dc.FillPolygon(f.Background, []vg.Point{
			dc.Min, {X: dc.Max.X, Y: dc.Min.Y}, dc.Max, {X: dc.Min.X, Y: dc.Max.Y},
		})
	}

	for _, a := range f.axes {
		c := draw.Canvas{
			Canvas: dc.Canvas,
			Rectangle: vg.Rectangle{
				Min: toPt(a.Rect.Left, a.Rect.Bottom),
				Max: toPt(a.Rect.Right(), a.Rect.Top()),
			},
		}
		if a.EqualAspect {
			c = equalAspect(c, a.Plot)
		}
		a.Plot.Draw(c)
	}

	for _, l := range f.texts {
		if l.Text == "" {
			continue
		}
		dc.FillText(l.Style, toPt(l.X, l.Y), l.Text)
	}
}

// equalAspect crops c so the plot's data area has the aspect ratio of its
// data range.
func equalAspect(c draw.Canvas, p *plot.Plot) draw.Canvas {
	dx, dy := p.X.Max-p.X.Min, p.Y.Max-p.Y.Min
	if dx <= 0 || dy <= 0 {
		return c
	}
	da := p.DataCanvas(c)
	w, h := da.Max.X-da.Min.X, da.Max.Y-da.Min.Y
	if w <= 0 || h <= 0 {
		return c
	}
	want := vg.Length(dx / dy)
	if w/h > want {
		excess := (w - h*want) / 2
		return draw.Crop(c, excess, -excess, 0, 0)
	}
	excess := (h - w/want) / 2
	return draw.Crop(c, 0, 0, excess, -excess)
}

// Coords selects how a label's position is interpreted.
type Coords int

const (
	// AxesFraction positions (0, 0) at the bottom-left of the data area
	// and (1, 1) at its top-right.
	AxesFraction Coords = iota
	// Data positions labels in data units.
	Data
)

// Label is a piece of text anchored at a point.
type Label struct {
	Text   string
	X, Y   float64
	Coords Coords
	Style  text.Style
}

// Texts draws labels inside a plot's data area. It implements
// plot.Plotter.
type Texts []Label

// Plot implements plot.Plotter.
func (ts Texts) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, l := range ts {
		if l.Text == "" {
			continue
		}
		var pt vg.Point
		switch l.Coords {
		case Data:
			pt = vg.Point{X: trX(l.X), Y: trY(l.Y)}
		default:
			pt = vg.Point{
				X: c.Min.X + vg.Length(l.X)*(c.Max.X-c.Min.X),
				Y: c.Min.Y + vg.Length(l.Y)*(c.Max.Y-c.Min.Y),
			}
		}
		c.FillText(l.Style, pt, l.Text)
	}
}
