package figure

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Point is a position in data coordinates.
type Point struct{ X, Y float64 }

// Patch is a closed polygon in data coordinates.
type Patch struct {
	Points []Point
	Fill   color.Color
	// Line strokes the outline when Line.Width > 0.
	Line draw.LineStyle
}

// Patches draws polygons in order. It implements plot.Plotter and
// plot.DataRanger.
type Patches []Patch

// Plot implements plot.Plotter.
func (ps Patches) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, patch := range ps {
		if len(patch.Points) < 2 {
			continue
		}
		pts := make([]vg.Point, len(patch.Points), len(patch.Points)+1)
		for i, pt := range patch.Points {
			pts[i] = vg.Point{X: trX(pt.X), Y: trY(pt.Y)}
		}
		if patch.Fill != nil {
			c.FillPolygon(patch.Fill, pts)
		}
		if patch.Line.Width > 0 && patch.Line.Color != nil {
			c.StrokeLines(patch.Line, append(pts, pts[0]))
		}
	}
}

// DataRange implements plot.DataRanger.
func (ps Patches) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, patch := range ps {
		for _, pt := range patch.Points {
			xmin, xmax = math.Min(xmin, pt.X), math.Max(xmax, pt.X)
			ymin, ymax = math.Min(ymin, pt.Y), math.Max(ymax, pt.Y)
		}
	}
	return xmin, xmax, ymin, ymax
}

// Rectangle returns the corners of the axis-aligned box [x0, x1]×[y0, y1].
func Rectangle(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// arcStep is the largest angle, in degrees, between sampled arc points.
const arcStep = 1.0

// Wedge returns the outline of an annular sector centred at the origin:
// outer radius r, ring width w (w >= r gives a full pie slice), angles in
// degrees counter-clockwise from the positive x axis.
func Wedge(r, w, theta1, theta2 float64) []Point {
	steps := int(math.Ceil(math.Abs(theta2-theta1) / arcStep))
	if steps < 1 {
		steps = 1
	}
	arc := func(radius float64, from, to float64) []Point {
		pts := make([]Point, 0, steps+1)
		for i := 0; i <= steps; i++ {
			a := (from + (to-from)*float64(i)/float64(steps)) * math.Pi / 180
			pts = append(pts, Point{radius * math.Cos(a), radius * math.Sin(a)})
		}
		return pts
	}
	pts := arc(r, theta1, theta2)
	inner := r - w
	if inner <= 0 {
		return append(pts, Point{0, 0})
	}
	return append(pts, arc(inner, theta2, theta1)...)
}

// Circle returns a sampled circle of radius r centred at the origin.
func Circle(r float64) []Point {
	pts := Wedge(r, r, 0, 360)
	return pts[:len(pts)-2]
}

// Polar returns the point at distance d and angle theta (degrees) from the
// origin.
func Polar(d, theta float64) Point {
	a := theta * math.Pi / 180
	return Point{d * math.Cos(a), d * math.Sin(a)}
}
