package colors

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// Normalize maps [Min, Max] linearly onto [0, 1]. A degenerate range maps
// everything to 0. With Clip set, results are clamped to [0, 1].
type Normalize struct {
	Min, Max float64
	Clip     bool
}

// Apply normalizes v.
func (n Normalize) Apply(v float64) float64 {
	if n.Max == n.Min {
		return 0
	}
	x := (v - n.Min) / (n.Max - n.Min)
	if n.Clip {
		x = math.Max(0, math.Min(1, x))
	}
	return x
}

// scale carries the range and alpha shared by Gradient and Listed.
type scale struct {
	min, max, alpha float64
}

func (s *scale) Min() float64 { return s.min }
func (s *scale) Max() float64 { return s.max }
func (s *scale) SetMin(v float64) { s.min = v }
func (s *scale) SetMax(v float64) { s.max = v }
func (s *scale) Alpha() float64 { return s.alpha }
func (s *scale) SetAlpha(alpha float64) { s.alpha = alpha }

// fraction validates v against the range and returns its position in
// [0, 1].
func (s *scale) fraction(v float64) (float64, error) {
	switch {
	case math.IsNaN(v):
		return 0, palette.ErrNaN
	case v < s.min:
		return 0, palette.ErrUnderflow
	case v > s.max:
		return 0, palette.ErrOverflow
	case s.max == s.min:
		return 0, nil
	}
	return (v - s.min) / (s.max - s.min), nil
}

// Gradient is a continuous colour map interpolating linearly in RGB
// between evenly spaced stops.
type Gradient struct {
	scale
	stops []color.NRGBA
}

// NewGradient returns a gradient over stops with range [0, 1] and full
// opacity. At least two stops are required.
func NewGradient(stops []color.Color) *Gradient {
	g := &Gradient{scale: scale{min: 0, max: 1, alpha: 1}}
	for _, c := range stops {
		g.stops = append(g.stops, color.NRGBAModel.Convert(c).(color.NRGBA))
	}
	if len(g.stops) == 1 {
		g.stops = append(g.stops, g.stops[0])
	}
	return g
}

// At implements palette.ColorMap.
func (g *Gradient) At(v float64) (color.Color, error) {
	x, err := g.fraction(v)
	if err != nil {
		return nil, err
	}
	pos := x * float64(len(g.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(g.stops)-1 {
		i = len(g.stops) - 2
	}
	t := pos - float64(i)
	a, b := g.stops[i], g.stops[i+1]
	lerp := func(p, q uint8) uint8 { return uint8(math.Round(float64(p) + t*(float64(q)-float64(p)))) }
	c := color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
	return WithAlpha(c, g.alpha), nil
}

// Palette implements palette.ColorMap.
func (g *Gradient) Palette(n int) palette.Palette { return sample(g, n) }

// Reversed returns a copy of g with the stops in reverse order.
func (g *Gradient) Reversed() *Gradient {
	r := &Gradient{scale: g.scale, stops: make([]color.NRGBA, len(g.stops))}
	for i, c := range g.stops {
		r.stops[len(g.stops)-1-i] = c
	}
	return r
}

// Listed is a discrete colour map: the range is split into len(colors)
// equal bins.
type Listed struct {
	scale
	colors []color.Color
}

// NewListed returns a listed map over cs with range [0, 1].
func NewListed(cs []color.Color) *Listed {
	return &Listed{scale: scale{min: 0, max: 1, alpha: 1}, colors: cs}
}

// ListedFromHex parses specs and returns a listed map over them.
func ListedFromHex(specs []string) (*Listed, error) {
	cs, err := ParseAll(specs)
	if err != nil {
		return nil, err
	}
	return NewListed(cs), nil
}

// Len returns the number of colours.
func (l *Listed) Len() int { return len(l.colors) }

// At implements palette.ColorMap.
func (l *Listed) At(v float64) (color.Color, error) {
	x, err := l.fraction(v)
	if err != nil {
		return nil, err
	}
	i := int(x * float64(len(l.colors)))
	if i >= len(l.colors) {
		i = len(l.colors) - 1
	}
	return WithAlpha(l.colors[i], l.alpha), nil
}

// Palette implements palette.ColorMap.
func (l *Listed) Palette(n int) palette.Palette { return sample(l, n) }

type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }

func sample(cm palette.ColorMap, n int) palette.Palette {
	out := make(colorList, n)
	for i := range out {
		v := cm.Min()
		if n > 1 {
			v += (cm.Max() - cm.Min()) * float64(i) / float64(n-1)
		}
		c, err := cm.At(v)
		if err != nil {
			c = color.Transparent
		}
		out[i] = c
	}
	return out
}

// At looks v up in cm after clamping it into the map's range, the way a
// clipped normalization does. NaN yields transparent.
func At(cm palette.ColorMap, v float64) color.Color {
	if math.IsNaN(v) {
		return color.Transparent
	}
	v = math.Max(cm.Min(), math.Min(cm.Max(), v))
	c, err := cm.At(v)
	if err != nil {
		return color.Transparent
	}
	return c
}
