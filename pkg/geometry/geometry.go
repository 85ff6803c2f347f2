// Package geometry adds derived measurement columns to a frame that holds
// radii.
//
//	f, _ := frame.ReadCSV(r, frame.ReadOptions{})
//	if err := geometry.CircleCalculations(f, ""); err != nil {
//	    return err
//	}
//	// f now has "circumference" and "area" columns
//
// Both functions compute every derived column before touching the frame,
// so a failure leaves the frame unchanged.
package geometry

import (
	"math"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
)

// DefaultRadiusColumn is used when the caller passes an empty column name.
const DefaultRadiusColumn = "radius"

// Derived column names.
const (
	ColCircumference = "circumference"
	ColArea          = "area"
	ColSurfaceArea   = "surface_area"
	ColVolume        = "volume"
)

// Shape names a set of derived columns.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSphere Shape = "sphere"
)

// Shapes lists every supported shape.
var Shapes = []Shape{ShapeCircle, ShapeSphere}

// Apply dispatches to the calculation for shape.
func Apply(shape Shape, f *frame.Frame, radius string) error {
	switch shape {
	case ShapeCircle:
		return CircleCalculations(f, radius)
	case ShapeSphere:
		return SphereCalculations(f, radius)
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown shape %q", shape)
}

// CircleCalculations adds circumference (2πr) and area (πr²).
func CircleCalculations(f *frame.Frame, radius string) error {
	return derive(f, radius, []derived{
		{ColCircumference, func(r float64) float64 { return 2 * math.Pi * r }},
		{ColArea, func(r float64) float64 { return math.Pi * math.Pow(r, 2) }},
	})
}

// SphereCalculations adds surface_area (4πr²) and volume (4/3·πr³).
func SphereCalculations(f *frame.Frame, radius string) error {
	return derive(f, radius, []derived{
		{ColSurfaceArea, func(r float64) float64 { return 4 * math.Pi * math.Pow(r, 2) }},
		{ColVolume, func(r float64) float64 { return (4.0 / 3.0) * math.Pi * math.Pow(r, 3) }},
	})
}

type derived struct {
	name string
	fn   func(float64) float64
}

func derive(f *frame.Frame, radius string, cols []derived) error {
	if radius == "" {
		radius = DefaultRadiusColumn
	}
	if !f.Has(radius) {
		return errors.MissingColumn("radius", radius)
	}
	r, err := f.Float64s(radius)
	if err != nil {
		return err
	}

	out := make([][]float64, len(cols))
	for i, c := range cols {
		vals := make([]float64, len(r))
		for j, x := range r {
			vals[j] = c.fn(x)
		}
		out[i] = vals
	}
	for i, c := range cols {
		if err := f.Set(c.name, out[i]); err != nil {
			return err
		}
	}
	return nil
}
