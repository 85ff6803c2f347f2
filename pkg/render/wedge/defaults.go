package wedge

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/pdext/pkg/errors"
)

// Geometry is the per-ring colour scale, outer radius and width.
type Geometry struct {
	Colours    []string
	Radius     []float64
	WedgeWidth []float64
}

// MaxDefaultRings is the largest ring count with built-in geometry.
const MaxDefaultRings = 5

var (
	defaultColours = []string{"Purples", "Greens", "OrRd", "Blues", "RdPu"}
	defaultRadius  = []float64{0.5, 0.7, 0.9, 1.1, 1.3}
	defaultWidths  = []float64{0.3, 0.2, 0.2, 0.2, 0.2}
)

// DefaultGeometry returns the built-in geometry for n rings. ok is false
// for n outside 1..MaxDefaultRings, in which case every list must be
// supplied by the caller.
func DefaultGeometry(n int) (g Geometry, ok bool) {
	if n < 1 || n > MaxDefaultRings {
		return Geometry{}, false
	}
	return Geometry{
		Colours:    append([]string(nil), defaultColours[:n]...),
		Radius:     append([]float64(nil), defaultRadius[:n]...),
		WedgeWidth: append([]float64(nil), defaultWidths[:n]...),
	}, true
}

// TickGenerator produces colour-bar ticks for one ring's values.
type TickGenerator interface {
	Ticks(values []float64, roundTo float64) (ticks []float64, labels []string)
}

// TickFunc adapts a function to TickGenerator.
type TickFunc func(values []float64, roundTo float64) ([]float64, []string)

// Ticks implements TickGenerator.
func (f TickFunc) Ticks(values []float64, roundTo float64) ([]float64, []string) {
	return f(values, roundTo)
}

// DefaultTicks places ticks at the minimum, the rounded midpoint and the
// maximum, each labelled rounded to the nearest multiple of roundTo.
var DefaultTicks TickGenerator = TickFunc(defaultTicks)

func defaultTicks(values []float64, roundTo float64) ([]float64, []string) {
	lo, hi := finiteRange(values)
	round := func(x float64) float64 {
		if roundTo == 0 {
			return x
		}
		return roundTo * math.RoundToEven(x/roundTo)
	}
	ticks := []float64{lo, round((lo + hi) / 2), hi}
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = formatNumber(round(t))
	}
	return ticks, labels
}

// LabelFormatter turns a wedge value into its label.
type LabelFormatter interface {
	Format(v float64) string
}

// FormatFunc adapts a function to LabelFormatter.
type FormatFunc func(float64) string

// Format implements LabelFormatter.
func (f FormatFunc) Format(v float64) string { return f(v) }

// Printf formats values with a fmt verb such as "%.1f%%".
type Printf string

// Format implements LabelFormatter.
func (p Printf) Format(v float64) string { return fmt.Sprintf(string(p), v) }

// validateVerb rejects format strings that do not consume exactly one
// float.
func validateVerb(format string) error {
	if out := fmt.Sprintf(format, 1.5); strings.Contains(out, "%!") {
		return errors.New(errors.ErrCodeInvalidInput, "invalid wedge label format %q", format)
	}
	return nil
}

// DefaultFormat prints the shortest decimal form of the value.
var DefaultFormat LabelFormatter = FormatFunc(formatNumber)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finiteRange(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if lo > hi {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}
