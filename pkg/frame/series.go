package frame

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/pdext/pkg/errors"
)

// Series is one numeric column aligned with the frame's time index.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// Series returns column name paired with the time index.
func (f *Frame) Series(name string) (Series, error) {
	if f.index == nil {
		return Series{}, errors.New(errors.ErrCodeInvalidInput, "frame has no time index")
	}
	vals, err := f.Float64s(name)
	if err != nil {
		return Series{}, err
	}
	return Series{Name: name, Times: append([]time.Time(nil), f.index...), Values: vals}, nil
}

// Agg names a daily aggregation.
type Agg string

// Aggregations accepted by [Resample]. AggNone means the series already
// holds at most one observation per day.
const (
	AggNone   Agg = ""
	AggSum    Agg = "sum"
	AggMean   Agg = "mean"
	AggMedian Agg = "median"
	AggMin    Agg = "min"
	AggMax    Agg = "max"
	AggCount  Agg = "count"
	AggFirst  Agg = "first"
	AggLast   Agg = "last"
	AggStd    Agg = "std"
)

var aggregators = map[Agg]func([]float64) float64{
	AggSum:    floats.Sum,
	AggMean:   func(x []float64) float64 { return stat.Mean(x, nil) },
	AggMedian: median,
	AggMin:    floats.Min,
	AggMax:    floats.Max,
	AggCount:  func(x []float64) float64 { return float64(len(x)) },
	AggFirst:  func(x []float64) float64 { return x[0] },
	AggLast:   func(x []float64) float64 { return x[len(x)-1] },
	AggStd: func(x []float64) float64 {
		if len(x) < 2 {
			return math.NaN()
		}
		return stat.StdDev(x, nil)
	},
	AggNone: func(x []float64) float64 { return x[len(x)-1] },
}

// ParseAgg validates an aggregation name.
func ParseAgg(s string) (Agg, error) {
	a := Agg(s)
	if _, ok := aggregators[a]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown aggregation %q", s)
	}
	return a, nil
}

func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Day truncates t to midnight UTC of its wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Resample aggregates s into one value per calendar day, covering every
// day from the first to the last observation. NaN observations are
// skipped, and a day without finite observations is NaN rather than zero.
func Resample(s Series, how Agg) (Series, error) {
	agg, ok := aggregators[how]
	if !ok {
		return Series{}, errors.New(errors.ErrCodeInvalidInput, "unknown aggregation %q", how)
	}
	if len(s.Times) != len(s.Values) {
		return Series{}, errors.New(errors.ErrCodeInvalidInput,
			"series %q has %d times and %d values", s.Name, len(s.Times), len(s.Values))
	}
	out := Series{Name: s.Name}
	if len(s.Times) == 0 {
		return out, nil
	}

	order := make([]int, len(s.Times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return s.Times[order[a]].Before(s.Times[order[b]]) })

	buckets := make(map[time.Time][]float64)
	first, last := Day(s.Times[order[0]]), Day(s.Times[order[len(order)-1]])
	for _, i := range order {
		v := s.Values[i]
		if math.IsNaN(v) {
			continue
		}
		d := Day(s.Times[i])
		buckets[d] = append(buckets[d], v)
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out.Times = append(out.Times, d)
		if vals := buckets[d]; len(vals) > 0 {
			out.Values = append(out.Values, agg(vals))
		} else {
			out.Values = append(out.Values, math.NaN())
		}
	}
	return out, nil
}

// Lookup indexes a daily series (as returned by [Resample]) by day.
func (s Series) Lookup() map[time.Time]float64 {
	m := make(map[time.Time]float64, len(s.Times))
	for i, t := range s.Times {
		m[Day(t)] = s.Values[i]
	}
	return m
}

// Range returns the minimum and maximum finite values. ok is false when
// the series holds no finite value.
func (s Series) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi, ok = math.Min(lo, v), math.Max(hi, v), true
	}
	return lo, hi, ok
}

// Years returns the distinct years covered by s in ascending order.
func (s Series) Years() []int {
	seen := map[int]bool{}
	var years []int
	for _, t := range s.Times {
		if y := t.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}
