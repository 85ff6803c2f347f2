package calendar

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
)

// TickMode selects which labels of an axis are shown.
type TickMode int

const (
	TicksAll TickMode = iota
	TicksNone
	TicksEvery
	TicksList
)

// Ticks selects label indices: all of them, none, every Nth starting at
// N/2, or an explicit list. The zero value shows all labels.
type Ticks struct {
	Mode    TickMode
	Every   int
	Indices []int
}

// AllTicks, NoTicks, EveryTick and TickList build the four selections.
func AllTicks() Ticks               { return Ticks{Mode: TicksAll} }
func NoTicks() Ticks                { return Ticks{Mode: TicksNone} }
func EveryTick(n int) Ticks         { return Ticks{Mode: TicksEvery, Every: n} }
func TickList(indices ...int) Ticks { return Ticks{Mode: TicksList, Indices: indices} }

// ParseTicks reads "true" or "all", "false" or "none", an integer
// stride, or a comma-separated index list.
func ParseTicks(s string) (Ticks, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	switch spec {
	case "true", "all":
		return AllTicks(), nil
	case "false", "none":
		return NoTicks(), nil
	}
	if !strings.Contains(spec, ",") {
		n, err := strconv.Atoi(spec)
		if err != nil || n <= 0 {
			return Ticks{}, errors.New(errors.ErrCodeInvalidInput, "invalid tick selection %q", s)
		}
		return EveryTick(n), nil
	}
	var idx []int
	for _, part := range strings.Split(spec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return Ticks{}, errors.New(errors.ErrCodeInvalidInput, "invalid tick index %q in %q", part, s)
		}
		idx = append(idx, n)
	}
	return TickList(idx...), nil
}

// Select returns the chosen indices out of n labels.
func (t Ticks) Select(n int) ([]int, error) {
	var out []int
	switch t.Mode {
	case TicksAll:
		for i := 0; i < n; i++ {
			out = append(out, i)
		}
	case TicksNone:
	case TicksEvery:
		if t.Every <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "tick stride must be positive, got %d", t.Every)
		}
		for i := t.Every / 2; i < n; i += t.Every {
			out = append(out, i)
		}
	case TicksList:
		for _, i := range t.Indices {
			if i < 0 || i >= n {
				return nil, errors.New(errors.ErrCodeInvalidInput, "tick index %d out of range [0, %d)", i, n)
			}
			out = append(out, i)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown tick mode %d", t.Mode)
	}
	return out, nil
}

// String formats t the way ParseTicks reads it.
func (t Ticks) String() string {
	switch t.Mode {
	case TicksNone:
		return "none"
	case TicksEvery:
		return strconv.Itoa(t.Every)
	case TicksList:
		parts := make([]string, len(t.Indices))
		for i, n := range t.Indices {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	}
	return "all"
}

// MarshalText implements encoding.TextMarshaler.
func (t Ticks) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Ticks) UnmarshalText(b []byte) error {
	parsed, err := ParseTicks(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalJSON accepts a boolean, a stride, an index array or a string.
func (t *Ticks) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "tick selection")
	}
	switch x := v.(type) {
	case float64:
		n, err := integral(x)
		if err != nil {
			return err
		}
		v = n
	case []any:
		for i, e := range x {
			if f, ok := e.(float64); ok {
				n, err := integral(f)
				if err != nil {
					return err
				}
				x[i] = n
			}
		}
	}
	return t.UnmarshalTOML(v)
}

// integral converts a JSON number to an integer, rejecting fractions.
func integral(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "tick value %v is not an integer", f)
	}
	return int64(f), nil
}

// UnmarshalTOML accepts a boolean, a stride, an index array or a string.
func (t *Ticks) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case bool:
		if x {
			*t = AllTicks()
		} else {
			*t = NoTicks()
		}
	case int64:
		if x <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "tick stride must be positive, got %d", x)
		}
		*t = EveryTick(int(x))
	case string:
		return t.UnmarshalText([]byte(x))
	case []any:
		idx := make([]int, len(x))
		for i, e := range x {
			var n int64
			switch e := e.(type) {
			case int64:
				n = e
			default:
				return errors.New(errors.ErrCodeInvalidInput, "tick index %v is not an integer", e)
			}
			if n < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "tick index %d is negative", n)
			}
			idx[i] = int(n)
		}
		*t = TickList(idx...)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid tick selection %v", v)
	}
	return nil
}

// Options configures a calendar heatmap.
type Options struct {
	// Columns are the value columns, one panel row each. Empty uses every
	// numeric column except TimeColumn.
	Columns []string `toml:"columns" json:"columns,omitempty"`
	// TimeColumn names the timestamps. Empty uses the frame's time index.
	TimeColumn string `toml:"time_column" json:"time_column,omitempty"`
	TimeLayout string `toml:"time_layout" json:"time_layout,omitempty"`
	// Year restricts the chart to one year. Zero draws every year.
	Year int `toml:"year" json:"year,omitempty"`
	// How aggregates observations per day. Empty means the data is
	// already daily.
	How frame.Agg `toml:"how" json:"how"`
	// VMin and VMax anchor the colour scale. Nil uses each column's own
	// minimum and maximum after resampling.
	VMin *float64 `toml:"vmin" json:"vmin,omitempty"`
	VMax *float64 `toml:"vmax" json:"vmax,omitempty"`
	// ColourMaps are cycled over the columns.
	ColourMaps  []string   `toml:"colour_maps" json:"colour_maps"`
	FillColour  string     `toml:"fill_colour" json:"fill_colour"`
	LineWidth   float64    `toml:"line_width" json:"line_width"`
	LineColour  string     `toml:"line_colour" json:"line_colour"`
	DayLabels   []string   `toml:"day_labels" json:"day_labels"`
	DayTicks    Ticks      `toml:"day_ticks" json:"day_ticks"`
	MonthLabels []string   `toml:"month_labels" json:"month_labels"`
	MonthTicks  Ticks      `toml:"month_ticks" json:"month_ticks"`
	BaseFigSize [2]float64 `toml:"base_figsize" json:"base_figsize"`
	// FontSize and VGap override the sizes picked from the panel count.
	FontSize *float64 `toml:"font_size" json:"font_size,omitempty"`
	VGap     *float64 `toml:"vgap" json:"vgap,omitempty"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		How:         frame.AggSum,
		ColourMaps:  []string{"Purples", "Reds", "Blues", "Greys"},
		FillColour:  "whitesmoke",
		LineWidth:   1,
		LineColour:  "white",
		DayLabels:   []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		MonthLabels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		BaseFigSize: [2]float64{15, 5},
	}
}

// Sizes picks the font size in points and the vertical gap between years
// in inches for a chart of the given shape.
func Sizes(years, columns int) (fontSize, vgap float64) {
	switch {
	case years == 1 || columns >= 3:
		return 15, 5
	case years == 2:
		if columns == 1 {
			return 30, 0.5
		}
		return 30, 5
	case columns == 1:
		return 50, 3
	case columns == 2:
		return 20, 4
	}
	return 15, 5
}
