// Package frame is the tabular input shared by every chart in pdext.
//
// A [Frame] is a thin wrapper around a go-gg [table.Table]: named,
// equal-length columns plus an optional time index with one timestamp
// per row. Chart builders read columns through [Frame.Float64s] and
// [Frame.Strings], which convert whatever the table stores (ints, floats,
// uncoerced strings) into the shape the chart needs and report missing or
// non-numeric columns as structured errors.
//
// Frames are not safe for concurrent mutation. [Frame.Set] and
// [Frame.SetTimeIndex] modify the receiver in place; everything else only
// reads.
package frame

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/pdext/pkg/errors"
)

// Frame is a column-oriented table with an optional time index.
type Frame struct {
	tab   *table.Table
	index []time.Time
}

// New wraps tab. A nil table yields an empty frame.
func New(tab *table.Table) *Frame {
	if tab == nil {
		tab = new(table.Builder).Done()
	}
	return &Frame{tab: tab}
}

// FromRecords builds a frame from a header and string rows, coercing
// columns to []int or []float64 where every cell parses.
func FromRecords(header []string, rows [][]string) (*Frame, error) {
	if len(header) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "header has no columns")
	}
	if err := errors.ValidateColumnNames(header); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", h)
		}
		seen[h] = true
	}
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"row %d has %d fields, header has %d", i+1, len(r), len(header))
		}
	}
	return New(table.TableFromStrings(header, rows, true)), nil
}

// Table returns the underlying go-gg table.
func (f *Frame) Table() *table.Table { return f.tab }

// Len returns the number of rows.
func (f *Frame) Len() int { return f.tab.Len() }

// Columns returns the column names in order.
func (f *Frame) Columns() []string { return f.tab.Columns() }

// Has reports whether name is a column.
func (f *Frame) Has(name string) bool { return f.tab.Column(name) != nil }

// Index returns the time index, or nil when the frame has none.
func (f *Frame) Index() []time.Time { return f.index }

// HasTimeIndex reports whether the frame carries a time index.
func (f *Frame) HasTimeIndex() bool { return f.index != nil }

// IndexLabels returns one display label per row: the formatted timestamp
// when the frame has a time index, otherwise the row number.
func (f *Frame) IndexLabels() []string {
	labels := make([]string, f.Len())
	if f.index == nil {
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
		return labels
	}
	layout := "2006-01-02"
	for _, t := range f.index {
		if h, m, s := t.Clock(); h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0 {
			layout = "2006-01-02 15:04:05"
			break
		}
	}
	for i, t := range f.index {
		labels[i] = t.Format(layout)
	}
	return labels
}

// Float64s returns a copy of column name as float64 values. Cells that
// were left as strings are parsed; blanks and NaN markers become NaN.
func (f *Frame) Float64s(name string) ([]float64, error) {
	col := f.tab.Column(name)
	if col == nil {
		return nil, errors.MissingColumn("", name)
	}
	switch v := col.(type) {
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	case []string:
		out := make([]float64, len(v))
		for i, s := range v {
			x, err := parseCell(s)
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"column %q row %d: %q is not a number", name, i, s)
			}
			out[i] = x
		}
		return out, nil
	case []time.Time:
		return nil, errors.New(errors.ErrCodeInvalidInput, "column %q holds timestamps, not numbers", name)
	}
	return convertFloat64s(name, col)
}

func convertFloat64s(name string, col slice.T) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.New(errors.ErrCodeInvalidInput, "column %q is not numeric", name)
		}
	}()
	slice.Convert(&out, col)
	return out, nil
}

var nanMarkers = map[string]bool{"": true, "nan": true, "na": true, "n/a": true, "null": true, "none": true}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if nanMarkers[strings.ToLower(s)] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Strings returns column name formatted as strings.
func (f *Frame) Strings(name string) ([]string, error) {
	col := f.tab.Column(name)
	if col == nil {
		return nil, errors.MissingColumn("", name)
	}
	if v, ok := col.([]string); ok {
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	}
	rv := reflect.ValueOf(col)
	out := make([]string, rv.Len())
	for i := range out {
		switch x := rv.Index(i).Interface().(type) {
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case time.Time:
			out[i] = x.Format(time.RFC3339)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out, nil
}

// NumericColumns returns the columns that convert to float64.
func (f *Frame) NumericColumns() []string {
	var cols []string
	for _, c := range f.Columns() {
		if _, err := f.Float64s(c); err == nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// Set adds or replaces column name. values must be a slice with one
// element per row.
func (f *Frame) Set(name string, values slice.T) error {
	if err := errors.ValidateColumnName(name); err != nil {
		return err
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return errors.New(errors.ErrCodeInvalidInput, "column %q: %T is not a slice", name, values)
	}
	if n := f.Len(); len(f.Columns()) > 0 && rv.Len() != n {
		return errors.New(errors.ErrCodeInvalidInput,
			"column %q has %d values, frame has %d rows", name, rv.Len(), n)
	}
	f.tab = table.NewBuilder(f.tab).Add(name, values).Done()
	return nil
}

// SetTimeIndex promotes column name to the time index. The column stays
// in the table. Columns that already hold time.Time are used as-is;
// string columns are parsed with layout, falling back to the common date
// layouts when layout is empty.
func (f *Frame) SetTimeIndex(name, layout string) error {
	col := f.tab.Column(name)
	if col == nil {
		return errors.MissingColumn("time", name)
	}
	if ts, ok := col.([]time.Time); ok {
		f.index = append([]time.Time(nil), ts...)
		return nil
	}
	raw, err := f.Strings(name)
	if err != nil {
		return err
	}
	idx := make([]time.Time, len(raw))
	for i, s := range raw {
		t, err := ParseTime(s, layout)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "column %q row %d", name, i)
		}
		idx[i] = t
	}
	f.index = idx
	return nil
}

// SetIndex installs idx as the time index directly.
func (f *Frame) SetIndex(idx []time.Time) error {
	if idx != nil && len(idx) != f.Len() {
		return errors.New(errors.ErrCodeInvalidInput,
			"index has %d entries, frame has %d rows", len(idx), f.Len())
	}
	f.index = idx
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseTime parses s with layout, or with each common layout in turn when
// layout is empty.
func ParseTime(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if layout != "" {
		return time.Parse(layout, s)
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}
