// Package calendar draws year heatmaps in the style of a contributions
// calendar: one 7-row grid per year and column, with a cell per day
// placed by ISO week (column) and weekday (row).
//
// Observations are resampled to one value per day first. Days of the year
// without data are masked and show only the fill colour; days outside the
// year are left out.
package calendar

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
)

// DaysPerWeek is the number of grid rows.
const DaysPerWeek = 7

// Grid is one year of one column. Rows run bottom to top, so row 0 is
// Sunday and row 6 Monday; column j is week FirstWeek+j.
type Grid struct {
	Year      int
	Column    string
	Scale     string
	FirstWeek int
	// Values holds the daily value per cell, NaN where masked.
	Values [DaysPerWeek][]float64
	// Present marks cells that are days of the year.
	Present [DaysPerWeek][]bool
	// Dates holds the day of each present cell.
	Dates [DaysPerWeek][]time.Time
	VMin  float64
	VMax  float64
	// MonthTicks are the week positions of the 15th of each month.
	MonthTicks [12]float64
}

// Weeks returns the number of grid columns.
func (g *Grid) Weeks() int { return len(g.Values[0]) }

// Missing counts present days without data.
func (g *Grid) Missing() int {
	n := 0
	for r := range g.Values {
		for c, v := range g.Values[r] {
			if g.Present[r][c] && math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// MarshalJSON encodes masked cells as null and absent cells as omitted
// from the cell list.
func (g *Grid) MarshalJSON() ([]byte, error) {
	type cell struct {
		Date  string   `json:"date"`
		Week  int      `json:"week"`
		Day   int      `json:"day"`
		Value *float64 `json:"value"`
	}
	out := struct {
		Year       int         `json:"year"`
		Column     string      `json:"column"`
		Scale      string      `json:"scale"`
		FirstWeek  int         `json:"first_week"`
		Weeks      int         `json:"weeks"`
		VMin       float64     `json:"vmin"`
		VMax       float64     `json:"vmax"`
		MonthTicks [12]float64 `json:"month_ticks"`
		Cells      []cell      `json:"cells"`
	}{
		Year: g.Year, Column: g.Column, Scale: g.Scale, FirstWeek: g.FirstWeek,
		Weeks: g.Weeks(), VMin: g.VMin, VMax: g.VMax, MonthTicks: g.MonthTicks,
	}
	for c := 0; c < g.Weeks(); c++ {
		for r := DaysPerWeek - 1; r >= 0; r-- {
			if !g.Present[r][c] {
				continue
			}
			ce := cell{
				Date: g.Dates[r][c].Format("2006-01-02"),
				Week: g.FirstWeek + c,
				Day:  DaysPerWeek - 1 - r,
			}
			if v := g.Values[r][c]; !math.IsNaN(v) {
				ce.Value = &v
			}
			out.Cells = append(out.Cells, ce)
		}
	}
	return json.Marshal(out)
}

// Calendar is the computed chart: Grids is ordered by year, then column.
type Calendar struct {
	Years       []int      `json:"years"`
	Columns     []string   `json:"columns"`
	Grids       []*Grid    `json:"grids"`
	FontSize    float64    `json:"font_size"`
	VGap        float64    `json:"vgap"`
	FigSize     [2]float64 `json:"figsize"`
	DayTicks    []int      `json:"day_ticks"`
	MonthTicks  []int      `json:"month_ticks"`
	DayLabels   []string   `json:"day_labels"`
	MonthLabels []string   `json:"month_labels"`
}

// Grid returns the grid for a year and column, or nil.
func (c *Calendar) Grid(year int, column string) *Grid {
	for _, g := range c.Grids {
		if g.Year == year && g.Column == column {
			return g
		}
	}
	return nil
}

// Weekday returns the day of the week of t with Monday = 0.
func Weekday(t time.Time) int { return (int(t.Weekday()) + 6) % 7 }

// Compute resamples the columns of f and builds every grid.
func Compute(f *frame.Frame, opts Options) (*Calendar, error) {
	if len(opts.DayLabels) != DaysPerWeek {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need 7 day labels, got %d", len(opts.DayLabels))
	}
	if len(opts.MonthLabels) != 12 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need 12 month labels, got %d", len(opts.MonthLabels))
	}
	if len(opts.ColourMaps) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need at least one colour map")
	}
	dayTicks, err := opts.DayTicks.Select(DaysPerWeek)
	if err != nil {
		return nil, err
	}
	monthTicks, err := opts.MonthTicks.Select(12)
	if err != nil {
		return nil, err
	}

	src, err := timeIndexed(f, opts)
	if err != nil {
		return nil, err
	}
	cols := opts.Columns
	if len(cols) == 0 {
		for _, c := range src.NumericColumns() {
			if c != opts.TimeColumn {
				cols = append(cols, c)
			}
		}
	}
	if len(cols) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "calendar needs at least one value column")
	}

	daily := make([]frame.Series, len(cols))
	yearSet := map[int]bool{}
	for i, c := range cols {
		s, err := src.Series(c)
		if err != nil {
			return nil, err
		}
		if daily[i], err = frame.Resample(s, opts.How); err != nil {
			return nil, err
		}
		for _, y := range daily[i].Years() {
			yearSet[y] = true
		}
	}
	var years []int
	for y := range yearSet {
		if opts.Year == 0 || y == opts.Year {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		if opts.Year != 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "no data for year %d", opts.Year)
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "no data to draw")
	}
	sort.Ints(years)

	fs, vgap := Sizes(len(years), len(cols))
	if opts.FontSize != nil {
		fs = *opts.FontSize
	}
	if opts.VGap != nil {
		vgap = *opts.VGap
	}
	n := float64(len(years))
	cal := &Calendar{
		Years:       years,
		Columns:     cols,
		FontSize:    fs,
		VGap:        vgap,
		FigSize:     [2]float64{opts.BaseFigSize[0] * n, opts.BaseFigSize[1]*n + vgap*(n-1)},
		DayTicks:    dayTicks,
		MonthTicks:  monthTicks,
		DayLabels:   opts.DayLabels,
		MonthLabels: opts.MonthLabels,
	}

	type limits struct{ lo, hi float64 }
	lims := make([]limits, len(cols))
	for i, s := range daily {
		lo, hi, ok := s.Range()
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column %q has no values", cols[i])
		}
		if opts.VMin != nil {
			lo = *opts.VMin
		}
		if opts.VMax != nil {
			hi = *opts.VMax
		}
		lims[i] = limits{lo, hi}
	}

	for _, y := range years {
		for i, c := range cols {
			g := BuildGrid(y, daily[i].Lookup())
			g.Column = c
			g.Scale = opts.ColourMaps[i%len(opts.ColourMaps)]
			g.VMin, g.VMax = lims[i].lo, lims[i].hi
			cal.Grids = append(cal.Grids, g)
		}
	}
	return cal, nil
}

// timeIndexed returns f with the time index the options ask for.
func timeIndexed(f *frame.Frame, opts Options) (*frame.Frame, error) {
	if opts.TimeColumn == "" {
		if !f.HasTimeIndex() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "calendar needs a time index or a time column")
		}
		return f, nil
	}
	cp := *f
	if err := cp.SetTimeIndex(opts.TimeColumn, opts.TimeLayout); err != nil {
		return nil, err
	}
	return &cp, nil
}

// week returns the ISO week of t, corrected so that the year's grid
// columns are contiguous: January days in the previous year's last week
// go to week 0, December days in next year's first week go to
// lastWeek+1.
func week(t time.Time, lastWeek int) int {
	_, w := t.ISOWeek()
	switch {
	case t.Month() == time.January && w > 50:
		return 0
	case t.Month() == time.December && w < 10:
		return lastWeek + 1
	}
	return w
}

// BuildGrid lays one year of daily values out by week and weekday. Days
// missing from values are masked.
func BuildGrid(year int, values map[time.Time]float64) *Grid {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	// the largest week once the January fix is applied
	last := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		_, w := d.ISOWeek()
		if d.Month() == time.January && w > 50 {
			w = 0
		}
		last = max(last, w)
	}

	first, lastCol := math.MaxInt, 0
	weeks := map[time.Time]int{}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		w := week(d, last)
		weeks[d] = w
		first = min(first, w)
		lastCol = max(lastCol, w)
	}

	g := &Grid{Year: year, FirstWeek: first}
	n := lastCol - first + 1
	for r := range g.Values {
		g.Values[r] = make([]float64, n)
		g.Present[r] = make([]bool, n)
		g.Dates[r] = make([]time.Time, n)
		for c := range g.Values[r] {
			g.Values[r][c] = math.NaN()
		}
	}
	for d, w := range weeks {
		r, c := DaysPerWeek-1-Weekday(d), w-first
		g.Present[r][c] = true
		g.Dates[r][c] = d
		if v, ok := values[d]; ok {
			g.Values[r][c] = v
		}
	}
	for m := 0; m < 12; m++ {
		g.MonthTicks[m] = float64(weeks[time.Date(year, time.Month(m+1), 15, 0, 0, 0, 0, time.UTC)])
	}
	return g
}
