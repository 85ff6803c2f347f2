package calendar

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/pdext/pkg/colors"
	"github.com/matzehuels/pdext/pkg/errors"
)

// scaleStops is the number of colours the interactive legend samples
// from each scale.
const scaleStops = 9

// RenderHTML exports the grids as an interactive page with one heatmap
// per year and column.
func RenderHTML(cal *Calendar) ([]byte, error) {
	page := components.NewPage()
	for _, g := range cal.Grids {
		hm, err := heatmap(g, cal)
		if err != nil {
			return nil, err
		}
		page.AddCharts(hm)
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render calendar page")
	}
	return buf.Bytes(), nil
}

func heatmap(g *Grid, cal *Calendar) (*charts.HeatMap, error) {
	cm, err := colors.Lookup(g.Scale)
	if err != nil {
		return nil, err
	}
	stops := make([]string, 0, scaleStops)
	for _, c := range cm.Palette(scaleStops).Colors() {
		stops = append(stops, colors.Hex(c))
	}

	weeks := make([]string, g.Weeks())
	for c := range weeks {
		weeks[c] = strconv.Itoa(g.FirstWeek + c)
	}
	// category rows run bottom to top like the grid
	days := make([]string, DaysPerWeek)
	for r := range days {
		days[r] = cal.DayLabels[DaysPerWeek-1-r]
	}

	var data []opts.HeatMapData
	for r := range g.Values {
		for c, v := range g.Values[r] {
			if !g.Present[r][c] || math.IsNaN(v) {
				continue
			}
			data = append(data, opts.HeatMapData{
				Name:  g.Dates[r][c].Format("2006-01-02"),
				Value: [3]interface{}{c, r, v},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s %d", g.Column, g.Year),
			Width:     "1200px",
			Height:    "260px",
		}),
		charts.WithTitleOpts(opts.Title{Title: g.Column, Subtitle: strconv.Itoa(g.Year)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "week"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: days}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(g.VMin),
			Max:        float32(g.VMax),
			InRange:    &opts.VisualMapInRange{Color: stops},
		}),
	)
	hm.SetXAxis(weeks).AddSeries(g.Column, data)
	return hm, nil
}
