package calendar

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/pdext/pkg/colors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/render/figure"
)

// Panel placement in figure fractions. The right margin leaves room for
// the day labels.
const (
	panelLeft  = 0.03
	panelWidth = 0.88
)

// Plot computes the calendar and draws it. The axes are indexed by year,
// then column.
func Plot(f *frame.Frame, opts Options) (*figure.Figure, [][]*figure.Axes, *Calendar, error) {
	cal, err := Compute(f, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	fig, axes, err := Draw(cal, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return fig, axes, cal, nil
}

// Draw lays computed grids out top to bottom, by year and then column.
// opts supplies the colours and line style.
func Draw(cal *Calendar, opts Options) (*figure.Figure, [][]*figure.Axes, error) {
	baseH := opts.BaseFigSize[1]
	if baseH <= 0 {
		baseH = DefaultOptions().BaseFigSize[1]
	}
	width, height := cal.FigSize[0], cal.FigSize[1]
	if width <= 0 || height <= 0 {
		def := DefaultOptions().BaseFigSize
		width, height = def[0], def[1]
	}
	fig := figure.New(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch)

	fill, err := colors.Parse(opts.FillColour)
	if err != nil {
		return nil, nil, err
	}
	lc, err := colors.Parse(opts.LineColour)
	if err != nil {
		return nil, nil, err
	}
	edge, err := figure.LineStyle(lc, opts.LineWidth, "-")
	if err != nil {
		return nil, nil, err
	}
	sty, err := figure.Font{Size: figure.FontSize(strconv.FormatFloat(cal.FontSize, 'f', -1, 64))}.TextStyle()
	if err != nil {
		return nil, nil, err
	}

	nc := len(cal.Columns)
	rowH := baseH / float64(nc)
	axes := make([][]*figure.Axes, len(cal.Years))
	for yi, year := range cal.Years {
		for ci, col := range cal.Columns {
			g := cal.Grid(year, col)
			top := height - float64(yi)*(baseH+cal.VGap) - float64(ci)*rowH
			ax := fig.AddAxes(figure.Rect{
				Left:   panelLeft,
				Bottom: (top - rowH) / height,
				Width:  panelWidth,
				Height: rowH / height,
			})
			ax.EqualAspect = true
			if err := drawGrid(ax.Plot, g, cal, fill, edge, sty); err != nil {
				return nil, nil, err
			}
			if ci == nc-1 {
				monthAxis(ax.Plot, g, cal, sty)
			}
			axes[yi] = append(axes[yi], ax)
		}
	}
	return fig, axes, nil
}

func drawGrid(p *plot.Plot, g *Grid, cal *Calendar, fill color.Color, edge draw.LineStyle, sty text.Style) error {
	cm, err := colors.Lookup(g.Scale)
	if err != nil {
		return err
	}
	norm := colors.Normalize{Min: g.VMin, Max: g.VMax, Clip: true}

	var background, cells figure.Patches
	for r := range g.Values {
		for c, v := range g.Values[r] {
			if !g.Present[r][c] {
				continue
			}
			box := figure.Rectangle(float64(c), float64(r), float64(c+1), float64(r+1))
			background = append(background, figure.Patch{Points: box, Fill: fill})
			if !math.IsNaN(v) {
				cells = append(cells, figure.Patch{Points: box, Fill: colors.At(cm, norm.Apply(v)), Line: edge})
			}
		}
	}

	weeks := float64(g.Weeks())
	texts := figure.Texts{{
		Text:   g.Column,
		X:      0,
		Y:      1,
		Coords: figure.AxesFraction,
		Style:  figure.Aligned(sty, draw.XLeft, draw.YBottom, 0),
	}}
	for _, i := range cal.DayTicks {
		texts = append(texts, figure.Label{
			Text:   cal.DayLabels[i],
			X:      weeks + 0.3,
			Y:      float64(DaysPerWeek-1-i) + 0.5,
			Coords: figure.Data,
			Style:  figure.Aligned(sty, draw.XLeft, draw.YCenter, 0),
		})
	}
	p.Add(background, cells, texts)
	p.X.Min, p.X.Max = 0, weeks
	p.Y.Min, p.Y.Max = 0, DaysPerWeek
	return nil
}

// monthAxis labels the bottom panel of a year with months and the year.
func monthAxis(p *plot.Plot, g *Grid, cal *Calendar, sty text.Style) {
	ticks := make([]plot.Tick, 0, len(cal.MonthTicks))
	for _, m := range cal.MonthTicks {
		ticks = append(ticks, plot.Tick{Value: g.MonthTicks[m], Label: cal.MonthLabels[m]})
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Font = sty.Font
	p.X.Label.Text = strconv.Itoa(g.Year)
	p.X.Label.TextStyle.Font = sty.Font
}
