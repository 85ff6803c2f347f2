package wedge

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/pdext/pkg/colors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/render/figure"
)

// legendSteps is the number of colour bands in a legend bar.
const legendSteps = 64

// Plot lays out f and draws the chart.
func Plot(f *frame.Frame, opts Options) (*figure.Figure, *Chart, error) {
	ch, err := Layout(f, opts)
	if err != nil {
		return nil, nil, err
	}
	fig, err := Draw(ch)
	if err != nil {
		return nil, nil, err
	}
	return fig, ch, nil
}

// Draw renders a laid out chart onto a new figure.
func Draw(ch *Chart) (*figure.Figure, error) {
	w, h := ch.Style.FigSize[0], ch.Style.FigSize[1]
	if w <= 0 || h <= 0 {
		def := DefaultOptions().Style.FigSize
		w, h = def[0], def[1]
	}
	fig := figure.New(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch)

	ax := fig.AddAxes(figure.DefaultSubplot)
	ax.EqualAspect = true

	edge, err := edgeStyle(ch.Style)
	if err != nil {
		return nil, err
	}
	patches := make(figure.Patches, 0, len(ch.Shapes))
	for _, s := range ch.Shapes {
		fill, err := colors.Parse(s.Fill)
		if err != nil {
			return nil, err
		}
		p := figure.Patch{Fill: colors.WithAlpha(fill, s.Alpha)}
		if s.Kind == KindCentre {
			p.Points = figure.Circle(s.Radius)
		} else {
			p.Points = figure.Wedge(s.Radius, s.Width, s.Theta1, s.Theta2)
		}
		if s.Edge {
			p.Line = edge
		}
		patches = append(patches, p)
	}
	ax.Plot.Add(patches)

	texts := make(figure.Texts, 0, len(ch.Texts))
	for _, t := range ch.Texts {
		l, err := dataLabel(t)
		if err != nil {
			return nil, err
		}
		texts = append(texts, l)
	}
	ax.Plot.Add(texts)
	// Add widens the range to the data; pin it afterwards.
	ax.Plot.X.Min, ax.Plot.X.Max = -Limit, Limit
	ax.Plot.Y.Min, ax.Plot.Y.Max = -Limit, Limit

	for _, lg := range ch.Legends {
		if err := drawLegend(fig, lg); err != nil {
			return nil, err
		}
	}

	if ch.Title != nil {
		sty, err := ch.Title.Font.TextStyle()
		if err != nil {
			return nil, err
		}
		fig.AddText(figure.Label{
			Text:  ch.Title.Text,
			X:     ch.Title.X,
			Y:     ch.Title.Y,
			Style: figure.Aligned(sty, draw.XCenter, draw.YTop, 0),
		})
	}
	return fig, nil
}

func edgeStyle(s StyleOptions) (draw.LineStyle, error) {
	c, err := colors.Parse(s.EdgeColour)
	if err != nil {
		return draw.LineStyle{}, err
	}
	return figure.LineStyle(c, s.LineWidth, s.LineStyle)
}

func dataLabel(t Text) (figure.Label, error) {
	sty, err := t.Font.TextStyle()
	if err != nil {
		return figure.Label{}, err
	}
	ha, err := figure.ParseHAlign(t.HAlign)
	if err != nil {
		return figure.Label{}, err
	}
	va, err := figure.ParseVAlign(t.VAlign)
	if err != nil {
		return figure.Label{}, err
	}
	return figure.Label{
		Text:   t.Text,
		X:      t.X,
		Y:      t.Y,
		Coords: figure.Data,
		Style:  figure.Aligned(sty, ha, va, t.Rotation),
	}, nil
}

// drawLegend adds a colour bar on its own axes. The bar runs along x for
// horizontal legends and along y for vertical ones.
func drawLegend(fig *figure.Figure, lg Legend) error {
	cm, err := colors.Lookup(lg.Scale)
	if err != nil {
		return err
	}
	lo, hi := lg.VMin, lg.VMax
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	cm.SetAlpha(lg.Alpha)
	vertical := lg.Orientation == "vertical"

	band := func(a, b float64) []figure.Point {
		if vertical {
			return figure.Rectangle(0, a, 1, b)
		}
		return figure.Rectangle(a, 0, b, 1)
	}
	patches := make(figure.Patches, 0, legendSteps+1)
	step := (hi - lo) / legendSteps
	for i := 0; i < legendSteps; i++ {
		a := lo + float64(i)*step
		patches = append(patches, figure.Patch{
			Points: band(a, a+step),
			Fill:   colors.At(cm, a+step/2),
		})
	}
	outline, err := figure.LineStyle(colors.MustParse("k"), 0.8, "-")
	if err != nil {
		return err
	}
	patches = append(patches, figure.Patch{Points: band(lo, hi), Line: outline})

	ax := fig.AddAxes(lg.Rect)
	p := ax.Plot
	p.Add(patches)

	axis := &p.X
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = 0, 1
	if vertical {
		axis = &p.Y
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = lo, hi
	}

	ticks := make([]plot.Tick, len(lg.Ticks))
	for i, v := range lg.Ticks {
		ticks[i] = plot.Tick{Value: v, Label: lg.TickLabels[i]}
	}
	axis.Tick.Marker = plot.ConstantTicks(ticks)
	axis.Tick.Length = vg.Points(3.5)

	labelStyle, err := lg.Font.TextStyle()
	if err != nil {
		return err
	}
	tickStyle, err := figure.Font{}.TextStyle()
	if err != nil {
		return err
	}
	axis.Tick.Label.Font = tickStyle.Font
	axis.Label.Text = lg.Label
	axis.Label.TextStyle.Font = labelStyle.Font
	return nil
}
