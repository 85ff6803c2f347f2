package wedge

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
)

func months() *frame.Frame {
	return frame.New(new(table.Builder).
		Add("month", []string{"Jan", "Feb", "Mar", "Apr"}).
		Add("temp", []float64{1, 2, 3, 4}).
		Add("rain", []float64{10, 20, 30, 40}).
		Done())
}

func defaults() Options {
	o := DefaultOptions()
	o.Data.SliceLabels = "month"
	return o
}

func countKind(ch *Chart, kind string) int {
	n := 0
	for _, s := range ch.Shapes {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestLayoutGeometry(t *testing.T) {
	ch, err := Layout(months(), defaults())
	require.NoError(t, err)

	assert.Equal(t, 4, ch.Slices)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr"}, ch.SliceLabels)
	assert.InDelta(t, 360*0.43/4, ch.SliceAngle, 1e-12)
	assert.InDelta(t, 0.2, ch.Hole, 1e-12)

	require.Len(t, ch.Rings, 2)
	assert.Equal(t, "temp", ch.Rings[0].Column)
	assert.Equal(t, "rain", ch.Rings[1].Column)
	assert.Equal(t, 0.5, ch.Rings[0].Radius)
	assert.Equal(t, 0.3, ch.Rings[0].Width)
	assert.Equal(t, 0.7, ch.Rings[1].Radius)
	assert.Equal(t, "Purples", ch.Rings[0].Scale)
	assert.Equal(t, "Greens", ch.Rings[1].Scale)
	assert.Equal(t, 1.0, ch.Rings[0].VMin)
	assert.Equal(t, 4.0, ch.Rings[0].VMax)

	assert.Equal(t, 1, countKind(ch, KindCentre))
	assert.Equal(t, 4, countKind(ch, KindBacking))
	assert.Equal(t, 8, countKind(ch, KindWedge))
	assert.Equal(t, 0, countKind(ch, KindRingLabel))
	assert.Len(t, ch.Legends, 2)
	assert.Nil(t, ch.Title)
}

func TestLayoutDrawOrder(t *testing.T) {
	ch, err := Layout(months(), defaults())
	require.NoError(t, err)

	assert.Equal(t, KindCentre, ch.Shapes[0].Kind)
	for _, s := range ch.Shapes[1:5] {
		assert.Equal(t, KindBacking, s.Kind)
		assert.Equal(t, 0.7, s.Radius, "backing spans the outer radius")
		assert.False(t, s.Edge)
	}
	// rings are drawn outer to inner
	assert.Equal(t, 1, ch.Shapes[5].Ring)
	assert.Equal(t, 0, ch.Shapes[len(ch.Shapes)-1].Ring)
}

func TestLayoutColoursFollowValues(t *testing.T) {
	ch, err := Layout(months(), defaults())
	require.NoError(t, err)

	fills := map[int]string{}
	for _, s := range ch.Shapes {
		if s.Kind == KindWedge && s.Ring == 0 {
			fills[s.Slice] = s.Fill
		}
	}
	require.Len(t, fills, 4)
	assert.NotEqual(t, fills[0], fills[3], "lowest and highest values share a colour")
}

func TestLayoutDefaultRingsSkipSliceLabels(t *testing.T) {
	f := frame.New(new(table.Builder).
		Add("id", []float64{7, 8, 9}).
		Add("v", []float64{1, 2, 3}).
		Done())
	opts := DefaultOptions()
	opts.Data.SliceLabels = "id"
	ch, err := Layout(f, opts)
	require.NoError(t, err)
	require.Len(t, ch.Rings, 1)
	assert.Equal(t, "v", ch.Rings[0].Column)
	assert.Equal(t, []string{"7", "8", "9"}, ch.SliceLabels)
}

func TestLayoutIndexLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.Data.Rings = []string{"temp"}
	ch, err := Layout(months(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3"}, ch.SliceLabels)
}

func TestLayoutExplode(t *testing.T) {
	opts := defaults()
	opts.Labels.Explode = 0.1
	ch, err := Layout(months(), opts)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ch.Rings[0].Radius, 1e-12)
	assert.InDelta(t, 0.8, ch.Rings[1].Radius, 1e-12)
	assert.InDelta(t, 0.1, ch.Hole, 1e-12)
}

func TestSliceLabelAlignment(t *testing.T) {
	opts := defaults()
	opts.Display.HideWedgeLabel = true
	opts.Display.HideCentreCircle = true
	ch, err := Layout(months(), opts)
	require.NoError(t, err)

	require.Len(t, ch.Texts, 4)
	angle := 360 * 0.43 / 4
	for i, tx := range ch.Texts {
		mid := -30 + (float64(i)+0.5)*angle
		want := "right"
		if mid >= -90 && mid <= 90 {
			want = "left"
		}
		assert.Equal(t, want, tx.HAlign, "slice %d", i)
		assert.InDelta(t, 0.7*1.02, math.Hypot(tx.X, tx.Y), 1e-12)
	}
	assert.InDelta(t, -30+0.5*angle, ch.Texts[0].Rotation, 1e-12)
	// the last slice sits left of the centre and is flipped upright
	assert.InDelta(t, -30+3.5*angle+180, ch.Texts[3].Rotation, 1e-12)
}

func TestWedgeLabels(t *testing.T) {
	opts := defaults()
	opts.Display.HideSliceLabel = true
	opts.Display.HideCentreCircle = true
	opts.Data.Rings = []string{"temp"}
	opts.Labels.WedgeRotate = false
	ch, err := Layout(months(), opts)
	require.NoError(t, err)

	require.Len(t, ch.Texts, 4)
	for i, tx := range ch.Texts {
		assert.Equal(t, []string{"1", "2", "3", "4"}[i], tx.Text)
		assert.Equal(t, "center", tx.HAlign)
		assert.Zero(t, tx.Rotation)
		assert.InDelta(t, 0.5-0.3/2, math.Hypot(tx.X, tx.Y), 1e-12)
	}

	opts.Labels.FormatString = "%.1f%%"
	ch, err = Layout(months(), opts)
	require.NoError(t, err)
	assert.Equal(t, "1.0%", ch.Texts[0].Text)

	opts.Labels.Format = FormatFunc(func(v float64) string { return "x" })
	ch, err = Layout(months(), opts)
	require.NoError(t, err)
	assert.Equal(t, "x", ch.Texts[0].Text)
}

func TestLegends(t *testing.T) {
	opts := defaults()
	opts.Legend.Units = []string{"mm"}
	ch, err := Layout(months(), opts)
	require.NoError(t, err)
	require.Len(t, ch.Legends, 2)

	// outer ring first
	outer, inner := ch.Legends[0], ch.Legends[1]
	assert.Equal(t, 1, outer.Ring)
	assert.Equal(t, 0, inner.Ring)
	assert.InDelta(t, 1.1, inner.Rect.Left, 1e-12)
	assert.InDelta(t, 0.4, inner.Rect.Bottom, 1e-12)
	assert.InDelta(t, 0.5, outer.Rect.Bottom, 1e-12)
	assert.Equal(t, 0.25, inner.Rect.Width)
	assert.Equal(t, 0.05, inner.Rect.Height)

	assert.Equal(t, []float64{1, 2, 4}, inner.Ticks)
	assert.Equal(t, []string{"1", "2", "4 mm"}, inner.TickLabels)
	assert.Equal(t, "temp", inner.Label)
}

func TestLegendPerRingUnits(t *testing.T) {
	opts := defaults()
	opts.Legend.Units = []string{"°C", "mm"}
	opts.Data.WedgeLabels = []string{"Temperature", "Rainfall"}
	ch, err := Layout(months(), opts)
	require.NoError(t, err)
	assert.Equal(t, "40 mm", ch.Legends[0].TickLabels[2])
	assert.Equal(t, "Rainfall", ch.Legends[0].Label)
	assert.Equal(t, "4 °C", ch.Legends[1].TickLabels[2])
}

func TestCustomTicks(t *testing.T) {
	opts := defaults()
	opts.Legend.Ticks = TickFunc(func(v []float64, _ float64) ([]float64, []string) {
		return []float64{v[0]}, []string{"first"}
	})
	ch, err := Layout(months(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, ch.Legends[1].TickLabels)
}

func TestRingLabels(t *testing.T) {
	opts := defaults()
	opts.Display.HideRingLabel = false
	opts.Display.HideWedgeLabel = true
	opts.Display.HideSliceLabel = true
	opts.Display.HideCentreCircle = true
	ch, err := Layout(months(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, countKind(ch, KindRingLabel))
	require.Len(t, ch.Texts, 2)
	// -30 + 0.43*360 = 124.8 lies outside [-180, 0]
	assert.Equal(t, "right", ch.Texts[0].HAlign)
	assert.Equal(t, "rain", ch.Texts[0].Text)
	assert.Zero(t, ch.Texts[0].Rotation)

	opts.Data.StartAngle = -200
	ch, err = Layout(months(), opts)
	require.NoError(t, err)
	assert.Equal(t, "left", ch.Texts[0].HAlign)
}

func TestSixRingsNeedLists(t *testing.T) {
	b := new(table.Builder)
	cols := []string{"a", "b", "c", "d", "e", "f"}
	for _, c := range cols {
		b.Add(c, []float64{1, 2})
	}
	f := frame.New(b.Done())

	_, err := Layout(f, DefaultOptions())
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "error = %v", err)

	opts := DefaultOptions()
	opts.Data.Colours = []string{"Purples", "Greens", "OrRd", "Blues", "RdPu", "Greys"}
	opts.Data.Radius = []float64{0.3, 0.5, 0.7, 0.9, 1.1, 1.3}
	opts.Data.WedgeWidth = []float64{0.2, 0.2, 0.2, 0.2, 0.2, 0.2}
	ch, err := Layout(f, opts)
	require.NoError(t, err)
	assert.Len(t, ch.Rings, 6)
}

func TestLayoutErrors(t *testing.T) {
	empty := frame.New(new(table.Builder).Add("v", []float64{}).Done())
	withNaN := frame.New(new(table.Builder).Add("v", []float64{1, math.NaN()}).Done())

	tests := []struct {
		name   string
		f      *frame.Frame
		modify func(*Options)
		code   errors.Code
	}{
		{"empty frame", empty, nil, errors.ErrCodeInvalidInput},
		{"missing ring", months(), func(o *Options) { o.Data.Rings = []string{"wind"} }, errors.ErrCodeMissingColumn},
		{"missing slice labels", months(), func(o *Options) { o.Data.SliceLabels = "day" }, errors.ErrCodeMissingColumn},
		{"short colours", months(), func(o *Options) { o.Data.Colours = []string{"Purples"} }, errors.ErrCodeInvalidInput},
		{"unknown scale", months(), func(o *Options) { o.Data.Colours = []string{"Nope", "Greens"} }, errors.ErrCodeInvalidColour},
		{"wedge labels", months(), func(o *Options) { o.Data.WedgeLabels = []string{"x"} }, errors.ErrCodeInvalidInput},
		{"units", months(), func(o *Options) { o.Legend.Units = []string{"a", "b", "c"} }, errors.ErrCodeInvalidInput},
		{"percent", months(), func(o *Options) { o.Data.Percent = 0 }, errors.ErrCodeInvalidInput},
		{"format", months(), func(o *Options) { o.Labels.FormatString = "%d" }, errors.ErrCodeInvalidInput},
		{"nan", withNaN, nil, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.modify != nil {
				tt.modify(&opts)
			}
			_, err := Layout(tt.f, opts)
			assert.True(t, errors.Is(err, tt.code), "error = %v, want %s", err, tt.code)
		})
	}
}

func TestDefaultTicks(t *testing.T) {
	tests := []struct {
		values  []float64
		roundTo float64
		ticks   []float64
		labels  []string
	}{
		{[]float64{1, 2, 3, 4}, 1, []float64{1, 2, 4}, []string{"1", "2", "4"}},
		{[]float64{0, 7}, 5, []float64{0, 5, 7}, []string{"0", "5", "5"}},
		{[]float64{0.12, 0.5}, 0.1, []float64{0.12, 0.30000000000000004, 0.5}, []string{"0.1", "0.30000000000000004", "0.5"}},
	}
	for _, tt := range tests {
		ticks, labels := DefaultTicks.Ticks(tt.values, tt.roundTo)
		assert.InDeltaSlice(t, tt.ticks, ticks, 1e-12)
		assert.Len(t, labels, 3)
		assert.Equal(t, tt.labels[0], labels[0])
		assert.Equal(t, tt.labels[2], labels[2])
	}
}

func TestDefaultFormat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{3, "3"},
		{2.5, "2.5"},
		{-0.25, "-0.25"},
		{1e6, "1000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultFormat.Format(tt.v), "value %v", tt.v)
	}
}

func TestDefaultGeometry(t *testing.T) {
	_, ok := DefaultGeometry(0)
	assert.False(t, ok)
	_, ok = DefaultGeometry(6)
	assert.False(t, ok)

	g, ok := DefaultGeometry(3)
	require.True(t, ok)
	assert.Equal(t, []string{"Purples", "Greens", "OrRd"}, g.Colours)
	assert.Equal(t, []float64{0.5, 0.7, 0.9}, g.Radius)
	assert.Equal(t, []float64{0.3, 0.2, 0.2}, g.WedgeWidth)

	// callers may modify their copy
	g.Colours[0] = "Reds"
	g2, _ := DefaultGeometry(3)
	assert.Equal(t, "Purples", g2.Colours[0])
}

func TestPlot(t *testing.T) {
	opts := defaults()
	opts.Title.Text = "Climate"
	fig, ch, err := Plot(months(), opts)
	require.NoError(t, err)

	axes := fig.Axes()
	require.Len(t, axes, 1+len(ch.Legends))
	chart := axes[0]
	assert.True(t, chart.EqualAspect)
	assert.Equal(t, -Limit, chart.Plot.X.Min)
	assert.Equal(t, Limit, chart.Plot.X.Max)
	assert.Equal(t, Limit, chart.Plot.Y.Max)
	require.Len(t, fig.Texts(), 1)
	assert.Equal(t, "Climate", fig.Texts()[0].Text)

	// legends reach beyond the unit box, so the canvas grows
	w, _ := fig.Size()
	assert.Greater(t, float64(w), float64(fig.Width))

	for _, format := range []string{"svg", "png"} {
		c, err := fig.Canvas(format, 0)
		require.NoError(t, err, format)
		var buf bytes.Buffer
		_, err = c.WriteTo(&buf)
		require.NoError(t, err, format)
		assert.NotZero(t, buf.Len(), format)
	}
}

func TestPlotVerticalAndDegenerateLegend(t *testing.T) {
	f := frame.New(new(table.Builder).Add("v", []float64{3, 3}).Done())
	opts := DefaultOptions()
	opts.Legend.Orientation = "vertical"
	fig, ch, err := Plot(f, opts)
	require.NoError(t, err)
	require.Len(t, ch.Legends, 1)
	legend := fig.Axes()[1].Plot
	assert.Equal(t, 2.5, legend.Y.Min)
	assert.Equal(t, 3.5, legend.Y.Max)
	_, err = fig.Canvas("svg", 0)
	assert.NoError(t, err)
}

func TestChartJSON(t *testing.T) {
	ch, err := Layout(months(), defaults())
	require.NoError(t, err)
	b, err := json.Marshal(ch)
	require.NoError(t, err)

	var back Chart
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, len(ch.Shapes), len(back.Shapes))
	assert.Equal(t, ch.Legends[0].TickLabels, back.Legends[0].TickLabels)
}
