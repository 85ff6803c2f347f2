package stripes

import (
	"math"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/pdext/pkg/colors"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
)

func ptr[T any](v T) *T { return &v }

func temps(vals ...float64) *frame.Frame {
	years := make([]int, len(vals))
	for i := range years {
		years[i] = 1960 + i
	}
	return frame.New(new(table.Builder).Add("year", years).Add("temp", vals).Done())
}

func TestComputeDefaults(t *testing.T) {
	f := temps(1, 2, 3, 4, 5)
	s, err := Compute(f, Options{Column: "temp"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.Reference != 3 {
		t.Errorf("Reference = %v, want 3 (middle row)", s.Reference)
	}
	wantClim := 2 * math.Sqrt(2.5)
	if math.Abs(s.CLim-wantClim) > 1e-12 {
		t.Errorf("CLim = %v, want %v", s.CLim, wantClim)
	}
	if s.First != 0 || s.Last != 4 {
		t.Errorf("range = [%d, %d], want [0, 4]", s.First, s.Last)
	}
	if len(s.Stripes) != 5 {
		t.Fatalf("got %d stripes, want 5", len(s.Stripes))
	}
	if s.Stripes[0].Color != "#2171b5" || s.Stripes[4].Color != "#cb181d" {
		t.Errorf("end colours = %s, %s, want #2171b5, #cb181d", s.Stripes[0].Color, s.Stripes[4].Color)
	}
}

func TestComputeClipsToEndColours(t *testing.T) {
	f := temps(0, 0, 0, 100, -100)
	s, err := Compute(f, Options{Column: "temp", CLim: ptr(1.0)})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"#fee0d2", "#fee0d2", "#fee0d2", "#67000d", "#08306b"}
	for i, st := range s.Stripes {
		if st.Color != want[i] {
			t.Errorf("stripe %d (%v) colour = %s, want %s", i, st.Value, st.Color, want[i])
		}
	}
}

func TestComputeReferenceWindow(t *testing.T) {
	f := temps(1, 2, 3, 4, 5, 6)
	s, err := Compute(f, Options{Column: "temp", Index: "year", Reference: "1960:1961", CLim: ptr(1.0)})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.Reference != 1.5 {
		t.Errorf("Reference = %v, want 1.5", s.Reference)
	}
	if s.VMin != 0.5 || s.VMax != 2.5 {
		t.Errorf("limits = [%v, %v], want [0.5, 2.5]", s.VMin, s.VMax)
	}
	if s.First != 1960 || s.Last != 1965 {
		t.Errorf("range = [%d, %d], want [1960, 1965]", s.First, s.Last)
	}
	// everything above 2.5 saturates to the last colour
	last := colors.StripePalette[len(colors.StripePalette)-1]
	for _, st := range s.Stripes[3:] {
		if st.Color != last {
			t.Errorf("stripe %d colour = %s, want %s", st.Label, st.Color, last)
		}
	}
	// 1 sits a quarter of the way up [0.5, 2.5]
	if s.Stripes[0].Color != colors.StripePalette[4] {
		t.Errorf("lowest stripe colour = %s, want %s", s.Stripes[0].Color, colors.StripePalette[4])
	}
}

func TestComputeSubRangeAndNaN(t *testing.T) {
	f := temps(1, math.NaN(), 3, 4, 5)
	s, err := Compute(f, Options{Column: "temp", First: ptr(1), Last: ptr(3), CLim: ptr(2.0)})
	if err != nil {
		t.Fatal(err)
	}
	// middle of the NaN-dropped data [1 3 4 5] is 4
	if s.Reference != 4 {
		t.Errorf("Reference = %v, want 4", s.Reference)
	}
	var labels []int
	for _, st := range s.Stripes {
		labels = append(labels, st.Label)
	}
	if len(labels) != 2 || labels[0] != 2 || labels[1] != 3 {
		t.Errorf("labels = %v, want [2 3]", labels)
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name string
		f    *frame.Frame
		opts Options
		code errors.Code
	}{
		{"no column", temps(1, 2), Options{}, errors.ErrCodeInvalidInput},
		{"missing column", temps(1, 2), Options{Column: "rain"}, errors.ErrCodeMissingColumn},
		{"malformed window", temps(1, 2), Options{Column: "temp", Reference: "1960"}, errors.ErrCodeInvalidInput},
		{"empty window", temps(1, 2), Options{Column: "temp", Reference: "10:20"}, errors.ErrCodeInvalidInput},
		{"single value", temps(1), Options{Column: "temp"}, errors.ErrCodeInvalidInput},
		{"all NaN", temps(math.NaN()), Options{Column: "temp"}, errors.ErrCodeInvalidInput},
		{"bad range", temps(1, 2, 3), Options{Column: "temp", First: ptr(2), Last: ptr(1)}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.f, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPlot(t *testing.T) {
	fig, s, err := Plot(temps(1, 2, 3, 4), Options{Column: "temp"})
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	axes := fig.Axes()
	if len(axes) != 1 {
		t.Fatalf("got %d axes, want 1", len(axes))
	}
	p := axes[0].Plot
	if p.X.Min != float64(s.First) || p.X.Max != float64(s.Last+1) {
		t.Errorf("x limits = [%v, %v], want [%d, %d]", p.X.Min, p.X.Max, s.First, s.Last+1)
	}
	if p.Y.Min != 0 || p.Y.Max != 1 {
		t.Errorf("y limits = [%v, %v], want [0, 1]", p.Y.Min, p.Y.Max)
	}
	if _, err := fig.Canvas("svg", 0); err != nil {
		t.Errorf("Canvas: %v", err)
	}
}
