package colors

import (
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/plot/palette"

	"github.com/matzehuels/pdext/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#08306b", color.NRGBA{0x08, 0x30, 0x6b, 0xff}},
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}},
		{"k", color.NRGBA{0, 0, 0, 255}},
		{"w", color.NRGBA{255, 255, 255, 255}},
		{"whitesmoke", color.NRGBA{245, 245, 245, 255}},
		{" WhiteSmoke ", color.NRGBA{245, 245, 245, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			got := color.NRGBAModel.Convert(c).(color.NRGBA)
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "chartreuse-ish"} {
		if _, err := Parse(in); !errors.Is(err, errors.ErrCodeInvalidColour) {
			t.Errorf("Parse(%q) error = %v, want INVALID_COLOUR", in, err)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.NRGBA{0x08, 0x30, 0x6b, 0xff}); got != "#08306b" {
		t.Errorf("Hex = %q, want #08306b", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		n    Normalize
		v    float64
		want float64
	}{
		{"mid", Normalize{Min: 0, Max: 10}, 5, 0.5},
		{"unclipped", Normalize{Min: 0, Max: 10}, 20, 2},
		{"clipped high", Normalize{Min: 0, Max: 10, Clip: true}, 20, 1},
		{"clipped low", Normalize{Min: 0, Max: 10, Clip: true}, -3, 0},
		{"degenerate", Normalize{Min: 4, Max: 4}, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.Apply(tt.v); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestListed(t *testing.T) {
	l, err := ListedFromHex(StripePalette)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", l.Len())
	}
	l.SetMin(-1)
	l.SetMax(1)

	tests := []struct {
		v    float64
		want string
	}{
		{-1, "#08306b"},
		{1, "#67000d"},
		{0, "#fee0d2"},
		{-0.01, "#deebf7"},
	}
	for _, tt := range tests {
		c, err := l.At(tt.v)
		if err != nil {
			t.Fatalf("At(%v): %v", tt.v, err)
		}
		if got := Hex(c); got != tt.want {
			t.Errorf("At(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
	if _, err := l.At(2); err != palette.ErrOverflow {
		t.Errorf("At(2) error = %v, want ErrOverflow", err)
	}
	if got := Hex(At(l, 5)); got != "#67000d" {
		t.Errorf("clamped At(5) = %s, want #67000d", got)
	}
	if got := At(l, math.NaN()); got != color.Transparent {
		t.Errorf("At(NaN) = %v, want transparent", got)
	}
}

func TestGradient(t *testing.T) {
	g := NewGradient([]color.Color{color.Black, color.White})
	g.SetMin(0)
	g.SetMax(10)
	c, err := g.At(5)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(c).(color.NRGBA); got.R != 128 {
		t.Errorf("midpoint R = %d, want 128", got.R)
	}
	g.SetAlpha(0.5)
	c, _ = g.At(10)
	if got := color.NRGBAModel.Convert(c).(color.NRGBA); got.A != 128 {
		t.Errorf("alpha = %d, want 128", got.A)
	}
	if n := len(g.Palette(5).Colors()); n != 5 {
		t.Errorf("Palette(5) has %d colours", n)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"Purples", "Greens", "OrRd", "Blues", "RdPu", "Reds", "Greys", "RdBu"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}

	g, err := Lookup("Blues")
	if err != nil {
		t.Fatal(err)
	}
	lo, _ := g.At(0)
	hi, _ := g.At(1)
	r, _ := Lookup("Blues_r")
	rlo, _ := r.At(0)
	rhi, _ := r.At(1)
	if Hex(lo) != Hex(rhi) || Hex(hi) != Hex(rlo) {
		t.Errorf("Blues_r is not the reverse of Blues")
	}

	// Scales are independent copies.
	g.SetMax(100)
	again, _ := Lookup("Blues")
	if again.Max() != 1 {
		t.Errorf("Lookup returned a shared scale")
	}

	if _, err := Lookup("Nope"); !errors.Is(err, errors.ErrCodeInvalidColour) {
		t.Errorf("Lookup(Nope) error = %v, want INVALID_COLOUR", err)
	}
}
