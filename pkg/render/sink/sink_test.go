package sink

import (
	"bytes"
	"encoding/json"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/render/figure"
)

func testFigure(t *testing.T) *figure.Figure {
	t.Helper()
	fig := figure.New(2*vg.Inch, 1*vg.Inch)
	a := fig.AddAxes(figure.Unit)
	a.Plot.Add(figure.Patches{{Points: figure.Rectangle(0, 0, 1, 1)}})
	a.Plot.X.Min, a.Plot.X.Max = 0, 1
	a.Plot.Y.Min, a.Plot.Y.Max = 0, 1
	return fig
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{".jpg", FormatJPEG, false},
		{"tif", FormatTIFF, false},
		{"html", FormatHTML, false},
		{"bmp", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatJPEG.Extension() != ".jpg" {
		t.Errorf("jpeg extension = %q", FormatJPEG.Extension())
	}
	if FormatSVG.ContentType() != "image/svg+xml" {
		t.Errorf("svg content type = %q", FormatSVG.ContentType())
	}
	if FormatJSON.IsImage() || FormatHTML.IsImage() || !FormatPDF.IsImage() {
		t.Error("IsImage misclassifies formats")
	}
}

func TestRenderVector(t *testing.T) {
	fig := testFigure(t)
	tests := []struct {
		name   string
		render func(*figure.Figure, ...Option) ([]byte, error)
		marker string
	}{
		{"svg", RenderSVG, "<svg"},
		{"pdf", RenderPDF, "%PDF"},
		{"eps", RenderEPS, "PS-Adobe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.render(fig)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.Contains(data, []byte(tt.marker)) {
				t.Errorf("output has no %q marker", tt.marker)
			}
		})
	}
}

func TestRenderPNGDPI(t *testing.T) {
	fig := testFigure(t)
	for _, dpi := range []int{72, 144} {
		data, err := RenderPNG(fig, WithDPI(dpi))
		if err != nil {
			t.Fatalf("RenderPNG(dpi=%d): %v", dpi, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if cfg.Width != 2*dpi || cfg.Height != dpi {
			t.Errorf("dpi %d: size = %d×%d, want %d×%d", dpi, cfg.Width, cfg.Height, 2*dpi, dpi)
		}
	}
}

func TestRenderJPEG(t *testing.T) {
	data, err := RenderJPEG(testFigure(t), WithDPI(50))
	if err != nil {
		t.Fatalf("RenderJPEG: %v", err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("not a jpeg: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	fig := testFigure(t)
	if _, err := Render(fig, FormatJSON); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("json through Render: err = %v", err)
	}
	if _, err := RenderPNG(fig, WithDPI(-1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative dpi: err = %v", err)
	}
	if _, err := RenderSVG(nil); err == nil {
		t.Error("nil figure: expected error")
	}
}

func TestRenderJSON(t *testing.T) {
	v := map[string]float64{"vmin": 1, "vmax": 3}
	data, err := RenderJSON(v, WithJSONChart("wedge"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented output")
	}

	var out struct {
		Chart string             `json:"chart"`
		Data  map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Chart != "wedge" || out.Data["vmax"] != 3 {
		t.Errorf("decoded = %+v", out)
	}

	compact, err := RenderJSON(v, WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Error("compact output contains newlines")
	}
	if _, err := RenderJSON(nil); err == nil {
		t.Error("nil value: expected error")
	}
}
