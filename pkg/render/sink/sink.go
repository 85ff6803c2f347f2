package sink

import (
	"bytes"
	"slices"
	"strings"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/render/figure"
)

// Format names an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatPDF  Format = "pdf"
	FormatEPS  Format = "eps"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ValidFormats lists the formats [ParseFormat] accepts, in display order.
var ValidFormats = []Format{FormatSVG, FormatPNG, FormatJPEG, FormatTIFF, FormatPDF, FormatEPS, FormatJSON, FormatHTML}

var aliases = map[string]Format{"jpg": FormatJPEG, "tif": FormatTIFF, "htm": FormatHTML}

// ParseFormat normalises a format name or file extension.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	if f := Format(name); slices.Contains(ValidFormats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (valid: %s)", s, strings.Join(FormatNames(), ", "))
}

// FormatNames returns [ValidFormats] as strings.
func FormatNames() []string {
	names := make([]string, len(ValidFormats))
	for i, f := range ValidFormats {
		names[i] = string(f)
	}
	return names
}

// IsImage reports whether the format is drawn from a figure.
func (f Format) IsImage() bool {
	return f != FormatJSON && f != FormatHTML
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatTIFF:
		return "image/tiff"
	case FormatPDF:
		return "application/pdf"
	case FormatEPS:
		return "application/postscript"
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Option configures figure rendering.
type Option func(*renderer)

type renderer struct {
	dpi int
}

// WithDPI sets the raster resolution (default [figure.DefaultDPI]). Vector
// formats ignore it.
func WithDPI(dpi int) Option {
	return func(r *renderer) { r.dpi = dpi }
}

// Render draws the figure in any image format.
func Render(fig *figure.Figure, format Format, opts ...Option) ([]byte, error) {
	if !format.IsImage() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s is not an image format", format)
	}
	r := renderer{dpi: figure.DefaultDPI}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpi <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", r.dpi)
	}
	if fig == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no figure to render")
	}

	c, err := fig.Canvas(string(format), r.dpi)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", format)
	}
	return buf.Bytes(), nil
}

// RenderSVG writes the figure as SVG.
func RenderSVG(fig *figure.Figure, opts ...Option) ([]byte, error) {
	return Render(fig, FormatSVG, opts...)
}

// RenderPNG writes the figure as PNG.
func RenderPNG(fig *figure.Figure, opts ...Option) ([]byte, error) {
	return Render(fig, FormatPNG, opts...)
}

// RenderJPEG writes the figure as JPEG.
func RenderJPEG(fig *figure.Figure, opts ...Option) ([]byte, error) {
	return Render(fig, FormatJPEG, opts...)
}

// RenderTIFF writes the figure as TIFF.
func RenderTIFF(fig *figure.Figure, opts ...Option) ([]byte, error) {
	return Render(fig, FormatTIFF, opts...)
}

// RenderPDF writes the figure as PDF.
func RenderPDF(fig *figure.Figure, opts ...Option) ([]byte, error) {
	return Render(fig, FormatPDF, opts...)
}

// RenderEPS writes the figure as encapsulated PostScript.
func RenderEPS(fig *figure.Figure, opts ...Option) ([]byte, error) {
	return Render(fig, FormatEPS, opts...)
}
