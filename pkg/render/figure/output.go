package figure

import (
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matzehuels/pdext/pkg/errors"
)

// DefaultDPI is the raster resolution used when none is given.
const DefaultDPI = 96

// Formats lists the output formats [Figure.Canvas] accepts.
var Formats = []string{"svg", "png", "jpg", "jpeg", "tif", "tiff", "pdf", "eps"}

// Canvas draws the figure onto a new canvas of the given format and
// returns it ready to be written out. dpi only affects raster formats;
// zero means [DefaultDPI].
func (f *Figure) Canvas(format string, dpi int) (vg.CanvasWriterTo, error) {
	w, h := f.Size()
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure has no area")
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	var c vg.CanvasWriterTo
	switch format = strings.ToLower(format); format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
		switch format {
		case "png":
			c = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			c = vgimg.JpegCanvas{Canvas: img}
		default:
			c = vgimg.TiffCanvas{Canvas: img}
		}
	case "svg", "pdf", "eps":
		var err error
		if c, err = draw.NewFormattedCanvas(w, h, format); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "create %s canvas", format)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported figure format %q", format)
	}

	f.Draw(draw.New(c))
	return c, nil
}
