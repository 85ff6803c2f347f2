package pipeline

import (
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/render/calendar"
	"github.com/matzehuels/pdext/pkg/render/figure"
	"github.com/matzehuels/pdext/pkg/render/sink"
	"github.com/matzehuels/pdext/pkg/render/stripes"
	"github.com/matzehuels/pdext/pkg/render/wedge"
)

// Built is a computed chart, drawn when an image format was requested.
type Built struct {
	Chart  string
	Value  any
	Figure *figure.Figure
}

// Build computes the chart selected by opts and draws its figure if
// needed. opts must have been validated.
func Build(f *frame.Frame, opts Options) (*Built, error) {
	b := &Built{Chart: opts.Chart}
	draw := opts.HasImageFormat()
	var err error

	switch opts.Chart {
	case ChartStripes:
		var s *stripes.Stripes
		if s, err = stripes.Compute(f, *opts.Stripes); err != nil {
			return nil, err
		}
		b.Value = s
		if draw {
			b.Figure, err = stripes.Draw(s, opts.Stripes.Width, opts.Stripes.Height)
		}
	case ChartWedge:
		var ch *wedge.Chart
		if ch, err = wedge.Layout(f, *opts.Wedge); err != nil {
			return nil, err
		}
		b.Value = ch
		if draw {
			b.Figure, err = wedge.Draw(ch)
		}
	case ChartCalendar:
		var cal *calendar.Calendar
		if cal, err = calendar.Compute(f, *opts.Calendar); err != nil {
			return nil, err
		}
		b.Value = cal
		if draw {
			b.Figure, _, err = calendar.Draw(cal, *opts.Calendar)
		}
	default:
		return nil, ValidateChart(opts.Chart)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Render encodes a built chart in each format.
func Render(b *Built, formats []string, dpi int) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, name := range formats {
		format := sink.Format(name)
		var (
			data []byte
			err  error
		)
		switch {
		case format == sink.FormatJSON:
			data, err = sink.RenderJSON(b.Value, sink.WithJSONChart(b.Chart))
		case format == sink.FormatHTML:
			cal, ok := b.Value.(*calendar.Calendar)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "html output is only available for the calendar chart")
			}
			data, err = calendar.RenderHTML(cal)
		case b.Figure == nil:
			return nil, errors.New(errors.ErrCodeInternal, "%s requested but no figure was drawn", format)
		default:
			data, err = sink.Render(b.Figure, format, sink.WithDPI(dpi))
		}
		if err != nil {
			return nil, err
		}
		artifacts[name] = data
	}
	return artifacts, nil
}
