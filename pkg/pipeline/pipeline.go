// Package pipeline is the frame → chart → artifacts path shared by the CLI
// and the HTTP service.
//
// # Architecture
//
// A run has two stages:
//
//  1. Build: compute the chart values from the frame and, when an image
//     format is requested, draw the figure
//  2. Render: encode the figure (or the chart values) in every requested
//     format
//
// [Runner] wraps both with a per-format artifact cache. The figure is
// built at most once per run, and only when some format missed the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Chart:   pipeline.ChartWedge,
//	    Formats: []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, frame, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pdext/pkg/cache"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/render/calendar"
	"github.com/matzehuels/pdext/pkg/render/figure"
	"github.com/matzehuels/pdext/pkg/render/sink"
	"github.com/matzehuels/pdext/pkg/render/stripes"
	"github.com/matzehuels/pdext/pkg/render/wedge"
)

// Chart names.
const (
	ChartStripes  = "stripes"
	ChartWedge    = "wedge"
	ChartCalendar = "calendar"
)

// ValidCharts lists the charts the pipeline can build.
var ValidCharts = []string{ChartStripes, ChartWedge, ChartCalendar}

// DefaultFormat is used when no format is requested.
const DefaultFormat = string(sink.FormatSVG)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one chart run. It decodes from
// API request bodies and from the configuration file.
type Options struct {
	Chart   string   `json:"chart" toml:"chart"`
	Formats []string `json:"formats,omitempty" toml:"formats"`
	// DPI is the raster resolution. Zero means [figure.DefaultDPI].
	DPI int `json:"dpi,omitempty" toml:"dpi"`
	// Refresh skips cache lookups but still stores the results.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// The options of the selected chart. Nil uses the chart's defaults.
	Stripes  *stripes.Options  `json:"stripes,omitempty" toml:"stripes"`
	Wedge    *wedge.Options    `json:"wedge,omitempty" toml:"wedge"`
	Calendar *calendar.Options `json:"calendar,omitempty" toml:"calendar"`

	Logger *log.Logger `json:"-" toml:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Chart is the computed chart value (*stripes.Stripes, *wedge.Chart
	// or *calendar.Calendar). It is nil when every artifact came from the
	// cache.
	Chart any

	// FrameHash is the content hash of the input frame.
	FrameHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run timings and sizes.
type Stats struct {
	Rows       int
	BuildTime  time.Duration
	RenderTime time.Duration
	Bytes      int
}

// CacheInfo records which formats were served from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
	// RenderHit is true when nothing had to be built.
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateChart checks that a chart name is known.
func ValidateChart(chart string) error {
	if !slices.Contains(ValidCharts, chart) {
		return errors.New(errors.ErrCodeInvalidChart, "invalid chart: %q (must be one of: %s)", chart, strings.Join(ValidCharts, ", "))
	}
	return nil
}

// ValidateFormat checks that a format is known and supported by chart.
func ValidateFormat(chart, format string) error {
	f, err := sink.ParseFormat(format)
	if err != nil {
		return err
	}
	if string(f) != format {
		return errors.New(errors.ErrCodeInvalidFormat, "format %q should be written %q", format, f)
	}
	if f == sink.FormatHTML && chart != ChartCalendar {
		return errors.New(errors.ErrCodeInvalidFormat, "html output is only available for the calendar chart")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// Format names are normalised, so "jpg" becomes "jpeg". This method is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Chart = strings.ToLower(strings.TrimSpace(o.Chart))
	if err := ValidateChart(o.Chart); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, name := range o.Formats {
		f, err := sink.ParseFormat(name)
		if err != nil {
			return err
		}
		if err := ValidateFormat(o.Chart, string(f)); err != nil {
			return err
		}
		if !slices.Contains(formats, string(f)) {
			formats = append(formats, string(f))
		}
	}
	o.Formats = formats

	if o.DPI == 0 {
		o.DPI = figure.DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", o.DPI)
	}

	switch o.Chart {
	case ChartStripes:
		if o.Stripes == nil {
			def := stripes.DefaultOptions()
			o.Stripes = &def
		}
	case ChartWedge:
		if o.Wedge == nil {
			def := wedge.DefaultOptions()
			o.Wedge = &def
		}
	case ChartCalendar:
		if o.Calendar == nil {
			def := calendar.DefaultOptions()
			o.Calendar = &def
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ChartOptions returns the options record of the selected chart.
func (o *Options) ChartOptions() any {
	switch o.Chart {
	case ChartStripes:
		return o.Stripes
	case ChartWedge:
		return o.Wedge
	case ChartCalendar:
		return o.Calendar
	}
	return nil
}

// HasImageFormat reports whether any requested format needs a figure.
func (o *Options) HasImageFormat() bool {
	for _, f := range o.Formats {
		if sink.Format(f).IsImage() {
			return true
		}
	}
	return false
}

// ArtifactKeyOpts returns cache key options for one output format.
// Custom wedge strategies are not part of the hash; callers using them
// should run without a cache.
func (o *Options) ArtifactKeyOpts(format string) (cache.ArtifactKeyOpts, error) {
	h, err := cache.HashJSON(o.ChartOptions())
	if err != nil {
		return cache.ArtifactKeyOpts{}, errors.Wrap(errors.ErrCodeInternal, err, "hash chart options")
	}
	k := cache.ArtifactKeyOpts{Chart: o.Chart, Format: format, OptionsHash: h}
	if format == string(sink.FormatPNG) || format == string(sink.FormatJPEG) || format == string(sink.FormatTIFF) {
		k.DPI = o.DPI
	}
	return k, nil
}
