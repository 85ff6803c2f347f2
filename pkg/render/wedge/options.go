package wedge

import (
	"github.com/matzehuels/pdext/pkg/render/figure"
)

// Options configures a wedge chart. Start from [DefaultOptions]; zero
// values are taken literally.
type Options struct {
	Data    DataOptions    `toml:"data" json:"data"`
	Display DisplayOptions `toml:"display" json:"display"`
	Legend  LegendOptions  `toml:"legend" json:"legend"`
	Labels  LabelOptions   `toml:"labels" json:"labels"`
	Circle  CircleOptions  `toml:"circle" json:"circle"`
	Title   TitleOptions   `toml:"title" json:"title"`
	Style   StyleOptions   `toml:"style" json:"style"`
}

// DataOptions selects what is drawn and where.
type DataOptions struct {
	// Rings lists the value columns, innermost first. Empty uses every
	// numeric column except SliceLabels.
	Rings []string `toml:"rings" json:"rings,omitempty"`
	// SliceLabels names the column labelling each slice. Empty uses the
	// frame's index labels.
	SliceLabels string `toml:"slice_labels" json:"slice_labels,omitempty"`
	// Colours, Radius and WedgeWidth have one entry per ring. Nil takes
	// the defaults for up to five rings.
	Colours    []string  `toml:"colours" json:"colours,omitempty"`
	Radius     []float64 `toml:"radius" json:"radius,omitempty"`
	WedgeWidth []float64 `toml:"wedge_width" json:"wedge_width,omitempty"`
	// WedgeLabels names each ring in legends and ring labels. Nil uses
	// the column names.
	WedgeLabels []string `toml:"wedge_labels" json:"wedge_labels,omitempty"`
	// StartAngle is where the first slice begins, in degrees
	// counter-clockwise from three o'clock.
	StartAngle float64 `toml:"start_angle" json:"start_angle"`
	// Percent is the share of the full circle all slices take together.
	Percent float64 `toml:"all_slices_percent" json:"all_slices_percent"`
}

// DisplayOptions toggles chart elements.
type DisplayOptions struct {
	HideWedgeLabel   bool `toml:"hide_wedge_label" json:"hide_wedge_label"`
	HideSliceLabel   bool `toml:"hide_slice_label" json:"hide_slice_label"`
	HideLegend       bool `toml:"hide_legend" json:"hide_legend"`
	HideCentreCircle bool `toml:"hide_centre_circle" json:"hide_centre_circle"`
	HideRingLabel    bool `toml:"hide_ring_label" json:"hide_ring_label"`
}

// LegendOptions configures the per-ring colour bars.
type LegendOptions struct {
	// Orientation is "horizontal" or "vertical".
	Orientation string `toml:"orientation" json:"orientation"`
	// Units is appended to the last tick label: one entry for every ring,
	// or one per ring.
	Units []string    `toml:"units" json:"units,omitempty"`
	Font  figure.Font `toml:"font" json:"font"`
	// BoxWidth and BoxHeight size each bar in figure fractions.
	BoxWidth  float64 `toml:"box_width" json:"box_width"`
	BoxHeight float64 `toml:"box_height" json:"box_height"`
	// XStart and YStart place the innermost ring's bar at
	// (1+XStart, 1+YStart); each further ring moves by -Gap.
	XStart float64 `toml:"x_start" json:"x_start"`
	YStart float64 `toml:"y_start" json:"y_start"`
	Gap    float64 `toml:"gap" json:"gap"`
	// RoundTo is the precision of the default tick labels.
	RoundTo float64 `toml:"round_to" json:"round_to"`
	// Ticks generates tick positions and labels. Nil uses DefaultTicks.
	Ticks TickGenerator `toml:"-" json:"-"`
}

// LabelOptions configures wedge and slice labels.
type LabelOptions struct {
	// Format turns a wedge value into its label. Nil uses FormatString,
	// or DefaultFormat when that is empty too.
	Format       LabelFormatter `toml:"-" json:"-"`
	FormatString string         `toml:"format" json:"format,omitempty"`
	WedgeRotate  bool           `toml:"wedge_rotate" json:"wedge_rotate"`
	// SliceNudge moves slice labels out past the outer ring, as a
	// fraction of the outer radius.
	SliceNudge  float64 `toml:"slice_nudge" json:"slice_nudge"`
	SliceRotate bool    `toml:"slice_rotate" json:"slice_rotate"`
	// Explode separates consecutive rings by this much.
	Explode float64 `toml:"explode" json:"explode"`
}

// CircleOptions configures the centre circle.
type CircleOptions struct {
	Label  string      `toml:"label" json:"label,omitempty"`
	Font   figure.Font `toml:"font" json:"font"`
	HAlign string      `toml:"ha" json:"ha"`
	VAlign string      `toml:"va" json:"va"`
}

// TitleOptions configures the figure title. X and Y are figure
// fractions.
type TitleOptions struct {
	Text string      `toml:"text" json:"text,omitempty"`
	X    float64     `toml:"x" json:"x"`
	Y    float64     `toml:"y" json:"y"`
	Font figure.Font `toml:"font" json:"font"`
}

// StyleOptions holds general styling.
type StyleOptions struct {
	// FigSize is width and height in inches.
	FigSize     [2]float64  `toml:"figsize" json:"figsize"`
	EdgeColour  string      `toml:"edge_colour" json:"edge_colour"`
	LineWidth   float64     `toml:"line_width" json:"line_width"`
	LabelFont   figure.Font `toml:"label_font" json:"label_font"`
	BlankColour string      `toml:"blank_colour" json:"blank_colour"`
	LineStyle   string      `toml:"line_style" json:"line_style"`
	Alpha       float64     `toml:"alpha" json:"alpha"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Data: DataOptions{
			StartAngle: -30,
			Percent:    0.43,
		},
		Display: DisplayOptions{
			HideRingLabel: true,
		},
		Legend: LegendOptions{
			Orientation: "horizontal",
			Font:        figure.Font{Size: "12", Weight: "bold", Style: "normal"},
			BoxWidth:    0.25,
			BoxHeight:   0.05,
			XStart:      0.1,
			YStart:      -0.6,
			Gap:         -0.1,
			RoundTo:     1,
		},
		Labels: LabelOptions{
			WedgeRotate: true,
			SliceNudge:  0.02,
			SliceRotate: true,
		},
		Circle: CircleOptions{
			Font:   figure.Font{Size: "30"},
			HAlign: "center",
			VAlign: "center",
		},
		Title: TitleOptions{
			X:    0,
			Y:    0.98,
			Font: figure.Font{Size: "xx-large", Weight: "bold"},
		},
		Style: StyleOptions{
			FigSize:     [2]float64{10, 10},
			EdgeColour:  "k",
			LineWidth:   1.4,
			LabelFont:   figure.Font{Size: "large", Weight: "semibold"},
			BlankColour: "w",
			LineStyle:   "-",
			Alpha:       1,
		},
	}
}
