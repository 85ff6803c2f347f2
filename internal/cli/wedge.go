package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/pipeline"
)

func (c *CLI) wedgeCommand() *cobra.Command {
	var (
		cf          chartFlags
		rings       string
		sliceLabels string
		wedgeLabels string
		units       string
		title       string
		circle      string
		labelFormat string
		legend      string
		startAngle  float64
		percent     float64
		explode     float64
		hideLegend  bool
		pick        bool
	)

	cmd := &cobra.Command{
		Use:   "wedge [file.csv]",
		Short: "Draw a radial wedge chart with one ring per column",
		Long: `Draw each row as a slice and each value column as a ring of wedges coloured
by value. Rings run from the centre outwards in column order.`,
		Example: `  pdext wedge sales.csv --rings q1,q2,q3 --slice-labels region --units k€
  pdext wedge sales.csv --pick`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, pipeline.ChartWedge, &cf)
			wo := c.Config.Wedge
			flags := cmd.Flags()
			if flags.Changed("rings") {
				wo.Data.Rings = parseList(rings)
			}
			if flags.Changed("slice-labels") {
				wo.Data.SliceLabels = sliceLabels
			}
			if flags.Changed("wedge-labels") {
				wo.Data.WedgeLabels = parseList(wedgeLabels)
			}
			if flags.Changed("units") {
				wo.Legend.Units = parseList(units)
			}
			if flags.Changed("title") {
				wo.Title.Text = title
			}
			if flags.Changed("circle-label") {
				wo.Circle.Label = circle
			}
			if flags.Changed("label-format") {
				wo.Labels.FormatString = labelFormat
			}
			if flags.Changed("legend") {
				wo.Legend.Orientation = legend
			}
			if flags.Changed("start-angle") {
				wo.Data.StartAngle = startAngle
			}
			if flags.Changed("percent") {
				wo.Data.Percent = percent
			}
			if flags.Changed("explode") {
				wo.Labels.Explode = explode
			}
			if flags.Changed("hide-legend") {
				wo.Display.HideLegend = hideLegend
			}
			opts.Wedge = &wo

			var prepare func(*frame.Frame, *pipeline.Options) error
			if pick {
				prepare = pickRings
			}
			return c.runChart(cmd, args, &cf, opts, prepare)
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVar(&rings, "rings", "", "comma-separated ring columns, innermost first (default: every numeric column)")
	cmd.Flags().StringVar(&sliceLabels, "slice-labels", "", "column labelling each slice (default: the index)")
	cmd.Flags().StringVar(&wedgeLabels, "wedge-labels", "", "comma-separated ring names for the legend")
	cmd.Flags().StringVar(&units, "units", "", "legend units: one for all rings or one per ring")
	cmd.Flags().StringVar(&title, "title", "", "figure title")
	cmd.Flags().StringVar(&circle, "circle-label", "", "text in the centre circle")
	cmd.Flags().StringVar(&labelFormat, "label-format", "", `printf verb for wedge labels, e.g. "%.1f"`)
	cmd.Flags().StringVar(&legend, "legend", "", "legend orientation: horizontal or vertical")
	cmd.Flags().Float64Var(&startAngle, "start-angle", 0, "angle of the first slice in degrees")
	cmd.Flags().Float64Var(&percent, "percent", 0, "share of the circle the slices take, in (0, 1]")
	cmd.Flags().Float64Var(&explode, "explode", 0, "gap between consecutive rings")
	cmd.Flags().BoolVar(&hideLegend, "hide-legend", false, "hide the colour bars")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the ring columns interactively")

	return cmd
}

// pickRings lets the user choose the ring columns, starting from the
// configured ones.
func pickRings(f *frame.Frame, opts *pipeline.Options) error {
	picked, err := pickColumns("Select Rings", f, opts.Wedge.Data.Rings)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "column picker")
	}
	if picked == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no rings selected")
	}
	opts.Wedge.Data.Rings = picked
	return nil
}
