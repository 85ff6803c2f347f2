package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/pipeline"
)

func (c *CLI) stripesCommand() *cobra.Command {
	var (
		cf     chartFlags
		column string
		index  string
		ref    string
		clim   float64
		first  int
		last   int
		colors string
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "stripes [file.csv]",
		Short: "Draw heat stripes for one column",
		Long: `Draw one coloured bar per row. The colour encodes the distance of the row's
value from a reference: the middle row, or the mean over --reference.`,
		Example: `  pdext stripes temps.csv --column anomaly --index year --reference 1961:1990
  pdext stripes temps.csv --column anomaly -f svg,png --dpi 200 -o out/stripes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, pipeline.ChartStripes, &cf)
			so := c.Config.Stripes
			flags := cmd.Flags()
			if flags.Changed("column") {
				so.Column = column
			}
			if flags.Changed("index") {
				so.Index = index
			}
			if flags.Changed("reference") {
				so.Reference = ref
			}
			if flags.Changed("clim") {
				so.CLim = &clim
			}
			if flags.Changed("first") {
				so.First = &first
			}
			if flags.Changed("last") {
				so.Last = &last
			}
			if flags.Changed("colors") {
				so.Colors = parseList(colors)
			}
			if flags.Changed("width") {
				so.Width = width
			}
			if flags.Changed("height") {
				so.Height = height
			}
			opts.Stripes = &so
			return c.runChart(cmd, args, &cf, opts, defaultStripesColumn)
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVar(&column, "column", "", "value column (default: the only numeric column)")
	cmd.Flags().StringVar(&index, "index", "", "integer label column (default: row numbers)")
	cmd.Flags().StringVar(&ref, "reference", "", `reference window "start:end" (default: the middle row)`)
	cmd.Flags().Float64Var(&clim, "clim", 0, "half-width of the colour range (default: two standard deviations)")
	cmd.Flags().IntVar(&first, "first", 0, "first label to draw")
	cmd.Flags().IntVar(&last, "last", 0, "last label to draw")
	cmd.Flags().StringVar(&colors, "colors", "", "comma-separated palette, cold to warm")
	cmd.Flags().Float64Var(&width, "width", 0, "figure width in inches")
	cmd.Flags().Float64Var(&height, "height", 0, "figure height in inches")

	return cmd
}

// defaultStripesColumn picks the value column when the frame has only
// one numeric column besides the index.
func defaultStripesColumn(f *frame.Frame, opts *pipeline.Options) error {
	so := opts.Stripes
	if so.Column != "" {
		return nil
	}
	var candidates []string
	for _, c := range f.NumericColumns() {
		if c != so.Index {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 1 {
		so.Column = candidates[0]
	}
	return nil
}
