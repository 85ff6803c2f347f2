package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/pipeline"
	"github.com/matzehuels/pdext/pkg/render/calendar"
)

func (c *CLI) calendarCommand() *cobra.Command {
	var (
		cf         chartFlags
		columns    string
		year       int
		how        string
		vmin       float64
		vmax       float64
		cmaps      string
		dayTicks   string
		monthTicks string
	)

	cmd := &cobra.Command{
		Use:   "calendar [file.csv]",
		Short: "Draw a yearly calendar heatmap",
		Long: `Draw one week-by-weekday grid per year and column. Observations are
aggregated per day with --how; days without data are masked.`,
		Example: `  pdext calendar commits.csv --time-column date --columns commits --how sum
  pdext calendar steps.csv --time-column day --year 2023 -f html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, pipeline.ChartCalendar, &cf)
			co := c.Config.Calendar
			flags := cmd.Flags()
			if flags.Changed("columns") {
				co.Columns = parseList(columns)
			}
			if flags.Changed("year") {
				co.Year = year
			}
			if flags.Changed("how") {
				agg, err := frame.ParseAgg(how)
				if err != nil {
					return err
				}
				co.How = agg
			}
			if flags.Changed("vmin") {
				co.VMin = &vmin
			}
			if flags.Changed("vmax") {
				co.VMax = &vmax
			}
			if flags.Changed("cmaps") {
				co.ColourMaps = parseList(cmaps)
			}
			if flags.Changed("day-ticks") {
				t, err := calendar.ParseTicks(dayTicks)
				if err != nil {
					return err
				}
				co.DayTicks = t
			}
			if flags.Changed("month-ticks") {
				t, err := calendar.ParseTicks(monthTicks)
				if err != nil {
					return err
				}
				co.MonthTicks = t
			}
			opts.Calendar = &co
			return c.runChart(cmd, args, &cf, opts, nil)
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated value columns (default: every numeric column)")
	cmd.Flags().IntVar(&year, "year", 0, "draw only this year")
	cmd.Flags().StringVar(&how, "how", "", "daily aggregation: sum, mean, median, min, max, count, first, last, std")
	cmd.Flags().Float64Var(&vmin, "vmin", 0, "colour scale minimum")
	cmd.Flags().Float64Var(&vmax, "vmax", 0, "colour scale maximum")
	cmd.Flags().StringVar(&cmaps, "cmaps", "", "comma-separated colour maps cycled over the columns")
	cmd.Flags().StringVar(&dayTicks, "day-ticks", "", "day labels: all, none, a stride or an index list")
	cmd.Flags().StringVar(&monthTicks, "month-ticks", "", "month labels: all, none, a stride or an index list")

	return cmd
}
