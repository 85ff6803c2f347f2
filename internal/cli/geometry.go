package cli

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/geometry"
)

const (
	geometryCircle = geometry.ShapeCircle
	geometrySphere = geometry.ShapeSphere
)

// geometryCommand creates the command adding derived columns for shape.
func (c *CLI) geometryCommand(shape geometry.Shape) *cobra.Command {
	var (
		in      inputFlags
		radius  string
		output  string
		pretty  bool
		noCache bool
	)

	derived := "circumference and area"
	if shape == geometry.ShapeSphere {
		derived = "surface_area and volume"
	}

	cmd := &cobra.Command{
		Use:   string(shape) + " [file.csv]",
		Short: fmt.Sprintf("Add %s columns computed from a radius column", derived),
		Example: fmt.Sprintf(`  pdext %s radii.csv --radius r -o out.csv
  cat radii.csv | pdext %s --table`, shape, shape),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			df, err := readFrame(cmd, inputArg(args), &in)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, cached, err := runner.Geometry(ctx, df, shape, radius)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("computed geometry", "shape", shape, "rows", df.Len(), "cached", cached)

			if pretty {
				rendered, err := csvTable(data)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			}
			if output == "" || output == stdio {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&radius, "radius", geometry.DefaultRadiusColumn, "radius column")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "table", false, "print a table instead of CSV")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// csvTable renders CSV as a bordered terminal table.
func csvTable(data []byte) (string, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read geometry output")
	}
	if len(records) == 0 {
		return "", nil
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(records[0]...).
		Rows(records[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render(), nil
}
