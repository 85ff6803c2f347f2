package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/pipeline"
	"github.com/matzehuels/pdext/pkg/render/sink"
)

// stdio is the path naming standard input or output.
const stdio = "-"

// inputFlags select and parse the CSV input.
type inputFlags struct {
	timeColumn string
	timeLayout string
	delimiter  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.timeColumn, "time-column", "", "column to use as the time index")
	cmd.Flags().StringVar(&f.timeLayout, "time-layout", "", "Go time layout of the time column (default: RFC3339 and common date layouts)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", "CSV field delimiter")
}

// readOptions converts the flags to frame read options.
func (f *inputFlags) readOptions() (frame.ReadOptions, error) {
	opts := frame.ReadOptions{TimeColumn: f.timeColumn, TimeLayout: f.timeLayout}
	switch r := []rune(f.delimiter); {
	case f.delimiter == `\t` || f.delimiter == "tab":
		opts.Comma = '\t'
	case len(r) == 1:
		opts.Comma = r[0]
	default:
		return opts, errors.New(errors.ErrCodeInvalidInput, "delimiter must be one character, got %q", f.delimiter)
	}
	return opts, nil
}

// chartFlags are shared by the chart commands.
type chartFlags struct {
	inputFlags
	output  string
	formats string
	dpi     int
	noCache bool
	refresh bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	f.inputFlags.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path; the extension is added per format, - writes one format to stdout")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "comma-separated formats: "+strings.Join(sink.FormatNames(), ", "))
	cmd.Flags().IntVar(&f.dpi, "dpi", 0, "raster resolution for png, jpeg and tiff")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts and render again")
}

// pipelineOptions merges the flags over the config file defaults.
func (c *CLI) pipelineOptions(cmd *cobra.Command, chart string, f *chartFlags) pipeline.Options {
	opts := pipeline.Options{
		Chart:   chart,
		Formats: c.Config.Render.Formats,
		DPI:     c.Config.Render.DPI,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	if cmd.Flags().Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if cmd.Flags().Changed("dpi") {
		opts.DPI = f.dpi
	}
	return opts
}

// readFrame reads the CSV at path, or standard input for "" and "-".
func readFrame(cmd *cobra.Command, path string, f *inputFlags) (*frame.Frame, error) {
	ro, err := f.readOptions()
	if err != nil {
		return nil, err
	}
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != stdio {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		defer file.Close()
		r = file
	}
	return frame.ReadCSV(r, ro)
}

// inputArg returns the optional positional input path.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdio
	}
	return args[0]
}

// runChart reads the input, runs the pipeline and writes every artifact.
// prepare may adjust the options once the frame is known.
func (c *CLI) runChart(cmd *cobra.Command, args []string, f *chartFlags, opts pipeline.Options, prepare func(*frame.Frame, *pipeline.Options) error) error {
	ctx := cmd.Context()
	input := inputArg(args)
	prog := newProgress(loggerFromContext(ctx))

	df, err := readFrame(cmd, input, &f.inputFlags)
	if err != nil {
		return err
	}
	if prepare != nil {
		if err := prepare(df, &opts); err != nil {
			return err
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if f.output == stdio && len(opts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "writing to stdout needs exactly one format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := c.execute(ctx, cmd, runner, df, opts, f.output == stdio)
	if err != nil {
		return err
	}

	if f.output == stdio {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}
	paths, err := writeArtifacts(basePath(f.output, input, opts.Chart), result.Artifacts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range paths {
		printFile(out, p)
	}
	printStats(out, result.Stats.Rows, result.Stats.Bytes, result.CacheInfo.Hits, result.CacheInfo.Misses)
	prog.done(fmt.Sprintf("Rendered %s", opts.Chart))
	return nil
}

// execute runs the pipeline behind a spinner when stderr is a terminal.
func (c *CLI) execute(ctx context.Context, cmd *cobra.Command, r *pipeline.Runner, df *frame.Frame, opts pipeline.Options, quiet bool) (*pipeline.Result, error) {
	if quiet || !isTerminal(cmd.ErrOrStderr()) {
		return r.Execute(ctx, df, opts)
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Chart))
	spinner.Err = cmd.ErrOrStderr()
	spinner.Out = cmd.OutOrStdout()
	spinner.Start()
	result, err := r.Execute(ctx, df, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return nil, ctx.Err()
		}
		spinner.StopWithError(errors.UserMessage(err))
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s (%s)", opts.Chart, strings.Join(opts.Formats, ", ")))
	return result, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// basePath returns the output path without extension. It defaults to the
// input name, or the chart name when reading standard input.
func basePath(output, input, chart string) string {
	if output != "" {
		if ext := filepath.Ext(output); ext != "" {
			if _, err := sink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
				return strings.TrimSuffix(output, ext)
			}
		}
		return output
	}
	if input == "" || input == stdio {
		return chart
	}
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "_" + chart
}

// writeArtifacts writes each artifact to base plus its format extension
// and returns the paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, name := range formats {
		format, err := sink.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		path := base + format.Extension()
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
