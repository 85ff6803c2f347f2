// Package sink turns drawn figures into output bytes.
//
// # Overview
//
// A "sink" takes a [figure.Figure] built by one of the chart packages and
// writes it in a final format:
//
//   - SVG, PDF and EPS: vector output through gonum's vg backends
//   - PNG, JPEG and TIFF: raster output at a configurable resolution
//   - JSON: the computed chart values, for external tools and caching
//
// Basic usage:
//
//	fig, chart, err := wedge.Plot(f, wedge.DefaultOptions())
//	svg, err := sink.RenderSVG(fig)
//	png, err := sink.RenderPNG(fig, sink.WithDPI(150))
//	js, err := sink.RenderJSON(chart)
//
// [Render] dispatches on a [Format] name; [ValidFormats] lists the names it
// accepts. HTML output is chart specific and lives with the charts that
// support it.
//
// [figure.Figure]: github.com/matzehuels/pdext/pkg/render/figure.Figure
package sink
