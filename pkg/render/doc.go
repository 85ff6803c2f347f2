// Package render groups the chart packages.
//
// Each chart splits into a pure computation and a drawing step:
//
//   - [stripes]: Compute → *Stripes, Draw → figure
//   - [wedge]: Layout → *Chart, Draw → figure
//   - [calendar]: Compute → *Calendar, Draw → figure and per-panel axes;
//     RenderHTML exports an interactive go-echarts page
//
// Computed values marshal to JSON, so a chart can be served as data
// without drawing it. Figures are written by [sink]:
//
//	fig, _, err := stripes.Plot(f, opts)
//	png, err := sink.RenderPNG(fig, sink.WithDPI(150))
//
// [figure] holds the shared model: a figure of axes placed in figure
// fractions, with patches and text drawn through gonum/plot.
package render
