// Package pkg holds the pdext libraries: dataframe charts rendered
// through gonum/plot, with caching and a pipeline runner shared by the
// CLI and the HTTP service.
//
// # Overview
//
// The packages are organized by concern:
//
//  1. [frame] - CSV input as a column table with an optional time index
//  2. [geometry] - derived circle and sphere columns
//  3. [render] - chart computation and drawing (stripes, wedge, calendar),
//     the shared figure model and output sinks
//  4. [cache] - file, Redis and MongoDB artifact caches
//  5. [pipeline] - orchestration (read → build → render → cache)
//
// # Architecture
//
// The typical data flow:
//
//	CSV
//	 ↓
//	[frame] package (typed columns, time index)
//	 ↓
//	[render/stripes], [render/wedge], [render/calendar] (compute, then draw)
//	 ↓
//	[render/figure] (axes on a gonum/plot canvas)
//	 ↓
//	[render/sink] (SVG/PNG/JPEG/TIFF/PDF/EPS/JSON bytes)
//
// # Quick Start
//
//	f, _ := frame.ReadCSV(r, frame.ReadOptions{})
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, f, pipeline.Options{
//	    Chart:   pipeline.ChartStripes,
//	    Formats: []string{"svg", "png"},
//	    Stripes: &stripes.Options{Column: "anomaly", Index: "year"},
//	})
//	svg := res.Artifacts["svg"]
//
// Supporting packages: [errors] (coded errors), [colors] (colour parsing
// and colour maps), [observability] (render, cache and HTTP hooks) and
// [buildinfo] (version stamping).
package pkg
