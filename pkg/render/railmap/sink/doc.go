// Package sink provides output format renderers for rail map diagrams.
//
// # Overview
//
// A "sink" transforms a composed [railmap.Diagram] into a final output
// format. This package provides renderers for:
//
//   - SVG: the line diagram itself
//   - JSON: lines, placements and states for external tools
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws the pass layer as a gray stroke, the main layer filled
// with the line colour on top of it, and a marker per station whose look
// follows its traversal state:
//
//	svg := sink.RenderSVG(diagram, sink.WithNames())
//
// # SVG Options
//
//   - [WithNames]: label each marker with the station name
//   - [WithoutStations]: draw the lines only
//   - [WithBackground]: fill the canvas
//
// # JSON Output
//
// [RenderJSON] exports the parameters, both path layers and every station
// placement. [WithJSONRuns] adds the per-branch runs each path was built
// from, which is the quickest way to see why a branch looks wrong.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first and convert it via
// [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(ctx, diagram)
//	png, err := sink.RenderPNG(ctx, diagram, sink.WithScale(2))
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [railmap.Diagram]: github.com/matzehuels/railmap/pkg/render/railmap.Diagram
// [render.ToPDF]: github.com/matzehuels/railmap/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/railmap/pkg/render.ToPNG
package sink
