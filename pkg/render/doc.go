// Package render provides visualization rendering for rail maps.
//
// # Overview
//
// This package contains the rendering pipeline that turns a station
// topology into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Line diagrams (in [railmap] subpackage)
//   - Branch graphs for debugging topologies (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the line diagram sink
// and the node-link renderer use them.
//
//	svg := sink.RenderSVG(diagram, opts...)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Line Diagrams
//
// The [railmap] subpackage draws a line as two layers: an opaque main line
// from the current station onwards and a faded pass line for the stretch
// already travelled, with side branches joined orthogonally to the trunk.
//
// Key railmap subpackages:
//   - [railmap/layout]: station positions and traversal states
//   - [railmap/line]: branch partitioning and path synthesis
//   - [railmap/sink]: output formats (SVG, JSON, PNG, PDF)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the branch structure as a Graphviz
// graph. It is meant for checking a topology by eye, not for display.
//
//	dot := nodelink.ToDOT(topo, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [railmap]: github.com/matzehuels/railmap/pkg/render/railmap
// [railmap/layout]: github.com/matzehuels/railmap/pkg/render/railmap/layout
// [railmap/line]: github.com/matzehuels/railmap/pkg/render/railmap/line
// [railmap/sink]: github.com/matzehuels/railmap/pkg/render/railmap/sink
// [nodelink]: github.com/matzehuels/railmap/pkg/render/nodelink
package render
