// Package nodelink renders a station topology as a node-link diagram.
//
// # Overview
//
// This package draws the branch structure with Graphviz: stations are boxes
// and consecutive stations on a branch are joined by an arrow coloured by
// branch index. It is a debugging view for checking that branches join
// the trunk where expected before drawing the line diagram.
//
// # Usage
//
//	dot := nodelink.ToDOT(topo, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: labels include the station id, share and depth
//   - Sentinels: keep the linestart/lineend markers as point nodes
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
