// Package pkg provides the core libraries for railmap line diagrams.
//
// # Overview
//
// Railmap draws a metro line as seen from a train: stations placed along a
// horizontal trunk, side branches joined orthogonally above it, the
// stretch still ahead in the line colour and the stretch already travelled
// in gray.
//
// # Architecture
//
// The data flow through railmap:
//
//	Topology file (TOML / JSON)
//	         ↓
//	    [topology] package (decode + validate)
//	         ↓
//	    [render/railmap/layout] package (positions + traversal states)
//	         ↓
//	    [render/railmap/line] package (partition + path synthesis)
//	         ↓
//	    [render/railmap] package (compose a diagram)
//	         ↓
//	    [render/railmap/sink] package (SVG / JSON / PNG / PDF)
//
// # Quick Start
//
//	t, _ := topology.Load("line1.toml")
//	p := layout.DefaultParams()
//	p.Current, p.HasCurrent = 5, true
//
//	d, _ := railmap.Compose(t, p)
//	svg := sink.RenderSVG(d, sink.WithNames())
//
// # Main Packages
//
// [topology] - Station list, shares, branches and the optional [render]
// table of a topology file.
//
// [render/railmap] - Line diagram composition and its in-process memo.
//
// [render/nodelink] - Graphviz view of the branch structure, for checking a
// topology by eye.
//
// [pipeline] - Compose → render runner shared by the CLI and the HTTP API,
// with artifact caching.
//
// [cache] - Artifact cache backends: file (CLI), Redis and MongoDB
// (shared deployments), null (disabled).
//
// [api] - HTTP API serving renders and path strings.
//
// [observability] - Hooks for compose, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every layer.
//
// [topology]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/topology
// [render/railmap]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/render/railmap
// [render/railmap/layout]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/render/railmap/layout
// [render/railmap/line]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/render/railmap/line
// [render/railmap/sink]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/render/railmap/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/railmap/pkg/errors
package pkg
