package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railmap/pkg/render"
	"github.com/matzehuels/railmap/pkg/topology"
)

// branchColours cycles through edge colours by branch index.
var branchColours = []string{"black", "#009EDB", "#E3002B", "#00A650", "#F4A300", "#8E44AD"}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes share and depth in node labels.
	// When false, only the station name (or ID) is shown.
	Detailed bool
	// Sentinels keeps the linestart/lineend markers as nodes.
	Sentinels bool
}

// ToDOT converts a topology to Graphviz DOT format. Every station becomes a
// node and every pair of consecutive stations on a branch an edge, coloured
// by branch. The trunk is drawn first so Graphviz ranks it left to right.
//
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF],
// or [RenderPNG].
func ToDOT(t *topology.Topology, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, s := range t.Stations {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", s.ID, fmtLabel(t, s, opts.Detailed))
	}
	if opts.Sentinels {
		for _, id := range []string{topology.LineStart, topology.LineEnd} {
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.15];\n", id)
		}
	}

	buf.WriteString("\n")
	type edgeKey struct{ from, to string }
	seen := make(map[edgeKey]bool)
	for i, b := range t.Branches {
		if !opts.Sentinels {
			b = topology.StripSentinels(b)
		}
		colour := branchColours[i%len(branchColours)]
		for j := 1; j < len(b); j++ {
			k := edgeKey{b[j-1], b[j]}
			if seen[k] {
				continue
			}
			seen[k] = true
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, label=\"%d\"];\n", k.from, k.to, colour, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *topology.Topology, s topology.Station, detailed bool) string {
	label := s.ID
	if s.Name != "" {
		label = s.Name
	}
	if !detailed {
		return label
	}

	parts := []string{label, "id: " + s.ID, "share: " + strconv.FormatFloat(s.Share, 'f', -1, 64)}
	if depth, ok := t.Depth(s.ID); ok {
		parts = append(parts, fmt.Sprintf("depth: %d", depth))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
