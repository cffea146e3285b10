package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/render/railmap/line"
)

// Pass line appearance.
const (
	PassStroke      = "gray"
	PassStrokeWidth = 12
)

// Station marker geometry.
const (
	markerRadius      = 8.0
	markerStroke      = 3.0
	labelOffset       = 18.0
	labelFontSize     = 12.0
	labelFontFamily   = "sans-serif"
	passedMarkerColor = "#AAAAAA"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	names      bool
	stations   bool
	background string
}

// WithNames draws each station's name above its marker.
func WithNames() SVGOption { return func(r *svgRenderer) { r.names = true } }

// WithoutStations leaves out the station markers and draws only the lines.
func WithoutStations() SVGOption { return func(r *svgRenderer) { r.stations = false } }

// WithBackground fills the canvas with the given colour.
func WithBackground(colour string) SVGOption {
	return func(r *svgRenderer) { r.background = colour }
}

// RenderSVG draws d as a standalone SVG document.
//
// The line group is translated so the trunk sits [railmap.BaselineOffset]
// above the bottom edge. Inside it the pass layer is drawn first, then the
// main layer, then one marker group per station placed by translation.
// Empty paths are left out.
func RenderSVG(d *railmap.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{stations: true}
	for _, opt := range opts {
		opt(&r)
	}

	p := d.Params
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(p.Width), num(p.Height), num(p.Width), num(p.Height))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	fmt.Fprintf(&buf, `  <g id="main" transform="translate(0,%s)">`+"\n", num(d.Baseline()))
	renderPass(&buf, d.Lines.Pass)
	renderMain(&buf, d.Lines.Main, p.Colour)
	if r.stations {
		renderStations(&buf, d, r.names)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderPass(buf *bytes.Buffer, paths []string) {
	fmt.Fprintf(buf, `    <g class="line line-pass" stroke="%s" stroke-width="%d" fill="none">`+"\n", PassStroke, PassStrokeWidth)
	for _, path := range paths {
		if path == "" {
			continue
		}
		fmt.Fprintf(buf, `      <path d="%s"/>`+"\n", path)
	}
	buf.WriteString("    </g>\n")
}

func renderMain(buf *bytes.Buffer, paths []string, colour string) {
	fmt.Fprintf(buf, `    <g class="line line-main" fill="%s">`+"\n", escapeXML(colour))
	for _, path := range paths {
		if path == "" {
			continue
		}
		fmt.Fprintf(buf, `      <path d="%s"/>`+"\n", path)
	}
	buf.WriteString("    </g>\n")
}

func renderStations(buf *bytes.Buffer, d *railmap.Diagram, names bool) {
	buf.WriteString(`    <g id="stations">` + "\n")
	for _, s := range d.Stations {
		fill, stroke := markerColours(s.State, d.Params.Colour)
		fmt.Fprintf(buf, `      <g id="stn-%s" class="station station-%s" transform="translate(%s,%s)">`+"\n",
			escapeXML(s.ID), s.State, num(s.Position.X), num(s.Position.Y))
		fmt.Fprintf(buf, `        <circle r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
			num(markerRadius), fill, escapeXML(stroke), num(markerStroke))
		if names && s.Name != "" {
			fmt.Fprintf(buf, `        <text y="%s" text-anchor="middle" font-family="%s" font-size="%s">%s</text>`+"\n",
				num(-labelOffset), labelFontFamily, num(labelFontSize), escapeXML(s.Name))
		}
		buf.WriteString("      </g>\n")
	}
	buf.WriteString("    </g>\n")
}

// markerColours picks the marker fill and outline for a traversal state:
// passed stations are greyed out, the current one is filled with the line
// colour and upcoming ones are hollow.
func markerColours(s layout.State, colour string) (fill, stroke string) {
	switch {
	case s < 0:
		return "white", passedMarkerColor
	case s == 0:
		return escapeXML(colour), colour
	}
	return "white", colour
}

func num(v float64) string { return line.FormatCoord(v) }

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
