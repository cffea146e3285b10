// Package pipeline provides the compose → render pipeline for railmap.
//
// The CLI and the HTTP API both go through this package so that a topology
// renders identically from either entry point, and so that rendered
// artifacts are cached in one place.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Compose: derive the layout and the main/pass path strings from a
//     topology and its parameters (see [railmap.Compose])
//  2. Render: serialise the diagram into one or more output formats
//     (SVG, JSON, PNG, PDF)
//
// Composition is cheap and is memoised in process. Rendering, and
// rasterising in particular, is cached through a [cache.Cache] keyed by
// the hash of the topology and parameters.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	opts := pipeline.Options{
//	    Params:  layout.DefaultParams(),
//	    Formats: []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, topo, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railmap/pkg/cache"
	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render"
	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/topology"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compose options
	Params layout.Params `json:"params"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Names      bool     `json:"names,omitempty"`       // label stations in SVG output
	NoStations bool     `json:"no_stations,omitempty"` // draw only the lines
	Background string   `json:"background,omitempty"`  // canvas fill colour, empty for transparent
	Scale      float64  `json:"scale,omitempty"`       // PNG scale factor
	Runs       bool     `json:"runs,omitempty"`        // include run geometry in JSON output
	Refresh    bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized). Nil means the runner's logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the composed diagram.
	Diagram *railmap.Diagram

	// InputHash is the content hash of the topology and parameters.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit a cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Stations    int
	Branches    int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComposeHit bool // Whether the diagram came from the in-process memo
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return rmerrors.New(rmerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return rmerrors.New(rmerrors.ErrCodeInvalidParams, "scale must be a positive finite number, got %v", o.Scale)
	}
	if o.Background != "" {
		if err := rmerrors.ValidateColour(o.Background); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
}

// NeedsConverter reports whether any requested format is rasterised
// through rsvg-convert.
func (o *Options) NeedsConverter() bool {
	for _, f := range o.Formats {
		if f == FormatPNG || f == FormatPDF {
			return true
		}
	}
	return false
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect a format's bytes are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF, FormatPNG:
		k.Names = o.Names
		k.NoStations = o.NoStations
		k.Background = o.Background
		if format == FormatPNG {
			k.Scale = o.Scale
		}
	case FormatJSON:
		k.Runs = o.Runs
	}
	return k
}

// ResolveParams layers a topology's [render] table over base.
// Callers apply their own overrides (CLI flags, query parameters) to
// the result.
func ResolveParams(t *topology.Topology, base layout.Params) (layout.Params, error) {
	if t == nil {
		return base, nil
	}
	return base.WithConfig(t.Render)
}
