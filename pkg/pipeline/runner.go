package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railmap/pkg/cache"
	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/observability"
	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/sink"
	"github.com/matzehuels/railmap/pkg/topology"
)

const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner remembers only the most recent diagram. Multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	memo railmap.Memo
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, t *topology.Topology, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	// Stage 1: Compose
	composeStart := time.Now()
	d, composeHit, err := r.ComposeWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	inputHash, err := railmap.Key(t, opts.Params)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Diagram:   d,
		InputHash: inputHash,
	}
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.Stations = len(d.Stations)
	result.Stats.Branches = len(d.Branches)
	result.CacheInfo.ComposeHit = composeHit

	opts.Logger.Info("composed diagram",
		"stations", result.Stats.Stations,
		"branches", result.Stats.Branches,
		"memo", composeHit,
		"duration", result.Stats.ComposeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, inputHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComposeWithCacheInfo composes the diagram for t, reusing the previous
// one when neither the topology nor the parameters changed. The boolean
// reports whether the diagram was reused.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, t *topology.Topology, opts Options) (*railmap.Diagram, bool, error) {
	if t == nil {
		return nil, false, rmerrors.New(rmerrors.ErrCodeInvalidTopology, "topology is required")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, false, err
	}
	if opts.Refresh {
		r.memo.Reset()
	}

	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, len(t.Stations), len(t.Branches))
	start := time.Now()
	d, hit, err := r.memo.Compose(t, opts.Params)
	hooks.OnComposeComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return d, hit, nil
}

// Compose is a convenience wrapper that calls ComposeWithCacheInfo and discards the hit info.
func (r *Runner) Compose(ctx context.Context, t *topology.Topology, opts Options) (*railmap.Diagram, error) {
	d, _, err := r.ComposeWithCacheInfo(ctx, t, opts)
	return d, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// inputHash identifies the diagram, normally [railmap.Key] of its inputs.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *railmap.Diagram, inputHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err == nil && hit {
			cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := RenderFormats(ctx, d, missing, opts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *railmap.Diagram, inputHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, inputHash, opts)
	return artifacts, err
}

// SVGOptions returns the drawing options selected by o. The PNG and PDF
// renderers rasterise the same SVG, so they share these options.
func (o *Options) SVGOptions() []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if o.Names {
		svgOpts = append(svgOpts, sink.WithNames())
	}
	if o.NoStations {
		svgOpts = append(svgOpts, sink.WithoutStations())
	}
	if o.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(o.Background))
	}
	return svgOpts
}

// RenderFormats renders d into each format without touching any cache.
func RenderFormats(ctx context.Context, d *railmap.Diagram, formats []string, opts Options) (map[string][]byte, error) {
	svgOpts := opts.SVGOptions()

	out := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(d, svgOpts...)
		case FormatJSON:
			var jsonOpts []sink.JSONOption
			if opts.Runs {
				jsonOpts = append(jsonOpts, sink.WithJSONRuns())
			}
			data, err = sink.RenderJSON(d, jsonOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, d, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, d, sink.WithPDFSVGOptions(svgOpts...))
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
