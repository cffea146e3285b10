package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/railmap/pkg/buildinfo"
	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/observability"
	"github.com/matzehuels/railmap/pkg/pipeline"
	"github.com/matzehuels/railmap/pkg/render"
	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/topology"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// renderRequest is the JSON envelope accepted by the POST endpoints.
type renderRequest struct {
	Topology json.RawMessage        `json:"topology"`
	Params   *topology.RenderConfig `json:"params,omitempty"`
}

type healthResponse struct {
	Status    string                  `json:"status"`
	Build     buildinfo.Info          `json:"build"`
	Converter bool                    `json:"converter"`
	Cache     string                  `json:"cache,omitempty"`
	Stats     *observability.Snapshot `json:"stats,omitempty"`
}

type linesResponse struct {
	InputHash  string                  `json:"input_hash"`
	Main       []string                `json:"main"`
	Pass       []string                `json:"pass"`
	Placements map[string]layout.Point `json:"placements"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Build:     buildinfo.Get(),
		Converter: render.Available(),
		Cache:     s.cfg.Cache,
	}
	if s.cfg.Stats != nil {
		snap := s.cfg.Stats.Snapshot()
		resp.Stats = &snap
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRender handles POST /api/render?format=svg&names=1&stations=0&background=%23fff&runs=1&scale=2&refresh=1.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	topo, params, err := s.readTopology(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), topo, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Input-Hash", result.InputHash)
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// handleLines handles POST /api/lines.
func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	topo, params, err := s.readTopology(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{Params: params, Refresh: queryBool(r, "refresh")}
	d, err := s.runner.Compose(r.Context(), topo, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := railmap.Key(topo, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, linesResponse{
		InputHash:  hash,
		Main:       d.Lines.Main,
		Pass:       d.Lines.Pass,
		Placements: d.Placements(),
	})
}

// readTopology decodes the request body and resolves the diagram
// parameters: defaults, then the topology's [render] table, then the
// envelope's params.
func (s *Server) readTopology(w http.ResponseWriter, r *http.Request) (*topology.Topology, layout.Params, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, layout.Params{}, errBodyTooLarge
		}
		return nil, layout.Params{}, rmerrors.Wrap(rmerrors.ErrCodeInvalidInput, err, "read body")
	}

	var (
		topo     *topology.Topology
		override *topology.RenderConfig
	)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/toml", "text/toml", "text/x-toml":
		topo, err = topology.Decode(bytes.NewReader(body), topology.FormatTOML)
		if err != nil {
			return nil, layout.Params{}, err
		}
	default:
		var req renderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, layout.Params{}, rmerrors.Wrap(rmerrors.ErrCodeInvalidInput, err, "decode request")
		}
		if len(req.Topology) == 0 {
			return nil, layout.Params{}, rmerrors.New(rmerrors.ErrCodeInvalidInput, "request has no topology")
		}
		topo, err = topology.Decode(bytes.NewReader(req.Topology), topology.FormatJSON)
		if err != nil {
			return nil, layout.Params{}, err
		}
		override = req.Params
	}

	params, err := pipeline.ResolveParams(topo, layout.DefaultParams())
	if err != nil {
		return nil, layout.Params{}, err
	}
	if params, err = params.WithConfig(override); err != nil {
		return nil, layout.Params{}, err
	}
	return topo, params, nil
}

func optionsFromQuery(r *http.Request, params layout.Params) (pipeline.Options, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Params:     params,
		Formats:    []string{format},
		Names:      queryBool(r, "names"),
		Background: q.Get("background"),
		Runs:       queryBool(r, "runs"),
		Refresh:    queryBool(r, "refresh"),
	}
	if v := q.Get("stations"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return opts, rmerrors.New(rmerrors.ErrCodeInvalidParams, "invalid stations %q", v)
		}
		opts.NoStations = !show
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || !(scale > 0) || math.IsInf(scale, 0) {
			return opts, rmerrors.New(rmerrors.ErrCodeInvalidParams, "invalid scale %q", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
