package sink

import (
	"encoding/json"

	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/render/railmap/line"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runs    bool
	compact bool
}

// WithJSONRuns includes the per-branch runs (station ids, outline points
// and shape) used to build each path. Useful when debugging a topology.
func WithJSONRuns() JSONOption { return func(r *jsonRenderer) { r.runs = true } }

// WithJSONCompact emits the document on one line.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Padding       float64       `json:"padding"`
	BranchSpacing float64       `json:"branch_spacing"`
	Direction     string        `json:"direction"`
	Current       *int          `json:"current,omitempty"`
	Colour        string        `json:"colour"`
	Baseline      float64       `json:"baseline"`
	Lines         railmap.Lines `json:"lines"`
	Stations      []jsonStation `json:"stations"`
	Branches      []jsonBranch  `json:"branches,omitempty"`
}

type jsonStation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	State string  `json:"state"`
}

type jsonBranch struct {
	Index     int      `json:"index"`
	Main      []string `json:"main"`
	Pass      []string `json:"pass"`
	MainShape string   `json:"main_shape"`
	PassShape string   `json:"pass_shape"`
	MainRun   *jsonRun `json:"main_run,omitempty"`
	PassRun   *jsonRun `json:"pass_run,omitempty"`
}

type jsonRun struct {
	Start     []float64 `json:"start,omitempty"`
	Bifurcate []float64 `json:"bifurcate,omitempty"`
	End       []float64 `json:"end,omitempty"`
}

// RenderJSON exports the diagram as a JSON document: the parameters it was
// drawn with, both line layers and every station placement with its
// traversal state. It does not modify d and is safe to call concurrently.
func RenderJSON(d *railmap.Diagram, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	p := d.Params
	out := jsonOutput{
		Width:         p.Width,
		Height:        p.Height,
		Padding:       p.Padding,
		BranchSpacing: p.BranchSpacing,
		Direction:     p.Direction.String(),
		Colour:        p.Colour,
		Baseline:      d.Baseline(),
		Lines:         d.Lines,
		Stations:      make([]jsonStation, 0, len(d.Stations)),
	}
	if p.HasCurrent {
		current := p.Current
		out.Current = &current
	}
	for _, s := range d.Stations {
		out.Stations = append(out.Stations, jsonStation{
			ID:    s.ID,
			Name:  s.Name,
			X:     s.Position.X,
			Y:     s.Position.Y,
			State: s.State.String(),
		})
	}
	if r.runs {
		out.Branches = buildJSONBranches(d.Branches)
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONBranches(branches []railmap.Branch) []jsonBranch {
	out := make([]jsonBranch, len(branches))
	for i, b := range branches {
		out[i] = jsonBranch{
			Index:     b.Index,
			Main:      nonNil(b.Runs.Main),
			Pass:      nonNil(b.Runs.Pass),
			MainShape: b.MainRun.Shape().String(),
			PassShape: b.PassRun.Shape().String(),
			MainRun:   buildJSONRun(b.MainRun),
			PassRun:   buildJSONRun(b.PassRun),
		}
	}
	return out
}

func buildJSONRun(r line.Run) *jsonRun {
	if r.Start == nil {
		return nil
	}
	out := &jsonRun{Start: pair(r.Start)}
	if r.Bifurcate != nil {
		out.Bifurcate = pair(r.Bifurcate)
	}
	if r.End != nil {
		out.End = pair(r.End)
	}
	return out
}

func pair(p *layout.Point) []float64 { return []float64{p.X, p.Y} }

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
