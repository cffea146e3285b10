package railmap

import (
	"fmt"

	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/render/railmap/line"
	"github.com/matzehuels/railmap/pkg/topology"
)

// BaselineOffset is how far above the bottom edge the trunk is drawn.
const BaselineOffset = 63.0

// Lines holds one path per branch for each layer, in branch order. An
// entry is empty when the branch draws nothing on that layer.
type Lines struct {
	Main []string `json:"main"`
	Pass []string `json:"pass"`
}

// Branch records how one branch was split and outlined.
type Branch struct {
	Index   int       `json:"index"`
	Runs    line.Runs `json:"runs"`
	MainRun line.Run  `json:"main_run"`
	PassRun line.Run  `json:"pass_run"`
}

// Station is a placed station marker.
type Station struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	Position layout.Point `json:"position"`
	State    layout.State `json:"state"`
}

// Diagram is the renderable result of [Compose]. A diagram returned by
// [Memo] is shared and must not be modified.
type Diagram struct {
	Params   layout.Params `json:"params"`
	Layout   layout.Layout `json:"-"`
	Lines    Lines         `json:"lines"`
	Branches []Branch      `json:"branches"`
	// Stations lists every positioned station in topology order.
	Stations []Station `json:"stations"`
}

// Placements maps every placed station to its marker translation.
func (d *Diagram) Placements() map[string]layout.Point {
	out := make(map[string]layout.Point, len(d.Stations))
	for _, s := range d.Stations {
		out[s.ID] = s.Position
	}
	return out
}

// Baseline returns the vertical translation of the line group.
func (d *Diagram) Baseline() float64 {
	return d.Params.Height - BaselineOffset
}

// Compose builds the diagram for t under p.
//
// It returns an INVALID_* error for a malformed topology or parameters,
// and the first partition or synthesis error, prefixed with its branch
// index, otherwise.
func Compose(t *topology.Topology, p layout.Params) (*Diagram, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	l := layout.Build(t, p)
	d := &Diagram{Params: p, Layout: l}

	for i, b := range t.StrippedBranches() {
		br, err := composeBranch(b, l)
		if err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
		mainPath, passPath, err := synthesizeBranch(br.Runs, l)
		if err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
		br.Index = i
		d.Branches = append(d.Branches, br)
		d.Lines.Main = append(d.Lines.Main, mainPath)
		d.Lines.Pass = append(d.Lines.Pass, passPath)
	}

	for _, s := range t.Stations {
		pos, ok := l.Positions[s.ID]
		if !ok {
			continue
		}
		d.Stations = append(d.Stations, Station{
			ID:       s.ID,
			Name:     s.Name,
			Position: pos,
			State:    l.States[s.ID],
		})
	}
	return d, nil
}

func composeBranch(ids []string, l layout.Layout) (Branch, error) {
	runs, err := line.Partition(ids, l.States)
	if err != nil {
		return Branch{}, err
	}
	mainRun, err := line.Walk(runs.Main, l.Positions)
	if err != nil {
		return Branch{}, fmt.Errorf("main line: %w", err)
	}
	passRun, err := line.Walk(runs.Pass, l.Positions)
	if err != nil {
		return Branch{}, fmt.Errorf("pass line: %w", err)
	}
	return Branch{Runs: runs, MainRun: mainRun, PassRun: passRun}, nil
}

// synthesizeBranch draws both layers of a partitioned branch.
func synthesizeBranch(runs line.Runs, l layout.Layout) (mainPath, passPath string, err error) {
	if mainPath, err = line.Synthesize(runs.Main, line.Main, l.Positions, l.Direction); err != nil {
		return "", "", fmt.Errorf("main line: %w", err)
	}
	if passPath, err = line.Synthesize(runs.Pass, line.Pass, l.Positions, l.Direction); err != nil {
		return "", "", fmt.Errorf("pass line: %w", err)
	}
	return mainPath, passPath, nil
}
