// Package layout resolves station positions and traversal states.
//
// It holds the two leaf stages of a rail map render:
//
//   - [Resolve] maps every station to an (x, y) point from its horizontal
//     share and branch depth.
//   - [Classify] assigns every station a [State] relative to the current
//     station and the travel [Direction].
//
// Both are pure functions of the topology and [Params]; [Build] runs them
// together.
package layout

import "github.com/matzehuels/railmap/pkg/topology"

// Layout is the resolved geometry of one render.
type Layout struct {
	Positions map[string]Point
	States    map[string]State
	Direction Direction
}

// Build resolves positions and states for t under p.
func Build(t *topology.Topology, p Params) Layout {
	return Layout{
		Positions: Resolve(t, p),
		States:    Classify(t.Order(), p.Current, p.HasCurrent, p.Direction),
		Direction: p.Direction,
	}
}

// Resolve computes the position of every station.
//
//	x = x0 + share/totalShares * (x1 - x0)
//	y = -depth * branchSpacing
//
// where [x0, x1] is the padded span from [Params.Span]. The trunk sits on
// y = 0 and deeper branches extend upwards (negative y). Stations with no
// known depth are left out of the result.
func Resolve(t *topology.Topology, p Params) map[string]Point {
	x0, x1 := p.Span()
	total := t.TotalShares()

	positions := make(map[string]Point, len(t.Stations))
	for _, s := range t.Stations {
		if topology.IsSentinel(s.ID) {
			continue
		}
		depth, ok := t.Depth(s.ID)
		if !ok {
			continue
		}
		y := -float64(depth) * p.BranchSpacing
		if y == 0 {
			y = 0 // drop the sign of -0
		}
		positions[s.ID] = Point{
			X: x0 + s.Share/total*(x1-x0),
			Y: y,
		}
	}
	return positions
}

// Classify assigns a traversal state to every station in order.
//
// Stations ahead of index current in the direction of travel are [After],
// those behind are [Before], and the station at current is [Current].
// Travelling right, "ahead" means a larger index; travelling left it means
// a smaller one. When there is no current station, or current is out of
// range, every station is [After], as for a journey that has not started.
func Classify(order []string, current int, hasCurrent bool, dir Direction) map[string]State {
	states := make(map[string]State, len(order))
	if !hasCurrent || current < 0 || current >= len(order) {
		for _, id := range order {
			states[id] = After
		}
		return states
	}

	for i, id := range order {
		switch {
		case i == current:
			states[id] = Current
		case (i > current) == (dir == Right):
			states[id] = After
		default:
			states[id] = Before
		}
	}
	return states
}
