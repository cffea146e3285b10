// Package topology defines the already-resolved rail network input: the
// ordered station list with horizontal shares and the branches that run
// through it.
//
// A topology is consumed as-is. Deciding which stations exist, their order,
// and the critical path that produced the shares all happen upstream; this
// package only decodes, validates and answers lookups.
//
// # File format
//
// Topologies are read from TOML (preferred) or JSON:
//
//	critical_length = 4
//	branches = [
//	  ["linestart", "s1", "s2", "s3", "s4", "lineend"],
//	  ["s2", "b1", "b2"],
//	]
//
//	[[stations]]
//	id = "s1"
//	name = "Xinzhuang"
//	share = 0
//
//	[render]
//	direction = "r"
//	current = 1
//
// The first branch is the trunk. Branches may be bracketed by the
// [LineStart] and [LineEnd] sentinels, which never take part in geometry.
package topology

import (
	"math"
	"slices"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
)

// Sentinel markers that may bracket a branch.
const (
	LineStart = "linestart"
	LineEnd   = "lineend"
)

// IsSentinel reports whether id is one of the branch sentinels.
func IsSentinel(id string) bool {
	return id == LineStart || id == LineEnd
}

// Station is one stop of the network.
type Station struct {
	ID    string  `toml:"id" json:"id"`
	Name  string  `toml:"name,omitempty" json:"name,omitempty"`
	Share float64 `toml:"share" json:"share"`
	// Depth overrides the branch-depth index derived from branch membership.
	Depth *int `toml:"depth,omitempty" json:"depth,omitempty"`
}

// RenderConfig carries optional diagram parameters stored alongside a
// topology. Unset fields leave the caller's defaults untouched.
type RenderConfig struct {
	Width         *float64 `toml:"width,omitempty" json:"width,omitempty"`
	Height        *float64 `toml:"height,omitempty" json:"height,omitempty"`
	Padding       *float64 `toml:"padding,omitempty" json:"padding,omitempty"`
	BranchSpacing *float64 `toml:"branch_spacing,omitempty" json:"branch_spacing,omitempty"`
	Direction     string   `toml:"direction,omitempty" json:"direction,omitempty"`
	Current       *int     `toml:"current,omitempty" json:"current,omitempty"`
	Colour        string   `toml:"colour,omitempty" json:"colour,omitempty"`
}

// Topology is the ordered station list plus its branches.
type Topology struct {
	// CriticalLength is the total share span of the critical path.
	CriticalLength float64       `toml:"critical_length,omitempty" json:"critical_length,omitempty"`
	Stations       []Station     `toml:"stations" json:"stations"`
	Branches       [][]string    `toml:"branches" json:"branches"`
	Render         *RenderConfig `toml:"render,omitempty" json:"render,omitempty"`
}

// Order returns the station ids in declaration order, sentinels excluded.
// This is the full station ordering the traversal classifier walks.
func (t *Topology) Order() []string {
	ids := make([]string, 0, len(t.Stations))
	for _, s := range t.Stations {
		if IsSentinel(s.ID) {
			continue
		}
		ids = append(ids, s.ID)
	}
	return ids
}

// Station looks up a station by id.
func (t *Topology) Station(id string) (Station, bool) {
	for _, s := range t.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// TotalShares returns the divisor used to normalise shares: CriticalLength
// when set, otherwise the largest share, otherwise 1.
func (t *Topology) TotalShares() float64 {
	if t.CriticalLength > 0 {
		return t.CriticalLength
	}
	var maxShare float64
	for _, s := range t.Stations {
		maxShare = max(maxShare, s.Share)
	}
	if maxShare > 0 {
		return maxShare
	}
	return 1
}

// Depth returns the branch-depth index of a station. An explicit depth
// wins; otherwise the station takes the depth of the first branch that
// contains it (see [Topology.BranchDepths]). The second result is false for
// stations that are neither declared with a depth nor on any branch.
func (t *Topology) Depth(id string) (int, bool) {
	if s, ok := t.Station(id); ok && s.Depth != nil {
		return *s.Depth, true
	}
	depths := t.BranchDepths()
	for i, b := range t.Branches {
		if slices.Contains(b, id) {
			return depths[i], true
		}
	}
	return 0, false
}

// BranchDepths returns the nesting level of every branch. The trunk is 0.
// Any other branch sits one level above the earliest preceding branch that
// holds its first or last station, so sibling spurs leaving the same branch
// share a level. A branch attached to nothing before it defaults to 1.
func (t *Topology) BranchDepths() []int {
	stripped := t.StrippedBranches()
	depths := make([]int, len(stripped))
	for i := 1; i < len(stripped); i++ {
		depths[i] = 1
		b := stripped[i]
		if len(b) == 0 {
			continue
		}
		first, last := b[0], b[len(b)-1]
		for j := range i {
			if slices.Contains(stripped[j], first) || slices.Contains(stripped[j], last) {
				depths[i] = depths[j] + 1
				break
			}
		}
	}
	return depths
}

// StrippedBranches returns every branch with its sentinels removed.
func (t *Topology) StrippedBranches() [][]string {
	out := make([][]string, len(t.Branches))
	for i, b := range t.Branches {
		out[i] = StripSentinels(b)
	}
	return out
}

// StripSentinels returns a copy of branch without [LineStart] and [LineEnd].
func StripSentinels(branch []string) []string {
	out := make([]string, 0, len(branch))
	for _, id := range branch {
		if IsSentinel(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Validate checks that the topology is internally consistent.
//
// Validate returns an INVALID_TOPOLOGY error if:
//   - there are no stations or no branches
//   - a station id is empty, malformed, duplicated or a sentinel
//   - a share is negative or not finite
//   - the critical length is not finite
//   - a branch references an undeclared station
//   - an explicit depth is negative
func (t *Topology) Validate() error {
	if len(t.Stations) == 0 {
		return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "topology has no stations")
	}
	if len(t.Branches) == 0 {
		return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "topology has no branches")
	}

	if !finite(t.CriticalLength) {
		return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "critical length must be finite, got %v", t.CriticalLength)
	}

	seen := make(map[string]bool, len(t.Stations))
	for _, s := range t.Stations {
		if err := rmerrors.ValidateStationID(s.ID); err != nil {
			return err
		}
		if IsSentinel(s.ID) {
			return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "station id %q is reserved", s.ID)
		}
		if seen[s.ID] {
			return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "duplicate station %q", s.ID)
		}
		seen[s.ID] = true
		if !finite(s.Share) {
			return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "station %q has non-finite share %v", s.ID, s.Share)
		}
		if s.Share < 0 {
			return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "station %q has negative share %v", s.ID, s.Share)
		}
		if s.Depth != nil && *s.Depth < 0 {
			return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "station %q has negative depth %d", s.ID, *s.Depth)
		}
	}

	for i, b := range t.Branches {
		for _, id := range b {
			if IsSentinel(id) {
				continue
			}
			if !seen[id] {
				return rmerrors.New(rmerrors.ErrCodeInvalidTopology, "branch %d references unknown station %q", i, id)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
