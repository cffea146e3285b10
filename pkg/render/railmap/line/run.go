package line

import (
	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
)

// Run is the outline of one station sub-sequence: where it starts, where
// it changes vertical level, and where it ends. Any field may be nil.
type Run struct {
	Start     *layout.Point `json:"start,omitempty"`
	Bifurcate *layout.Point `json:"bifurcate,omitempty"`
	End       *layout.Point `json:"end,omitempty"`
}

// Shape classifies a [Run] for path synthesis.
type Shape int

const (
	ShapeNone      Shape = iota // no stations
	ShapeStub                   // a single station
	ShapeStraight               // several stations on one level
	ShapeBifurcate              // the run changes level
)

func (s Shape) String() string {
	switch s {
	case ShapeStub:
		return "stub"
	case ShapeStraight:
		return "straight"
	case ShapeBifurcate:
		return "bifurcate"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Shape reports which case of the synthesis table r falls into.
func (r Run) Shape() Shape {
	switch {
	case r.Start == nil:
		return ShapeNone
	case r.End == nil:
		return ShapeStub
	case r.Bifurcate == nil:
		return ShapeStraight
	}
	return ShapeBifurcate
}

// Walk accumulates the run for ids in order.
//
// The first station sets Start and every later one moves End. When the
// level changes between consecutive stations the bifurcation point is
// recorded on the trunk side of the joint: the previous station when the
// line merges back to y = 0, the current station when it departs onto a
// branch. A later level change overwrites an earlier one.
//
// Walk returns a MISSING_COORDINATE error for a station with no position.
func Walk(ids []string, positions map[string]layout.Point) (Run, error) {
	var (
		run  Run
		prev layout.Point
	)
	for i, id := range ids {
		p, ok := positions[id]
		if !ok {
			return Run{}, rmerrors.New(rmerrors.ErrCodeMissingCoordinate, "station %q has no resolved position", id)
		}
		if i == 0 {
			start := p
			run.Start = &start
			prev = p
			continue
		}
		if p.Y != prev.Y {
			b := p
			if p.Y == 0 {
				b = prev // merging back to the trunk
			}
			run.Bifurcate = &b
		}
		end := p
		run.End = &end
		prev = p
	}
	return run, nil
}
