package layout

import (
	"fmt"
	"strings"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
)

// Point is a position in diagram space. Y grows downwards, so branches
// drawn above the trunk have negative Y.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String implements fmt.Stringer on Point.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Direction is the travel orientation. It mirrors every cap and stub
// horizontally.
type Direction int

const (
	Right Direction = iota
	Left
)

// String returns the short form used in files and flags: "r" or "l".
func (d Direction) String() string {
	if d == Left {
		return "l"
	}
	return "r"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection accepts "l", "left", "r" and "right" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return Right, rmerrors.New(rmerrors.ErrCodeInvalidDirection, "invalid direction %q (must be 'l' or 'r')", s)
}

// State is the traversal state of a station relative to the current one.
// Downstream logic branches on the sign only.
type State int8

const (
	Before  State = -1 // passed
	Current State = 0
	After   State = 1 // upcoming
)

// OnMain reports whether the station is eligible for the main line.
func (s State) OnMain() bool { return s >= 0 }

// OnPass reports whether the station is eligible for the pass line.
func (s State) OnPass() bool { return s <= 0 }

func (s State) String() string {
	switch {
	case s < 0:
		return "before"
	case s > 0:
		return "after"
	}
	return "current"
}
