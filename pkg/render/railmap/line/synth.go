package line

import "github.com/matzehuels/railmap/pkg/render/railmap/layout"

// Fixed visual-thickness parameters of the line style.
const (
	capOffset     = 30.0 // how far a line extends past its end stations
	halfThickness = 6.0  // half the height of a filled main line
	notch         = 12.0 // lateral step of arrow caps and bifurcation corners
)

// Type selects which of the two line layers a path is drawn for.
type Type int

const (
	Main Type = iota // opaque line, current station onwards
	Pass             // faded line, up to the current station
)

func (t Type) String() string {
	if t == Pass {
		return "pass"
	}
	return "main"
}

// Synthesize returns the path description for the stations ids drawn as a
// line of type t travelling in dir. It returns an empty string when ids is
// empty, and a MISSING_COORDINATE error when a station has no position.
func Synthesize(ids []string, t Type, positions map[string]layout.Point, dir layout.Direction) (string, error) {
	run, err := Walk(ids, positions)
	if err != nil {
		return "", err
	}
	return run.Path(t, dir), nil
}

// Path emits the geometry for r.
func (r Run) Path(t Type, dir layout.Direction) string {
	switch r.Shape() {
	case ShapeStub:
		if t == Main {
			return mainStub(*r.Start, dir)
		}
		return passStub(*r.Start, dir)
	case ShapeStraight:
		if t == Main {
			return mainStraight(*r.Start, *r.End, dir)
		}
		return passStraight(*r.Start, *r.End)
	case ShapeBifurcate:
		if t == Main {
			return mainBifurcate(*r.Start, *r.End, dir)
		}
		return passBifurcate(*r.Start, *r.End)
	}
	return ""
}

// mainStub draws the wedge beyond a terminal station, pointing in the
// travel direction.
func mainStub(s layout.Point, dir layout.Direction) string {
	sign := 1.0
	if dir == layout.Left {
		sign = -1
	}
	var p pathBuilder
	return p.moveTo(s.X, s.Y-halfThickness).
		lineTo(s.X+sign*capOffset, s.Y-halfThickness).
		lineBy(sign*notch, notch).
		lineTo(s.X, s.Y+halfThickness).
		close().String()
}

// passStub draws the short tick behind a terminal station.
func passStub(s layout.Point, dir layout.Direction) string {
	var p pathBuilder
	if dir == layout.Left {
		return p.moveTo(s.X, s.Y).lineTo(s.X+capOffset, s.Y).String()
	}
	return p.moveTo(s.X-capOffset, s.Y).lineTo(s.X, s.Y).String()
}

// mainStraight draws a single-level lozenge with an arrow cap on the side
// the line is heading to.
func mainStraight(s, e layout.Point, dir layout.Direction) string {
	var p pathBuilder
	if dir == layout.Left {
		return p.moveTo(s.X-capOffset, s.Y-halfThickness).
			hTo(e.X).
			lineBy(0, 2*halfThickness).
			lineTo(s.X-capOffset-notch, s.Y+halfThickness).
			close().String()
	}
	return p.moveTo(s.X, s.Y-halfThickness).
		hTo(e.X+capOffset).
		lineBy(notch, notch).
		lineTo(s.X, s.Y+halfThickness).
		close().String()
}

func passStraight(s, e layout.Point) string {
	var p pathBuilder
	return p.moveTo(s.X-capOffset, s.Y).hTo(e.X + capOffset).String()
}

// mainBifurcate draws the orthogonal outline joining two levels. Which
// corner is stepped depends on the direction and on whether the run ends
// below (larger y) or above its start.
func mainBifurcate(s, e layout.Point, dir layout.Direction) string {
	var p pathBuilder
	endBelow := e.Y > s.Y
	switch {
	case dir == layout.Left && endBelow:
		p.moveTo(s.X-capOffset, s.Y-halfThickness).
			hTo(e.X+halfThickness).
			vTo(e.Y-halfThickness).
			hBy(-notch).
			vTo(s.Y+halfThickness).
			hTo(s.X-capOffset-notch)
	case dir == layout.Left:
		p.moveTo(e.X, e.Y-halfThickness).
			hTo(s.X-halfThickness).
			vTo(s.Y-halfThickness).
			hBy(notch).
			vTo(e.Y+halfThickness).
			hTo(e.X)
	case endBelow:
		p.moveTo(s.X, s.Y-halfThickness).
			hTo(e.X+halfThickness).
			vTo(e.Y-halfThickness).
			hBy(-notch).
			vTo(s.Y+halfThickness).
			hTo(s.X)
	default:
		p.moveTo(e.X+capOffset, e.Y-halfThickness).
			hTo(s.X-halfThickness).
			vTo(s.Y-halfThickness).
			hBy(notch).
			vTo(e.Y+halfThickness).
			hTo(e.X+capOffset+notch)
	}
	return p.close().String()
}

// passBifurcate draws the two-segment stroke joining two levels. It does
// not depend on direction.
func passBifurcate(s, e layout.Point) string {
	var p pathBuilder
	if e.Y > s.Y {
		return p.moveTo(s.X-capOffset, s.Y).hTo(e.X).vTo(e.Y).String()
	}
	return p.moveTo(s.X, s.Y).vTo(e.Y).hTo(e.X + capOffset).String()
}
