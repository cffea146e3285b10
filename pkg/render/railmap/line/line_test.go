package line

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
)

var trunk = map[string]layout.Point{
	"s1": {X: 100, Y: 0},
	"s2": {X: 200, Y: 0},
	"s3": {X: 300, Y: 0},
}

func TestSynthesizeStraightMainRight(t *testing.T) {
	runs, err := Partition([]string{"s1", "s2", "s3"}, map[string]layout.State{
		"s1": layout.After, "s2": layout.After, "s3": layout.After,
	})
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}

	main, err := Synthesize(runs.Main, Main, trunk, layout.Right)
	if err != nil {
		t.Fatalf("Synthesize(main) error: %v", err)
	}
	if want := "M 100,-6 H 330 l 12,12 L 100,6 Z"; main != want {
		t.Errorf("main = %q, want %q", main, want)
	}

	pass, err := Synthesize(runs.Pass, Pass, trunk, layout.Right)
	if err != nil {
		t.Fatalf("Synthesize(pass) error: %v", err)
	}
	if pass != "" {
		t.Errorf("pass = %q, want empty", pass)
	}
}

func TestSynthesizeLoneCurrentStation(t *testing.T) {
	runs, err := Partition([]string{"s1"}, map[string]layout.State{"s1": layout.Current})
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(runs.Main) != 0 {
		t.Errorf("Main = %v, want empty", runs.Main)
	}

	main, _ := Synthesize(runs.Main, Main, trunk, layout.Right)
	if main != "" {
		t.Errorf("main = %q, want empty", main)
	}
	pass, err := Synthesize(runs.Pass, Pass, trunk, layout.Right)
	if err != nil {
		t.Fatalf("Synthesize(pass) error: %v", err)
	}
	if want := "M 70,0 L 100,0"; pass != want {
		t.Errorf("pass = %q, want %q", pass, want)
	}
}

func TestSynthesizeTrailingPassIsStitched(t *testing.T) {
	runs, err := Partition([]string{"s1", "s2", "s3"}, map[string]layout.State{
		"s1": layout.After, "s2": layout.After, "s3": layout.Before,
	})
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if diff := cmp.Diff([]string{"s2", "s3"}, runs.Pass); diff != "" {
		t.Errorf("Pass mismatch (-want +got):\n%s", diff)
	}

	pass, err := Synthesize(runs.Pass, Pass, trunk, layout.Right)
	if err != nil {
		t.Fatalf("Synthesize(pass) error: %v", err)
	}
	if want := "M 170,0 H 330"; pass != want {
		t.Errorf("pass = %q, want %q", pass, want)
	}
	x0, x1 := xExtent(t, pass)
	if x0 > trunk["s2"].X || x1 < trunk["s2"].X {
		t.Errorf("pass %q does not reach s2 at x=%v", pass, trunk["s2"].X)
	}
}

func TestSynthesizeBranchUpwardsLeft(t *testing.T) {
	positions := map[string]layout.Point{
		"a": {X: 500, Y: 0},
		"b": {X: 400, Y: -25},
	}
	got, err := Synthesize([]string{"a", "b"}, Main, positions, layout.Left)
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if want := "M 400,-31 H 494 V -6 h 12 V -19 H 400 Z"; got != want {
		t.Errorf("Synthesize() = %q, want %q", got, want)
	}
}

func TestRunPath(t *testing.T) {
	pt := func(x, y float64) *layout.Point { return &layout.Point{X: x, Y: y} }
	straight := Run{Start: pt(100, 0), End: pt(300, 0)}
	down := Run{Start: pt(100, -25), Bifurcate: pt(300, 0), End: pt(300, 0)}
	up := Run{Start: pt(100, 0), Bifurcate: pt(300, -25), End: pt(300, -25)}

	tests := []struct {
		name string
		run  Run
		typ  Type
		dir  layout.Direction
		want string
	}{
		{"empty main", Run{}, Main, layout.Right, ""},
		{"empty pass", Run{}, Pass, layout.Left, ""},
		{"stub main right", Run{Start: pt(100, 0)}, Main, layout.Right, "M 100,-6 L 130,-6 l 12,12 L 100,6 Z"},
		{"stub main left", Run{Start: pt(100, 0)}, Main, layout.Left, "M 100,-6 L 70,-6 l -12,12 L 100,6 Z"},
		{"stub pass right", Run{Start: pt(100, 0)}, Pass, layout.Right, "M 70,0 L 100,0"},
		{"stub pass left", Run{Start: pt(100, 0)}, Pass, layout.Left, "M 100,0 L 130,0"},
		{"straight main right", straight, Main, layout.Right, "M 100,-6 H 330 l 12,12 L 100,6 Z"},
		{"straight main left", straight, Main, layout.Left, "M 70,-6 H 300 l 0,12 L 58,6 Z"},
		{"straight pass right", straight, Pass, layout.Right, "M 70,0 H 330"},
		{"straight pass left", straight, Pass, layout.Left, "M 70,0 H 330"},
		{"down main right", down, Main, layout.Right, "M 100,-31 H 306 V -6 h -12 V -19 H 100 Z"},
		{"down main left", down, Main, layout.Left, "M 70,-31 H 306 V -6 h -12 V -19 H 58 Z"},
		{"up main right", up, Main, layout.Right, "M 330,-31 H 94 V -6 h 12 V -19 H 342 Z"},
		{"up main left", up, Main, layout.Left, "M 300,-31 H 94 V -6 h 12 V -19 H 300 Z"},
		{"down pass", down, Pass, layout.Right, "M 70,-25 H 300 V 0"},
		{"up pass", up, Pass, layout.Left, "M 100,0 V -25 H 330"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.Path(tt.typ, tt.dir); got != tt.want {
				t.Errorf("Path(%v, %v) = %q, want %q", tt.typ, tt.dir, got, tt.want)
			}
		})
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	ids := []string{"s1", "s2", "s3"}
	for _, typ := range []Type{Main, Pass} {
		for _, dir := range []layout.Direction{layout.Left, layout.Right} {
			a, _ := Synthesize(ids, typ, trunk, dir)
			b, _ := Synthesize(ids, typ, trunk, dir)
			if a != b {
				t.Errorf("%v/%v: %q != %q", typ, dir, a, b)
			}
		}
	}
}

func TestStraightRunCoversStations(t *testing.T) {
	ids := []string{"s1", "s2", "s3"}
	for _, typ := range []Type{Main, Pass} {
		for _, dir := range []layout.Direction{layout.Left, layout.Right} {
			path, err := Synthesize(ids, typ, trunk, dir)
			if err != nil {
				t.Fatalf("Synthesize() error: %v", err)
			}
			x0, x1 := xExtent(t, path)
			if x0 > trunk["s1"].X || x1 < trunk["s3"].X {
				t.Errorf("%v/%v: extent [%v, %v] does not cover [100, 300] in %q", typ, dir, x0, x1, path)
			}
		}
	}
}

func TestSynthesizeMissingCoordinate(t *testing.T) {
	_, err := Synthesize([]string{"s1", "ghost"}, Main, trunk, layout.Right)
	if !rmerrors.Is(err, rmerrors.ErrCodeMissingCoordinate) {
		t.Fatalf("error = %v, want MISSING_COORDINATE", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error %q should name the station", err)
	}
}

func TestWalkBifurcation(t *testing.T) {
	tests := []struct {
		name      string
		positions map[string]layout.Point
		want      layout.Point
	}{
		{
			name: "departing keeps the branch station",
			positions: map[string]layout.Point{
				"a": {X: 0, Y: 0}, "b": {X: 10, Y: -25}, "c": {X: 20, Y: -25},
			},
			want: layout.Point{X: 10, Y: -25},
		},
		{
			name: "merging keeps the station before the trunk",
			positions: map[string]layout.Point{
				"a": {X: 0, Y: -25}, "b": {X: 10, Y: -25}, "c": {X: 20, Y: 0},
			},
			want: layout.Point{X: 10, Y: -25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := Walk([]string{"a", "b", "c"}, tt.positions)
			if err != nil {
				t.Fatalf("Walk() error: %v", err)
			}
			if run.Shape() != ShapeBifurcate {
				t.Fatalf("Shape() = %v, want bifurcate", run.Shape())
			}
			if *run.Bifurcate != tt.want {
				t.Errorf("Bifurcate = %v, want %v", *run.Bifurcate, tt.want)
			}
			if *run.End != tt.positions["c"] {
				t.Errorf("End = %v, want %v", *run.End, tt.positions["c"])
			}
		})
	}
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-6, "-6"},
		{123.5, "123.5"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := FormatCoord(tt.in); got != tt.want {
			t.Errorf("FormatCoord(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// xExtent returns the horizontal bounding range of a path built from the
// command set the synthesizer emits.
func xExtent(t *testing.T, path string) (lo, hi float64) {
	t.Helper()
	lo, hi = math.Inf(1), math.Inf(-1)
	var x float64
	fields := strings.Fields(path)
	num := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("bad number %q in %q", s, path)
		}
		return v
	}
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "M", "L":
			i++
			x = num(strings.Split(fields[i], ",")[0])
		case "l":
			i++
			x += num(strings.Split(fields[i], ",")[0])
		case "H":
			i++
			x = num(fields[i])
		case "h":
			i++
			x += num(fields[i])
		case "V":
			i++
			continue
		case "Z":
			continue
		}
		lo, hi = min(lo, x), max(hi, x)
	}
	return lo, hi
}
