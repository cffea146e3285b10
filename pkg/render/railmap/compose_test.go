package railmap

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/render/railmap/line"
	"github.com/matzehuels/railmap/pkg/topology"
)

func sampleTopology() *topology.Topology {
	return &topology.Topology{
		CriticalLength: 4,
		Stations: []topology.Station{
			{ID: "s1", Name: "Xinzhuang", Share: 0},
			{ID: "s2", Name: "Waihuan Rd", Share: 1},
			{ID: "b1", Name: "Lianhua Rd", Share: 2},
			{ID: "s3", Name: "Jinjiang Park", Share: 2},
			{ID: "s4", Name: "Shanghai South", Share: 4},
		},
		Branches: [][]string{
			{topology.LineStart, "s1", "s2", "s3", "s4", topology.LineEnd},
			{"s2", "b1"},
		},
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name    string
		current int
		has     bool
		want    Lines
	}{
		{
			name: "journey not started",
			want: Lines{
				Main: []string{
					"M 96,-6 H 1134 l 12,12 L 96,6 Z",
					"M 630,-31 H 342 V -6 h 12 V -19 H 642 Z",
				},
				Pass: []string{"", ""},
			},
		},
		{
			name:    "current at junction",
			current: 1,
			has:     true,
			want: Lines{
				Main: []string{
					"M 348,-6 H 1134 l 12,12 L 348,6 Z",
					"M 630,-31 H 342 V -6 h 12 V -19 H 642 Z",
				},
				Pass: []string{
					"M 66,0 H 378",
					"M 318,0 L 348,0",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := layout.DefaultParams()
			p.Current, p.HasCurrent = tt.current, tt.has

			d, err := Compose(sampleTopology(), p)
			if err != nil {
				t.Fatalf("Compose() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, d.Lines); diff != "" {
				t.Errorf("Lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposePlacements(t *testing.T) {
	d, err := Compose(sampleTopology(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	want := map[string]layout.Point{
		"s1": {X: 96, Y: 0},
		"s2": {X: 348, Y: 0},
		"b1": {X: 600, Y: -25},
		"s3": {X: 600, Y: 0},
		"s4": {X: 1104, Y: 0},
	}
	if diff := cmp.Diff(want, d.Placements()); diff != "" {
		t.Errorf("Placements() mismatch (-want +got):\n%s", diff)
	}

	var ids []string
	for _, s := range d.Stations {
		ids = append(ids, s.ID)
	}
	if diff := cmp.Diff([]string{"s1", "s2", "b1", "s3", "s4"}, ids); diff != "" {
		t.Errorf("station order mismatch (-want +got):\n%s", diff)
	}
	if d.Stations[0].Name != "Xinzhuang" {
		t.Errorf("Stations[0].Name = %q", d.Stations[0].Name)
	}
	if got := d.Baseline(); got != 237 {
		t.Errorf("Baseline() = %v, want 237", got)
	}
}

func TestComposeSiblingSpurs(t *testing.T) {
	topo := &topology.Topology{
		CriticalLength: 3,
		Stations: []topology.Station{
			{ID: "a", Share: 0}, {ID: "b", Share: 1}, {ID: "c", Share: 2}, {ID: "d", Share: 3},
			{ID: "x", Share: 2}, {ID: "y", Share: 3},
		},
		Branches: [][]string{
			{"a", "b", "c", "d"},
			{"a", "x"},
			{"b", "y"},
		},
	}

	d, err := Compose(topo, layout.DefaultParams())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	want := map[string]layout.Point{
		"a": {X: 96, Y: 0},
		"b": {X: 432, Y: 0},
		"c": {X: 768, Y: 0},
		"d": {X: 1104, Y: 0},
		"x": {X: 768, Y: -25},
		"y": {X: 1104, Y: -25},
	}
	if diff := cmp.Diff(want, d.Placements()); diff != "" {
		t.Errorf("Placements() mismatch (-want +got):\n%s", diff)
	}
	if got, want := d.Lines.Main[2], "M 1134,-31 H 426 V -6 h 12 V -19 H 1146 Z"; got != want {
		t.Errorf("second spur main = %q, want %q", got, want)
	}
}

func TestComposeMatchesSynthesize(t *testing.T) {
	p := layout.DefaultParams()
	p.Current, p.HasCurrent, p.Direction = 1, true, layout.Left

	d, err := Compose(sampleTopology(), p)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	for i, br := range d.Branches {
		mainPath, err := line.Synthesize(br.Runs.Main, line.Main, d.Layout.Positions, p.Direction)
		if err != nil {
			t.Fatal(err)
		}
		passPath, err := line.Synthesize(br.Runs.Pass, line.Pass, d.Layout.Positions, p.Direction)
		if err != nil {
			t.Fatal(err)
		}
		if d.Lines.Main[i] != mainPath || d.Lines.Pass[i] != passPath {
			t.Errorf("branch %d lines = (%q, %q), want (%q, %q)", i, d.Lines.Main[i], d.Lines.Pass[i], mainPath, passPath)
		}
		if got := br.MainRun.Path(line.Main, p.Direction); got != mainPath {
			t.Errorf("branch %d MainRun.Path() = %q, want %q", i, got, mainPath)
		}
	}
}

func TestComposeBranchRuns(t *testing.T) {
	p := layout.DefaultParams()
	p.Current, p.HasCurrent = 1, true

	d, err := Compose(sampleTopology(), p)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if len(d.Branches) != 2 {
		t.Fatalf("got %d branches, want 2", len(d.Branches))
	}
	trunk := d.Branches[0]
	if diff := cmp.Diff([]string{"s2", "s3", "s4"}, trunk.Runs.Main); diff != "" {
		t.Errorf("trunk main run mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, trunk.Runs.Pass); diff != "" {
		t.Errorf("trunk pass run mismatch (-want +got):\n%s", diff)
	}
	if d.Branches[1].Index != 1 {
		t.Errorf("Branches[1].Index = %d", d.Branches[1].Index)
	}
}

func TestComposeErrors(t *testing.T) {
	inconsistent := &topology.Topology{
		Stations: []topology.Station{
			{ID: "a", Share: 0}, {ID: "b", Share: 1}, {ID: "c", Share: 2},
			{ID: "d", Share: 3}, {ID: "e", Share: 4},
		},
		Branches: [][]string{
			{"a", "b", "c", "d", "e"},
			{"a", "d", "e", "b"},
		},
	}
	p := layout.DefaultParams()
	p.Current, p.HasCurrent = 2, true

	_, err := Compose(inconsistent, p)
	if !rmerrors.Is(err, rmerrors.ErrCodeInconsistentRun) {
		t.Fatalf("error = %v, want INCONSISTENT_RUN", err)
	}
	if !strings.HasPrefix(err.Error(), "branch 1: ") {
		t.Errorf("error %q should name the branch", err)
	}

	bad := sampleTopology()
	bad.Branches = append(bad.Branches, []string{"s4", "nowhere"})
	if _, err := Compose(bad, layout.DefaultParams()); !rmerrors.Is(err, rmerrors.ErrCodeInvalidTopology) {
		t.Errorf("error = %v, want INVALID_TOPOLOGY", err)
	}

	p = layout.DefaultParams()
	p.Width = -1
	if _, err := Compose(sampleTopology(), p); !rmerrors.Is(err, rmerrors.ErrCodeInvalidParams) {
		t.Errorf("error = %v, want INVALID_PARAMS", err)
	}

	nan := sampleTopology()
	nan.Stations[1].Share = math.NaN()
	if _, err := Compose(nan, layout.DefaultParams()); !rmerrors.Is(err, rmerrors.ErrCodeInvalidTopology) {
		t.Errorf("NaN share error = %v, want INVALID_TOPOLOGY", err)
	}
}

func TestMemoRejectsNonFinite(t *testing.T) {
	var m Memo

	topo := sampleTopology()
	topo.Stations[1].Share = math.NaN()
	if _, _, err := m.Compose(topo, layout.DefaultParams()); !rmerrors.Is(err, rmerrors.ErrCodeInvalidTopology) {
		t.Errorf("NaN share error = %v, want INVALID_TOPOLOGY", err)
	}

	p := layout.DefaultParams()
	p.BranchSpacing = math.Inf(1)
	if _, _, err := m.Compose(sampleTopology(), p); !rmerrors.Is(err, rmerrors.ErrCodeInvalidParams) {
		t.Errorf("infinite spacing error = %v, want INVALID_PARAMS", err)
	}

	if hits, misses := m.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() = (%d, %d), want (0, 0) for rejected inputs", hits, misses)
	}
}

func TestMemo(t *testing.T) {
	var m Memo
	topo := sampleTopology()
	p := layout.DefaultParams()

	first, hit, err := m.Compose(topo, p)
	if err != nil || hit {
		t.Fatalf("first Compose() = hit %v, err %v", hit, err)
	}
	second, hit, _ := m.Compose(topo, p)
	if !hit || second != first {
		t.Error("second Compose() with same inputs should hit")
	}

	p.Direction = layout.Left
	third, hit, _ := m.Compose(topo, p)
	if hit || third == first {
		t.Error("Compose() after a direction change should miss")
	}

	m.Reset()
	if _, hit, _ := m.Compose(topo, p); hit {
		t.Error("Compose() after Reset() should miss")
	}

	hits, misses := m.Stats()
	if hits != 1 || misses != 3 {
		t.Errorf("Stats() = (%d, %d), want (1, 3)", hits, misses)
	}
}

func TestKey(t *testing.T) {
	p := layout.DefaultParams()
	a, err := Key(sampleTopology(), p)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Key(sampleTopology(), p)
	if a != b {
		t.Error("Key() should be deterministic")
	}

	p.Current, p.HasCurrent = 2, true
	c, _ := Key(sampleTopology(), p)
	if a == c {
		t.Error("Key() should change with the current station")
	}
	if len(a) != 64 {
		t.Errorf("len(Key()) = %d, want 64", len(a))
	}
}
