package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/railmap/pkg/topology"
)

func branchedTopology() *topology.Topology {
	depth := 2
	return &topology.Topology{
		Stations: []topology.Station{
			{ID: "a", Name: "Alpha", Share: 0},
			{ID: "b", Share: 1},
			{ID: "c", Share: 2},
			{ID: "x", Share: 1.5, Depth: &depth},
		},
		Branches: [][]string{
			{topology.LineStart, "a", "b", "c", topology.LineEnd},
			{"a", "b", "x"},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(branchedTopology(), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`"a" [label="Alpha"]`,
		`"b" [label="b"]`,
		`"a" -> "b" [color="black", label="0"]`,
		`"b" -> "x" [color="#009EDB", label="1"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if n := strings.Count(dot, `"a" -> "b"`); n != 1 {
		t.Errorf("shared edge emitted %d times, want 1", n)
	}
	if strings.Contains(dot, topology.LineStart) {
		t.Error("sentinel drawn without Options.Sentinels")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(branchedTopology(), Options{Detailed: true})

	if !strings.Contains(dot, `share: 1.5`) {
		t.Error("ToDOT() detailed output missing share")
	}
	if !strings.Contains(dot, `depth: 2`) {
		t.Error("ToDOT() detailed output missing explicit depth")
	}
}

func TestToDOT_Sentinels(t *testing.T) {
	dot := ToDOT(branchedTopology(), Options{Sentinels: true})

	if !strings.Contains(dot, `"linestart" [shape=point`) {
		t.Error("ToDOT() missing sentinel node")
	}
	if !strings.Contains(dot, `"linestart" -> "a"`) {
		t.Error("ToDOT() missing sentinel edge")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(noBox)) != string(noBox) {
		t.Error("normalizeViewBox() changed an svg without viewBox")
	}
}
