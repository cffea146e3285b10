package railmap_test

import (
	"fmt"

	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/topology"
)

func ExampleCompose() {
	topo := &topology.Topology{
		Stations: []topology.Station{
			{ID: "a", Share: 0},
			{ID: "b", Share: 1},
			{ID: "c", Share: 2},
		},
		Branches: [][]string{{topology.LineStart, "a", "b", "c", topology.LineEnd}},
	}

	p := layout.DefaultParams()
	p.Width, p.Padding = 100, 0
	p.Current, p.HasCurrent = 1, true

	d, err := railmap.Compose(topo, p)
	if err != nil {
		panic(err)
	}
	fmt.Println("main:", d.Lines.Main[0])
	fmt.Println("pass:", d.Lines.Pass[0])
	// Output:
	// main: M 50,-6 H 130 l 12,12 L 50,6 Z
	// pass: M -30,0 H 80
}
