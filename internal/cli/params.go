package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/railmap/pkg/pipeline"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/topology"
)

// paramFlags are the geometry flags shared by every command that draws.
// Only flags the user actually set override the topology file.
type paramFlags struct {
	width     float64
	height    float64
	padding   float64
	spacing   float64
	direction string
	current   int
	noCurrent bool
	colour    string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", layout.DefaultWidth, "frame width")
	fs.Float64Var(&f.height, "height", layout.DefaultHeight, "frame height")
	fs.Float64Var(&f.padding, "padding", layout.DefaultPadding, "horizontal padding in percent of the width")
	fs.Float64Var(&f.spacing, "spacing", layout.DefaultBranchSpacing, "vertical distance between branch levels")
	fs.StringVar(&f.direction, "direction", "r", "direction of travel: r (right) or l (left)")
	fs.IntVar(&f.current, "current", 0, "index of the current station in declaration order")
	fs.BoolVar(&f.noCurrent, "no-current", false, "draw the whole line as not yet travelled")
	fs.StringVar(&f.colour, "colour", layout.DefaultColour, "line colour")
}

// apply overrides p with every flag set on cmd.
func (f *paramFlags) apply(cmd *cobra.Command, p layout.Params) (layout.Params, error) {
	fs := cmd.Flags()
	if fs.Changed("width") {
		p.Width = f.width
	}
	if fs.Changed("height") {
		p.Height = f.height
	}
	if fs.Changed("padding") {
		p.Padding = f.padding
	}
	if fs.Changed("spacing") {
		p.BranchSpacing = f.spacing
	}
	if fs.Changed("direction") {
		d, err := layout.ParseDirection(f.direction)
		if err != nil {
			return p, err
		}
		p.Direction = d
	}
	if fs.Changed("current") {
		p.Current, p.HasCurrent = f.current, true
	}
	if f.noCurrent {
		p.Current, p.HasCurrent = 0, false
	}
	if fs.Changed("colour") {
		p.Colour = f.colour
	}
	return p, p.Validate()
}

// load reads the topology at path and resolves its parameters: defaults,
// then the file's [render] table, then flags.
func (f *paramFlags) load(cmd *cobra.Command, path string) (*topology.Topology, layout.Params, error) {
	t, err := topology.Load(path)
	if err != nil {
		return nil, layout.Params{}, err
	}
	p, err := pipeline.ResolveParams(t, layout.DefaultParams())
	if err != nil {
		return nil, layout.Params{}, err
	}
	p, err = f.apply(cmd, p)
	if err != nil {
		return nil, layout.Params{}, err
	}
	return t, p, nil
}
