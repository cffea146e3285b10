package layout

import (
	"math"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/topology"
)

// Default diagram parameters.
const (
	DefaultWidth         = 1200.0
	DefaultHeight        = 300.0
	DefaultPadding       = 8.0 // percent of width on each side
	DefaultBranchSpacing = 25.0
	DefaultColour        = "#E3002B"
)

// Params is the immutable diagram configuration threaded through every
// stage of a render.
type Params struct {
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Padding       float64   `json:"padding"`
	BranchSpacing float64   `json:"branch_spacing"`
	Direction     Direction `json:"direction"`
	// Current is the index into the topology's station order. It is only
	// meaningful when HasCurrent is set.
	Current    int    `json:"current"`
	HasCurrent bool   `json:"has_current"`
	Colour     string `json:"colour"`
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Padding:       DefaultPadding,
		BranchSpacing: DefaultBranchSpacing,
		Direction:     Right,
		Colour:        DefaultColour,
	}
}

// Validate checks the parameters for values the geometry cannot use.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", p.Width},
		{"height", p.Height},
		{"padding", p.Padding},
		{"branch spacing", p.BranchSpacing},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return rmerrors.New(rmerrors.ErrCodeInvalidParams, "%s must be finite, got %v", f.name, f.v)
		}
	}
	if p.Width <= 0 {
		return rmerrors.New(rmerrors.ErrCodeInvalidParams, "width must be positive, got %v", p.Width)
	}
	if p.Height <= 0 {
		return rmerrors.New(rmerrors.ErrCodeInvalidParams, "height must be positive, got %v", p.Height)
	}
	if p.Padding < 0 || p.Padding >= 50 {
		return rmerrors.New(rmerrors.ErrCodeInvalidParams, "padding must be in [0, 50), got %v", p.Padding)
	}
	if p.BranchSpacing < 0 {
		return rmerrors.New(rmerrors.ErrCodeInvalidParams, "branch spacing must not be negative, got %v", p.BranchSpacing)
	}
	if p.Direction != Left && p.Direction != Right {
		return rmerrors.New(rmerrors.ErrCodeInvalidDirection, "unknown direction %d", p.Direction)
	}
	return rmerrors.ValidateColour(p.Colour)
}

// WithConfig returns a copy of p overridden by every field set in cfg.
// A nil cfg returns p unchanged.
func (p Params) WithConfig(cfg *topology.RenderConfig) (Params, error) {
	if cfg == nil {
		return p, nil
	}
	if cfg.Width != nil {
		p.Width = *cfg.Width
	}
	if cfg.Height != nil {
		p.Height = *cfg.Height
	}
	if cfg.Padding != nil {
		p.Padding = *cfg.Padding
	}
	if cfg.BranchSpacing != nil {
		p.BranchSpacing = *cfg.BranchSpacing
	}
	if cfg.Direction != "" {
		d, err := ParseDirection(cfg.Direction)
		if err != nil {
			return p, err
		}
		p.Direction = d
	}
	if cfg.Current != nil {
		p.Current = *cfg.Current
		p.HasCurrent = true
	}
	if cfg.Colour != "" {
		p.Colour = cfg.Colour
	}
	return p, nil
}

// Span returns the usable horizontal range [x0, x1] after padding.
func (p Params) Span() (x0, x1 float64) {
	x0 = p.Width * p.Padding / 100
	return x0, p.Width - x0
}
