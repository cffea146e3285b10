package line

import (
	"strconv"
	"strings"
)

// pathBuilder accumulates absolute and relative SVG path commands.
// Commands are separated by a single space and coordinate pairs are
// written as "x,y".
type pathBuilder struct {
	b strings.Builder
}

func (p *pathBuilder) cmd(c byte, nums ...float64) *pathBuilder {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	p.b.WriteByte(c)
	for i, n := range nums {
		if i%2 == 0 {
			p.b.WriteByte(' ')
		} else {
			p.b.WriteByte(',')
		}
		p.b.WriteString(FormatCoord(n))
	}
	return p
}

func (p *pathBuilder) moveTo(x, y float64) *pathBuilder   { return p.cmd('M', x, y) }
func (p *pathBuilder) lineTo(x, y float64) *pathBuilder   { return p.cmd('L', x, y) }
func (p *pathBuilder) lineBy(dx, dy float64) *pathBuilder { return p.cmd('l', dx, dy) }
func (p *pathBuilder) hTo(x float64) *pathBuilder         { return p.cmd('H', x) }
func (p *pathBuilder) hBy(dx float64) *pathBuilder        { return p.cmd('h', dx) }
func (p *pathBuilder) vTo(y float64) *pathBuilder         { return p.cmd('V', y) }
func (p *pathBuilder) close() *pathBuilder                { return p.cmd('Z') }

func (p *pathBuilder) String() string { return p.b.String() }

// FormatCoord formats a coordinate with the shortest decimal representation
// that round-trips, never in exponent form, and without a negative zero.
func FormatCoord(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
