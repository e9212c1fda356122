package editor

import (
	"github.com/matzehuels/netedit/pkg/config"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
)

// WireMode selects where the bend of a drawn wire goes.
type WireMode int

// Wire modes in cycling order.
const (
	WireModeHV       WireMode = iota // horizontal, then vertical
	WireModeVH                       // vertical, then horizontal
	WireMode9045                     // 90°, then 45°
	WireMode4590                     // 45°, then 90°
	WireModeStraight                 // no bend
	wireModeCount
)

// String returns the configuration name of the mode.
func (m WireMode) String() string {
	if m < 0 || m >= wireModeCount {
		return "unknown"
	}
	return config.WireModes[m]
}

// Next returns the mode a right click switches to.
func (m WireMode) Next() WireMode {
	return (m + 1) % wireModeCount
}

// ParseWireMode parses a configuration name such as "h-v".
func ParseWireMode(s string) (WireMode, error) {
	for i, name := range config.WireModes {
		if name == s {
			return WireMode(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown wire mode %q", s)
}

// MiddlePoint returns the bend point of a wire from p1 to p2. For the
// straight mode it returns p1, which makes the first line degenerate.
func (m WireMode) MiddlePoint(p1, p2 geom.Point) geom.Point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	switch m {
	case WireModeHV:
		return geom.Pt(p2.X, p1.Y)
	case WireModeVH:
		return geom.Pt(p1.X, p2.Y)
	case WireMode9045:
		if dx.Abs() >= dy.Abs() {
			return geom.Pt(p2.X-dy.Abs()*sign(dx), p1.Y)
		}
		return geom.Pt(p1.X, p2.Y-dx.Abs()*sign(dy))
	case WireMode4590:
		if dx.Abs() >= dy.Abs() {
			return geom.Pt(p1.X+dy.Abs()*sign(dx), p2.Y)
		}
		return geom.Pt(p2.X, p1.Y+dx.Abs()*sign(dy))
	}
	return p1
}

func sign(l geom.Length) geom.Length {
	if l >= 0 {
		return 1
	}
	return -1
}
