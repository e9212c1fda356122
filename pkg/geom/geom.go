// Package geom provides the integer scene geometry used by the net graph.
//
// Coordinates are [Length] values in nanometers, matching the resolution of
// schematic and board editors. All comparisons are exact; hit tests accept an
// explicit tolerance so that callers decide how "fuzzy" a cursor is.
package geom

import (
	"fmt"
	"math"
	"math/big"
)

// Length is a distance in nanometers.
type Length int64

// Common length units.
const (
	Nanometer  Length = 1
	Micrometer Length = 1000
	Millimeter Length = 1000 * Micrometer
	Mil        Length = 25400
)

// Abs returns the absolute value of l.
func (l Length) Abs() Length {
	if l < 0 {
		return -l
	}
	return l
}

// MappedToGrid rounds l to the nearest multiple of interval.
// A non-positive interval returns l unchanged.
func (l Length) MappedToGrid(interval Length) Length {
	if interval <= 0 {
		return l
	}
	return Length(math.Round(float64(l)/float64(interval))) * interval
}

// Angle is a rotation in millidegrees.
type Angle int32

// Common angles.
const (
	Deg0   Angle = 0
	Deg90  Angle = 90000
	Deg180 Angle = 180000
	Deg270 Angle = 270000
)

// Normalized maps a into [0°, 360°).
func (a Angle) Normalized() Angle {
	const full = 360000
	a %= full
	if a < 0 {
		a += full
	}
	return a
}

// Point is a position in the scene.
type Point struct {
	X Length `json:"x"`
	Y Length `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y Length) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// MappedToGrid rounds both coordinates to the given grid interval.
func (p Point) MappedToGrid(interval Length) Point {
	return Point{p.X.MappedToGrid(interval), p.Y.MappedToGrid(interval)}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// String formats p as "(x, y)".
func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Less orders points by X, then Y. Useful for deterministic sorting.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// DistanceToSegment returns the shortest distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	if a == b {
		return p.DistanceTo(a)
	}
	ax, ay := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	t := ((float64(p.X)-ax)*dx + (float64(p.Y)-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(float64(p.X)-(ax+t*dx), float64(p.Y)-(ay+t*dy))
}

// OnSegment reports whether p lies on the segment a-b within tol.
// With a zero tolerance the test is exact integer arithmetic.
func OnSegment(p, a, b Point, tol Length) bool {
	if tol > 0 {
		return DistanceToSegment(p, a, b) <= float64(tol)
	}
	if crossSign(a, b, p) != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// Near reports whether p and q are within tol of each other.
func Near(p, q Point, tol Length) bool {
	if tol <= 0 {
		return p == q
	}
	return p.DistanceTo(q) <= float64(tol)
}

// Collinear reports whether a, b and c lie on one straight line.
func Collinear(a, b, c Point) bool {
	return crossSign(a, b, c) == 0
}

// smallCoordinate bounds the coordinates for which the cross product of
// coordinate differences fits into an int64.
const smallCoordinate = 1 << 30

// crossSign returns the sign of the cross product (b-a)x(c-a). It is exact
// for every coordinate; large values fall back to arbitrary precision.
func crossSign(a, b, c Point) int {
	if small(a) && small(b) && small(c) {
		cross := int64(b.X-a.X)*int64(c.Y-a.Y) - int64(b.Y-a.Y)*int64(c.X-a.X)
		switch {
		case cross < 0:
			return -1
		case cross > 0:
			return 1
		}
		return 0
	}
	diff := func(p, q Length) *big.Int {
		return new(big.Int).Sub(big.NewInt(int64(p)), big.NewInt(int64(q)))
	}
	lhs := new(big.Int).Mul(diff(b.X, a.X), diff(c.Y, a.Y))
	rhs := new(big.Int).Mul(diff(b.Y, a.Y), diff(c.X, a.X))
	return lhs.Cmp(rhs)
}

func small(p Point) bool {
	return -smallCoordinate < p.X && p.X < smallCoordinate &&
		-smallCoordinate < p.Y && p.Y < smallCoordinate
}
