package geom

import (
	"math"
	"testing"
)

func TestMappedToGrid(t *testing.T) {
	tests := []struct {
		name     string
		in       Point
		interval Length
		want     Point
	}{
		{"already on grid", Pt(20, 40), 10, Pt(20, 40)},
		{"round down", Pt(14, 4), 10, Pt(10, 0)},
		{"round up", Pt(16, 6), 10, Pt(20, 10)},
		{"negative", Pt(-16, -4), 10, Pt(-20, 0)},
		{"no grid", Pt(13, 7), 0, Pt(13, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.MappedToGrid(tt.interval); got != tt.want {
				t.Errorf("MappedToGrid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Pt(5, 5), Pt(0, 0), Pt(10, 0), 5},
		{"beyond end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"on segment", Pt(3, 0), Pt(0, 0), Pt(10, 0), 0},
		{"degenerate", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToSegment(tt.p, tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DistanceToSegment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		tol     Length
		want    bool
	}{
		{"inside", Pt(5, 0), Pt(0, 0), Pt(10, 0), 0, true},
		{"endpoint", Pt(10, 0), Pt(0, 0), Pt(10, 0), 0, true},
		{"outside", Pt(11, 0), Pt(0, 0), Pt(10, 0), 0, false},
		{"off line", Pt(5, 1), Pt(0, 0), Pt(10, 0), 0, false},
		{"diagonal", Pt(3, 3), Pt(0, 0), Pt(10, 10), 0, true},
		{"within tolerance", Pt(5, 1), Pt(0, 0), Pt(10, 0), 2, true},
		{"large diagonal", Pt(3e9, 3e9), Pt(-4e9, -4e9), Pt(5e9, 5e9), 0, true},
		{"large just off", Pt(3e9, 3e9+1), Pt(-4e9, -4e9), Pt(5e9, 5e9), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnSegment(tt.p, tt.a, tt.b, tt.tol); got != tt.want {
				t.Errorf("OnSegment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleNormalized(t *testing.T) {
	if got := (Deg270 + Deg180).Normalized(); got != Deg90 {
		t.Errorf("Normalized() = %d, want %d", got, Deg90)
	}
	if got := (-Deg90).Normalized(); got != Deg270 {
		t.Errorf("Normalized() = %d, want %d", got, Deg270)
	}
}

func TestCollinear(t *testing.T) {
	if !Collinear(Pt(0, 0), Pt(5, 0), Pt(10, 0)) {
		t.Error("horizontal points should be collinear")
	}
	if Collinear(Pt(0, 0), Pt(5, 1), Pt(10, 0)) {
		t.Error("bent points should not be collinear")
	}
	if Collinear(Pt(-4e9, -4e9), Pt(5e9, 5e9), Pt(3e9, 3e9+1)) {
		t.Error("large offset points should not be collinear")
	}
	if !Collinear(Pt(math.MinInt64/2, 0), Pt(0, 0), Pt(math.MaxInt64/2, 0)) {
		t.Error("extreme horizontal points should be collinear")
	}
}
