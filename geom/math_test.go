package geom

import (
	"math"
	"testing"
)

func TestClosestOnSegment(t *testing.T) {
	a, b := V(50, 100), V(150, 100)
	tests := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"above middle", V(100, 80), V(100, 100)},
		{"past end", V(200, 120), V(150, 100)},
		{"before start", V(0, 100), V(50, 100)},
		{"on segment", V(75, 100), V(75, 100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClosestOnSegment(tc.p, a, b)
			if got.Dist(tc.want) > 1e-9 {
				t.Errorf("ClosestOnSegment(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestClosestOnDegenerateSegment(t *testing.T) {
	a := V(10, 10)
	if got := ClosestOnSegment(V(30, 40), a, a); got != a {
		t.Errorf("ClosestOnSegment on point segment = %v, want %v", got, a)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}
	for _, tc := range tests {
		if got := Clamp01(tc.in); got != tc.want {
			t.Errorf("Clamp01(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

func TestVecNormalizeZero(t *testing.T) {
	if got := (Vec2{}).Normalize(); !got.IsZero() {
		t.Errorf("zero.Normalize() = %v, want zero", got)
	}
	if got := V(3, 4).Normalize(); math.Abs(got.Len()-1) > 1e-12 {
		t.Errorf("len = %f, want 1", got.Len())
	}
}
