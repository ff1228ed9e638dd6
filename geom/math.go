package geom

import "math"

// Clamp functions

// Clamp clamps v between minVal and maxVal.
func Clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Angle functions

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Segment functions

// ClosestOnSegment projects p onto the segment a-b and returns the closest
// point of the segment. A zero-length segment yields a.
func ClosestOnSegment(p, a, b Vec2) Vec2 {
	edge := b.Sub(a)
	lenSq := edge.LenSq()
	if lenSq == 0 {
		return a
	}
	t := math.Max(0, math.Min(lenSq, edge.Dot(p.Sub(a)))) / lenSq
	return a.Add(edge.Scale(t))
}
