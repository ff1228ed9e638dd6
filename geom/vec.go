// Package geom provides the 2D vector type and scalar helpers shared by the
// physics, sensing and control packages.
package geom

import "math"

// Vec2 is a point or direction in world space.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the vector of the given length pointing along angle (radians).
func FromAngle(angle, length float64) Vec2 {
	return Vec2{X: length * math.Cos(angle), Y: length * math.Sin(angle)}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Div divides both components by s. Callers guard against s == 0.
func (v Vec2) Div(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// LenSq returns the squared length.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Sqrt(v.LenSq()) }

// DistSq returns the squared distance between v and o.
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Sqrt(v.DistSq(o)) }

// Normalize returns the unit vector in the direction of v, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Div(l)
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }
