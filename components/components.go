// Package components defines the plain data records stored per entity, and
// the small vocabulary controllers use to turn perception into motion.
package components

import "github.com/pthm-cable/waggle/geom"

// Transform holds an entity's kinematic state.
type Transform struct {
	P     geom.Vec2 // position
	V     geom.Vec2 // velocity
	A     geom.Vec2 // acceleration
	Moved bool      // velocity was nonzero after the last integration
}

// Steer is the heading and linear speed a robot drives at.
type Steer struct {
	Angle float64 // radians
	Speed float64
}

// RobotType tags a robot for heuristics: 0 = outie, 1 = innie.
type RobotType struct {
	Type int
}

// Robot type values.
const (
	Outie = 0
	Innie = 1
)

// Color is display data only.
type Color struct {
	R, G, B, A uint8
}

// Controller attaches a behavior to an entity.
type Controller struct {
	Behavior Behavior
}
