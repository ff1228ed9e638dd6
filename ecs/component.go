package ecs

import "github.com/pthm-cable/waggle/components"

// Component is the closed set of kinds a Store holds.
type Component interface {
	components.Transform | components.CircleBody | components.LineBody |
		components.SensorArray | components.RobotType | components.Steer |
		components.Color | components.Controller
}

// slot returns the storage cell and kind for T at e.
func slot[T Component](s *Store, e Entity) (*T, kind) {
	s.check(e)
	var p any
	var k kind
	switch any((*T)(nil)).(type) {
	case *components.Transform:
		p, k = &s.transforms[e], kindTransform
	case *components.CircleBody:
		p, k = &s.circles[e], kindCircleBody
	case *components.LineBody:
		p, k = &s.lines[e], kindLineBody
	case *components.SensorArray:
		p, k = &s.sensors[e], kindSensorArray
	case *components.RobotType:
		p, k = &s.robotTypes[e], kindRobotType
	case *components.Steer:
		p, k = &s.steers[e], kindSteer
	case *components.Color:
		p, k = &s.colors[e], kindColor
	case *components.Controller:
		p, k = &s.controllers[e], kindController
	}
	return p.(*T), k
}

// Has reports whether T is present on e.
func Has[T Component](s *Store, e Entity) bool {
	_, k := slot[T](s, e)
	return s.masks[e].contains(k)
}

// Get returns the T data of e whether or not it is present. Check Has
// before relying on the value: a removed component keeps its stale data.
func Get[T Component](s *Store, e Entity) *T {
	p, _ := slot[T](s, e)
	return p
}

// Add stores v as e's T and marks it present.
func Add[T Component](s *Store, e Entity, v T) *T {
	p, k := slot[T](s, e)
	*p = v
	s.masks[e].set(k)
	return p
}

// Ensure marks T present on e, zeroing it first if it was absent.
func Ensure[T Component](s *Store, e Entity) *T {
	p, k := slot[T](s, e)
	if !s.masks[e].contains(k) {
		var zero T
		*p = zero
		s.masks[e].set(k)
	}
	return p
}

// Remove clears the presence bit of T on e. The data is left in place.
func Remove[T Component](s *Store, e Entity) {
	_, k := slot[T](s, e)
	s.masks[e].unset(k)
}
