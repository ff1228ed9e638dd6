package control

import (
	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/systems"
	"github.com/pthm-cable/waggle/world"
)

// Perceive builds the perception of robot e.
func Perceive(w *world.World, e ecs.Entity) components.Perception {
	p := components.Perception{Reading: systems.Read(w, e)}
	if ecs.Has[components.RobotType](w.Store(), e) {
		p.RobotType = ecs.Get[components.RobotType](w.Store(), e).Type
	}
	return p
}

// Step runs the controller of every robot that has one, once each, and
// returns how many acted.
func Step(w *world.World, dt float64) int {
	s := w.Store()
	var acted int
	for e := range w.Tagged(world.TagRobot).All() {
		if !ecs.Has[components.Controller](s, e) {
			continue
		}
		b := ecs.Get[components.Controller](s, e).Behavior
		if b == nil {
			continue
		}
		Apply(s, e, b.Decide(Perceive(w, e)), dt)
		acted++
	}
	return acted
}
