// Package control turns perception into steering: behaviors decide an
// Action and Apply writes it into the entity's Steer component.
package control

import (
	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
)

// Apply adds Steer to e if needed, turns it by a.AngularSpeed*dt and sets its
// speed. Heading accumulates, so call it at most once per entity per step.
func Apply(s *ecs.Store, e ecs.Entity, a components.Action, dt float64) {
	st := ecs.Ensure[components.Steer](s, e)
	st.Angle += a.AngularSpeed * dt
	st.Speed = a.Speed
}
