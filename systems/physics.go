// Package systems contains the per-step systems that act on a world:
// physics, sensing and evaluation.
package systems

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

// PhysicsConfig holds the physics constants.
type PhysicsConfig struct {
	OverlapThreshold float64 // penetration below this is ignored
	Deceleration     float64 // linear drag coefficient
	StoppingSpeed    float64 // speeds below this snap to zero
	Seed             int64   // seeds coincident-center perturbation
}

// DefaultPhysicsConfig returns the standard constants.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		OverlapThreshold: 0.1,
		Deceleration:     0.4,
		StoppingSpeed:    0.001,
	}
}

// Collision is a contact registered during the last step. Mirror is -1 for
// a circle pair; otherwise B is unused and Mirror indexes the synthetic body
// standing in for a line.
type Collision struct {
	A, B   ecs.Entity
	Mirror int
}

// IsLine reports whether the contact was against a line.
func (c Collision) IsLine() bool { return c.Mirror >= 0 }

// mirrorBody stands in for a line at its closest point to a real body.
type mirrorBody struct {
	P, V geom.Vec2
	Mass float64
}

// PhysicsEngine advances a world by one step at a time.
type PhysicsEngine struct {
	cfg PhysicsConfig
	rng *rand.Rand

	bodies     []ecs.Entity
	lines      []ecs.Entity
	mirrors    []mirrorBody
	collisions []Collision

	computeTime    time.Duration
	maxComputeTime time.Duration
}

// NewPhysicsEngine creates an engine with cfg.
func NewPhysicsEngine(cfg PhysicsConfig) *PhysicsEngine {
	return &PhysicsEngine{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Config returns the engine constants.
func (e *PhysicsEngine) Config() PhysicsConfig { return e.cfg }

// Collisions returns the contacts registered by the last Update.
// The slice is reused by the next Update.
func (e *PhysicsEngine) Collisions() []Collision { return e.collisions }

// ComputeTime is the duration of the last movement and collision pass.
func (e *PhysicsEngine) ComputeTime() time.Duration { return e.computeTime }

// MaxComputeTime is the longest ComputeTime seen.
func (e *PhysicsEngine) MaxComputeTime() time.Duration { return e.maxComputeTime }

// Endpoints returns the centers of both sides of a contact.
func (e *PhysicsEngine) Endpoints(w *world.World, c Collision) (geom.Vec2, geom.Vec2) {
	a := ecs.Get[components.Transform](w.Store(), c.A).P
	if c.IsLine() {
		return a, e.mirrors[c.Mirror].P
	}
	return a, ecs.Get[components.Transform](w.Store(), c.B).P
}

// Update runs one step: reconcile, move, detect and separate, then apply
// elastic impulses to every registered pair.
func (e *PhysicsEngine) Update(w *world.World, dt float64) {
	w.Update()

	e.bodies = w.Tagged(world.TagRobot).AppendTo(e.bodies[:0])
	e.bodies = w.Tagged(world.TagPuck).AppendTo(e.bodies)
	e.lines = w.Tagged(world.TagLine).AppendTo(e.lines[:0])

	start := time.Now()
	e.move(w, dt)
	e.detect(w)
	e.resolve(w)

	e.computeTime = time.Since(start)
	e.maxComputeTime = max(e.maxComputeTime, e.computeTime)
}

func (e *PhysicsEngine) move(w *world.World, dt float64) {
	s := w.Store()
	for ent := range w.Entities().All() {
		if !ecs.Has[components.Transform](s, ent) {
			continue
		}
		t := ecs.Get[components.Transform](s, ent)
		if ecs.Has[components.Steer](s, ent) {
			st := ecs.Get[components.Steer](s, ent)
			t.V = geom.FromAngle(st.Angle, st.Speed)
		}

		if t.V.Len() < e.cfg.StoppingSpeed {
			t.V = geom.Vec2{}
		}
		t.A = t.V.Scale(-e.cfg.Deceleration)
		t.P = t.P.Add(t.V.Scale(dt))
		t.V = t.V.Add(t.A.Scale(dt))
		t.Moved = !t.V.IsZero()
	}
}

// perturb nudges p by -1, 0 or +1 on each axis.
func (e *PhysicsEngine) perturb(p *geom.Vec2) {
	p.X += float64(1 - e.rng.Intn(3))
	p.Y += float64(1 - e.rng.Intn(3))
}

// side returns the position, velocity and mass of one side of a contact.
func (e *PhysicsEngine) side(s *ecs.Store, ent ecs.Entity, mirror int) (p, v *geom.Vec2, m float64) {
	if mirror >= 0 {
		mb := &e.mirrors[mirror]
		return &mb.P, &mb.V, mb.Mass
	}
	t := ecs.Get[components.Transform](s, ent)
	return &t.P, &t.V, ecs.Get[components.CircleBody](s, ent).Mass
}

// resolve applies a 2D elastic impulse along the line of centers of every
// registered pair.
func (e *PhysicsEngine) resolve(w *world.World) {
	s := w.Store()
	for _, c := range e.collisions {
		p1, v1, m1 := e.side(s, c.A, -1)
		p2, v2, m2 := e.side(s, c.B, c.Mirror)

		dist := p1.Dist(*p2)
		if dist == 0 || m1+m2 == 0 {
			continue
		}
		n := p2.Sub(*p1).Div(dist)
		k := v1.Sub(*v2)
		impulse := 2 * n.Dot(k) / (m1 + m2)

		*v1 = v1.Sub(n.Scale(impulse * m2))
		*v2 = v2.Add(n.Scale(impulse * m1))
	}
}
