package systems

import (
	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

// detect separates overlapping bodies and registers each contact. Bodies
// that collided last step count as moved; bodies that neither moved nor
// collided are skipped.
func (e *PhysicsEngine) detect(w *world.World) {
	s := w.Store()
	e.collisions = e.collisions[:0]
	e.mirrors = e.mirrors[:0]
	if need := len(e.bodies) * len(e.lines); cap(e.mirrors) < need {
		e.mirrors = make([]mirrorBody, 0, need)
	}

	for _, ent := range e.bodies {
		t := ecs.Get[components.Transform](s, ent)
		b := ecs.Get[components.CircleBody](s, ent)
		if b.Collided {
			t.Moved = true
			b.Collided = false
		}
	}

	for _, e1 := range e.bodies {
		t1 := ecs.Get[components.Transform](s, e1)
		if !t1.Moved {
			continue
		}
		b1 := ecs.Get[components.CircleBody](s, e1)

		for _, l := range e.lines {
			e.collideLine(s, e1, l)
		}
		for _, e2 := range e.bodies {
			e.collideCircles(s, e1, e2)
		}
		e.clampToBounds(t1, b1, w.Width(), w.Height())
	}
}

// collideLine pushes e1 out of line l and stands a mirror body in for the
// line so the resolution pass reflects e1's velocity.
func (e *PhysicsEngine) collideLine(s *ecs.Store, e1, l ecs.Entity) {
	t1 := ecs.Get[components.Transform](s, e1)
	b1 := ecs.Get[components.CircleBody](s, e1)
	line := ecs.Get[components.LineBody](s, l)

	closest := geom.ClosestOnSegment(t1.P, line.S, line.E)
	dist := t1.P.Dist(closest)
	overlap := b1.R + line.R - dist
	if overlap <= e.cfg.OverlapThreshold {
		return
	}
	if dist == 0 {
		e.perturb(&t1.P)
		return
	}

	e.mirrors = append(e.mirrors, mirrorBody{
		P:    closest,
		V:    t1.V.Scale(-1),
		Mass: b1.Mass,
	})
	t1.P = t1.P.Add(t1.P.Sub(closest).Scale(overlap / dist))
	b1.Collided = true
	e.collisions = append(e.collisions, Collision{A: e1, Mirror: len(e.mirrors) - 1})
}

// collideCircles separates e1 and e2 in inverse proportion to mass.
func (e *PhysicsEngine) collideCircles(s *ecs.Store, e1, e2 ecs.Entity) {
	t1 := ecs.Get[components.Transform](s, e1)
	b1 := ecs.Get[components.CircleBody](s, e1)
	t2 := ecs.Get[components.Transform](s, e2)
	b2 := ecs.Get[components.CircleBody](s, e2)

	reach := b1.R + b2.R
	distSq := t1.P.DistSq(t2.P)
	if distSq > reach*reach || e1 == e2 {
		return
	}

	dist := t1.P.Dist(t2.P)
	overlap := reach - dist
	if overlap <= e.cfg.OverlapThreshold {
		return
	}
	if dist == 0 {
		e.perturb(&t1.P)
		return
	}

	e.collisions = append(e.collisions, Collision{A: e1, B: e2, Mirror: -1})

	axis := t1.P.Sub(t2.P).Div(dist).Scale(overlap)
	total := b1.Mass + b2.Mass
	t1.P = t1.P.Add(axis.Scale(b2.Mass / total))
	t2.P = t2.P.Sub(axis.Scale(b1.Mass / total))
	b1.Collided = true
	b2.Collided = true
}

// clampToBounds keeps a body fully inside the world rectangle.
func (e *PhysicsEngine) clampToBounds(t *components.Transform, b *components.CircleBody, width, height float64) {
	if t.P.X < b.R {
		t.P.X = b.R
		b.Collided = true
	} else if t.P.X > width-b.R {
		t.P.X = width - b.R
		b.Collided = true
	}
	if t.P.Y < b.R {
		t.P.Y = b.R
		b.Collided = true
	} else if t.P.Y > height-b.R {
		t.P.Y = height - b.R
		b.Collided = true
	}
}
