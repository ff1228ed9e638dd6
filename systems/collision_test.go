package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

// addBody creates a circle body with tag at p moving at v.
func addBody(w *world.World, tag string, p, v geom.Vec2, r float64) ecs.Entity {
	e := w.Create(tag)
	ecs.Add(w.Store(), e, components.Transform{P: p, V: v})
	ecs.Add(w.Store(), e, components.NewCircleBody(r))
	return e
}

func addLine(w *world.World, s, e geom.Vec2, r float64) ecs.Entity {
	l := w.Create(world.TagLine)
	ecs.Add(w.Store(), l, components.LineBody{S: s, E: e, R: r})
	return l
}

func pos(w *world.World, e ecs.Entity) geom.Vec2 {
	return ecs.Get[components.Transform](w.Store(), e).P
}

func TestSlowBodiesStayPut(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 16)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())

	start := []geom.Vec2{geom.V(100, 100), geom.V(300, 200), geom.V(500, 700)}
	var ids []ecs.Entity
	for _, p := range start {
		ids = append(ids, addBody(w, world.TagPuck, p, geom.V(0.0005, -0.0003), 10))
	}

	for step := 0; step < 50; step++ {
		engine.Update(w, 1)
	}
	for i, e := range ids {
		if got := pos(w, e); got != start[i] {
			t.Errorf("body %d at %v, want %v", i, got, start[i])
		}
	}
}

func TestSteerDrivesVelocity(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	r := addBody(w, world.TagRobot, geom.V(100, 100), geom.Vec2{}, 10)
	ecs.Add(w.Store(), r, components.Steer{Angle: 0, Speed: 2})

	engine.Update(w, 1)

	tr := ecs.Get[components.Transform](w.Store(), r)
	if math.Abs(tr.P.X-102) > 1e-9 || math.Abs(tr.P.Y-100) > 1e-9 {
		t.Errorf("P = %v, want (102, 100)", tr.P)
	}
	if math.Abs(tr.V.X-1.2) > 1e-9 {
		t.Errorf("V.X = %f, want 1.2", tr.V.X)
	}
	if !tr.Moved {
		t.Error("Moved = false, want true")
	}
}

func TestCircleOverlapSplitsByMass(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	a := addBody(w, world.TagPuck, geom.V(100, 100), geom.Vec2{}, 10)
	b := addBody(w, world.TagPuck, geom.V(125, 100), geom.Vec2{}, 20)

	engine.Update(w, 1)

	pa, pb := pos(w, a), pos(w, b)
	if d := pa.Dist(pb); math.Abs(d-30) > DefaultPhysicsConfig().OverlapThreshold {
		t.Errorf("distance = %f, want 30", d)
	}
	// overlap 5, masses 100 and 200: the lighter body moves twice as far
	if moved := 100 - pa.X; math.Abs(moved-10.0/3) > 1e-9 {
		t.Errorf("light body moved %f, want %f", moved, 10.0/3)
	}
	if moved := pb.X - 125; math.Abs(moved-5.0/3) > 1e-9 {
		t.Errorf("heavy body moved %f, want %f", moved, 5.0/3)
	}
	if got := len(engine.Collisions()); got != 1 {
		t.Errorf("collisions = %d, want 1", got)
	}
	for _, e := range []ecs.Entity{a, b} {
		if !ecs.Get[components.CircleBody](w.Store(), e).Collided {
			t.Errorf("body %d not flagged collided", e)
		}
	}
}

func TestElasticExchange(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	a := addBody(w, world.TagPuck, geom.V(100, 100), geom.V(1, 0), 10)
	b := addBody(w, world.TagPuck, geom.V(120, 100), geom.V(-1, 0), 10)
	w.Update()

	engine.collisions = []Collision{{A: a, B: b, Mirror: -1}}
	engine.resolve(w)

	va := ecs.Get[components.Transform](w.Store(), a).V
	vb := ecs.Get[components.Transform](w.Store(), b).V
	if math.Abs(va.X+1) > 1e-12 || math.Abs(va.Y) > 1e-12 {
		t.Errorf("va = %v, want (-1, 0)", va)
	}
	if math.Abs(vb.X-1) > 1e-12 || math.Abs(vb.Y) > 1e-12 {
		t.Errorf("vb = %v, want (1, 0)", vb)
	}
}

func TestBoundsClamp(t *testing.T) {
	tests := []struct {
		name  string
		start geom.Vec2
		want  geom.Vec2
	}{
		{"left", geom.V(-5, 400), geom.V(10, 400)},
		{"right", geom.V(805, 400), geom.V(790, 400)},
		{"top", geom.V(400, 3), geom.V(400, 10)},
		{"bottom corner", geom.V(900, 900), geom.V(790, 790)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := world.NewWithCapacity(800, 800, 2)
			engine := NewPhysicsEngine(DefaultPhysicsConfig())
			e := addBody(w, world.TagRobot, tc.start, geom.Vec2{}, 10)
			engine.Update(w, 1)

			if got := pos(w, e); got != tc.want {
				t.Errorf("P = %v, want %v", got, tc.want)
			}
			if !ecs.Get[components.CircleBody](w.Store(), e).Collided {
				t.Error("Collided = false, want true")
			}
		})
	}
}

func TestRestingBodiesAreSkipped(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	a := addBody(w, world.TagPuck, geom.V(100, 100), geom.Vec2{}, 10)
	b := addBody(w, world.TagPuck, geom.V(110, 100), geom.Vec2{}, 10)
	ecs.Get[components.CircleBody](w.Store(), a).Collided = false
	ecs.Get[components.CircleBody](w.Store(), b).Collided = false

	engine.Update(w, 1)

	if pos(w, a) != geom.V(100, 100) || pos(w, b) != geom.V(110, 100) {
		t.Errorf("resting bodies moved to %v and %v", pos(w, a), pos(w, b))
	}
	if len(engine.Collisions()) != 0 {
		t.Errorf("collisions = %d, want 0", len(engine.Collisions()))
	}
}

func TestCoincidentCentersStayFinite(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	a := addBody(w, world.TagPuck, geom.V(400, 400), geom.Vec2{}, 10)
	b := addBody(w, world.TagPuck, geom.V(400, 400), geom.Vec2{}, 10)

	for i := 0; i < 5; i++ {
		engine.Update(w, 1)
	}
	for _, e := range []ecs.Entity{a, b} {
		p := pos(w, e)
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("body %d position %v is not finite", e, p)
		}
	}
}

func TestRobotAgainstLine(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	r := addBody(w, world.TagRobot, geom.V(100, 100), geom.Vec2{}, 10)
	ecs.Add(w.Store(), r, components.Steer{Angle: math.Pi / 2, Speed: 2})
	l := addLine(w, geom.V(50, 100), geom.V(150, 100), 5)

	engine.Update(w, 1)

	var lineHits int
	for _, c := range engine.Collisions() {
		if c.IsLine() && c.A == r {
			lineHits++
		}
	}
	if lineHits != 1 {
		t.Fatalf("line collisions = %d, want 1", lineHits)
	}

	line := ecs.Get[components.LineBody](w.Store(), l)
	p := pos(w, r)
	d := p.Dist(geom.ClosestOnSegment(p, line.S, line.E))
	if d < 15-1e-9 {
		t.Errorf("distance to line = %f, want >= 15", d)
	}
	if line.S != geom.V(50, 100) || line.E != geom.V(150, 100) {
		t.Errorf("line moved to %v-%v", line.S, line.E)
	}
}

func TestLineReflectsVelocity(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	e := addBody(w, world.TagPuck, geom.V(100, 88), geom.V(0, 2), 10)
	addLine(w, geom.V(50, 100), geom.V(150, 100), 5)

	engine.Update(w, 1)

	tr := ecs.Get[components.Transform](w.Store(), e)
	// moved to y=90 with v=1.2, pushed back to y=85, velocity reflected
	if math.Abs(tr.P.Y-85) > 1e-9 {
		t.Errorf("P.Y = %f, want 85", tr.P.Y)
	}
	if math.Abs(tr.V.Y+1.2) > 1e-9 {
		t.Errorf("V.Y = %f, want -1.2", tr.V.Y)
	}
	a, b := engine.Endpoints(w, engine.Collisions()[0])
	if a != tr.P || math.Abs(b.Y-100) > 1e-9 {
		t.Errorf("endpoints = %v %v", a, b)
	}
}

func TestComputeTimeTracksMax(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 4)
	engine := NewPhysicsEngine(DefaultPhysicsConfig())
	addBody(w, world.TagPuck, geom.V(100, 100), geom.V(1, 1), 10)
	for i := 0; i < 3; i++ {
		engine.Update(w, 1)
		if engine.MaxComputeTime() < engine.ComputeTime() {
			t.Fatalf("max %v < last %v", engine.MaxComputeTime(), engine.ComputeTime())
		}
	}
}
