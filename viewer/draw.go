package viewer

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/systems"
	"github.com/pthm-cable/waggle/world"
)

const sensorDotRadius = 2

func vec(p geom.Vec2) rl.Vector2 { return rl.Vector2{X: float32(p.X), Y: float32(p.Y)} }

func rlColor(c components.Color, alpha uint8) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

func (v *Viewer) draw(w *world.World) {
	if v.showField && v.fieldReady {
		rl.DrawTexturePro(
			v.fieldTex,
			rl.Rectangle{X: 0, Y: 0, Width: float32(v.field.Width), Height: float32(v.field.Height)},
			rl.Rectangle{X: 0, Y: 0, Width: float32(w.Width()), Height: float32(w.Height())},
			rl.Vector2{},
			0,
			rl.White,
		)
	}

	v.drawCircles(w)
	if v.showSensors {
		v.drawSensors(w)
	}
	v.drawLines(w)
	if v.showDebug {
		v.drawCollisions(w)
	}
	v.drawSelection(w)
}

// drawCircles draws every circle body with a heading tick along its velocity.
func (v *Viewer) drawCircles(w *world.World) {
	s := w.Store()
	for e := range w.Entities().All() {
		if !ecs.Has[components.CircleBody](s, e) {
			continue
		}
		t := ecs.Get[components.Transform](s, e)
		r := ecs.Get[components.CircleBody](s, e).R
		if !v.cam.IsVisible(float32(t.P.X), float32(t.P.Y), float32(r)) {
			continue
		}
		c := rl.White
		if ecs.Has[components.Color](s, e) {
			c = rlColor(*ecs.Get[components.Color](s, e), 255)
		}
		rl.DrawCircleV(vec(t.P), float32(r), c)

		if t.V.IsZero() {
			continue
		}
		rl.DrawLineV(vec(t.P), vec(t.P.Add(t.V.Normalize().Scale(r))), rl.White)
	}
}

// drawSensors draws grid sensors as dots and disc sensors as translucent
// discs, white when they detect something.
func (v *Viewer) drawSensors(w *world.World) {
	s := w.Store()
	for e := range w.Tagged(world.TagRobot).All() {
		if !ecs.Has[components.SensorArray](s, e) {
			continue
		}
		base := rl.Color{R: 0, G: 255, B: 255, A: 80}
		if ecs.Has[components.Color](s, e) {
			base = rlColor(*ecs.Get[components.Color](s, e), 80)
		}
		sensors := ecs.Get[components.SensorArray](s, e)

		for _, sn := range sensors.Grid {
			rl.DrawCircleV(vec(systems.SensorPosition(s, e, sn)), sensorDotRadius, rl.White)
		}
		for _, sn := range sensors.Obstacle {
			fill := rl.Color{R: 0, G: 255, B: 255, A: 80}
			if systems.ReadSensor(w, e, sn) > 0 {
				fill = rl.Color{R: 255, G: 255, B: 255, A: 80}
			}
			rl.DrawCircleV(vec(systems.SensorPosition(s, e, sn)), float32(sn.Radius), fill)
		}
		for _, sn := range sensors.Puck {
			fill := base
			if systems.ReadSensor(w, e, sn) > 0 {
				fill = rl.Color{R: 255, G: 255, B: 255, A: 80}
			}
			rl.DrawCircleV(vec(systems.SensorPosition(s, e, sn)), float32(sn.Radius), fill)
		}
	}
}

// drawLines draws each line body as a capsule outline.
func (v *Viewer) drawLines(w *world.World) {
	s := w.Store()
	for e := range w.Tagged(world.TagLine).All() {
		lb := ecs.Get[components.LineBody](s, e)
		r := float32(lb.R)
		rl.DrawCircleLines(int32(lb.S.X), int32(lb.S.Y), r, rl.White)
		rl.DrawCircleLines(int32(lb.E.X), int32(lb.E.Y), r, rl.White)

		d := lb.E.Sub(lb.S)
		if d.IsZero() {
			continue
		}
		normal := geom.V(-d.Y, d.X).Normalize().Scale(lb.R)
		rl.DrawLineV(vec(lb.S.Add(normal)), vec(lb.E.Add(normal)), rl.White)
		rl.DrawLineV(vec(lb.S.Sub(normal)), vec(lb.E.Sub(normal)), rl.White)
	}
}

// drawCollisions joins the two sides of every contact from the last step.
func (v *Viewer) drawCollisions(w *world.World) {
	engine := v.src.Engine()
	for _, c := range engine.Collisions() {
		a, b := engine.Endpoints(w, c)
		rl.DrawLineV(vec(a), vec(b), rl.Green)
	}
}

// drawSelection shows the selected robot's reading and the shot aim.
func (v *Viewer) drawSelection(w *world.World) {
	s := w.Store()
	if v.hasSelect && ecs.Has[components.SensorArray](s, v.selected) {
		p := ecs.Get[components.Transform](s, v.selected).P
		rl.DrawText(formatReading(systems.Read(w, v.selected)), int32(p.X), int32(p.Y), 12, rl.White)
	}
	if v.hasShoot {
		mp := v.mouseWorld()
		rl.DrawLineV(vec(ecs.Get[components.Transform](s, v.shooting).P), mp, rl.Red)
	}
}

func formatReading(r components.Reading) string {
	return fmt.Sprintf("nest %.2f %.2f %.2f\npucks %.0f %.0f\nobst %.0f %.0f",
		r.LeftNest, r.MidNest, r.RightNest, r.LeftPucks, r.RightPucks, r.LeftObstacle, r.RightObstacle)
}

// drawText draws diagnostics in the top-left and the status in the
// bottom-left, in screen space.
func (v *Viewer) drawText(w *world.World) {
	engine := v.src.Engine()
	info := fmt.Sprintf("Num Objs: %d\nCPU Time: %.3fms\nMax Time: %.3fms",
		w.Entities().Len(),
		float64(engine.ComputeTime().Microseconds())/1000,
		float64(engine.MaxComputeTime().Microseconds())/1000,
	)
	rl.DrawText(info, 5, 5, 16, rl.Yellow)

	if v.status == "" {
		return
	}
	const size = 20
	lines := int32(strings.Count(v.status, "\n") + 1)
	rl.DrawText(v.status, 5, int32(w.Height())-lines*(size+2)-5, size, rl.White)
}
