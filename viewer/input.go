package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

// dragDamping divides the cursor offset when converting it to a velocity.
const dragDamping = 10

// zoomStep is the zoom multiplier per wheel notch.
const zoomStep = 1.1

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput(w *world.World) {
	if rl.IsKeyPressed(rl.KeyD) {
		v.showDebug = !v.showDebug
	}
	if rl.IsKeyPressed(rl.KeyG) {
		v.showField = !v.showField
	}
	if rl.IsKeyPressed(rl.KeyS) {
		v.showSensors = !v.showSensors
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.cam.Reset()
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		sp := rl.GetMousePosition()
		v.cam.ZoomAt(sp.X, sp.Y, zoomFactor(wheel))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}

	mp := v.mouseWorld()
	mouse := geom.V(float64(mp.X), float64(mp.Y))
	s := w.Store()

	// selections do not survive a world rebuild
	if w != v.world {
		v.world = w
		v.hasSelect, v.hasShoot, v.hasLine = false, false, false
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.selected, v.hasSelect = pickCircle(w, mouse)
		v.line, v.lineStart, v.hasLine = pickLineEnd(w, mouse)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		v.hasSelect, v.hasLine = false, false
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.shooting, v.hasShoot = pickCircle(w, mouse)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) && v.hasShoot {
		t := ecs.Get[components.Transform](s, v.shooting)
		t.V = shotVelocity(t.P, mouse)
		v.hasShoot = false
	}

	if v.hasSelect {
		t := ecs.Get[components.Transform](s, v.selected)
		t.V = puppetVelocity(t.P, mouse)
	}
	if v.hasLine {
		lb := ecs.Get[components.LineBody](s, v.line)
		if v.lineStart {
			lb.S = mouse
		} else {
			lb.E = mouse
		}
	}
}

// pickCircle returns the first circle body containing p.
func pickCircle(w *world.World, p geom.Vec2) (ecs.Entity, bool) {
	s := w.Store()
	for e := range w.Entities().All() {
		if !ecs.Has[components.CircleBody](s, e) || !ecs.Has[components.Transform](s, e) {
			continue
		}
		if p.Dist(ecs.Get[components.Transform](s, e).P) < ecs.Get[components.CircleBody](s, e).R {
			return e, true
		}
	}
	return 0, false
}

// pickLineEnd returns the first line with an endpoint cap containing p,
// and whether it is the start point.
func pickLineEnd(w *world.World, p geom.Vec2) (ecs.Entity, bool, bool) {
	s := w.Store()
	for e := range w.Tagged(world.TagLine).All() {
		lb := ecs.Get[components.LineBody](s, e)
		if p.Dist(lb.S) < lb.R {
			return e, true, true
		}
		if p.Dist(lb.E) < lb.R {
			return e, false, true
		}
	}
	return 0, false, false
}

// puppetVelocity pulls a body at p toward the cursor.
func puppetVelocity(p, mouse geom.Vec2) geom.Vec2 {
	return mouse.Sub(p).Div(dragDamping)
}

// shotVelocity launches a body at p away from the cursor.
func shotVelocity(p, mouse geom.Vec2) geom.Vec2 {
	return p.Sub(mouse).Div(dragDamping)
}

// zoomFactor turns a wheel movement into a zoom multiplier.
func zoomFactor(wheel float32) float32 {
	return float32(math.Pow(zoomStep, float64(wheel)))
}
