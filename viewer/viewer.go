// Package viewer draws a running simulation with raylib and lets the user
// push bodies around with the mouse.
//
// Keys: D toggles collision debug lines, G the field, S the sensors, R
// resets the view, and Esc quits. Left-drag puppeteers a body toward the
// cursor; right-drag aims and, on release, shoots it away from the cursor.
// The wheel zooms and middle-drag pans.
package viewer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/waggle/camera"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/systems"
	"github.com/pthm-cable/waggle/world"
)

// Source is what the viewer reads each frame. The world may change
// between frames.
type Source interface {
	World() *world.World
	Engine() *systems.PhysicsEngine
}

// Viewer owns the window and the interaction state.
type Viewer struct {
	src    Source
	status string
	cam    *camera.Camera

	showDebug   bool
	showField   bool
	showSensors bool

	world     *world.World
	selected  ecs.Entity
	shooting  ecs.Entity
	hasSelect bool
	hasShoot  bool
	line      ecs.Entity
	lineStart bool
	hasLine   bool

	field      *world.Field
	fieldTex   rl.Texture2D
	fieldReady bool
	pixels     []color.RGBA
}

// New opens a window sized to the source's world.
func New(src Source, targetFPS int) *Viewer {
	w := src.World()
	width, height := float32(w.Width()), float32(w.Height())
	rl.InitWindow(int32(width), int32(height), "Waggle")
	rl.SetTargetFPS(int32(targetFPS))
	return &Viewer{
		src:         src,
		cam:         camera.New(width, height, width, height),
		showField:   true,
		showSensors: true,
	}
}

// SetStatus sets the multi-line text drawn in the bottom-left corner.
func (v *Viewer) SetStatus(s string) { v.status = s }

// Frame handles input and draws one frame. It returns false once the
// window should close.
func (v *Viewer) Frame() bool {
	if rl.WindowShouldClose() {
		return false
	}
	w := v.src.World()
	v.syncField(w.Field())
	v.handleInput(w)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.BeginMode2D(v.camera2D())
	v.draw(w)
	rl.EndMode2D()
	v.drawText(w)
	rl.EndDrawing()
	return true
}

// camera2D converts the view camera for raylib's 2D mode.
func (v *Viewer) camera2D() rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: v.cam.ViewportW / 2, Y: v.cam.ViewportH / 2},
		Target: rl.Vector2{X: v.cam.X, Y: v.cam.Y},
		Zoom:   v.cam.Zoom,
	}
}

// mouseWorld returns the cursor position in world coordinates.
func (v *Viewer) mouseWorld() rl.Vector2 {
	mp := rl.GetMousePosition()
	x, y := v.cam.ScreenToWorld(mp.X, mp.Y)
	return rl.Vector2{X: x, Y: y}
}

// Close releases GPU resources and closes the window.
func (v *Viewer) Close() {
	if v.fieldReady {
		rl.UnloadTexture(v.fieldTex)
	}
	rl.CloseWindow()
}

// syncField uploads f as a grayscale texture when it changes.
func (v *Viewer) syncField(f *world.Field) {
	if f == v.field {
		return
	}
	v.field = f
	if v.fieldReady {
		rl.UnloadTexture(v.fieldTex)
		v.fieldReady = false
	}
	if f == nil {
		return
	}

	img := rl.GenImageColor(f.Width, f.Height, rl.Black)
	v.fieldTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	v.fieldReady = true

	v.pixels = fieldPixels(f, v.pixels)
	rl.UpdateTexture(v.fieldTex, v.pixels)
}

// fieldPixels converts f to grayscale pixels, reusing dst.
func fieldPixels(f *world.Field, dst []color.RGBA) []color.RGBA {
	n := f.Width * f.Height
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			g := uint8(f.Get(x, y) * 255)
			dst[y*f.Width+x] = color.RGBA{R: g, G: g, B: g, A: 255}
		}
	}
	return dst
}
