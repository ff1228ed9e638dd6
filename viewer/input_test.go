package viewer

import (
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

func TestPickCircle(t *testing.T) {
	w := world.NewWithCapacity(200, 200, 8)
	s := w.Store()
	e := w.Create(world.TagPuck)
	ecs.Add(s, e, components.Transform{P: geom.V(50, 50)})
	ecs.Add(s, e, components.NewCircleBody(10))
	w.Update()

	tests := []struct {
		name string
		p    geom.Vec2
		hit  bool
	}{
		{"center", geom.V(50, 50), true},
		{"inside", geom.V(55, 52), true},
		{"on edge", geom.V(60, 50), false},
		{"outside", geom.V(80, 80), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickCircle(w, tt.p)
			if ok != tt.hit {
				t.Fatalf("pickCircle(%v) hit = %v, want %v", tt.p, ok, tt.hit)
			}
			if ok && got != e {
				t.Errorf("pickCircle(%v) = %d, want %d", tt.p, got, e)
			}
		})
	}
}

func TestPickLineEnd(t *testing.T) {
	w := world.NewWithCapacity(200, 200, 8)
	l := w.Create(world.TagLine)
	ecs.Add(w.Store(), l, components.LineBody{S: geom.V(10, 10), E: geom.V(100, 10), R: 5})
	w.Update()

	if e, start, ok := pickLineEnd(w, geom.V(12, 11)); !ok || !start || e != l {
		t.Errorf("near start: got (%d, %v, %v)", e, start, ok)
	}
	if e, start, ok := pickLineEnd(w, geom.V(99, 9)); !ok || start || e != l {
		t.Errorf("near end: got (%d, %v, %v)", e, start, ok)
	}
	if _, _, ok := pickLineEnd(w, geom.V(50, 10)); ok {
		t.Error("middle of the segment should not pick an endpoint")
	}
}

func TestDragVelocities(t *testing.T) {
	p, mouse := geom.V(100, 100), geom.V(150, 80)
	if got, want := puppetVelocity(p, mouse), geom.V(5, -2); got != want {
		t.Errorf("puppetVelocity = %v, want %v", got, want)
	}
	if got, want := shotVelocity(p, mouse), geom.V(-5, 2); got != want {
		t.Errorf("shotVelocity = %v, want %v", got, want)
	}
}

func TestFieldPixels(t *testing.T) {
	f := world.NewField(2, 1)
	f.Set(0, 0, 0)
	f.Set(1, 0, 1)

	px := fieldPixels(f, nil)
	want := []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}}
	for i := range want {
		if px[i] != want[i] {
			t.Errorf("pixel %d = %v, want %v", i, px[i], want[i])
		}
	}
}

func TestZoomFactor(t *testing.T) {
	tests := []struct {
		wheel float32
		want  float32
	}{
		{0, 1},
		{1, zoomStep},
		{-1, 1 / zoomStep},
	}
	for _, tt := range tests {
		if got := zoomFactor(tt.wheel); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("zoomFactor(%v) = %f, want %f", tt.wheel, got, tt.want)
		}
	}
}
