package camera

import (
	"math"
	"testing"
)

func approx(a, b float32) bool { return math.Abs(float64(a-b)) < 0.01 }

func TestNew(t *testing.T) {
	cam := New(800, 600, 800, 600)

	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected camera at (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if cam.MinZoom != 1.0 {
		t.Errorf("expected MinZoom 1.0, got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 600, 800, 600)

	sx, sy := cam.WorldToScreen(400, 300)
	if !approx(sx, 400) || !approx(sy, 300) {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.ZoomAt(200, 150, 2.5)

	testCases := []struct{ sx, sy float32 }{
		{400, 300},
		{10, 10},
		{790, 590},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !approx(sx, tc.sx) || !approx(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	cam := New(800, 600, 800, 600)

	wx, wy := cam.ScreenToWorld(300, 250)
	cam.ZoomAt(300, 250, 2)
	gx, gy := cam.ScreenToWorld(300, 250)

	if cam.Zoom != 2 {
		t.Fatalf("zoom = %f, want 2", cam.Zoom)
	}
	if !approx(gx, wx) || !approx(gy, wy) {
		t.Errorf("point under cursor moved from (%f,%f) to (%f,%f)", wx, wy, gx, gy)
	}
}

func TestPanStaysInsideWorld(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.SetZoom(2)

	cam.Pan(-10000, -10000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if !approx(minX, 0) || !approx(minY, 0) {
		t.Errorf("bounds min = (%f, %f), want (0, 0)", minX, minY)
	}

	cam.Pan(10000, 10000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if !approx(maxX, 800) || !approx(maxY, 600) {
		t.Errorf("bounds max = (%f, %f), want (800, 600)", maxX, maxY)
	}
}

func TestPanAtMinZoomIsPinned(t *testing.T) {
	cam := New(800, 600, 800, 600)

	cam.Pan(50, -50)
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected pinned camera at (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		name       string
		viewW      float32
		viewH      float32
		worldW     float32
		worldH     float32
		wantMin    float32
		setTo      float32
		wantZoomed float32
	}{
		{"below min", 800, 600, 1600, 1200, 0.5, 0.1, 0.5},
		{"above max", 800, 600, 800, 600, 1, 20, 8},
		{"asymmetric", 800, 600, 1600, 800, 0.5, 0.2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.viewW, tt.viewH, tt.worldW, tt.worldH)
			if !approx(cam.MinZoom, tt.wantMin) {
				t.Errorf("MinZoom = %f, want %f", cam.MinZoom, tt.wantMin)
			}
			cam.SetZoom(tt.setTo)
			if !approx(cam.Zoom, tt.wantZoomed) {
				t.Errorf("Zoom = %f, want %f", cam.Zoom, tt.wantZoomed)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.ZoomAt(400, 300, 4)

	// Visible range is (300, 225) to (500, 375)
	if !cam.IsVisible(400, 300, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(700, 500, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(280, 300, 30) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResize(t *testing.T) {
	cam := New(800, 600, 800, 600)

	cam.Resize(400, 300)
	if !approx(cam.MinZoom, 0.5) {
		t.Errorf("MinZoom = %f, want 0.5", cam.MinZoom)
	}
	if cam.Zoom != 1 {
		t.Errorf("Zoom = %f, want 1", cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.ZoomAt(100, 100, 3)

	cam.Reset()

	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected position (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
