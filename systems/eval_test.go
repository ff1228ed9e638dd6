package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

func bandWorld(values ...float64) *world.World {
	w := world.NewWithCapacity(100, 100, 16)
	f := world.NewField(len(values), 1)
	copy(f.Values, values)
	w.SetField(f)
	return w
}

func TestPuckAvgThresholdDiff(t *testing.T) {
	tests := []struct {
		name  string
		cells []float64 // field columns; one puck per column
		want  float64
	}{
		{"all inside band", []float64{0.7, 0.75, 0.8}, 1},
		{"below band", []float64{0.4}, 1 - 0.3/0.7},
		{"above band", []float64{1.0}, 1 - 0.2/0.7},
		{"mixed", []float64{0.75, 0.0}, 1 - 0.35/0.7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := bandWorld(tc.cells...)
			colW := 100 / float64(len(tc.cells))
			for i := range tc.cells {
				addBody(w, world.TagPuck, geom.V(colW*float64(i)+1, 10), geom.Vec2{}, 1)
			}
			w.Update()

			if got := PuckAvgThresholdDiff(w, 0.7, 0.8); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("PuckAvgThresholdDiff = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestPuckAvgThresholdDiffEmpty(t *testing.T) {
	w := bandWorld(0.5)
	if got := PuckAvgThresholdDiff(w, 0.7, 0.8); got != 0 {
		t.Errorf("no pucks = %f, want 0", got)
	}
}

func TestPuckAvgThresholdDiffFullBand(t *testing.T) {
	tests := []struct {
		name  string
		cells []float64
	}{
		{"low cell", []float64{0}},
		{"high cell", []float64{1}},
		{"spread", []float64{0, 0.5, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := bandWorld(tc.cells...)
			colW := 100 / float64(len(tc.cells))
			for i := range tc.cells {
				addBody(w, world.TagPuck, geom.V(colW*float64(i)+1, 10), geom.Vec2{}, 1)
			}
			w.Update()

			got := PuckAvgThresholdDiff(w, 0, 1)
			if math.IsNaN(got) || got != 1 {
				t.Errorf("PuckAvgThresholdDiff(0, 1) = %f, want 1", got)
			}
		})
	}
}

func TestPuckCenterSSD(t *testing.T) {
	w := world.NewWithCapacity(800, 800, 8)
	addBody(w, world.TagPuck, geom.V(100, 100), geom.Vec2{}, 5)
	addBody(w, world.TagPuck, geom.V(300, 100), geom.Vec2{}, 5)
	w.Update()

	if got := PuckCenterSSD(w); math.Abs(got-700) > 1e-9 {
		t.Errorf("PuckCenterSSD = %f, want 700", got)
	}
	if got := ThresholdEvaluator(0.7, 0.8)(w); got != 0 {
		t.Errorf("threshold eval without field = %f, want 0", got)
	}
}
