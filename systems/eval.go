package systems

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/world"
)

// Evaluator scores a world state; higher is better.
type Evaluator func(w *world.World) float64

// ThresholdEvaluator returns PuckAvgThresholdDiff bound to a band.
func ThresholdEvaluator(lo, hi float64) Evaluator {
	return func(w *world.World) float64 { return PuckAvgThresholdDiff(w, lo, hi) }
}

// PuckAvgThresholdDiff measures how close the pucks are to the field band
// [lo, hi]. It is 1 when every puck sits on a cell inside the band and
// falls as pucks stray from it. A world without pucks or field scores 0,
// and a band spanning the whole [0, 1] range always scores 1.
func PuckAvgThresholdDiff(w *world.World, lo, hi float64) float64 {
	f := w.Field()
	pucks := w.Tagged(world.TagPuck)
	if f == nil || pucks.Len() == 0 {
		return 0
	}

	s := w.Store()
	diffs := make([]float64, 0, pucks.Len())
	for puck := range pucks.All() {
		p := ecs.Get[components.Transform](s, puck).P
		v := f.Get(f.Cell(p.X, p.Y, w.Width(), w.Height()))
		var diff float64
		switch {
		case v < lo:
			diff = lo - v
		case v > hi:
			diff = v - hi
		}
		diffs = append(diffs, diff)
	}
	// a band covering [0,1] holds every puck
	maxDiff := math.Max(lo, 1-hi)
	if maxDiff <= 0 {
		return 1
	}
	return 1 - stat.Mean(diffs, nil)/maxDiff
}

// PuckCenterSSD scores clustering: the world width minus the mean
// distance of the pucks from their centroid.
func PuckCenterSSD(w *world.World) float64 {
	pucks := w.Tagged(world.TagPuck)
	if pucks.Len() == 0 {
		return 0
	}

	s := w.Store()
	xs := make([]float64, 0, pucks.Len())
	ys := make([]float64, 0, pucks.Len())
	for puck := range pucks.All() {
		p := ecs.Get[components.Transform](s, puck).P
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	cx, cy := stat.Mean(xs, nil), stat.Mean(ys, nil)

	dists := make([]float64, len(xs))
	for i := range xs {
		dists[i] = math.Hypot(xs[i]-cx, ys[i]-cy)
	}
	return w.Width() - stat.Mean(dists, nil)
}
