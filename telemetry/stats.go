package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of steps.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Evaluator and learning signal
	Eval        float64 `csv:"eval"`
	RewardMean  float64 `csv:"reward_mean"`
	Batches     int     `csv:"batches"`
	Coverage    float64 `csv:"coverage"`
	Updates     int     `csv:"updates"`
	Formations  int     `csv:"formations"`
	RandomShare float64 `csv:"random_share"` // fraction of actions taken by exploration

	// Contacts per step
	CollisionsMean float64 `csv:"collisions_mean"`
	LineHitsMean   float64 `csv:"line_hits_mean"`

	// Robot speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Distribution returns the mean and 10th/50th/90th percentiles of values.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, p10, p50, p90
}

// Percentile computes the p-th percentile of sorted data using linear
// interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Float64("eval", s.Eval),
		slog.Float64("reward_mean", s.RewardMean),
		slog.Int("batches", s.Batches),
		slog.Float64("coverage", s.Coverage),
		slog.Int("updates", s.Updates),
		slog.Int("formations", s.Formations),
		slog.Float64("random_share", s.RandomShare),
		slog.Float64("collisions_mean", s.CollisionsMean),
		slog.Float64("line_hits_mean", s.LineHitsMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
