package experiment

import (
	"log/slog"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/telemetry"
	"github.com/pthm-cable/waggle/world"
)

// flushTelemetry emits the stats window when it is complete.
func (x *Experiment) flushTelemetry() {
	if !x.collector.ShouldFlush(x.step) {
		return
	}

	stats := x.collector.Flush(x.step, telemetry.Snapshot{
		Eval:        x.previousEval,
		Coverage:    x.learner.Coverage(),
		Updates:     x.learner.Updates(),
		Formations:  len(x.formations),
		RobotSpeeds: x.robotSpeeds(),
	})
	perfStats := x.perfCollector.Stats()

	if x.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := x.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := x.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// robotSpeeds samples the speed of every robot.
func (x *Experiment) robotSpeeds() []float64 {
	s := x.world.Store()
	robots := x.world.Tagged(world.TagRobot)
	speeds := make([]float64, 0, robots.Len())
	for e := range robots.All() {
		speeds = append(speeds, ecs.Get[components.Transform](s, e).V.Len())
	}
	return speeds
}
