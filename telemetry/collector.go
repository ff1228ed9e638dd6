package telemetry

// Collector accumulates per-step events and produces WindowStats.
type Collector struct {
	windowSteps int
	windowStart int

	steps      int
	collisions int
	lineHits   int
	actions    int
	random     int
	batches    int
	rewardSum  float64
}

// NewCollector creates a collector flushing every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	return &Collector{windowSteps: max(windowSteps, 1)}
}

// RecordStep records the contacts of one physics step.
func (c *Collector) RecordStep(collisions, lineHits int) {
	c.steps++
	c.collisions += collisions
	c.lineHits += lineHits
}

// RecordAction records one action choice.
func (c *Collector) RecordAction(random bool) {
	c.actions++
	if random {
		c.random++
	}
}

// RecordBatch records one batch reward.
func (c *Collector) RecordBatch(reward float64) {
	c.batches++
	c.rewardSum += reward
}

// ShouldFlush reports whether the window ending at step is complete.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStart >= c.windowSteps
}

// Snapshot is the world and learner state sampled at window end.
type Snapshot struct {
	Eval        float64
	Coverage    float64
	Updates     int
	Formations  int
	RobotSpeeds []float64
}

// Flush produces the stats for the window ending at step and resets.
func (c *Collector) Flush(step int, snap Snapshot) WindowStats {
	s := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   step,
		Eval:        snap.Eval,
		Batches:     c.batches,
		Coverage:    snap.Coverage,
		Updates:     snap.Updates,
		Formations:  snap.Formations,
	}
	if c.batches > 0 {
		s.RewardMean = c.rewardSum / float64(c.batches)
	}
	if c.actions > 0 {
		s.RandomShare = float64(c.random) / float64(c.actions)
	}
	if c.steps > 0 {
		s.CollisionsMean = float64(c.collisions) / float64(c.steps)
		s.LineHitsMean = float64(c.lineHits) / float64(c.steps)
	}
	s.SpeedMean, s.SpeedP10, s.SpeedP50, s.SpeedP90 = Distribution(snap.RobotSpeeds)

	*c = Collector{windowSteps: c.windowSteps, windowStart: step}
	return s
}
