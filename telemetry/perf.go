package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies a part of the experiment step.
type Phase int

const (
	PhaseSense   Phase = iota // sensor reads and state hashing
	PhaseDecide               // action selection and application
	PhasePhysics              // physics engine update
	PhaseLearn                // batch reward and replay
	PhaseOutput               // plot rows, Q-table saves
	numPhases
)

var phaseNames = [numPhases]string{"sense", "decide", "physics", "learn", "output"}

func (p Phase) String() string { return phaseNames[p] }

// perfSample holds timing data for a single step.
type perfSample struct {
	step   time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector tracks step timing over a rolling window.
type PerfCollector struct {
	samples     []perfSample
	writeIndex  int
	sampleCount int

	current    perfSample
	stepStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{samples: make([]perfSample, windowSize)}
}

// StartStep begins timing a step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.current = perfSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndStep records the step into the window.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.current.step = now.Sub(p.stepStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// PerfStats holds aggregated step timing.
type PerfStats struct {
	AvgStep      time.Duration
	MinStep      time.Duration
	MaxStep      time.Duration
	StepsPerSec  float64
	PhaseAvg     [numPhases]time.Duration
	PhasePercent [numPhases]float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var st PerfStats
	if p.sampleCount == 0 {
		return st
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.step
		if i == 0 || s.step < st.MinStep {
			st.MinStep = s.step
		}
		st.MaxStep = max(st.MaxStep, s.step)
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	st.AvgStep = total / n
	for ph := range phaseSum {
		st.PhaseAvg[ph] = phaseSum[ph] / n
		if st.AvgStep > 0 {
			st.PhasePercent[ph] = float64(st.PhaseAvg[ph]) / float64(st.AvgStep) * 100
		}
	}
	if st.AvgStep > 0 {
		st.StepsPerSec = float64(time.Second) / float64(st.AvgStep)
	}
	return st
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStep.Microseconds()),
		slog.Int64("min_step_us", s.MinStep.Microseconds()),
		slog.Int64("max_step_us", s.MaxStep.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSec),
	}
	for ph, pct := range s.PhasePercent {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the stats at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int     `csv:"window_end"`
	AvgStepUS   int64   `csv:"avg_step_us"`
	MinStepUS   int64   `csv:"min_step_us"`
	MaxStepUS   int64   `csv:"max_step_us"`
	StepsPerSec float64 `csv:"steps_per_sec"`
	SensePct    float64 `csv:"sense_pct"`
	DecidePct   float64 `csv:"decide_pct"`
	PhysicsPct  float64 `csv:"physics_pct"`
	LearnPct    float64 `csv:"learn_pct"`
	OutputPct   float64 `csv:"output_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgStepUS:   s.AvgStep.Microseconds(),
		MinStepUS:   s.MinStep.Microseconds(),
		MaxStepUS:   s.MaxStep.Microseconds(),
		StepsPerSec: s.StepsPerSec,
		SensePct:    s.PhasePercent[PhaseSense],
		DecidePct:   s.PhasePercent[PhaseDecide],
		PhysicsPct:  s.PhasePercent[PhasePhysics],
		LearnPct:    s.PhasePercent[PhaseLearn],
		OutputPct:   s.PhasePercent[PhaseOutput],
	}
}
