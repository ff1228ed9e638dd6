package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few steps
	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseSense)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhasePhysics)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration")
	}
	if stats.PhaseAvg[PhaseSense] <= 0 {
		t.Error("expected sense phase to be tracked")
	}
	if stats.PhaseAvg[PhasePhysics] <= 0 {
		t.Error("expected physics phase to be tracked")
	}
	if stats.PhaseAvg[PhaseLearn] != 0 {
		t.Errorf("learn phase = %v, want 0", stats.PhaseAvg[PhaseLearn])
	}
	if stats.MinStep > stats.AvgStep || stats.AvgStep > stats.MaxStep {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinStep, stats.AvgStep, stats.MaxStep)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseDecide)
		time.Sleep(10 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSec <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseSense)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseLearn)
		time.Sleep(500 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	fast := stats.PhasePercent[PhaseSense]
	slow := stats.PhasePercent[PhaseLearn]
	if slow <= fast {
		t.Errorf("expected learn phase (%v%%) > sense phase (%v%%)", slow, fast)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgStep != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.StepsPerSec != 0 {
		t.Error("expected zero steps per second for empty collector")
	}
}

func TestPerfStatsCSV(t *testing.T) {
	var s PerfStats
	s.AvgStep = 1500 * time.Microsecond
	s.PhasePercent[PhasePhysics] = 80

	row := s.ToCSV(42)
	if row.WindowEnd != 42 {
		t.Errorf("WindowEnd = %d, want 42", row.WindowEnd)
	}
	if row.AvgStepUS != 1500 {
		t.Errorf("AvgStepUS = %d, want 1500", row.AvgStepUS)
	}
	if row.PhysicsPct != 80 {
		t.Errorf("PhysicsPct = %f, want 80", row.PhysicsPct)
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseOutput.String(); got != "output" {
		t.Errorf("PhaseOutput.String() = %q, want %q", got, "output")
	}
}
