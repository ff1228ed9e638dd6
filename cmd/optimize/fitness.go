package main

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/config"
	"github.com/pthm-cable/waggle/control"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/experiment"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/systems"
	"github.com/pthm-cable/waggle/world"
)

// FitnessEvaluator runs headless orbital construction and scores how well
// the pucks end up in the target band.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config
	field      *world.Field
	eval       systems.Evaluator

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. The evaluator band is taken
// from the base config and stays fixed while the thresholds are tuned.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) (*FitnessEvaluator, error) {
	field, err := experiment.BuildField(baseCfg.Field)
	if err != nil {
		return nil, err
	}
	return &FitnessEvaluator{
		params:     params,
		maxSteps:   maxSteps,
		seeds:      seeds,
		baseConfig: baseCfg,
		field:      field,
		eval:       systems.ThresholdEvaluator(baseCfg.Orbital.OutieThreshold, baseCfg.Orbital.InnieThreshold),
	}, nil
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Number of evaluator samples taken over a run.
const evalSamples = 20

// runResult holds the results from a single simulation run.
type runResult struct {
	final   float64   // evaluator score at the last step
	samples []float64 // evaluator scores at regular intervals
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Each seed owns its world; the field is shared read-only.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		quality := computeQuality(r.samples)
		totalFitness += computeFitness(r.final, quality)
		totalQuality += quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run of the orbital heuristic.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	w := experiment.SquareWorld(cfg.World, fe.field, rand.New(rand.NewSource(seed)))
	behavior := control.Orbital{Config: experiment.OrbitalConfig(cfg.Orbital)}
	for e := range w.Tagged(world.TagRobot).All() {
		ecs.Add(w.Store(), e, components.Controller{Behavior: behavior})
	}
	engine := systems.NewPhysicsEngine(systems.PhysicsConfig{
		OverlapThreshold: cfg.Physics.OverlapThreshold,
		Deceleration:     cfg.Physics.Deceleration,
		StoppingSpeed:    cfg.Physics.StoppingSpeed,
		Seed:             seed,
	})

	dt := cfg.Physics.TimeStep
	every := max(fe.maxSteps/evalSamples, 1)
	var r runResult
	for step := 1; step <= fe.maxSteps; step++ {
		control.Step(w, dt)
		engine.Update(w, dt)
		if step%every == 0 {
			r.samples = append(r.samples, fe.eval(w))
		}
	}
	r.final = fe.eval(w)
	return r
}

// copyConfig creates a copy of the base config. The config holds one
// slice, the action list, which runs never modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(final × (1.0 + 0.2 × quality))
// The final score dominates; quality rewards reaching it early.
func computeFitness(final, quality float64) float64 {
	return -(final * (1.0 + 0.2*quality))
}

// computeQuality is the mean sampled score, clamped to [0, 1].
func computeQuality(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return geom.Clamp01(stat.Mean(samples, nil))
}
