// Package experiment runs the reinforcement-learning experiment: a world
// of robots and pucks, a shared tabular learner, batched reward from
// the puck evaluator, and resets whenever a formation completes.
package experiment

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/config"
	"github.com/pthm-cable/waggle/control"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/learning"
	"github.com/pthm-cable/waggle/systems"
	"github.com/pthm-cable/waggle/telemetry"
	"github.com/pthm-cable/waggle/world"
)

// ErrUnknownEvaluator is returned for an unrecognized evaluator name.
var ErrUnknownEvaluator = errors.New("unknown evaluator")

// BuildEvaluator selects the world score named by ec.Evaluator:
// "threshold" (the default) measures pucks against the orbital band and
// "center_ssd" measures how tightly the pucks cluster.
func BuildEvaluator(ec config.ExperimentConfig, oc config.OrbitalConfig) (systems.Evaluator, error) {
	switch ec.Evaluator {
	case "", "threshold":
		return systems.ThresholdEvaluator(oc.OutieThreshold, oc.InnieThreshold), nil
	case "center_ssd":
		return systems.PuckCenterSSD, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluator, ec.Evaluator)
}

// Options holds runtime options that are not part of the experiment config.
type Options struct {
	Seed      int64               // world and exploration RNG; 0 uses the config seed
	OutputDir string              // CSV output; empty falls back to the config results dir
	LogStats  bool                // log window stats via slog
	Behavior  components.Behavior // overrides the configured policy when set
}

// Status is a summary of the running experiment.
type Status struct {
	Step        int
	Eval        float64
	Coverage    int
	TableSize   int
	Formations  int
	StepsPerSec float64
}

// Experiment owns one learner and the world it is trained in.
type Experiment struct {
	cfg     *config.Config
	rng     *rand.Rand
	build   Scenario
	world   *world.World
	engine  *systems.PhysicsEngine
	learner *learning.QLearning
	hash    learning.Hash
	actions learning.Actions
	policy  components.Behavior
	eval    systems.Evaluator
	batch   *learning.Batch

	step         int
	previousEval float64
	lastEval     float64
	formations   []int
	simTime      time.Duration

	// scratch reused every step
	robots      []ecs.Entity
	perceptions []components.Perception
	states      []int
	chosen      []int

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
}

// New builds an experiment from cfg. It fails when the hash function,
// scenario or evaluator is unknown, the field cannot be built, or a policy
// file cannot be loaded.
func New(cfg *config.Config, opts Options) (*Experiment, error) {
	hash, err := learning.LookupHash(cfg.Learning.HashFunction)
	if err != nil {
		return nil, err
	}
	field, err := BuildField(cfg.Field)
	if err != nil {
		return nil, fmt.Errorf("building field: %w", err)
	}
	build, err := BuildScenario(cfg.World, field)
	if err != nil {
		return nil, err
	}
	eval, err := BuildEvaluator(cfg.Experiment, cfg.Orbital)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Experiment.Seed
	}

	lc := cfg.Learning
	var learner *learning.QLearning
	if lc.LoadPolicy {
		learner, err = learning.LoadFile(lc.LoadPolicyFile, hash.NumStates, len(lc.Actions))
		if err != nil {
			return nil, fmt.Errorf("loading policy: %w", err)
		}
	} else {
		learner = learning.New(hash.NumStates, len(lc.Actions), lc.Alpha, lc.Gamma, lc.InitialQ)
	}
	if seed != 0 {
		learner.Seed(seed)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = cfg.Experiment.ResultsDir
	}
	if outDir == "" && cfg.Experiment.WritePlotSkip > 0 {
		outDir = "."
	}
	output, err := telemetry.NewOutputManager(outDir, cfg.Experiment.PlotFilename)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	x := &Experiment{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		build:   build,
		learner: learner,
		hash:    hash,
		actions: learning.Actions{AngularSpeeds: lc.Actions, Speed: cfg.Orbital.ForwardSpeed},
		eval:    eval,
		batch:   learning.NewBatch(lc.BatchSize),
		engine: systems.NewPhysicsEngine(systems.PhysicsConfig{
			OverlapThreshold: cfg.Physics.OverlapThreshold,
			Deceleration:     cfg.Physics.Deceleration,
			StoppingSpeed:    cfg.Physics.StoppingSpeed,
			Seed:             seed,
		}),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:        output,
		logStats:      opts.LogStats,
	}

	switch {
	case opts.Behavior != nil:
		x.policy = opts.Behavior
	case lc.RLAction:
		x.policy = learning.Greedy{
			Learner:    learner,
			Hash:       hash.Func,
			Actions:    x.actions,
			MostChosen: lc.MostChosen,
		}
	default:
		x.policy = control.Orbital{Config: OrbitalConfig(cfg.Orbital)}
	}

	x.reset()

	slog.Info("experiment created",
		"seed", seed,
		"hash", hash.Name,
		"scenario", cfg.World.Scenario,
		"evaluator", cfg.Experiment.Evaluator,
		"states", hash.NumStates,
		"actions", len(lc.Actions),
		"robots", cfg.World.NumRobots,
		"pucks", cfg.World.NumPucks,
		"output", output.Dir(),
	)
	return x, nil
}

// OrbitalConfig converts the configured orbital parameters.
func OrbitalConfig(oc config.OrbitalConfig) control.OrbitalConfig {
	return control.OrbitalConfig{
		MaxAngularSpeed: oc.AngularSpeed,
		ForwardSpeed:    oc.ForwardSpeed,
		OutieThreshold:  oc.OutieThreshold,
		InnieThreshold:  oc.InnieThreshold,
	}
}

// reset replaces the world with a freshly generated one.
func (x *Experiment) reset() {
	x.world = x.build(x.rng)
	for e := range x.world.Tagged(world.TagRobot).All() {
		ecs.Add(x.world.Store(), e, components.Controller{Behavior: x.policy})
	}
	x.previousEval = x.eval(x.world)
	x.lastEval = x.previousEval
}

// World returns the current world. It changes after every reset.
func (x *Experiment) World() *world.World { return x.world }

// Engine returns the physics engine.
func (x *Experiment) Engine() *systems.PhysicsEngine { return x.engine }

// Learner returns the shared Q-learner.
func (x *Experiment) Learner() *learning.QLearning { return x.learner }

// Steps returns the number of completed steps.
func (x *Experiment) Steps() int { return x.step }

// Formations returns the steps at which formations completed.
func (x *Experiment) Formations() []int { return x.formations }

// Status summarizes the experiment for display.
func (x *Experiment) Status() Status {
	st := Status{
		Step:       x.step,
		Eval:       x.lastEval,
		Coverage:   x.learner.Visited(),
		TableSize:  x.learner.Size(),
		Formations: len(x.formations),
	}
	if x.simTime > 0 {
		st.StepsPerSec = float64(x.step) / x.simTime.Seconds()
	}
	return st
}

// Done reports whether the step limit has been reached.
func (x *Experiment) Done() bool {
	limit := x.cfg.Experiment.MaxTimeSteps
	return limit > 0 && x.step >= limit
}

// Step advances the experiment by one physics step: act, simulate,
// record transitions and, at batch boundaries, learn.
func (x *Experiment) Step() error {
	x.perfCollector.StartStep()
	x.perfCollector.StartPhase(telemetry.PhaseOutput)
	if err := x.writeOutputs(); err != nil {
		return err
	}
	x.step++
	if every := x.cfg.Experiment.ProgressEvery; every > 0 && x.step%every == 0 {
		slog.Info("progress", "step", x.step, "eval", x.lastEval, "formations", len(x.formations))
	}

	w := x.world
	s := w.Store()
	dt := x.cfg.Physics.TimeStep

	x.perfCollector.StartPhase(telemetry.PhaseSense)
	x.robots = w.Tagged(world.TagRobot).AppendTo(x.robots[:0])
	x.states = x.states[:0]
	x.chosen = x.chosen[:0]
	x.perceptions = x.perceptions[:0]
	for _, e := range x.robots {
		p := control.Perceive(w, e)
		x.perceptions = append(x.perceptions, p)
		x.states = append(x.states, x.hash.Func(p.Reading))
	}

	x.perfCollector.StartPhase(telemetry.PhaseDecide)
	for i, e := range x.robots {
		idx := x.chooseAction(s, e, x.perceptions[i])
		x.chosen = append(x.chosen, idx)
		control.Apply(s, e, x.actions.Action(idx), dt)
	}

	x.perfCollector.StartPhase(telemetry.PhasePhysics)
	x.engine.Update(w, dt)

	x.perfCollector.StartPhase(telemetry.PhaseSense)
	for i, e := range x.robots {
		next := x.hash.Func(systems.Read(w, e))
		x.batch.Add(learning.Transition{State: x.states[i], Action: x.chosen[i], Next: next})
	}

	x.perfCollector.StartPhase(telemetry.PhaseLearn)
	if x.batch.Tick() {
		eval := x.eval(w)
		reward := learning.SharedReward(eval, x.previousEval)
		if x.cfg.Learning.Enabled {
			x.batch.Replay(x.learner, reward)
		} else {
			x.batch.Reset()
		}
		x.collector.RecordBatch(reward)
		x.previousEval = eval
	}

	x.recordContacts()
	x.perfCollector.EndStep()
	x.flushTelemetry()
	return nil
}

// chooseAction picks an action index for robot e: a uniformly random one
// with probability epsilon, otherwise whatever its controller decides,
// mapped to the nearest configured action.
func (x *Experiment) chooseAction(s *ecs.Store, e ecs.Entity, p components.Perception) int {
	if x.rng.Float64() < x.cfg.Learning.Epsilon {
		x.collector.RecordAction(true)
		return x.rng.Intn(x.actions.Len())
	}
	x.collector.RecordAction(false)

	b := x.policy
	if ecs.Has[components.Controller](s, e) {
		if cb := ecs.Get[components.Controller](s, e).Behavior; cb != nil {
			b = cb
		}
	}
	return x.actions.Index(b.Decide(p))
}

// writeOutputs writes the plot row and saves the table on their cadences.
func (x *Experiment) writeOutputs() error {
	ec, lc := x.cfg.Experiment, x.cfg.Learning
	if ec.WritePlotSkip > 0 && x.step%ec.WritePlotSkip == 0 {
		if err := x.output.WritePlot(x.step, x.previousEval); err != nil {
			return err
		}
	}
	if lc.SavePolicySkip > 0 && x.step%lc.SavePolicySkip == 0 {
		if err := x.learner.SaveFile(x.output.Path(lc.SavePolicyFile)); err != nil {
			return fmt.Errorf("saving policy: %w", err)
		}
	}
	return nil
}

// recordContacts counts the last step's contacts for telemetry.
func (x *Experiment) recordContacts() {
	var circles, lines int
	for _, c := range x.engine.Collisions() {
		if c.IsLine() {
			lines++
		} else {
			circles++
		}
	}
	x.collector.RecordStep(circles, lines)
}

// Run steps the experiment renderSkip steps at a time until the step limit
// is reached or hook returns false. hook runs once per iteration, after the
// steps; it may be nil. A formation is counted, and the world rebuilt,
// whenever the evaluator measured at the start of an iteration exceeds the
// reset threshold.
func (x *Experiment) Run(hook func() bool) error {
	skip := max(x.cfg.Experiment.RenderSkip, 1)
	for !x.Done() {
		x.lastEval = x.eval(x.world)

		start := time.Now()
		for i := 0; i < skip && !x.Done(); i++ {
			if err := x.Step(); err != nil {
				return err
			}
		}
		x.simTime += time.Since(start)

		if hook != nil && !hook() {
			break
		}

		if reset := x.cfg.Experiment.ResetEval; reset > 0 && x.lastEval > reset {
			if err := x.completeFormation(); err != nil {
				return err
			}
		}
	}
	x.logResults()
	return nil
}

// completeFormation records a formation and rebuilds the world.
func (x *Experiment) completeFormation() error {
	x.formations = append(x.formations, x.step)
	slog.Info("formation complete", "formation", len(x.formations), "step", x.step, "eval", x.lastEval)
	if err := x.output.WriteFormation(len(x.formations), x.step); err != nil {
		return err
	}
	x.reset()
	return nil
}

func (x *Experiment) logResults() {
	slog.Info("experiment finished",
		"steps", x.step,
		"formations", len(x.formations),
		"coverage", x.learner.Coverage(),
		"updates", x.learner.Updates(),
	)
}

// Close flushes and closes the experiment's output files.
func (x *Experiment) Close() error {
	return x.output.Close()
}
