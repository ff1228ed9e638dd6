// Package main tunes the orbital construction parameters with CMA-ES so
// that robots gather pucks into the target band as quickly as possible.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/waggle/config"
)

type options struct {
	configPath string
	outputDir  string
	maxSteps   int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config file (empty = use defaults)")
	flag.IntVar(&o.maxSteps, "max-steps", 20000, "Simulation steps per run")
	flag.IntVar(&o.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if o.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

func run(o options) error {
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	baseCfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	params := NewParamVector()
	evaluator, err := NewFitnessEvaluator(params, o.maxSteps, evalSeeds(o.seeds), baseCfg)
	if err != nil {
		return fmt.Errorf("create evaluator: %w", err)
	}

	evals, err := newEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"), params, o.maxEvals)
	if err != nil {
		return err
	}
	defer evals.Close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Denormalize(x)
			fitness := evaluator.Evaluate(values)
			evals.Record(fitness, evaluator.LastQuality(), params.Clamp(values))
			return fitness
		},
	}

	popSize := o.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	// Seeds already run in parallel inside each evaluation.
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, o.maxEvals)
	fmt.Printf("Seeds per evaluation: %d, steps per run: %d\n", o.seeds, o.maxSteps)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := evals.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n",
		evals.count, formatDuration(time.Since(evals.start)))
	fmt.Printf("Best fitness: %.4f\n\nBest parameters:\n", evals.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, best[i])
	}

	return writeBestConfig(o, params, best)
}

// evalSeeds returns n fixed seeds so every candidate sees the same worlds.
func evalSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds
}

// writeBestConfig applies the best parameters to a fresh copy of the base
// config and saves it next to the log.
func writeBestConfig(o options, params *ParamVector, best []float64) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	params.ApplyToConfig(cfg, best)

	path := filepath.Join(o.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return fmt.Errorf("write best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", path)
	return nil
}

// evalLog appends one CSV row per evaluation and tracks the best candidate.
// Columns follow the parameter vector, so the header is built at runtime.
type evalLog struct {
	file *os.File
	w    *csv.Writer

	maxEvals    int
	count       int
	start       time.Time
	bestFitness float64
	best        []float64
}

func newEvalLog(path string, params *ParamVector, maxEvals int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	l := &evalLog{
		file:        f,
		w:           csv.NewWriter(f),
		maxEvals:    maxEvals,
		start:       time.Now(),
		bestFitness: 1e9,
	}
	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return l, nil
}

// Record logs one evaluation and prints progress.
func (l *evalLog) Record(fitness, quality float64, values []float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = append(l.best[:0], values...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(quality, 'f', 6, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		log.Printf("write log row: %v", err)
	}
	l.w.Flush()

	elapsed := time.Since(l.start)
	remaining := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: eval=%.4f quality=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
		l.count, l.maxEvals, -fitness/(1+0.2*quality), quality, -l.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))
}

func (l *evalLog) Close() error {
	l.w.Flush()
	return l.file.Close()
}

// formatDuration formats a duration as 1h02m03s, or 2m03s when under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
