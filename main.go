package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/config"
	"github.com/pthm-cable/waggle/experiment"
	"github.com/pthm-cable/waggle/scripting"
	"github.com/pthm-cable/waggle/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config file: .yaml, .toml or key/value text (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics (overrides viewer.enabled)")
	gui := flag.Bool("gui", false, "Open the viewer (overrides viewer.enabled)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, plot and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, or time-based if that is 0 too)")
	maxSteps := flag.Int("max-steps", -1, "Stop after N steps (0 = unlimited, -1 = use config)")
	script := flag.String("script", "", "Lua controller script used instead of the configured policy")
	mostChosen := flag.Bool("most-chosen", false, "Learned policy picks the most visited action (overrides learning.most_chosen)")
	cpuProfile := flag.String("cpuprofile", "", "Write a CPU profile to this directory")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(runOptions{
		configPath: *configPath,
		headless:   *headless,
		gui:        *gui,
		logStats:   *logStats,
		outputDir:  *outputDir,
		seed:       *seed,
		maxSteps:   *maxSteps,
		script:     *script,
		mostChosen: *mostChosen,
		cpuProfile: *cpuProfile,
	}); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	headless   bool
	gui        bool
	logStats   bool
	outputDir  string
	seed       int64
	maxSteps   int
	script     string
	mostChosen bool
	cpuProfile string
}

func run(o runOptions) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.maxSteps >= 0 {
		cfg.Experiment.MaxTimeSteps = o.maxSteps
	}
	if o.mostChosen {
		cfg.Learning.MostChosen = true
	}

	rngSeed := o.seed
	if rngSeed == 0 {
		rngSeed = cfg.Experiment.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	cfg.Experiment.Seed = rngSeed

	if o.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(o.cpuProfile), profile.NoShutdownHook).Stop()
	}

	var behavior components.Behavior
	if o.script != "" {
		engine, err := scripting.LoadFile(o.script, experiment.OrbitalConfig(cfg.Orbital))
		if err != nil {
			return err
		}
		defer engine.Close()
		behavior = engine
	}

	x, err := experiment.New(cfg, experiment.Options{
		Seed:      rngSeed,
		OutputDir: o.outputDir,
		LogStats:  o.logStats,
		Behavior:  behavior,
	})
	if err != nil {
		return err
	}
	defer x.Close()

	windowed := (cfg.Viewer.Enabled || o.gui) && !o.headless
	if !windowed {
		slog.Info("starting headless experiment",
			"seed", rngSeed,
			"max_steps", cfg.Experiment.MaxTimeSteps,
			"render_skip", cfg.Experiment.RenderSkip,
		)
		return x.Run(nil)
	}

	v := viewer.New(x, cfg.Viewer.TargetFPS)
	defer v.Close()
	return x.Run(func() bool {
		v.SetStatus(statusText(x.Status()))
		return v.Frame()
	})
}

func statusText(st experiment.Status) string {
	return fmt.Sprintf("Sim Steps:  %d\nSim / Sec:  %.0f\nQ Coverage: %d of %d\nPuck Eval:  %.4f\nFormations: %d",
		st.Step, st.StepsPerSec, st.Coverage, st.TableSize, st.Eval, st.Formations)
}
