// Package config provides configuration loading for experiments.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/waggle/learning"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all experiment parameters.
type Config struct {
	World      WorldConfig      `yaml:"world" toml:"world"`
	Field      FieldConfig      `yaml:"field" toml:"field"`
	Physics    PhysicsConfig    `yaml:"physics" toml:"physics"`
	Orbital    OrbitalConfig    `yaml:"orbital" toml:"orbital"`
	Learning   LearningConfig   `yaml:"learning" toml:"learning"`
	Experiment ExperimentConfig `yaml:"experiment" toml:"experiment"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
	Viewer     ViewerConfig     `yaml:"viewer" toml:"viewer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// WorldConfig describes the arena and its population.
type WorldConfig struct {
	Scenario    string  `yaml:"scenario" toml:"scenario"`   // square or grid
	GridSkip    int     `yaml:"grid_skip" toml:"grid_skip"` // puck spacing in the grid scenario
	Width       float64 `yaml:"width" toml:"width"`
	Height      float64 `yaml:"height" toml:"height"`
	NumRobots   int     `yaml:"num_robots" toml:"num_robots"`
	NumInnies   int     `yaml:"num_innies" toml:"num_innies"` // how many of the robots are innies
	RobotRadius float64 `yaml:"robot_radius" toml:"robot_radius"`
	NumPucks    int     `yaml:"num_pucks" toml:"num_pucks"`
	PuckRadius  float64 `yaml:"puck_radius" toml:"puck_radius"`
	Capacity    int     `yaml:"capacity" toml:"capacity"` // entity slots
}

// FieldConfig selects the scalar field generator.
type FieldConfig struct {
	Kind         string  `yaml:"kind" toml:"kind"` // center, noise, image or none
	Width        int     `yaml:"width" toml:"width"`
	Height       int     `yaml:"height" toml:"height"`
	Image        string  `yaml:"image" toml:"image"`
	NoiseScale   float64 `yaml:"noise_scale" toml:"noise_scale"`
	NoiseOctaves int     `yaml:"noise_octaves" toml:"noise_octaves"`
	NoiseSeed    int64   `yaml:"noise_seed" toml:"noise_seed"`
}

// PhysicsConfig holds the step length and physics constants.
type PhysicsConfig struct {
	TimeStep         float64 `yaml:"time_step" toml:"time_step"`
	OverlapThreshold float64 `yaml:"overlap_threshold" toml:"overlap_threshold"`
	Deceleration     float64 `yaml:"deceleration" toml:"deceleration"`
	StoppingSpeed    float64 `yaml:"stopping_speed" toml:"stopping_speed"`
}

// OrbitalConfig parameterizes the orbital construction heuristic.
type OrbitalConfig struct {
	ForwardSpeed   float64 `yaml:"forward_speed" toml:"forward_speed"`
	AngularSpeed   float64 `yaml:"angular_speed" toml:"angular_speed"`
	OutieThreshold float64 `yaml:"outie_threshold" toml:"outie_threshold"`
	InnieThreshold float64 `yaml:"innie_threshold" toml:"innie_threshold"`
}

// LearningConfig holds Q-learning parameters.
type LearningConfig struct {
	Enabled      bool      `yaml:"enabled" toml:"enabled"`     // apply batch updates
	RLAction     bool      `yaml:"rl_action" toml:"rl_action"` // act on the learned policy instead of the heuristic
	HashFunction string    `yaml:"hash_function" toml:"hash_function"`
	Actions      []float64 `yaml:"actions" toml:"actions"` // angular speed per action
	BatchSize    int       `yaml:"batch_size" toml:"batch_size"`
	InitialQ     float64   `yaml:"initial_q" toml:"initial_q"`
	Alpha        float64   `yaml:"alpha" toml:"alpha"`
	Gamma        float64   `yaml:"gamma" toml:"gamma"`
	Epsilon      float64   `yaml:"epsilon" toml:"epsilon"`
	MostChosen   bool      `yaml:"most_chosen" toml:"most_chosen"` // greedy policy picks the most-visited action

	SavePolicySkip int    `yaml:"save_policy_skip" toml:"save_policy_skip"` // 0 disables
	SavePolicyFile string `yaml:"save_policy_file" toml:"save_policy_file"`
	LoadPolicy     bool   `yaml:"load_policy" toml:"load_policy"`
	LoadPolicyFile string `yaml:"load_policy_file" toml:"load_policy_file"`
}

// ExperimentConfig controls the run loop and its outputs.
type ExperimentConfig struct {
	Seed          int64   `yaml:"seed" toml:"seed"`
	MaxTimeSteps  int     `yaml:"max_time_steps" toml:"max_time_steps"` // 0 runs forever
	RenderSkip    int     `yaml:"render_skip" toml:"render_skip"`       // steps per outer iteration
	ResetEval     float64 `yaml:"reset_eval" toml:"reset_eval"`         // 0 disables resets
	Evaluator     string  `yaml:"evaluator" toml:"evaluator"`           // threshold or center_ssd
	WritePlotSkip int     `yaml:"write_plot_skip" toml:"write_plot_skip"`
	PlotFilename  string  `yaml:"plot_filename" toml:"plot_filename"`
	ResultsDir    string  `yaml:"results_dir" toml:"results_dir"`
	ProgressEvery int     `yaml:"progress_every" toml:"progress_every"` // log cadence in steps
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window" toml:"stats_window"` // steps per stats window
	PerfWindow  int `yaml:"perf_window" toml:"perf_window"`   // steps in the rolling perf average
}

// ViewerConfig holds display settings.
type ViewerConfig struct {
	Enabled   bool `yaml:"enabled" toml:"enabled"`
	TargetFPS int  `yaml:"target_fps" toml:"target_fps"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	NumStates  int
	NumActions int
}

// Load reads the embedded defaults and overlays path, if given. The file
// format follows the extension: .yaml or .yml, .toml, and anything else is
// read as whitespace-separated key/value text.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			// Unmarshal into same struct - only overwrites fields present in file
			err = yaml.Unmarshal(data, cfg)
		case ".toml":
			_, err = toml.Decode(string(data), cfg)
		default:
			err = ParseKeyValue(strings.NewReader(string(data)), cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ErrDuplicateAction is returned when two actions share an angular speed.
// Behaviors report actions by speed, so duplicates would be ambiguous.
var ErrDuplicateAction = errors.New("duplicate action")

// computeDerived resolves the hash function and action counts.
func (c *Config) computeDerived() error {
	h, err := learning.LookupHash(c.Learning.HashFunction)
	if err != nil {
		return err
	}
	if len(c.Learning.Actions) == 0 {
		return fmt.Errorf("config: learning.actions is empty")
	}
	seen := make(map[float64]int, len(c.Learning.Actions))
	for i, w := range c.Learning.Actions {
		if j, ok := seen[w]; ok {
			return fmt.Errorf("%w: actions %d and %d are both %g", ErrDuplicateAction, j, i, w)
		}
		seen[w] = i
	}
	c.Derived.NumStates = h.NumStates
	c.Derived.NumActions = len(c.Learning.Actions)
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
