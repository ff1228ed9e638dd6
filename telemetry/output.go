package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/waggle/config"
)

// PlotRow is one (step, evaluator score) sample.
type PlotRow struct {
	Step int     `csv:"step"`
	Eval float64 `csv:"eval"`
}

// FormationRow records when a formation completed.
type FormationRow struct {
	Formation int `csv:"formation"`
	Step      int `csv:"step"`
}

// csvStream is an append-only CSV file that writes its header once.
type csvStream struct {
	file          *os.File
	headerWritten bool
}

func openStream(dir, name string) (*csvStream, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream{file: f}, nil
}

func writeRow[T any](s *csvStream, row T) error {
	records := []T{row}
	if !s.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, s.file); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, s.file)
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir        string
	telemetry  *csvStream
	perf       *csvStream
	plot       *csvStream
	formations *csvStream
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir, plotFile string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if plotFile == "" {
		plotFile = "plot.csv"
	}

	om := &OutputManager{dir: dir}
	for _, s := range []struct {
		dst  **csvStream
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.perf, "perf.csv"},
		{&om.plot, plotFile},
		{&om.formations, "formations.csv"},
	} {
		stream, err := openStream(dir, s.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*s.dst = stream
	}
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.telemetry, stats); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.perf, stats.ToCSV(windowEnd)); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WritePlot appends an evaluator sample to the plot file.
func (om *OutputManager) WritePlot(step int, eval float64) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.plot, PlotRow{Step: step, Eval: eval}); err != nil {
		return fmt.Errorf("writing plot: %w", err)
	}
	return nil
}

// WriteFormation appends a completed formation.
func (om *OutputManager) WriteFormation(n, step int) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.formations, FormationRow{Formation: n, Step: step}); err != nil {
		return fmt.Errorf("writing formation: %w", err)
	}
	return nil
}

// Path returns name inside the output directory, or name itself when
// output is disabled.
func (om *OutputManager) Path(name string) string {
	if om == nil || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(om.dir, name)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, s := range []*csvStream{om.telemetry, om.perf, om.plot, om.formations} {
		if s == nil {
			continue
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
