package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMissingValue is returned when a key is the last token in the input.
var ErrMissingValue = errors.New("missing value")

// kvScanner walks whitespace-separated tokens.
type kvScanner struct {
	sc  *bufio.Scanner
	key string
}

func (s *kvScanner) token() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", s.key, ErrMissingValue)
	}
	return s.sc.Text(), nil
}

func (s *kvScanner) readFloat(dst *float64) error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", s.key, err)
	}
	*dst = v
	return nil
}

func (s *kvScanner) readInt(dst *int) error {
	var v float64
	if err := s.readFloat(&v); err != nil {
		return err
	}
	*dst = int(v)
	return nil
}

func (s *kvScanner) readInt64(dst *int64) error {
	var v int
	if err := s.readInt(&v); err != nil {
		return err
	}
	*dst = int64(v)
	return nil
}

// readFlag reads a number and treats any nonzero value as true.
func (s *kvScanner) readFlag(dst *bool) error {
	var v float64
	if err := s.readFloat(&v); err != nil {
		return err
	}
	*dst = v != 0
	return nil
}

func (s *kvScanner) readString(dst *string) error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	*dst = tok
	return nil
}

// ParseKeyValue overlays whitespace-separated "key value..." pairs onto cfg.
// Unknown keys are skipped.
func ParseKeyValue(r io.Reader, cfg *Config) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	s := &kvScanner{sc: sc}

	for sc.Scan() {
		s.key = sc.Text()
		var err error
		switch s.key {
		case "width":
			err = s.readFloat(&cfg.World.Width)
		case "height":
			err = s.readFloat(&cfg.World.Height)
		case "numRobots":
			err = s.readInt(&cfg.World.NumRobots)
		case "numInnies":
			err = s.readInt(&cfg.World.NumInnies)
		case "robotRadius":
			err = s.readFloat(&cfg.World.RobotRadius)
		case "numPucks":
			err = s.readInt(&cfg.World.NumPucks)
		case "puckRadius":
			err = s.readFloat(&cfg.World.PuckRadius)
		case "simTimeStep":
			err = s.readFloat(&cfg.Physics.TimeStep)
		case "renderSkip":
			err = s.readInt(&cfg.Experiment.RenderSkip)
		case "forwardSpeed":
			err = s.readFloat(&cfg.Orbital.ForwardSpeed)
		case "angularSpeed":
			err = s.readFloat(&cfg.Orbital.AngularSpeed)
		case "outieThreshold":
			err = s.readFloat(&cfg.Orbital.OutieThreshold)
		case "innieThreshold":
			err = s.readFloat(&cfg.Orbital.InnieThreshold)
		case "batchSize":
			err = s.readInt(&cfg.Learning.BatchSize)
		case "maxTimeSteps":
			err = s.readInt(&cfg.Experiment.MaxTimeSteps)
		case "initialQ":
			err = s.readFloat(&cfg.Learning.InitialQ)
		case "alpha":
			err = s.readFloat(&cfg.Learning.Alpha)
		case "gamma":
			err = s.readFloat(&cfg.Learning.Gamma)
		case "epsilon":
			err = s.readFloat(&cfg.Learning.Epsilon)
		case "resetEval":
			err = s.readFloat(&cfg.Experiment.ResetEval)
		case "writePlotSkip":
			err = s.readInt(&cfg.Experiment.WritePlotSkip)
		case "plotFilename":
			err = s.readString(&cfg.Experiment.PlotFilename)
		case "resultsDir":
			err = s.readString(&cfg.Experiment.ResultsDir)
		case "seed":
			err = s.readInt64(&cfg.Experiment.Seed)
		case "qLearning":
			err = s.readFlag(&cfg.Learning.Enabled)
		case "rlAction", "RLAction":
			err = s.readFlag(&cfg.Learning.RLAction)
		case "gui":
			err = s.readFlag(&cfg.Viewer.Enabled)
		case "hashFunction":
			err = s.readString(&cfg.Learning.HashFunction)
		case "savePolicy":
			if err = s.readInt(&cfg.Learning.SavePolicySkip); err == nil {
				err = s.readString(&cfg.Learning.SavePolicyFile)
			}
		case "loadPolicy":
			if err = s.readFlag(&cfg.Learning.LoadPolicy); err == nil {
				err = s.readString(&cfg.Learning.LoadPolicyFile)
			}
		case "actions":
			err = s.readActions(&cfg.Learning.Actions)
		case "mostChosen":
			err = s.readFlag(&cfg.Learning.MostChosen)
		case "scenario":
			err = s.readString(&cfg.World.Scenario)
		case "gridSkip":
			err = s.readInt(&cfg.World.GridSkip)
		case "evaluator":
			err = s.readString(&cfg.Experiment.Evaluator)
		}
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

func (s *kvScanner) readActions(dst *[]float64) error {
	var n int
	if err := s.readInt(&n); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%s: negative count %d", s.key, n)
	}
	out := make([]float64, n)
	for i := range out {
		if err := s.readFloat(&out[i]); err != nil {
			return err
		}
	}
	*dst = out
	return nil
}
