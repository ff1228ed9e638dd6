package components

import (
	"math"
	"testing"
)

func TestCircleBodyMass(t *testing.T) {
	for _, r := range []float64{0.5, 1, 10, 42.25} {
		b := NewCircleBody(r)
		if b.Mass != 10*r {
			t.Errorf("NewCircleBody(%f).Mass = %f, want %f", r, b.Mass, 10*r)
		}
		if !b.Collided {
			t.Errorf("NewCircleBody(%f).Collided = false, want true", r)
		}
	}
}

func TestSensorConstructorsConvertDegrees(t *testing.T) {
	tests := []struct {
		name string
		s    Sensor
		kind SensorKind
		rad  float64
	}{
		{"grid", NewGridSensor(45, 20), GridSensor, math.Pi / 4},
		{"puck", NewPuckSensor(-30, 40, 20), PuckSensor, -math.Pi / 6},
		{"obstacle", NewObstacleSensor(90, 10, 2.5), ObstacleSensor, math.Pi / 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.s.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", tc.s.Kind, tc.kind)
			}
			if math.Abs(tc.s.Angle-tc.rad) > 1e-12 {
				t.Errorf("Angle = %f, want %f", tc.s.Angle, tc.rad)
			}
		})
	}
}

func TestSensorArrayAdd(t *testing.T) {
	var a SensorArray
	a.Add(NewGridSensor(0, 1))
	a.Add(NewPuckSensor(0, 1, 1))
	a.Add(NewPuckSensor(10, 1, 1))
	a.Add(NewObstacleSensor(0, 1, 1))

	if len(a.Grid) != 1 || len(a.Puck) != 2 || len(a.Obstacle) != 1 {
		t.Errorf("lens = %d/%d/%d, want 1/2/1", len(a.Grid), len(a.Puck), len(a.Obstacle))
	}
	if got := len(a.All()); got != 4 {
		t.Errorf("len(All()) = %d, want 4", got)
	}
}
