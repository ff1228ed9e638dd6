package components

import "github.com/pthm-cable/waggle/geom"

// SensorKind selects what a sensor reads.
type SensorKind uint8

const (
	GridSensor     SensorKind = iota // scalar field value
	PuckSensor                       // overlapping pucks
	ObstacleSensor                   // overlapping circle bodies other than the owner
)

func (k SensorKind) String() string {
	switch k {
	case GridSensor:
		return "grid"
	case PuckSensor:
		return "puck"
	case ObstacleSensor:
		return "obstacle"
	}
	return "unknown"
}

// Sensor is a probe fixed relative to its owner's heading.
type Sensor struct {
	Kind     SensorKind
	Angle    float64 // offset from heading, radians
	Distance float64 // from owner center
	Radius   float64 // probe disc radius; unused by grid sensors
}

// NewGridSensor builds a grid sensor from an angle in degrees.
func NewGridSensor(angleDeg, distance float64) Sensor {
	return Sensor{Kind: GridSensor, Angle: geom.Radians(angleDeg), Distance: distance}
}

// NewPuckSensor builds a puck sensor from an angle in degrees.
func NewPuckSensor(angleDeg, distance, radius float64) Sensor {
	return Sensor{Kind: PuckSensor, Angle: geom.Radians(angleDeg), Distance: distance, Radius: radius}
}

// NewObstacleSensor builds an obstacle sensor from an angle in degrees.
func NewObstacleSensor(angleDeg, distance, radius float64) Sensor {
	return Sensor{Kind: ObstacleSensor, Angle: geom.Radians(angleDeg), Distance: distance, Radius: radius}
}

// SensorArray holds a robot's sensors, grouped by kind.
type SensorArray struct {
	Grid     []Sensor
	Puck     []Sensor
	Obstacle []Sensor
}

// Add appends s to the list matching its kind.
func (a *SensorArray) Add(s Sensor) {
	switch s.Kind {
	case GridSensor:
		a.Grid = append(a.Grid, s)
	case PuckSensor:
		a.Puck = append(a.Puck, s)
	case ObstacleSensor:
		a.Obstacle = append(a.Obstacle, s)
	}
}

// All returns every sensor in grid, puck, obstacle order.
func (a *SensorArray) All() []Sensor {
	out := make([]Sensor, 0, len(a.Grid)+len(a.Puck)+len(a.Obstacle))
	out = append(out, a.Grid...)
	out = append(out, a.Puck...)
	return append(out, a.Obstacle...)
}
