package experiment

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/config"
	"github.com/pthm-cable/waggle/ecs"
	"github.com/pthm-cable/waggle/geom"
	"github.com/pthm-cable/waggle/world"
)

var (
	// ErrUnknownField is returned for an unrecognized field kind.
	ErrUnknownField = errors.New("unknown field kind")
	// ErrUnknownScenario is returned for an unrecognized world scenario.
	ErrUnknownScenario = errors.New("unknown scenario")
)

// Scenario builds a fresh world each time the experiment resets.
type Scenario func(rng *rand.Rand) *world.World

// BuildScenario selects the world layout named by wc.Scenario: "square"
// (the default) scatters the configured robots and pucks over field, and
// "grid" builds the fixed demonstration arena.
func BuildScenario(wc config.WorldConfig, field *world.Field) (Scenario, error) {
	switch wc.Scenario {
	case "", "square":
		return func(rng *rand.Rand) *world.World { return SquareWorld(wc, field, rng) }, nil
	case "grid":
		return func(*rand.Rand) *world.World { return GridWorld(wc.GridSkip) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, wc.Scenario)
}

var (
	outieColor = components.Color{R: 0, G: 100, B: 200, A: 255}
	innieColor = components.Color{R: 44, G: 160, B: 44, A: 255}
	puckColor  = components.Color{R: 200, G: 44, B: 44, A: 255}
)

// BuildField creates the scalar field described by fc. Kind "none"
// returns a nil field.
func BuildField(fc config.FieldConfig) (*world.Field, error) {
	switch fc.Kind {
	case "", "center":
		return world.InverseCenterDistanceField(fc.Width, fc.Height), nil
	case "noise":
		return world.NoiseField(fc.Width, fc.Height, world.NoiseParams{
			Scale:   fc.NoiseScale,
			Octaves: fc.NoiseOctaves,
			Seed:    fc.NoiseSeed,
		}), nil
	case "image":
		return world.LoadField(fc.Image)
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, fc.Kind)
}

// robotSensors returns the standard sensor layout for a robot of radius r:
// three grid sensors, four puck sensors and two obstacle sensors.
func robotSensors(r float64, robotType int) components.SensorArray {
	var a components.SensorArray
	a.Add(components.NewGridSensor(45, 2*r))
	a.Add(components.NewGridSensor(0, 2*r))
	a.Add(components.NewGridSensor(-45, 2*r))
	a.Add(components.NewPuckSensor(-30, 4*r, 2*r))
	a.Add(components.NewPuckSensor(30, 4*r, 2*r))
	a.Add(components.NewPuckSensor(60, 7*r, 2*r))
	a.Add(components.NewPuckSensor(-60, 7*r, 2*r))
	a.Add(components.NewObstacleSensor(45, r, r/4))
	a.Add(components.NewObstacleSensor(-45, r, r/4))
	if robotType == components.Innie {
		// extra right-side puck probe for innies
		a.Add(components.NewPuckSensor(45, 3*r, r))
	}
	return a
}

// addRobot creates a robot of robotType at p.
func addRobot(w *world.World, p geom.Vec2, r float64, robotType int) ecs.Entity {
	s := w.Store()
	e := w.Create(world.TagRobot)
	ecs.Add(s, e, components.Transform{P: p})
	ecs.Add(s, e, components.NewCircleBody(r))
	ecs.Add(s, e, components.Steer{})
	ecs.Add(s, e, components.RobotType{Type: robotType})
	ecs.Add(s, e, robotSensors(r, robotType))
	if robotType == components.Innie {
		ecs.Add(s, e, innieColor)
	} else {
		ecs.Add(s, e, outieColor)
	}
	return e
}

// addPuck creates a puck at p.
func addPuck(w *world.World, p geom.Vec2, r float64) ecs.Entity {
	s := w.Store()
	e := w.Create(world.TagPuck)
	ecs.Add(s, e, components.Transform{P: p})
	ecs.Add(s, e, components.NewCircleBody(r))
	ecs.Add(s, e, puckColor)
	return e
}

// SquareWorld builds the standard arena: robots anywhere, pucks kept four
// radii away from the walls, and the configured field. The first
// wc.NumInnies robots are innies.
func SquareWorld(wc config.WorldConfig, field *world.Field, rng *rand.Rand) *world.World {
	capacity := wc.Capacity
	if capacity <= 0 {
		capacity = ecs.DefaultCapacity
	}
	w := world.NewWithCapacity(wc.Width, wc.Height, capacity)
	w.SetField(field)

	width, height := max(int(wc.Width), 1), max(int(wc.Height), 1)
	for i := 0; i < wc.NumRobots; i++ {
		p := geom.V(float64(rng.Intn(width)), float64(rng.Intn(height)))
		robotType := components.Outie
		if i < wc.NumInnies {
			robotType = components.Innie
		}
		addRobot(w, p, wc.RobotRadius, robotType)
	}

	margin := 4 * wc.PuckRadius
	spanX := max(int(wc.Width-2*margin), 1)
	spanY := max(int(wc.Height-2*margin), 1)
	for i := 0; i < wc.NumPucks; i++ {
		p := geom.V(margin+float64(rng.Intn(spanX)), margin+float64(rng.Intn(spanY)))
		addPuck(w, p, wc.PuckRadius)
	}

	w.Update()
	return w
}

// GridWorld builds the 1280x720 demonstration arena: two robots, a block
// of pucks every skip cells and three wall segments.
func GridWorld(skip int) *world.World {
	skip = max(skip, 1)
	w := world.New(1280, 720)

	addRobot(w, geom.V(200, 200), 40, components.Outie)
	addRobot(w, geom.V(200, 600), 50, components.Innie)

	pr := float64(skip) * 4
	for i := 0; i < 80; i += skip {
		for j := 0; j < 52; j += skip {
			addPuck(w, geom.V(400+float64(i)*10, 100+float64(j)*10), pr)
		}
	}

	for i := 0; i < 3; i++ {
		y := 300 + float64(i)*100
		l := w.Create(world.TagLine)
		ecs.Add(w.Store(), l, components.LineBody{S: geom.V(100, y), E: geom.V(300, y), R: 10})
	}

	w.SetField(world.InverseCenterDistanceField(64, 64))
	w.Update()
	return w
}
