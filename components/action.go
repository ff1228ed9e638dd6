package components

// Action is one control decision: a linear speed and an angular speed.
type Action struct {
	Speed        float64
	AngularSpeed float64
}

// Reading is a robot's sensor array collapsed to a fixed shape.
// Field values come from grid sensors; puck and obstacle values are
// overlap counts summed per side.
type Reading struct {
	LeftNest  float64
	MidNest   float64
	RightNest float64

	LeftPucks  float64
	RightPucks float64

	LeftObstacle  float64
	RightObstacle float64
}

// Perception is what a behavior sees each step.
type Perception struct {
	Reading   Reading
	RobotType int
}

// Behavior produces an action from perception.
type Behavior interface {
	Decide(p Perception) Action
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc func(p Perception) Action

func (f BehaviorFunc) Decide(p Perception) Action { return f(p) }
