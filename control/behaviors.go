package control

import "github.com/pthm-cable/waggle/components"

// Turn drives in a fixed circle regardless of perception.
type Turn struct {
	Speed        float64
	AngularSpeed float64
}

func (t Turn) Decide(components.Perception) components.Action {
	return components.Action{Speed: t.Speed, AngularSpeed: t.AngularSpeed}
}

// OrbitalConfig parameterizes orbital construction.
type OrbitalConfig struct {
	MaxAngularSpeed float64
	ForwardSpeed    float64
	OutieThreshold  float64
	InnieThreshold  float64
}

// DefaultOrbitalConfig returns the standard parameters.
func DefaultOrbitalConfig() OrbitalConfig {
	return OrbitalConfig{
		MaxAngularSpeed: 0.3,
		ForwardSpeed:    2,
		OutieThreshold:  0.7,
		InnieThreshold:  0.8,
	}
}

// Threshold returns the field contour a robot of robotType orbits.
func (c OrbitalConfig) Threshold(robotType int) float64 {
	if robotType == components.Innie {
		return c.InnieThreshold
	}
	return c.OutieThreshold
}

// OrbitalConstruction keeps a robot orbiting clockwise along the field
// contour at its threshold. Outies nudge pucks on their left outward and
// innies nudge pucks on their right inward.
func OrbitalConstruction(r components.Reading, robotType int, cfg OrbitalConfig) components.Action {
	turn := func(w float64) components.Action {
		return components.Action{Speed: cfg.ForwardSpeed, AngularSpeed: w}
	}
	maxAng := cfg.MaxAngularSpeed

	if r.LeftObstacle > 0 {
		return turn(maxAng)
	}

	innie := robotType == components.Innie
	switch {
	case r.RightNest >= r.MidNest && r.MidNest >= r.LeftNest:
		// field rises from left to right
		if innie && r.RightPucks > 0 {
			return turn(maxAng)
		}
		if !innie && r.LeftPucks > 0 {
			return turn(-maxAng)
		}
		if r.MidNest < cfg.Threshold(robotType) {
			return turn(0.3 * maxAng)
		}
		return turn(-0.3 * maxAng)
	case r.MidNest >= r.RightNest && r.MidNest >= r.LeftNest:
		return turn(-maxAng)
	default:
		return turn(maxAng)
	}
}

// Orbital is the orbital construction heuristic as a Behavior.
type Orbital struct {
	Config OrbitalConfig
}

func (o Orbital) Decide(p components.Perception) components.Action {
	return OrbitalConstruction(p.Reading, p.RobotType, o.Config)
}
