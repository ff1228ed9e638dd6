package components

import "github.com/pthm-cable/waggle/geom"

// CircleBody is a dynamic disc. Mass is always 10x the radius.
type CircleBody struct {
	R        float64
	Mass     float64
	Collided bool // resolved a contact during the last step
}

// NewCircleBody returns a body of radius r. New bodies start flagged as
// collided so they are checked on their first step.
func NewCircleBody(r float64) CircleBody {
	return CircleBody{R: r, Mass: Mass(r), Collided: true}
}

// Mass returns the mass of a disc of radius r.
func Mass(r float64) float64 {
	return 10 * r
}

// LineBody is a static capsule between S and E. Physics never moves it.
type LineBody struct {
	S, E geom.Vec2
	R    float64
}
