package learning

import (
	"math"

	"github.com/pthm-cable/waggle/components"
)

// Actions is the discrete action set: one angular speed per action index,
// all driven at the same forward speed.
type Actions struct {
	AngularSpeeds []float64
	Speed         float64
}

// Len returns the number of actions.
func (a Actions) Len() int { return len(a.AngularSpeeds) }

// Action returns the action for index i.
func (a Actions) Action(i int) components.Action {
	return components.Action{Speed: a.Speed, AngularSpeed: a.AngularSpeeds[i]}
}

// Index returns the action whose angular speed is nearest to act's.
func (a Actions) Index(act components.Action) int {
	best, closest := 0, math.Inf(1)
	for i, w := range a.AngularSpeeds {
		if d := math.Abs(w - act.AngularSpeed); d < closest {
			best, closest = i, d
		}
	}
	return best
}

// Greedy acts on the learned policy: hash the reading, pick a max-Q action,
// or with MostChosen the action visited most often in that state.
type Greedy struct {
	Learner    *QLearning
	Hash       HashFunc
	Actions    Actions
	MostChosen bool
}

func (g Greedy) Decide(p components.Perception) components.Action {
	s := g.Hash(p.Reading)
	if g.MostChosen {
		return g.Actions.Action(g.Learner.SelectMostChosenAction(s))
	}
	return g.Actions.Action(g.Learner.SelectActionFromPolicy(s))
}
