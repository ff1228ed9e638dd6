// Package learning implements tabular Q-learning with batched, shared
// rewards, the state hash functions that discretize sensor readings, and
// Q-table persistence.
package learning

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// QLearning holds the value table Q, visit counts N and the greedy policy
// table P over numStates x numActions.
type QLearning struct {
	numStates  int
	numActions int
	alpha      float64
	gamma      float64
	initialQ   float64

	q *mat.Dense
	p *mat.Dense
	n []uint64 // row-major

	updates int
	visited int

	rng  *rand.Rand
	ties []int
}

// New returns a learner with every Q at initialQ and a uniform policy.
func New(numStates, numActions int, alpha, gamma, initialQ float64) *QLearning {
	if numStates <= 0 || numActions <= 0 {
		panic(fmt.Sprintf("learning: invalid table shape %dx%d", numStates, numActions))
	}
	ql := &QLearning{
		numStates:  numStates,
		numActions: numActions,
		alpha:      alpha,
		gamma:      gamma,
		initialQ:   initialQ,
		q:          mat.NewDense(numStates, numActions, nil),
		p:          mat.NewDense(numStates, numActions, nil),
		n:          make([]uint64, numStates*numActions),
		rng:        rand.New(rand.NewSource(1)),
	}
	fill(ql.q, initialQ)
	fill(ql.p, 1/float64(numActions))
	return ql
}

func fill(m *mat.Dense, v float64) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j := range row {
			row[j] = v
		}
	}
}

// Seed reseeds the tie-breaking random source.
func (ql *QLearning) Seed(seed int64) { ql.rng = rand.New(rand.NewSource(seed)) }

func (ql *QLearning) NumStates() int    { return ql.numStates }
func (ql *QLearning) NumActions() int   { return ql.numActions }
func (ql *QLearning) Alpha() float64    { return ql.alpha }
func (ql *QLearning) Gamma() float64    { return ql.gamma }
func (ql *QLearning) InitialQ() float64 { return ql.initialQ }

// Size returns the number of state-action pairs.
func (ql *QLearning) Size() int { return ql.numStates * ql.numActions }

// Updates returns how many UpdateValue calls were made.
func (ql *QLearning) Updates() int { return ql.updates }

// Visited returns how many state-action pairs were updated at least once.
func (ql *QLearning) Visited() int { return ql.visited }

// Coverage returns the visited fraction of the table.
func (ql *QLearning) Coverage() float64 {
	return float64(ql.visited) / float64(ql.Size())
}

func (ql *QLearning) Q(s, a int) float64 { return ql.q.At(s, a) }
func (ql *QLearning) P(s, a int) float64 { return ql.p.At(s, a) }
func (ql *QLearning) N(s, a int) uint64  { return ql.n[s*ql.numActions+a] }

// maxActions collects the actions of row s whose Q equals the row max.
func (ql *QLearning) maxActions(s int) []int {
	row := ql.q.RawRowView(s)
	best := floats.Max(row)
	ql.ties = ql.ties[:0]
	for a, v := range row {
		if v == best {
			ql.ties = append(ql.ties, a)
		}
	}
	return ql.ties
}

// SelectActionFromPolicy returns an action with maximal Q at s, breaking
// ties uniformly at random. It reads Q directly; P is not consulted.
func (ql *QLearning) SelectActionFromPolicy(s int) int {
	ties := ql.maxActions(s)
	return ties[ql.rng.Intn(len(ties))]
}

// SelectMostChosenAction returns the most visited action at s.
func (ql *QLearning) SelectMostChosenAction(s int) int {
	row := ql.n[s*ql.numActions : (s+1)*ql.numActions]
	best := 0
	for a, c := range row {
		if c > row[best] {
			best = a
		}
	}
	if row[best] == 0 {
		slog.Warn("state unvisited", "state", s)
	}
	return best
}

// UpdateValue applies one Q-learning backup for (s, a, r, ns).
func (ql *QLearning) UpdateValue(s, a int, r float64, ns int) {
	ql.updates++
	i := s*ql.numActions + a
	if ql.n[i] == 0 {
		ql.visited++
	}
	ql.n[i]++

	maxNext := floats.Max(ql.q.RawRowView(ns))
	q := ql.q.At(s, a)
	ql.q.Set(s, a, q+ql.alpha*(r+ql.gamma*maxNext-q))
}

// UpdatePolicy spreads P[s] uniformly over the actions tied for the max Q.
func (ql *QLearning) UpdatePolicy(s int) {
	ties := ql.maxActions(s)
	row := ql.p.RawRowView(s)
	for a := range row {
		row[a] = 0
	}
	for _, a := range ties {
		row[a] = 1 / float64(len(ties))
	}
}
