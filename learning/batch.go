package learning

// Transition is one buffered (state, action, next state) triple.
type Transition struct {
	State, Action, Next int
}

// Batch buffers transitions until a shared reward is known.
type Batch struct {
	size      int
	remaining int
	items     []Transition
}

// NewBatch returns a batch that becomes due every size steps.
func NewBatch(size int) *Batch {
	size = max(size, 1)
	return &Batch{size: size, remaining: size}
}

// Add buffers one transition.
func (b *Batch) Add(t Transition) { b.items = append(b.items, t) }

// Len returns the buffered transition count.
func (b *Batch) Len() int { return len(b.items) }

// Tick counts one step and reports whether the batch is due.
func (b *Batch) Tick() bool {
	b.remaining--
	return b.remaining <= 0
}

// Replay feeds every buffered transition through ql with reward r, then
// clears the batch.
func (b *Batch) Replay(ql *QLearning, r float64) {
	for _, t := range b.items {
		ql.UpdateValue(t.State, t.Action, r, t.Next)
		ql.UpdatePolicy(t.State)
	}
	b.Reset()
}

// Reset drops buffered transitions and restarts the countdown.
func (b *Batch) Reset() {
	b.items = b.items[:0]
	b.remaining = b.size
}

// SharedReward is the evaluator delta between batch boundaries, with an
// extra -1 when the delta is not positive.
func SharedReward(eval, previous float64) float64 {
	r := eval - previous
	if r <= 0 {
		r--
	}
	return r
}
