// Package ecs is a dense, fixed-capacity entity store. Every component kind
// lives in its own array indexed by entity id, with a presence bit per
// entity and kind.
package ecs

import (
	"fmt"

	"github.com/pthm-cable/waggle/components"
)

// DefaultCapacity is the number of entity slots a world is built with.
const DefaultCapacity = 20000

// Entity indexes a slot shared by all component arrays.
type Entity uint32

// kind identifies a component array.
type kind uint8

const (
	kindTransform kind = iota
	kindCircleBody
	kindLineBody
	kindSensorArray
	kindRobotType
	kindSteer
	kindColor
	kindController
)

// mask holds one presence bit per component kind.
type mask uint16

func (m *mask) set(k kind)          { *m |= 1 << k }
func (m *mask) unset(k kind)        { *m &^= 1 << k }
func (m mask) contains(k kind) bool { return m&(1<<k) != 0 }

// slotState tracks a slot through its lifecycle. A destroyed slot drains
// until the directory reconciles, so ids held in the current live view
// are not handed out again mid-step.
type slotState uint8

const (
	slotFree slotState = iota
	slotActive
	slotDraining
)

// Store is the component storage for one world.
type Store struct {
	transforms  []components.Transform
	circles     []components.CircleBody
	lines       []components.LineBody
	sensors     []components.SensorArray
	robotTypes  []components.RobotType
	steers      []components.Steer
	colors      []components.Color
	controllers []components.Controller

	masks []mask
	tags  []string
	state []slotState
	last  int
}

// NewStore allocates a store with capacity slots.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		panic(fmt.Sprintf("ecs: invalid capacity %d", capacity))
	}
	return &Store{
		transforms:  make([]components.Transform, capacity),
		circles:     make([]components.CircleBody, capacity),
		lines:       make([]components.LineBody, capacity),
		sensors:     make([]components.SensorArray, capacity),
		robotTypes:  make([]components.RobotType, capacity),
		steers:      make([]components.Steer, capacity),
		colors:      make([]components.Color, capacity),
		controllers: make([]components.Controller, capacity),
		masks:       make([]mask, capacity),
		tags:        make([]string, capacity),
		state:       make([]slotState, capacity),
		last:        capacity - 1,
	}
}

// Capacity returns the fixed number of slots.
func (s *Store) Capacity() int { return len(s.state) }

// Create claims the first free slot after the last allocated one, wrapping
// around. All component data is reset and no component is present.
// Running out of slots is unrecoverable and panics.
func (s *Store) Create(tag string) Entity {
	n := len(s.state)
	for i := 1; i <= n; i++ {
		id := (s.last + i) % n
		if s.state[id] != slotFree {
			continue
		}
		s.reset(id)
		s.tags[id] = tag
		s.state[id] = slotActive
		s.last = id
		return Entity(id)
	}
	panic(fmt.Sprintf("ecs: entity capacity %d exceeded", n))
}

func (s *Store) reset(id int) {
	s.transforms[id] = components.Transform{}
	s.circles[id] = components.CircleBody{}
	s.lines[id] = components.LineBody{}
	s.sensors[id] = components.SensorArray{}
	s.robotTypes[id] = components.RobotType{}
	s.steers[id] = components.Steer{}
	s.colors[id] = components.Color{}
	s.controllers[id] = components.Controller{}
	s.masks[id] = 0
}

// Destroy marks e inactive. Its data and presence bits stay as they are and
// its slot is not reused until Release.
func (s *Store) Destroy(e Entity) {
	s.check(e)
	if s.state[e] == slotActive {
		s.state[e] = slotDraining
	}
}

// Release returns a drained slot to the free pool.
func (s *Store) Release(e Entity) {
	s.check(e)
	if s.state[e] == slotDraining {
		s.state[e] = slotFree
	}
}

// Active reports whether e is a live entity.
func (s *Store) Active(e Entity) bool {
	s.check(e)
	return s.state[e] == slotActive
}

// Tag returns the tag e was created with.
func (s *Store) Tag(e Entity) string {
	s.check(e)
	return s.tags[e]
}

func (s *Store) check(e Entity) {
	if int(e) >= len(s.state) {
		panic(fmt.Sprintf("ecs: entity %d out of range (capacity %d)", e, len(s.state)))
	}
}
