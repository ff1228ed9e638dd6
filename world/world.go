// Package world owns the entity store, its directory and the static scalar
// field for one simulation.
package world

import "github.com/pthm-cable/waggle/ecs"

// Entity tags.
const (
	TagRobot = "robot"
	TagPuck  = "puck"
	TagLine  = "line"
)

// World is the explicit context passed to every system.
type World struct {
	width, height float64
	store         *ecs.Store
	dir           *ecs.Directory
	field         *Field
}

// New returns an empty world of the given bounds with ecs.DefaultCapacity slots.
func New(width, height float64) *World {
	return NewWithCapacity(width, height, ecs.DefaultCapacity)
}

// NewWithCapacity returns an empty world with capacity entity slots.
func NewWithCapacity(width, height float64, capacity int) *World {
	store := ecs.NewStore(capacity)
	return &World{
		width:  width,
		height: height,
		store:  store,
		dir:    ecs.NewDirectory(store),
	}
}

func (w *World) Width() float64  { return w.width }
func (w *World) Height() float64 { return w.height }

// Store returns the component store.
func (w *World) Store() *ecs.Store { return w.store }

// Field returns the scalar field, or nil if none is set.
func (w *World) Field() *Field { return w.field }

// SetField installs the scalar field.
func (w *World) SetField(f *Field) { w.field = f }

// Create buffers a new entity with tag.
func (w *World) Create(tag string) ecs.Entity { return w.dir.Create(tag) }

// Destroy buffers removal of e.
func (w *World) Destroy(e ecs.Entity) { w.dir.Destroy(e) }

// Update reconciles buffered creations and removals.
func (w *World) Update() { w.dir.Update() }

// Entities returns every live entity.
func (w *World) Entities() ecs.View { return w.dir.Entities() }

// Tagged returns the live entities with tag.
func (w *World) Tagged(tag string) ecs.View { return w.dir.Tagged(tag) }
