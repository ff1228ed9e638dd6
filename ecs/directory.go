package ecs

import (
	"iter"
	"slices"
)

// View is a read-only live set. It has no insertion or removal methods;
// membership only changes when the Directory reconciles.
type View struct {
	ids []Entity
}

// Len returns the number of entities in the view.
func (v View) Len() int { return len(v.ids) }

// At returns the i-th entity.
func (v View) At(i int) Entity { return v.ids[i] }

// All iterates the entities in insertion order.
func (v View) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range v.ids {
			if !yield(e) {
				return
			}
		}
	}
}

// AppendTo appends the view's entities to dst.
func (v View) AppendTo(dst []Entity) []Entity {
	return append(dst, v.ids...)
}

// Directory buffers creations and destructions and applies them in one
// reconciliation pass per step.
type Directory struct {
	store *Store
	live  []Entity
	byTag map[string][]Entity
	added []Entity
	dead  []Entity
}

// NewDirectory returns a directory over store.
func NewDirectory(store *Store) *Directory {
	return &Directory{store: store, byTag: make(map[string][]Entity)}
}

// Store returns the underlying component store.
func (d *Directory) Store() *Store { return d.store }

// Create allocates an entity now; it joins the live views at the next Update.
func (d *Directory) Create(tag string) Entity {
	e := d.store.Create(tag)
	d.added = append(d.added, e)
	return e
}

// Destroy deactivates e now; it leaves the live views at the next Update.
func (d *Directory) Destroy(e Entity) {
	if !d.store.Active(e) {
		return
	}
	d.store.Destroy(e)
	d.dead = append(d.dead, e)
}

// Update moves buffered creations into the live set and tag buckets, then
// drops inactive entities from all of them.
func (d *Directory) Update() {
	for _, e := range d.added {
		d.live = append(d.live, e)
		tag := d.store.Tag(e)
		d.byTag[tag] = append(d.byTag[tag], e)
	}
	d.added = d.added[:0]

	if len(d.dead) == 0 {
		return
	}
	inactive := func(e Entity) bool { return !d.store.Active(e) }
	d.live = slices.DeleteFunc(d.live, inactive)
	for tag, ids := range d.byTag {
		d.byTag[tag] = slices.DeleteFunc(ids, inactive)
	}
	for _, e := range d.dead {
		d.store.Release(e)
	}
	d.dead = d.dead[:0]
}

// Entities returns the live set for the current step.
func (d *Directory) Entities() View { return View{ids: d.live} }

// Tagged returns the live entities carrying tag.
func (d *Directory) Tagged(tag string) View { return View{ids: d.byTag[tag]} }
