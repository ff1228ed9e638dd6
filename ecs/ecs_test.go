package ecs

import (
	"testing"

	"github.com/pthm-cable/waggle/components"
	"github.com/pthm-cable/waggle/geom"
)

func TestCreateHasNoComponents(t *testing.T) {
	s := NewStore(8)
	for i := 0; i < 8; i++ {
		e := s.Create("robot")
		if Has[components.Transform](s, e) || Has[components.CircleBody](s, e) ||
			Has[components.Steer](s, e) || Has[components.Controller](s, e) {
			t.Errorf("entity %d has a component right after creation", e)
		}
		if !s.Active(e) {
			t.Errorf("entity %d not active after creation", e)
		}
	}
}

func TestCreateResetsSlotData(t *testing.T) {
	s := NewStore(1)
	d := NewDirectory(s)
	e := d.Create("puck")
	Add(s, e, components.Transform{P: geom.V(3, 4)})
	d.Update()
	d.Destroy(e)
	d.Update()

	e2 := d.Create("puck")
	if e2 != e {
		t.Fatalf("reused id = %d, want %d", e2, e)
	}
	if got := Get[components.Transform](s, e2).P; !got.IsZero() {
		t.Errorf("position after reuse = %v, want zero", got)
	}
}

func TestRemoveKeepsStaleData(t *testing.T) {
	s := NewStore(4)
	e := s.Create("robot")
	Add(s, e, components.NewCircleBody(5))
	Remove[components.CircleBody](s, e)

	if Has[components.CircleBody](s, e) {
		t.Error("CircleBody still present after Remove")
	}
	if got := Get[components.CircleBody](s, e).R; got != 5 {
		t.Errorf("stale radius = %f, want 5", got)
	}
}

func TestEnsure(t *testing.T) {
	s := NewStore(2)
	e := s.Create("robot")
	Get[components.Steer](s, e).Speed = 9 // stale, not present

	st := Ensure[components.Steer](s, e)
	if st.Speed != 0 {
		t.Errorf("Ensure on absent component Speed = %f, want 0", st.Speed)
	}
	st.Speed = 2
	if got := Ensure[components.Steer](s, e).Speed; got != 2 {
		t.Errorf("Ensure on present component Speed = %f, want 2", got)
	}
}

func TestCreateScansCircularly(t *testing.T) {
	s := NewStore(3)
	a := s.Create("")
	b := s.Create("")
	c := s.Create("")
	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("ids = %d %d %d, want 0 1 2", a, b, c)
	}
	s.Destroy(a)
	s.Release(a)
	if got := s.Create(""); got != a {
		t.Errorf("wrapped id = %d, want %d", got, a)
	}
}

func TestCapacityExceededPanics(t *testing.T) {
	s := NewStore(2)
	s.Create("")
	s.Create("")
	defer func() {
		if recover() == nil {
			t.Error("Create on full store did not panic")
		}
	}()
	s.Create("")
}

func TestDestroyedSlotNotReusedBeforeUpdate(t *testing.T) {
	s := NewStore(2)
	d := NewDirectory(s)
	a := d.Create("puck")
	d.Create("puck")
	d.Update()

	d.Destroy(a)
	defer func() {
		if recover() == nil {
			t.Error("draining slot was handed out before reconciliation")
		}
	}()
	d.Create("puck")
}

func TestDirectoryDefersMembership(t *testing.T) {
	s := NewStore(16)
	d := NewDirectory(s)

	r1 := d.Create("robot")
	p1 := d.Create("puck")
	if d.Entities().Len() != 0 {
		t.Fatalf("live set changed before Update")
	}
	d.Update()
	if got := d.Entities().Len(); got != 2 {
		t.Errorf("live = %d, want 2", got)
	}
	if got := d.Tagged("robot").Len(); got != 1 {
		t.Errorf("robots = %d, want 1", got)
	}

	r2 := d.Create("robot")
	d.Destroy(r1)
	if got := d.Tagged("robot").Len(); got != 1 {
		t.Errorf("robots before Update = %d, want 1", got)
	}
	d.Update()

	robots := d.Tagged("robot")
	if robots.Len() != 1 || robots.At(0) != r2 {
		t.Errorf("robots after Update = %v, want [%d]", robots.AppendTo(nil), r2)
	}
	var ids []Entity
	for e := range d.Entities().All() {
		ids = append(ids, e)
	}
	if len(ids) != 2 || ids[0] != p1 || ids[1] != r2 {
		t.Errorf("live order = %v, want [%d %d]", ids, p1, r2)
	}
}

func TestDestroyBeforeFirstUpdate(t *testing.T) {
	s := NewStore(4)
	d := NewDirectory(s)
	e := d.Create("line")
	d.Destroy(e)
	d.Update()
	if d.Entities().Len() != 0 || d.Tagged("line").Len() != 0 {
		t.Error("entity destroyed before reconciliation is still live")
	}
}

func TestOutOfRangePanics(t *testing.T) {
	s := NewStore(2)
	defer func() {
		if recover() == nil {
			t.Error("Get with out-of-range id did not panic")
		}
	}()
	Get[components.Transform](s, Entity(5))
}
