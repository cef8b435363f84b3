package ecs

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/ghostwave/ecs/component"
)

type testPos struct{ X, Y float64 }
type testVel struct{ X, Y float64 }

var (
	testPosComponent = component.NewComponent[testPos]()
	testVelComponent = component.NewComponent[testVel]()
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if w.EntityCount() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.EntityCount())
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should return false")
				}
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	if err := Add(w, a, testPosComponent.Kind(), &testPos{X: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(a)

	b := w.CreateEntity()
	if b == a {
		t.Fatalf("reused slot must carry a new generation")
	}
	if w.IsAlive(a) {
		t.Fatalf("stale handle reported alive")
	}
	if _, ok := Get(w, a, testPosComponent.Kind()); ok {
		t.Fatalf("stale handle resolved a component")
	}
	if Has(w, b, testPosComponent.Kind()) {
		t.Fatalf("new entity inherited a component from the old slot")
	}
	if err := Add(w, a, testPosComponent.Kind(), &testPos{}); !errors.Is(err, ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestAddGetRemove(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()

	err := Add(w, e, testPosComponent.Kind(), nil)
	if !errors.Is(err, ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if !strings.Contains(err.Error(), "ecs.testPos") {
		t.Fatalf("error should name the component: %v", err)
	}
	if err := Add(w, e, component.ComponentKind[testPos]{}, &testPos{}); !errors.Is(err, ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}

	_ = Add(w, e, testPosComponent.Kind(), &testPos{X: 1, Y: 2})
	got, ok := Get(w, e, testPosComponent.Kind())
	if !ok || got.X != 1 || got.Y != 2 {
		t.Fatalf("unexpected component %+v ok=%v", got, ok)
	}
	got.X = 5
	again, _ := Get(w, e, testPosComponent.Kind())
	if again.X != 5 {
		t.Fatalf("Get must return a pointer into the store")
	}

	if !Remove(w, e, testPosComponent.Kind()) {
		t.Fatalf("Remove should report true")
	}
	if Has(w, e, testPosComponent.Kind()) {
		t.Fatalf("component still present after Remove")
	}
}

func TestForEachVariants(t *testing.T) {
	w := NewWorld()
	var both []Entity
	for i := 0; i < 5; i++ {
		e := w.CreateEntity()
		_ = Add(w, e, testPosComponent.Kind(), &testPos{X: float64(i)})
		if i%2 == 0 {
			_ = Add(w, e, testVelComponent.Kind(), &testVel{X: 1})
			both = append(both, e)
		}
	}

	seen := 0
	ForEach(w, testPosComponent.Kind(), func(Entity, *testPos) { seen++ })
	if seen != 5 {
		t.Fatalf("ForEach visited %d, want 5", seen)
	}

	var paired []Entity
	ForEach2(w, testPosComponent.Kind(), testVelComponent.Kind(), func(e Entity, p *testPos, v *testVel) {
		p.X += v.X
		paired = append(paired, e)
	})
	if len(paired) != len(both) {
		t.Fatalf("ForEach2 visited %d, want %d", len(paired), len(both))
	}
	if Count(w, testVelComponent.Kind()) != len(both) {
		t.Fatalf("Count mismatch")
	}
}

func TestDestroyDeferredDuringUpdate(t *testing.T) {
	w := NewWorld()
	ents := make([]Entity, 4)
	for i := range ents {
		ents[i] = w.CreateEntity()
		_ = Add(w, ents[i], testPosComponent.Kind(), &testPos{})
	}

	visited := 0
	w.AddSystem(SystemFunc(func(w *World) {
		ForEach(w, testPosComponent.Kind(), func(e Entity, _ *testPos) {
			visited++
			w.DestroyEntity(e)
			if !w.IsAlive(e) {
				t.Errorf("entity %v destroyed mid-iteration", e)
			}
		})
	}))
	w.Update(0.1)

	if visited != len(ents) {
		t.Fatalf("visited %d, want %d", visited, len(ents))
	}
	if w.EntityCount() != 0 {
		t.Fatalf("expected every entity destroyed after the tick, got %d", w.EntityCount())
	}
}

func TestUpdateAdvancesClock(t *testing.T) {
	w := NewWorld()
	var deltas []float64
	w.AddSystem(SystemFunc(func(w *World) { deltas = append(deltas, w.Delta()) }))

	w.Update(0.25)
	w.Update(0.5)
	w.Update(-1)

	if w.Tick() != 3 {
		t.Fatalf("tick = %d, want 3", w.Tick())
	}
	if w.Now() != 0.75 {
		t.Fatalf("now = %v, want 0.75", w.Now())
	}
	want := []float64{0.25, 0.5, 0}
	for i := range want {
		if deltas[i] != want[i] {
			t.Fatalf("delta[%d] = %v, want %v", i, deltas[i], want[i])
		}
	}
}

func TestEventsFlushedAfterUpdate(t *testing.T) {
	w := NewWorld()
	var seenLater int
	w.AddSystem(SystemFunc(func(w *World) {
		w.Events().Push(Event{Type: "ping"})
	}))
	w.AddSystem(SystemFunc(func(w *World) {
		seenLater = len(w.Events().Pending())
	}))
	w.Update(0.1)

	if seenLater != 1 {
		t.Fatalf("later system saw %d events, want 1", seenLater)
	}
	if n := len(w.Events().Pending()); n != 0 {
		t.Fatalf("queue not flushed, %d pending", n)
	}
}
