package physics

import (
	"testing"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
)

func TestIndexRaycastHitsNearest(t *testing.T) {
	w := ecs.NewWorld()
	ix := NewIndex()
	shooter := w.CreateEntity()
	near := w.CreateEntity()
	far := w.CreateEntity()
	ix.Register(shooter, common.V3(0, 1, 0), 0.5)
	ix.Register(near, common.V3(0, 1, 5), 0.5)
	ix.Register(far, common.V3(0, 1, 10), 0.5)

	hit, ok := ix.Raycast(common.V3(0, 1, 0), common.V3(0, 0, 1), 100, shooter)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Entity != near {
		t.Fatalf("expected nearest entity %v, got %v", near, hit.Entity)
	}
	if hit.Distance < 4.4 || hit.Distance > 4.6 {
		t.Fatalf("unexpected distance %v", hit.Distance)
	}
}

func TestIndexRaycastMiss(t *testing.T) {
	w := ecs.NewWorld()
	ix := NewIndex()
	e := w.CreateEntity()
	ix.Register(e, common.V3(5, 0, 0), 0.5)

	if _, ok := ix.Raycast(common.Vec3{}, common.V3(0, 0, 1), 100, 0); ok {
		t.Fatalf("expected miss")
	}
	if _, ok := ix.Raycast(common.Vec3{}, common.V3(1, 0, 0), 3, 0); ok {
		t.Fatalf("expected miss beyond range")
	}
}

func TestIndexWithinAndMove(t *testing.T) {
	w := ecs.NewWorld()
	ix := NewIndex()
	a := w.CreateEntity()
	b := w.CreateEntity()
	ix.Register(a, common.V3(1, 0, 0), 0.3)
	ix.Register(b, common.V3(4, 0, 0), 0.3)

	var got []ecs.Entity
	ix.Within(common.Vec3{}, 2, func(e ecs.Entity, _ common.Vec3) { got = append(got, e) })
	if len(got) != 1 || got[0] != a {
		t.Fatalf("expected only a within radius, got %v", got)
	}

	ix.Move(b, common.V3(0, 0, 0.5))
	got = got[:0]
	ix.Within(common.Vec3{}, 2, func(e ecs.Entity, _ common.Vec3) { got = append(got, e) })
	if len(got) != 2 || got[0] != b {
		t.Fatalf("expected b then a, got %v", got)
	}
}

func TestIndexPrunesDeadEntities(t *testing.T) {
	w := ecs.NewWorld()
	ix := NewIndex()
	e := w.CreateEntity()
	ix.Register(e, common.Vec3{}, 1)
	w.DestroyEntity(e)

	ix.Update(w)
	if ix.Len() != 0 {
		t.Fatalf("expected empty index, got %d", ix.Len())
	}
	if _, ok := ix.Position(e); ok {
		t.Fatalf("expected removed entity to have no position")
	}
}

func TestIndexRaycastFollowsMove(t *testing.T) {
	w := ecs.NewWorld()
	ix := NewIndex()
	e := w.CreateEntity()
	ix.Register(e, common.V3(0, 0, 5), 0.5)

	ix.Move(e, common.V3(8, 0, 0))
	if _, ok := ix.Raycast(common.Vec3{}, common.V3(0, 0, 1), 100, 0); ok {
		t.Fatalf("ray hit the stale position")
	}
	hit, ok := ix.Raycast(common.Vec3{}, common.V3(1, 0, 0), 100, 0)
	if !ok || hit.Entity != e {
		t.Fatalf("ray missed the moved entity")
	}
	if hit.Distance < 7.4 || hit.Distance > 7.6 {
		t.Fatalf("unexpected distance %v", hit.Distance)
	}

	var got []ecs.Entity
	ix.Within(common.V3(8, 0, 1), 1.5, func(e ecs.Entity, _ common.Vec3) { got = append(got, e) })
	if len(got) != 1 || got[0] != e {
		t.Fatalf("radius query missed the moved entity, got %v", got)
	}
	got = got[:0]
	ix.Within(common.V3(0, 0, 5), 1.5, func(e ecs.Entity, _ common.Vec3) { got = append(got, e) })
	if len(got) != 0 {
		t.Fatalf("radius query found the stale position, got %v", got)
	}
}

func TestIndexPickupLayer(t *testing.T) {
	w := ecs.NewWorld()
	ix := NewIndex()
	ghost := w.CreateEntity()
	potion := w.CreateEntity()
	wide := w.CreateEntity()
	ix.Register(ghost, common.V3(0, 0, 6), 0.5)
	ix.RegisterPickup(potion, common.V3(0, 0, 3), 1)
	ix.RegisterPickup(wide, common.V3(9, 0, 0), 6)

	hit, ok := ix.Raycast(common.Vec3{}, common.V3(0, 0, 1), 20, 0)
	if !ok || hit.Entity != ghost {
		t.Fatalf("ray should pass the potion and hit the ghost, got %+v ok=%v", hit, ok)
	}

	var actors, pickups []ecs.Entity
	ix.Within(common.Vec3{}, 10, func(e ecs.Entity, _ common.Vec3) { actors = append(actors, e) })
	ix.PickupsWithin(common.Vec3{}, 4, func(e ecs.Entity, _ common.Vec3) { pickups = append(pickups, e) })
	if len(actors) != 1 || actors[0] != ghost {
		t.Fatalf("actors = %v", actors)
	}
	if len(pickups) != 1 || pickups[0] != potion {
		t.Fatalf("pickups = %v, want only the potion", pickups)
	}

	pickups = pickups[:0]
	ix.PickupsWithin(common.V3(4, 0, 0), 2, func(e ecs.Entity, _ common.Vec3) { pickups = append(pickups, e) })
	if len(pickups) != 1 || pickups[0] != wide {
		t.Fatalf("pickup reach ignored, got %v", pickups)
	}
}
