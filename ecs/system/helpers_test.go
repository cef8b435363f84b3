package system

import (
	"fmt"
	"strings"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/physics"
	"github.com/milk9111/ghostwave/session"
)

type fxCall struct {
	name string
	pos  common.Vec3
}

type recorder struct {
	fx     []fxCall
	bars   map[session.Bar]float64
	scenes []string
}

func (r *recorder) PlayEffect(name string, pos common.Vec3) {
	r.fx = append(r.fx, fxCall{name: name, pos: pos})
}

func (r *recorder) SetFraction(bar session.Bar, f float64) {
	if r.bars == nil {
		r.bars = make(map[session.Bar]float64)
	}
	r.bars[bar] = f
}

func (r *recorder) LoadScene(name string) { r.scenes = append(r.scenes, name) }

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.fx {
		if c.name == name {
			n++
		}
	}
	return n
}

func newTestSession(opts ...session.Option) (*session.Session, *recorder) {
	rec := &recorder{}
	opts = append([]session.Option{session.WithSinks(rec, rec, rec)}, opts...)
	return session.New(opts...), rec
}

type spawnCall struct {
	kind string
	pos  common.Vec3
}

// fakeBuilder spawns minimal ghosts ("ghost*") and pickups ("*_potion").
type fakeBuilder struct {
	index  *physics.Index
	health float64
	calls  []spawnCall
}

func (b *fakeBuilder) Spawn(w *ecs.World, kind string, pos common.Vec3) (ecs.Entity, error) {
	b.calls = append(b.calls, spawnCall{kind: kind, pos: pos})
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	switch {
	case strings.HasSuffix(kind, "_potion"):
		_ = ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{Kind: component.PickupKind(kind), Radius: 1, Fraction: 0.3})
		if b.index != nil {
			b.index.RegisterPickup(e, pos, 1)
		}
		return e, nil
	case strings.HasPrefix(kind, "ghost"):
		hp := b.health
		if hp <= 0 {
			hp = 1
		}
		_ = ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(hp))
		_ = ecs.Add(w, e, component.MinionTagComponent.Kind(), &component.MinionTag{Wave: -1})
		_ = ecs.Add(w, e, component.PursuerComponent.Kind(), &component.Pursuer{StopDistance: 2, RotationSpeed: 5})
		_ = ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Speed: 2, SpeedMultiplier: 1})
		if b.index != nil {
			b.index.Register(e, pos, 0.4)
		}
		return e, nil
	}
	w.DestroyEntity(e)
	return 0, fmt.Errorf("fake builder: unknown kind %q", kind)
}

func (b *fakeBuilder) count(kind string) int {
	n := 0
	for _, c := range b.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

// spawnActor creates an entity with a transform, health and mover.
func spawnActor(w *ecs.World, pos common.Vec3, hp float64) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(hp))
	_ = ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Speed: 5, SpeedMultiplier: 1})
	return e
}

func spawnPlayer(w *ecs.World, pos common.Vec3, hp float64) ecs.Entity {
	e := spawnActor(w, pos, hp)
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	healthOf(w, e).Outro = true
	return e
}

func healthOf(w *ecs.World, e ecs.Entity) *component.Health {
	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	return h
}

func step(w *ecs.World, dt float64, n int) {
	for i := 0; i < n; i++ {
		w.Update(dt)
	}
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

// scriptedInput replays fixed input.
type scriptedInput struct {
	fire     bool
	interact bool
	aim      common.Vec3
	slot     int
	slotSet  bool
}

func (in *scriptedInput) FireHeld() bool { return in.fire }

func (in *scriptedInput) InteractPressed() bool {
	v := in.interact
	in.interact = false
	return v
}

func (in *scriptedInput) Aim() common.Vec3 { return in.aim }

func (in *scriptedInput) ElementSlot() (int, bool) {
	if !in.slotSet {
		return 0, false
	}
	in.slotSet = false
	return in.slot, true
}
