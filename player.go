package main

import (
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/physics"
)

// Autopilot plays the player headlessly. Each tick it aims at the nearest
// live hostile, picks the element that can hurt it and holds fire while a
// target exists. It presses interact once whenever a pickup is in reach.
type Autopilot struct {
	index    *physics.Index
	player   ecs.Entity
	reach    float64
	aim      common.Vec3
	fire     bool
	interact bool
	slot     int
	slotSet  bool
	// held suppresses repeat interact presses while the same pickup stays in reach.
	held bool
}

func NewAutopilot(index *physics.Index, player ecs.Entity, reach float64) *Autopilot {
	if reach <= 0 {
		reach = 4
	}
	return &Autopilot{index: index, player: player, reach: reach}
}

func (a *Autopilot) FireHeld() bool        { return a.fire }
func (a *Autopilot) InteractPressed() bool { return a.interact }
func (a *Autopilot) Aim() common.Vec3      { return a.aim }

func (a *Autopilot) ElementSlot() (int, bool) {
	return a.slot, a.slotSet
}

// Update samples the world before the player and pickup systems read input.
func (a *Autopilot) Update(w *ecs.World) {
	a.fire, a.interact, a.slotSet = false, false, false

	tr, ok := ecs.Get(w, a.player, component.TransformComponent.Kind())
	if !ok || !alive(w, a.player) {
		return
	}
	wand, ok := ecs.Get(w, a.player, component.WandComponent.Kind())
	if !ok {
		return
	}

	target, pos, found := a.nearestHostile(w, tr.Position, wand.Range)
	if found {
		a.aim = pos.Sub(tr.Position).Flat()
		a.fire = !a.aim.IsZero()
		if el := elementFor(w, target); el != component.ElementNone && el != wand.Element {
			for i, candidate := range component.Elements {
				if candidate == el {
					a.slot, a.slotSet = i, true
				}
			}
		}
	}

	inReach := false
	a.index.PickupsWithin(tr.Position, a.reach, func(e ecs.Entity, _ common.Vec3) {
		inReach = inReach || ecs.Has(w, e, component.PickupComponent.Kind())
	})
	a.interact = inReach && !a.held
	a.held = inReach
}

func (a *Autopilot) nearestHostile(w *ecs.World, from common.Vec3, radius float64) (ecs.Entity, common.Vec3, bool) {
	var (
		target ecs.Entity
		at     common.Vec3
		found  bool
	)
	a.index.Within(from, radius, func(e ecs.Entity, pos common.Vec3) {
		if found || e == a.player || !alive(w, e) {
			return
		}
		if ecs.Has(w, e, component.InvulnerableComponent.Kind()) {
			return
		}
		if !ecs.Has(w, e, component.MinionTagComponent.Kind()) && !ecs.Has(w, e, component.BossTagComponent.Kind()) {
			return
		}
		target, at, found = e, pos, true
	})
	return target, at, found
}

// elementFor returns the element that lands direct damage on e: the shield's
// counter while one is up, otherwise its weakness.
func elementFor(w *ecs.World, e ecs.Entity) component.Element {
	if sh, ok := ecs.Get(w, e, component.ShieldComponent.Kind()); ok && sh.Active {
		return sh.Counter
	}
	if weak, ok := ecs.Get(w, e, component.WeaknessComponent.Kind()); ok {
		return weak.Element
	}
	return component.ElementNone
}

func alive(w *ecs.World, e ecs.Entity) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	return ok && h.State == component.Alive
}
