package system

import (
	"math"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// EventDeath is pushed on the world event queue for every death.
const EventDeath = "death"

// DeathEvent describes a death. It is both the event payload and the
// argument passed to death handlers.
type DeathEvent struct {
	Entity   ecs.Entity
	Position common.Vec3
	Minion   bool
	Boss     bool
}

// DeathHandler is notified synchronously inside the tick that caused a death.
type DeathHandler func(w *ecs.World, ev DeathEvent)

// SpellHit is one spell landing on an entity.
type SpellHit struct {
	Element   component.Element
	Point     common.Vec3
	Direction common.Vec3
	Damage    float64
}

// SpellEffect tunes the secondary effect an element applies on hit.
type SpellEffect struct {
	Magnitude float64 `yaml:"magnitude" json:"magnitude"`
	Duration  float64 `yaml:"duration" json:"duration"`
}

// DefaultSpellEffects is used for elements missing from the configured table.
var DefaultSpellEffects = map[component.Element]SpellEffect{
	component.ElementFire:  {Magnitude: 1, Duration: 3},
	component.ElementWater: {Magnitude: 0.5, Duration: 3},
	component.ElementWind:  {Magnitude: 6},
}

const defaultSpellDamage = 1.0

// DamageSystem owns health changes, death transitions and their side effects.
type DamageSystem struct {
	sess    *session.Session
	effects *EffectSystem
	index   SpatialIndex
	builder Builder

	Spells map[component.Element]SpellEffect

	subscribers []DeathHandler
	watchers    map[ecs.Entity][]DeathHandler
}

func NewDamageSystem(sess *session.Session, effects *EffectSystem, index SpatialIndex, builder Builder) *DamageSystem {
	d := &DamageSystem{
		sess:     sess,
		effects:  effects,
		index:    orNopIndex(index),
		builder:  builder,
		Spells:   make(map[component.Element]SpellEffect, len(DefaultSpellEffects)),
		watchers: make(map[ecs.Entity][]DeathHandler),
	}
	for el, fx := range DefaultSpellEffects {
		d.Spells[el] = fx
	}
	if effects != nil {
		effects.damage = d
	}
	return d
}

// OnDeath registers a handler for every death.
func (d *DamageSystem) OnDeath(fn DeathHandler) {
	if fn != nil {
		d.subscribers = append(d.subscribers, fn)
	}
}

// Watch registers a handler for the death of e only.
func (d *DamageSystem) Watch(e ecs.Entity, fn DeathHandler) {
	if fn != nil {
		d.watchers[e] = append(d.watchers[e], fn)
	}
}

// TakeDamage lowers health by amount, clamped at zero. The call that crosses
// zero performs the death transition; later calls are no-ops.
func (d *DamageSystem) TakeDamage(w *ecs.World, e ecs.Entity, amount float64) bool {
	if amount <= 0 || math.IsNaN(amount) {
		return false
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		d.sess.Logger.Debug("damage: entity has no health", "entity", e)
		return false
	}
	if !h.IsAlive() || ecs.Has(w, e, component.InvulnerableComponent.Kind()) {
		return false
	}

	applied, crossed := h.Drain(amount)
	d.pushFraction(w, e, h)
	if crossed {
		d.kill(w, e, h)
	}
	return applied > 0
}

// ApplySpellHit applies the element's effect and, when the element matches
// the entity's weakness, direct damage. An active shield that does not yield
// to the element blocks both.
func (d *DamageSystem) ApplySpellHit(w *ecs.World, e ecs.Entity, hit SpellHit) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || !h.IsAlive() {
		return false
	}
	if ecs.Has(w, e, component.InvulnerableComponent.Kind()) {
		return false
	}
	if shield, ok := ecs.Get(w, e, component.ShieldComponent.Kind()); ok && shield.Blocks(hit.Element) {
		d.sess.Logger.Debug("damage: hit blocked by shield", "entity", e, "element", hit.Element, "shield", shield.Element)
		d.sess.PlayEffect("shield_block", hit.Point)
		return false
	}

	landed := d.applySecondary(w, e, hit)

	weak, hasWeakness := ecs.Get(w, e, component.WeaknessComponent.Kind())
	if !hasWeakness || weak.Element == hit.Element {
		amount := hit.Damage
		if amount <= 0 {
			amount = defaultSpellDamage
		}
		if d.TakeDamage(w, e, amount) {
			landed = true
		}
	}
	return landed
}

func (d *DamageSystem) applySecondary(w *ecs.World, e ecs.Entity, hit SpellHit) bool {
	if d.effects == nil {
		return false
	}
	tune, ok := d.Spells[hit.Element]
	if !ok {
		tune = DefaultSpellEffects[hit.Element]
	}
	switch kind := hit.Element.Effect(); kind {
	case component.EffectBurn, component.EffectSlow:
		return d.effects.ApplyEffect(w, e, kind, tune.Magnitude, tune.Duration)
	case component.EffectPush:
		dir := hit.Direction.Flat()
		if dir.IsZero() {
			if pos, ok := positionOf(w, e); ok {
				dir = pos.Sub(hit.Point).Flat()
			}
		}
		if dir.IsZero() {
			return d.effects.ApplyEffect(w, e, kind, tune.Magnitude, 0)
		}
		return d.effects.ApplyImpulse(w, e, dir.Normalize().Scale(tune.Magnitude))
	}
	return false
}

// Heal restores health up to max.
func (d *DamageSystem) Heal(w *ecs.World, e ecs.Entity, amount float64) float64 {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return 0
	}
	healed := h.Heal(amount)
	if healed > 0 {
		d.pushFraction(w, e, h)
	}
	return healed
}

// ClampToFloor raises health to at least floor without touching the state.
func (d *DamageSystem) ClampToFloor(w *ecs.World, e ecs.Entity, floor float64) {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return
	}
	h.ClampToFloor(floor)
	d.pushFraction(w, e, h)
}

func (d *DamageSystem) kill(w *ecs.World, e ecs.Entity, h *component.Health) {
	if h.Outro {
		h.State = component.Dying
	} else {
		h.State = component.Dead
	}
	if d.effects != nil {
		d.effects.Cancel(w, e)
	}

	pos, _ := positionOf(w, e)
	ev := DeathEvent{
		Entity:   e,
		Position: pos,
		Minion:   ecs.Has(w, e, component.MinionTagComponent.Kind()),
		Boss:     ecs.Has(w, e, component.BossTagComponent.Kind()),
	}

	deathFx := "death"
	if names, ok := ecs.Get(w, e, component.FxNameComponent.Kind()); ok && names.Death != "" {
		deathFx = names.Death
	}
	d.sess.PlayEffect(deathFx, pos)

	if ev.Minion {
		d.sess.RegisterKill()
	}

	d.rollLoot(w, e, pos)

	handlers := d.watchers[e]
	delete(d.watchers, e)
	for _, fn := range handlers {
		fn(w, ev)
	}
	for _, fn := range d.subscribers {
		fn(w, ev)
	}
	w.Events().Push(ecs.Event{Type: EventDeath, Data: ev})

	if !h.Outro {
		d.index.Remove(e)
		w.DestroyEntity(e)
	}
}

// rollLoot runs one Bernoulli trial per entry and spawns a single winner
// chosen uniformly among the successes.
func (d *DamageSystem) rollLoot(w *ecs.World, e ecs.Entity, pos common.Vec3) {
	table, ok := ecs.Get(w, e, component.DropTableComponent.Kind())
	if !ok || len(table.Entries) == 0 {
		return
	}
	var wins []component.PickupKind
	for _, entry := range table.Entries {
		if d.sess.Rand.Float64() < entry.Chance {
			wins = append(wins, entry.Kind)
		}
	}
	if len(wins) == 0 {
		return
	}
	kind := wins[d.sess.Rand.Intn(len(wins))]
	if d.builder == nil {
		d.sess.Logger.Warn("damage: no builder for loot", "kind", kind)
		return
	}
	if _, err := d.builder.Spawn(w, string(kind), pos); err != nil {
		d.sess.Logger.Warn("damage: spawn loot", "kind", kind, "error", err)
	}
}

func (d *DamageSystem) pushFraction(w *ecs.World, e ecs.Entity, h *component.Health) {
	switch {
	case ecs.Has(w, e, component.PlayerTagComponent.Kind()):
		d.sess.SetFraction(session.BarPlayerHealth, h.Fraction())
	case ecs.Has(w, e, component.BossTagComponent.Kind()):
		d.sess.SetFraction(session.BarBossHealth, h.Fraction())
	}
}
