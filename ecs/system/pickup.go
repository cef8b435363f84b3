package system

import (
	"math"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// PickupSystem lets the player drink the nearest indexed potion on interact.
type PickupSystem struct {
	sess   *session.Session
	damage *DamageSystem
	index  SpatialIndex
	input  session.InputSource

	Player           ecs.Entity
	InteractDistance float64
}

func NewPickupSystem(sess *session.Session, damage *DamageSystem, index SpatialIndex, input session.InputSource) *PickupSystem {
	if input == nil {
		input = session.NopInput{}
	}
	return &PickupSystem{sess: sess, damage: damage, index: orNopIndex(index), input: input, InteractDistance: 4}
}

func (s *PickupSystem) Update(w *ecs.World) {
	if s == nil || w == nil || !s.input.InteractPressed() || !canReceive(w, s.Player) {
		return
	}
	playerPos, ok := positionOf(w, s.Player)
	if !ok {
		return
	}

	var (
		nearest ecs.Entity
		item    *component.Pickup
	)
	s.index.PickupsWithin(playerPos, s.InteractDistance, func(e ecs.Entity, _ common.Vec3) {
		if item != nil {
			return
		}
		if p, ok := ecs.Get(w, e, component.PickupComponent.Kind()); ok {
			nearest, item = e, p
		}
	})
	if item == nil {
		return
	}
	s.Consume(w, *item)
	s.sess.PlayEffect("pickup", playerPos)
	s.index.Remove(nearest)
	w.DestroyEntity(nearest)
}

// Consume applies a pickup's effect to the player.
func (s *PickupSystem) Consume(w *ecs.World, p component.Pickup) {
	switch p.Kind {
	case component.PickupHealth, component.PickupUltHealth:
		hp, ok := ecs.Get(w, s.Player, component.HealthComponent.Kind())
		if !ok {
			return
		}
		if s.damage != nil {
			s.damage.Heal(w, s.Player, p.Fraction*hp.Max)
		}
		if p.Lock > 0 {
			inv, ok := ecs.Get(w, s.Player, component.InvulnerableComponent.Kind())
			if !ok {
				_ = ecs.Add(w, s.Player, component.InvulnerableComponent.Kind(), &component.Invulnerable{Remaining: p.Lock})
			} else if inv.Remaining > 0 && inv.Remaining < p.Lock {
				inv.Remaining = p.Lock
			}
		}
	case component.PickupMana, component.PickupUltMana:
		wand, ok := ecs.Get(w, s.Player, component.WandComponent.Kind())
		if !ok {
			return
		}
		wand.Mana = math.Min(wand.MaxMana, wand.Mana+p.Fraction*wand.MaxMana)
		if p.Lock > wand.LockRemaining {
			wand.LockRemaining = p.Lock
		}
		s.sess.SetFraction(session.BarPlayerMana, wand.Fraction())
	default:
		s.sess.Logger.Warn("pickup: unknown kind", "kind", p.Kind)
		return
	}
	s.sess.Logger.Info("pickup: consumed", "kind", p.Kind)
}
