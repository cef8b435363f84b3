package system

import (
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// PlayerSystem drives the player's wand from input: element switching,
// rapid-fire casting, mana spend and recharge.
type PlayerSystem struct {
	sess   *session.Session
	damage *DamageSystem
	index  SpatialIndex
	input  session.InputSource

	Player ecs.Entity
}

func NewPlayerSystem(sess *session.Session, damage *DamageSystem, index SpatialIndex, input session.InputSource) *PlayerSystem {
	if input == nil {
		input = session.NopInput{}
	}
	return &PlayerSystem{sess: sess, damage: damage, index: orNopIndex(index), input: input}
}

func (s *PlayerSystem) Update(w *ecs.World) {
	if s == nil || w == nil || !canReceive(w, s.Player) {
		return
	}
	wand, ok := ecs.Get(w, s.Player, component.WandComponent.Kind())
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, s.Player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	dt := w.Delta()

	if slot, ok := s.input.ElementSlot(); ok && slot >= 0 && slot < len(component.Elements) {
		wand.Element = component.Elements[slot]
	}
	if wand.LockRemaining > 0 {
		wand.LockRemaining -= dt
		if wand.LockRemaining < 0 {
			wand.LockRemaining = 0
		}
	}

	if s.input.FireHeld() {
		wand.IdleTime = 0
		wand.FireTimer -= dt
		if wand.FireTimer <= 0 {
			locked := wand.LockRemaining > 0
			if locked || wand.Mana >= wand.CastCost {
				if !locked {
					wand.Mana -= wand.CastCost
				}
				s.cast(w, wand, tr)
				wand.FireTimer = wand.FireInterval
			}
		}
		wand.Mana += wand.SlowRecharge * dt
	} else {
		wand.FireTimer = 0
		wand.IdleTime += dt
		if wand.IdleTime >= wand.RechargeDelay {
			wand.Mana += wand.FastRecharge * dt
		}
	}
	if wand.Mana > wand.MaxMana {
		wand.Mana = wand.MaxMana
	}
	if wand.Mana < 0 {
		wand.Mana = 0
	}
	s.sess.SetFraction(session.BarPlayerMana, wand.Fraction())
}

func (s *PlayerSystem) cast(w *ecs.World, wand *component.Wand, tr *component.Transform) {
	dir := s.input.Aim()
	if dir.Flat().IsZero() {
		dir = common.Forward(tr.Yaw)
	}
	dir = dir.Normalize()
	fxName := "spell_" + wand.Element.String()

	hit, ok := s.index.Raycast(tr.Position, dir, wand.Range, s.Player)
	if !ok {
		s.sess.PlayEffect(fxName, tr.Position.Add(dir.Scale(wand.Range)))
		return
	}
	s.sess.PlayEffect(fxName, hit.Point)
	if s.damage == nil {
		return
	}
	landed := s.damage.ApplySpellHit(w, hit.Entity, SpellHit{
		Element:   wand.Element,
		Point:     hit.Point,
		Direction: dir,
		Damage:    wand.Damage,
	})
	s.sess.Logger.Debug("player: cast", "element", wand.Element, "target", hit.Entity, "landed", landed)
}
