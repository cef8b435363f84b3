package system

import (
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// AttackSystem gates minion attacks on range and cooldown and dispatches the
// kind-specific secondary effect.
type AttackSystem struct {
	sess    *session.Session
	damage  *DamageSystem
	effects *EffectSystem
}

func NewAttackSystem(sess *session.Session, damage *DamageSystem, effects *EffectSystem) *AttackSystem {
	return &AttackSystem{sess: sess, damage: damage, effects: effects}
}

func (s *AttackSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()
	now := w.Now()

	ecs.ForEach3(w,
		component.AttackerComponent.Kind(),
		component.PursuerComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, a *component.Attacker, p *component.Pursuer, tr *component.Transform) {
			if !a.Enabled || !canReceive(w, e) {
				return
			}
			target := ecs.Entity(p.Target)
			targetPos, ok := positionOf(w, target)
			if !ok || !canReceive(w, target) {
				a.AuraActive = false
				return
			}
			inRange := targetPos.Sub(tr.Position).Flat().Len() <= p.StopDistance+common.Epsilon

			if a.Kind == component.GhostPoison {
				if !inRange {
					a.AuraActive = false
					a.AuraTimer = 0
					return
				}
				if !a.AuraActive {
					a.AuraActive = true
					a.AuraTimer = 0
					s.strike(w, e, a, tr.Position, target, targetPos)
					return
				}
				if a.Interval <= 0 {
					return
				}
				a.AuraTimer += dt
				for a.AuraTimer >= a.Interval && a.AuraActive {
					a.AuraTimer -= a.Interval
					s.strike(w, e, a, tr.Position, target, targetPos)
					if !canReceive(w, target) {
						a.AuraActive = false
					}
				}
				return
			}

			if !inRange || now-a.LastAttack < a.Cooldown {
				return
			}
			a.LastAttack = now
			s.strike(w, e, a, tr.Position, target, targetPos)
		})
}

func (s *AttackSystem) strike(w *ecs.World, e ecs.Entity, a *component.Attacker, from common.Vec3, target ecs.Entity, targetPos common.Vec3) {
	s.sess.PlayEffect(a.Effect, targetPos)

	switch a.Kind {
	case component.GhostFire:
		applyKnockback(w, s.effects, target, from, a.KnockbackForce)
	case component.GhostIce:
		if s.effects != nil {
			s.effects.ApplyEffect(w, target, component.EffectSlow, a.SlowMultiplier, a.SlowDuration)
		}
	}
	if s.damage != nil {
		s.damage.TakeDamage(w, target, a.Damage)
	}
	s.sess.Logger.Debug("attack: strike", "entity", e, "kind", a.Kind, "target", target)
}
