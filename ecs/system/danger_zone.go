package system

import (
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// DangerZoneSystem resolves armed danger zones. When a zone's delay runs out
// it damages and knocks back the target if it is still inside the radius,
// then plays its resolve effect either way.
type DangerZoneSystem struct {
	sess    *session.Session
	damage  *DamageSystem
	effects *EffectSystem

	Target ecs.Entity
}

func NewDangerZoneSystem(sess *session.Session, damage *DamageSystem, effects *EffectSystem) *DangerZoneSystem {
	return &DangerZoneSystem{sess: sess, damage: damage, effects: effects}
}

func (s *DangerZoneSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.DangerZoneComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, zone *component.DangerZone, tr *component.Transform) {
		if !zone.Armed {
			return
		}
		zone.Remaining -= dt
		if zone.Remaining > 0 {
			return
		}
		zone.Armed = false
		zone.Remaining = 0

		if targetPos, ok := positionOf(w, s.Target); ok && canReceive(w, s.Target) {
			if targetPos.Sub(tr.Position).Flat().Len() <= zone.Radius {
				s.sess.Logger.Debug("zone: hit", "zone", e, "group", zone.Group)
				if s.damage != nil {
					s.damage.TakeDamage(w, s.Target, zone.Damage)
				}
				applyKnockback(w, s.effects, s.Target, tr.Position, zone.Knockback)
			}
		}
		s.sess.PlayEffect("zone_resolve", tr.Position)
	})
}

// zonesInGroup lists the danger zones of group in entity order.
func zonesInGroup(w *ecs.World, group string) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(w, component.DangerZoneComponent.Kind(), func(e ecs.Entity, zone *component.DangerZone) {
		if zone.Group == group {
			out = append(out, e)
		}
	})
	return out
}

// disarmZones cancels every pending zone of group without resolving it.
func disarmZones(w *ecs.World, group string) {
	ecs.ForEach(w, component.DangerZoneComponent.Kind(), func(e ecs.Entity, zone *component.DangerZone) {
		if zone.Group == group {
			zone.Armed = false
			zone.Remaining = 0
		}
	})
}
