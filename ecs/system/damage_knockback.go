package system

import (
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
)

// knockbackMaxSpeed caps the push speed a single hit may leave along its
// direction so stacked hits do not launch the target.
const knockbackMaxSpeed = 12.0

// applyKnockback pushes target horizontally away from source.
func applyKnockback(w *ecs.World, fx *EffectSystem, target ecs.Entity, source common.Vec3, force float64) bool {
	if fx == nil || force <= 0 {
		return false
	}
	pos, ok := positionOf(w, target)
	if !ok {
		return false
	}
	dir := pos.Sub(source).Flat()
	if dir.Len() <= common.Epsilon {
		dir = common.V3(0, 0, -1)
		if tr, ok := ecs.Get(w, target, component.TransformComponent.Kind()); ok {
			dir = common.Forward(tr.Yaw).Scale(-1)
		}
	}
	dir = dir.Normalize()
	if !fx.ApplyImpulse(w, target, dir.Scale(force)) {
		return false
	}

	push, ok := ecs.Get(w, target, component.PushComponent.Kind())
	if !ok {
		return true
	}
	along := push.Velocity.Dot(dir)
	if along > knockbackMaxSpeed {
		tangent := push.Velocity.Sub(dir.Scale(along))
		push.Velocity = tangent.Add(dir.Scale(knockbackMaxSpeed))
	}
	return true
}

// KnockbackSystem moves entities that are pushed but do not pursue anything
// (the player) and decays every push velocity.
type KnockbackSystem struct {
	index SpatialIndex
}

func NewKnockbackSystem(index SpatialIndex) *KnockbackSystem {
	return &KnockbackSystem{index: orNopIndex(index)}
}

func (s *KnockbackSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.PushComponent.Kind(), func(e ecs.Entity, push *component.Push) {
		if push.Velocity.IsZero() {
			return
		}
		if !ecs.Has(w, e, component.PursuerComponent.Kind()) && canReceive(w, e) {
			if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				tr.Position = tr.Position.Add(push.Velocity.Scale(dt))
				s.index.Move(e, tr.Position)
			}
		}
		decayPush(push, dt)
	})
}
