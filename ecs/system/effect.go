package system

import (
	"math"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

const pushSnap = 1e-4

// Push defaults for entities that receive an impulse without a Push component.
const (
	defaultPushDecay     = 2.0
	defaultPushThreshold = 0.2
	defaultForwardFactor = 0.5
)

// EffectSystem ticks timed status effects. Burn damage is routed through the
// damage system so death handling stays in one place.
type EffectSystem struct {
	sess   *session.Session
	damage *DamageSystem
}

func NewEffectSystem(sess *session.Session) *EffectSystem {
	return &EffectSystem{sess: sess}
}

// ApplyEffect starts or refreshes an effect of kind on e. Reapplication
// replaces the magnitude and remaining time; it never stacks.
func (s *EffectSystem) ApplyEffect(w *ecs.World, e ecs.Entity, kind component.EffectKind, magnitude, duration float64) bool {
	if !canReceive(w, e) {
		return false
	}
	if kind == component.EffectPush {
		// Without a direction the push drives the entity backwards.
		back := common.V3(0, 0, -1)
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			back = common.Forward(tr.Yaw).Scale(-1)
		}
		return s.ApplyImpulse(w, e, back.Scale(magnitude))
	}
	if duration <= 0 {
		return false
	}

	fx, ok := ecs.Get(w, e, component.EffectsComponent.Kind())
	if !ok {
		fx = &component.Effects{}
		_ = ecs.Add(w, e, component.EffectsComponent.Kind(), fx)
	}

	switch kind {
	case component.EffectBurn:
		if magnitude <= 0 {
			return false
		}
		fx.Burn = &component.Burn{DPS: magnitude, Remaining: duration}
	case component.EffectSlow:
		mover, ok := ecs.Get(w, e, component.MoverComponent.Kind())
		if !ok {
			s.sess.Logger.Debug("effects: slow on entity without mover", "entity", e)
			return false
		}
		magnitude = common.Clamp(magnitude, common.Epsilon, 1)
		if fx.Slow == nil {
			fx.Slow = &component.Slow{Baseline: mover.SpeedMultiplier}
		}
		fx.Slow.Multiplier = magnitude
		fx.Slow.Remaining = duration
		mover.SpeedMultiplier = fx.Slow.Baseline * magnitude
	default:
		return false
	}
	return true
}

// ApplyImpulse adds v to the entity's push velocity.
func (s *EffectSystem) ApplyImpulse(w *ecs.World, e ecs.Entity, v common.Vec3) bool {
	if !canReceive(w, e) || v.IsZero() {
		return false
	}
	push, ok := ecs.Get(w, e, component.PushComponent.Kind())
	if !ok {
		push = &component.Push{
			Decay:         defaultPushDecay,
			Threshold:     defaultPushThreshold,
			ForwardFactor: defaultForwardFactor,
		}
		_ = ecs.Add(w, e, component.PushComponent.Kind(), push)
	}
	push.Velocity = push.Velocity.Add(v)
	return true
}

// Cancel drops every effect on e, restoring the baseline speed and clearing
// push velocity.
func (s *EffectSystem) Cancel(w *ecs.World, e ecs.Entity) {
	if fx, ok := ecs.Get(w, e, component.EffectsComponent.Kind()); ok {
		if fx.Slow != nil {
			if mover, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
				mover.SpeedMultiplier = fx.Slow.Baseline
			}
		}
		fx.Burn = nil
		fx.Slow = nil
		ecs.Remove(w, e, component.EffectsComponent.Kind())
	}
	if push, ok := ecs.Get(w, e, component.PushComponent.Kind()); ok {
		push.Velocity = common.Vec3{}
	}
}

func (s *EffectSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.EffectsComponent.Kind(), func(e ecs.Entity, fx *component.Effects) {
		if !canReceive(w, e) {
			s.Cancel(w, e)
			return
		}

		if burn := fx.Burn; burn != nil {
			step := math.Min(dt, burn.Remaining)
			burn.Remaining -= dt
			if burn.Remaining <= 0 {
				fx.Burn = nil
			}
			if step > 0 && s.damage != nil {
				s.damage.TakeDamage(w, e, burn.DPS*step)
				if !canReceive(w, e) {
					return
				}
			}
		}

		if slow := fx.Slow; slow != nil {
			slow.Remaining -= dt
			if slow.Remaining <= 0 {
				if mover, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
					mover.SpeedMultiplier = slow.Baseline
				}
				fx.Slow = nil
			}
		}

		if fx.Empty() {
			ecs.Remove(w, e, component.EffectsComponent.Kind())
		}
	})
}

// canReceive reports whether e exists and, when it has health, is alive.
func canReceive(w *ecs.World, e ecs.Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		return h.IsAlive()
	}
	return true
}

// decayPush applies exponential decay and snaps tiny velocities to zero.
func decayPush(p *component.Push, dt float64) {
	if p == nil || p.Velocity.IsZero() {
		return
	}
	p.Velocity = p.Velocity.Scale(math.Exp(-p.Decay * dt))
	if p.Velocity.Len() < pushSnap {
		p.Velocity = common.Vec3{}
	}
}
