package system

import (
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
)

// PursuitSystem steers pursuers toward their target: blend in separation,
// turn at a fixed rate, move forward until within stop distance, then clamp
// height relative to the target.
type PursuitSystem struct {
	index SpatialIndex
}

func NewPursuitSystem(index SpatialIndex) *PursuitSystem {
	return &PursuitSystem{index: orNopIndex(index)}
}

func (s *PursuitSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach3(w,
		component.PursuerComponent.Kind(),
		component.TransformComponent.Kind(),
		component.MoverComponent.Kind(),
		func(e ecs.Entity, p *component.Pursuer, tr *component.Transform, mover *component.Mover) {
			if !canReceive(w, e) {
				return
			}
			target := ecs.Entity(p.Target)
			targetPos, ok := positionOf(w, target)
			if !ok {
				return
			}

			toTarget := targetPos.Sub(tr.Position).Flat()
			dist := toTarget.Len()

			raw := separation(w, s.index, e, tr.Position, p)
			p.Smoothed = common.LerpVec(p.Smoothed, raw, common.Clamp01(dt*p.SeparationSmoothing))
			heading := toTarget.Normalize().Add(p.Smoothed).Normalize()
			if !heading.IsZero() {
				tr.Yaw = common.RotateToward(tr.Yaw, common.Yaw(heading), p.RotationSpeed*dt)
			}

			push, hasPush := ecs.Get(w, e, component.PushComponent.Kind())

			var step common.Vec3
			if dist > p.StopDistance {
				speed := mover.Effective()
				if hasPush && push.Active() {
					speed *= push.ForwardFactor
				}
				step = common.Forward(tr.Yaw).Scale(speed * dt)
			}
			if hasPush {
				step = step.Add(push.Velocity.Scale(dt))
			}
			tr.Position = tr.Position.Add(step)

			if tr.Position.Y < targetPos.Y {
				hover := targetPos.Y + p.HoverOffset
				tr.Position.Y = common.Lerp(tr.Position.Y, hover, common.Clamp01(dt*p.HeightAdjustSpeed))
			}

			s.index.Move(e, tr.Position)
		})
}
