package system

import (
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
)

// InvulnerabilitySystem counts timed invulnerability down and removes the
// component at zero. Untimed invulnerability is left alone.
type InvulnerabilitySystem struct{}

func NewInvulnerabilitySystem() *InvulnerabilitySystem {
	return &InvulnerabilitySystem{}
}

func (s *InvulnerabilitySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.InvulnerableComponent.Kind(), func(e ecs.Entity, inv *component.Invulnerable) {
		if inv.Remaining <= 0 {
			return
		}
		inv.Remaining -= dt
		if inv.Remaining <= 0 {
			ecs.Remove(w, e, component.InvulnerableComponent.Kind())
		}
	})
}
