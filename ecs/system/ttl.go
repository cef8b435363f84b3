package system

import (
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
)

// TTLSystem counts TTL components down in seconds and destroys entities when
// they expire.
type TTLSystem struct {
	index SpatialIndex
}

func NewTTLSystem(index SpatialIndex) *TTLSystem {
	return &TTLSystem{index: orNopIndex(index)}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Remaining -= dt
		if ttl.Remaining > 0 {
			return
		}
		s.index.Remove(e)
		w.DestroyEntity(e)
	})
}
