package system

import (
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/physics"
)

// SpatialIndex answers "what is near / what did this hit" for the systems.
// *physics.Index satisfies it.
type SpatialIndex interface {
	Register(e ecs.Entity, pos common.Vec3, radius float64)
	Move(e ecs.Entity, pos common.Vec3)
	Remove(e ecs.Entity)
	Raycast(origin, dir common.Vec3, maxDist float64, ignore ecs.Entity) (physics.Hit, bool)
	Within(center common.Vec3, radius float64, fn func(ecs.Entity, common.Vec3))
	PickupsWithin(center common.Vec3, radius float64, fn func(ecs.Entity, common.Vec3))
}

// Builder instantiates prefabs by kind name. *prefabs.Factory satisfies it.
type Builder interface {
	Spawn(w *ecs.World, kind string, pos common.Vec3) (ecs.Entity, error)
}

type nopIndex struct{}

func (nopIndex) Register(ecs.Entity, common.Vec3, float64) {}
func (nopIndex) Move(ecs.Entity, common.Vec3)              {}
func (nopIndex) Remove(ecs.Entity)                         {}
func (nopIndex) Raycast(common.Vec3, common.Vec3, float64, ecs.Entity) (physics.Hit, bool) {
	return physics.Hit{}, false
}
func (nopIndex) Within(common.Vec3, float64, func(ecs.Entity, common.Vec3)) {}
func (nopIndex) PickupsWithin(common.Vec3, float64, func(ecs.Entity, common.Vec3)) {}

func orNopIndex(ix SpatialIndex) SpatialIndex {
	if ix == nil {
		return nopIndex{}
	}
	return ix
}

// positionOf returns the entity's transform position.
func positionOf(w *ecs.World, e ecs.Entity) (common.Vec3, bool) {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, false
	}
	return tr.Position, true
}
