package system

import (
	"math"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
)

// separation sums a push away from every peer inside the pursuer's
// separation radius. Strength falls off linearly from SeparationStrength at
// zero distance to nothing at the radius edge.
func separation(w *ecs.World, index SpatialIndex, e ecs.Entity, pos common.Vec3, p *component.Pursuer) common.Vec3 {
	if p.SeparationRadius <= 0 || p.SeparationStrength <= 0 {
		return common.Vec3{}
	}
	layer, _ := ecs.Get(w, e, component.RepulsionLayerComponent.Kind())

	var sum common.Vec3
	index.Within(pos, p.SeparationRadius, func(other ecs.Entity, otherPos common.Vec3) {
		if other == e || !w.IsAlive(other) {
			return
		}
		otherLayer, hasLayer := ecs.Get(w, other, component.RepulsionLayerComponent.Kind())
		if !hasLayer && !ecs.Has(w, other, component.PursuerComponent.Kind()) {
			return
		}
		if !layer.Repels(otherLayer) {
			return
		}

		away := pos.Sub(otherPos).Flat()
		dist := away.Len()
		if dist <= common.Epsilon {
			// Coincident peers split along a stable per-pair angle.
			angle := float64((uint64(e)*2654435761)%360) * math.Pi / 180
			away = common.V3(math.Cos(angle), 0, math.Sin(angle))
			dist = 0
		}
		weight := common.Lerp(p.SeparationStrength, 0, dist/p.SeparationRadius)
		sum = sum.Add(away.Normalize().Scale(weight))
	})
	return sum
}
