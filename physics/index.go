// Package physics is the spatial query service. Actors are registered as
// kinematic circles in a chipmunk space projected onto the ground plane (X/Z).
// The space is never stepped; it only answers queries.
package physics

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
)

// Hit is the result of a raycast.
type Hit struct {
	Entity   ecs.Entity
	Point    common.Vec3
	Distance float64
}

// Index layers. Raycasts and Within only see actors; pickups are found with
// PickupsWithin.
const (
	LayerActor uint = 1 << iota
	LayerPickup
)

type entry struct {
	body   *cp.Body
	shape  *cp.Shape
	pos    common.Vec3
	radius float64
	layer  uint
}

// Index maps entities to chipmunk shapes for raycasts and radius queries.
type Index struct {
	space   *cp.Space
	entries map[ecs.Entity]*entry
	shapes  map[*cp.Shape]ecs.Entity
}

func NewIndex() *Index {
	return &Index{
		space:   cp.NewSpace(),
		entries: make(map[ecs.Entity]*entry),
		shapes:  make(map[*cp.Shape]ecs.Entity),
	}
}

// Register adds or re-registers the actor e with a circle footprint of radius.
func (ix *Index) Register(e ecs.Entity, pos common.Vec3, radius float64) {
	ix.register(e, pos, radius, LayerActor)
}

// RegisterPickup indexes a pickup whose interact reach is radius. Pickups
// never block raycasts.
func (ix *Index) RegisterPickup(e ecs.Entity, pos common.Vec3, radius float64) {
	ix.register(e, pos, radius, LayerPickup)
}

func (ix *Index) register(e ecs.Entity, pos common.Vec3, radius float64, layer uint) {
	if ix == nil || !e.Valid() {
		return
	}
	if radius <= 0 {
		radius = 0.5
	}
	if old, ok := ix.entries[e]; ok {
		if old.radius == radius && old.layer == layer {
			ix.Move(e, pos)
			return
		}
		ix.Remove(e)
	}

	body := cp.NewKinematicBody()
	body.SetPosition(pos.Planar())
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, layer, cp.ALL_CATEGORIES))
	ix.space.AddBody(body)
	ix.space.AddShape(shape)

	ix.entries[e] = &entry{body: body, shape: shape, pos: pos, radius: radius, layer: layer}
	ix.shapes[shape] = e
}

// Move updates the indexed position of e.
func (ix *Index) Move(e ecs.Entity, pos common.Vec3) {
	if ix == nil {
		return
	}
	en, ok := ix.entries[e]
	if !ok {
		return
	}
	en.pos = pos
	en.body.SetPosition(pos.Planar())
	// The space is never stepped, so re-adding the shape is what refreshes its
	// cached centre and bounding box in the spatial hash.
	ix.space.RemoveShape(en.shape)
	ix.space.AddShape(en.shape)
}

// Remove drops e from the index.
func (ix *Index) Remove(e ecs.Entity) {
	if ix == nil {
		return
	}
	en, ok := ix.entries[e]
	if !ok {
		return
	}
	ix.space.RemoveShape(en.shape)
	ix.space.RemoveBody(en.body)
	delete(ix.shapes, en.shape)
	delete(ix.entries, e)
}

// Position returns the last indexed position of e.
func (ix *Index) Position(e ecs.Entity) (common.Vec3, bool) {
	if ix == nil {
		return common.Vec3{}, false
	}
	en, ok := ix.entries[e]
	if !ok {
		return common.Vec3{}, false
	}
	return en.pos, true
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Raycast returns the closest entity along dir within maxDist, skipping ignore.
// The ray is tested on the ground plane; the hit point keeps the ray's height.
func (ix *Index) Raycast(origin, dir common.Vec3, maxDist float64, ignore ecs.Entity) (Hit, bool) {
	if ix == nil || maxDist <= 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	if dir.Flat().IsZero() {
		return Hit{}, false
	}
	end := origin.Add(dir.Scale(maxDist))

	best := Hit{}
	bestAlpha := 2.0
	ix.space.SegmentQuery(origin.Planar(), end.Planar(), 0, layerFilter(LayerActor),
		func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
			e, ok := ix.shapes[shape]
			if !ok || e == ignore || alpha >= bestAlpha {
				return
			}
			bestAlpha = alpha
			best = Hit{Entity: e, Point: common.LerpVec(origin, end, alpha), Distance: alpha * maxDist}
		}, nil)
	if bestAlpha > 1 {
		return Hit{}, false
	}
	return best, true
}

// Within calls fn for every actor whose centre lies within radius of center
// on the ground plane, nearest first.
func (ix *Index) Within(center common.Vec3, radius float64, fn func(ecs.Entity, common.Vec3)) {
	ix.within(center, radius, LayerActor, fn)
}

// PickupsWithin calls fn for every pickup within radius of center, or within
// the pickup's own reach when that is larger, nearest first.
func (ix *Index) PickupsWithin(center common.Vec3, radius float64, fn func(ecs.Entity, common.Vec3)) {
	ix.within(center, radius, LayerPickup, fn)
}

func layerFilter(layer uint) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, layer)
}

func (ix *Index) within(center common.Vec3, radius float64, layer uint, fn func(ecs.Entity, common.Vec3)) {
	if ix == nil || fn == nil || radius <= 0 {
		return
	}
	type candidate struct {
		e    ecs.Entity
		pos  common.Vec3
		dist float64
	}
	var found []candidate
	ix.space.BBQuery(cp.NewBBForCircle(center.Planar(), radius), layerFilter(layer),
		func(shape *cp.Shape, data interface{}) {
			e, ok := ix.shapes[shape]
			if !ok {
				return
			}
			en := ix.entries[e]
			d := en.pos.Flat().Dist(center.Flat())
			reach := radius
			if layer == LayerPickup && en.radius > reach {
				reach = en.radius
			}
			if d > reach {
				return
			}
			found = append(found, candidate{e: e, pos: en.pos, dist: d})
		}, nil)
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].e < found[j].e
	})
	for _, c := range found {
		fn(c.e, c.pos)
	}
}

// Update drops entries whose entities no longer exist.
func (ix *Index) Update(w *ecs.World) {
	if ix == nil || w == nil {
		return
	}
	var stale []ecs.Entity
	for e := range ix.entries {
		if !w.IsAlive(e) {
			stale = append(stale, e)
		}
	}
	for _, e := range stale {
		ix.Remove(e)
	}
}
