package ecs

import "github.com/milk9111/ghostwave/ecs/component"

// World owns entities, component stores, the simulation clock and system order.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler Scheduler
	events    EventQueue

	now      float64
	delta    float64
	tick     uint64
	doomed   []Entity
	updating bool
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
// While systems are running the destruction is deferred to the end of the
// tick so store iteration is never invalidated.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	if w.updating {
		w.doomed = append(w.doomed, e)
		return true
	}
	return w.destroyNow(e)
}

func (w *World) destroyNow(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// EntityCount reports the number of live entity handles.
func (w *World) EntityCount() int {
	if w == nil {
		return 0
	}
	return w.entities.alive
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update advances the clock by dt seconds and runs all systems once.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.delta = dt
	w.now += dt
	w.tick++

	w.updating = true
	w.scheduler.Update(w)
	w.updating = false

	doomed := w.doomed
	w.doomed = nil
	for _, e := range doomed {
		w.destroyNow(e)
	}
	w.events.flush()
}

// Now returns the simulation time in seconds.
func (w *World) Now() float64 {
	if w == nil {
		return 0
	}
	return w.now
}

// Delta returns the duration of the tick in progress.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Tick returns the number of completed or in-progress updates.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
