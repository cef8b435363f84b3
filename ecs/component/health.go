package component

// LifeState is the health state machine: Alive -> Dying -> Dead.
type LifeState int

const (
	Alive LifeState = iota
	Dying
	Dead
)

func (s LifeState) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dying:
		return "dying"
	}
	return "dead"
}

// Health is a reusable health pool for any entity that can take damage.
// Current stays within [0, Max]. Once the state leaves Alive it never returns.
type Health struct {
	Max     float64
	Current float64
	State   LifeState
	// Outro keeps the entity in Dying after the fatal hit; something else
	// (the boss defeat sequence) finishes the transition to Dead.
	Outro bool
}

// NewHealth creates a Health component with max/current initialized.
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && h.State == Alive
}

// Drain lowers Current by amount without going below zero and reports whether
// this call crossed zero. The caller owns the state transition.
func (h *Health) Drain(amount float64) (applied float64, crossed bool) {
	if !h.IsAlive() || amount <= 0 {
		return 0, false
	}
	if amount > h.Current {
		amount = h.Current
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		return amount, true
	}
	return amount, false
}

// Heal restores health up to Max.
func (h *Health) Heal(amount float64) float64 {
	if !h.IsAlive() || amount <= 0 {
		return 0
	}
	before := h.Current
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
	return h.Current - before
}

// ClampToFloor raises Current to at least floor (never above Max).
func (h *Health) ClampToFloor(floor float64) {
	if !h.IsAlive() {
		return
	}
	if floor > h.Max {
		floor = h.Max
	}
	if h.Current < floor {
		h.Current = floor
	}
}

// Fraction returns Current/Max in [0, 1].
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

var HealthComponent = NewComponent[Health]()
