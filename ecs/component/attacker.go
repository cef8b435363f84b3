package component

import "math"

// GhostKind selects a minion's attack behaviour.
type GhostKind int

const (
	GhostIce GhostKind = iota
	GhostFire
	GhostPoison
)

func (k GhostKind) String() string {
	switch k {
	case GhostIce:
		return "ice"
	case GhostFire:
		return "fire"
	case GhostPoison:
		return "poison"
	}
	return "unknown"
}

// ParseGhostKind maps a config name to a GhostKind.
func ParseGhostKind(s string) (GhostKind, bool) {
	switch s {
	case "ice":
		return GhostIce, true
	case "fire":
		return GhostFire, true
	case "poison":
		return GhostPoison, true
	}
	return GhostIce, false
}

// Attacker is a minion's contact attack. Ice and fire ghosts strike in bursts
// gated by Cooldown; poison ghosts tick Damage every Interval while in range.
type Attacker struct {
	Kind    GhostKind
	Enabled bool
	Damage  float64

	Cooldown   float64
	LastAttack float64

	Interval   float64
	AuraActive bool
	AuraTimer  float64

	KnockbackForce float64
	SlowMultiplier float64
	SlowDuration   float64

	Effect string
}

// NewAttacker returns an enabled attacker that may strike immediately.
func NewAttacker(kind GhostKind) *Attacker {
	return &Attacker{Kind: kind, Enabled: true, LastAttack: math.Inf(-1)}
}

var AttackerComponent = NewComponent[Attacker]()
