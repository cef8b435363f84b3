package system

import (
	"math/rand"

	"github.com/milk9111/ghostwave/ecs/component"
)

// PhaseContext is what a selector may look at when choosing the next phase.
type PhaseContext struct {
	LiveMinions    int
	MinionCap      int
	HealthFraction float64
	ShieldActive   bool
	Last           component.BossPhase
	// Roll is a uniform draw in [0, 1) from the session RNG.
	Roll float64
}

// PhaseSelector picks the boss's next phase.
type PhaseSelector interface {
	Select(ctx PhaseContext) component.BossPhase
}

// UniformSelector picks among every phase with equal probability.
type UniformSelector struct{}

func (UniformSelector) Select(ctx PhaseContext) component.BossPhase {
	n := len(component.BossPhases)
	idx := int(ctx.Roll * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return component.BossPhases[idx]
}

// substitutePhase picks the replacement for a capped summon.
func substitutePhase(rng *rand.Rand) component.BossPhase {
	if rng.Intn(2) == 0 {
		return component.PhaseShield
	}
	return component.PhaseAreaDamage
}
