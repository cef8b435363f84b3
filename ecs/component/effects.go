package component

// EffectKind identifies a timed status effect.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectBurn
	EffectSlow
	EffectPush
)

func (k EffectKind) String() string {
	switch k {
	case EffectBurn:
		return "burn"
	case EffectSlow:
		return "slow"
	case EffectPush:
		return "push"
	}
	return "none"
}

// Burn deals DPS damage every tick until Remaining runs out.
type Burn struct {
	DPS       float64
	Remaining float64
}

// Slow scales Mover.SpeedMultiplier. Baseline is the multiplier captured when
// the slow first landed and is restored verbatim on expiry.
type Slow struct {
	Multiplier float64
	Remaining  float64
	Baseline   float64
}

// Effects holds at most one active instance per effect kind.
type Effects struct {
	Burn *Burn
	Slow *Slow
}

func (e *Effects) Empty() bool {
	return e == nil || (e.Burn == nil && e.Slow == nil)
}

var EffectsComponent = NewComponent[Effects]()
