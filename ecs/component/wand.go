package component

// Wand is the player's spell caster. Each cast costs one mana; holding fire
// repeats casts every FireInterval.
type Wand struct {
	Mana     float64
	MaxMana  float64
	CastCost float64

	FireInterval  float64
	FireTimer     float64
	SlowRecharge  float64
	FastRecharge  float64
	RechargeDelay float64
	IdleTime      float64

	Range   float64
	Element Element
	Damage  float64

	// Mana is not spent while LockRemaining > 0.
	LockRemaining float64
}

func (w *Wand) Fraction() float64 {
	if w == nil || w.MaxMana <= 0 {
		return 0
	}
	return w.Mana / w.MaxMana
}

var WandComponent = NewComponent[Wand]()
