package session

import "github.com/milk9111/ghostwave/common"

// EffectSink plays visual or audio effects. Calls are fire-and-forget.
type EffectSink interface {
	PlayEffect(name string, pos common.Vec3)
}

// Bar names a UI gauge.
type Bar string

const (
	BarPlayerHealth Bar = "player_health"
	BarPlayerMana   Bar = "player_mana"
	BarBossHealth   Bar = "boss_health"
)

// UISink receives gauge updates in [0, 1].
type UISink interface {
	SetFraction(bar Bar, fraction float64)
}

// SceneSink performs scene transitions.
type SceneSink interface {
	LoadScene(name string)
}

// InputSource is the debounced player input for one tick.
type InputSource interface {
	// FireHeld reports whether the cast button is held down.
	FireHeld() bool
	// InteractPressed is an edge event.
	InteractPressed() bool
	// Aim is the cast direction. A zero vector uses the player's heading.
	Aim() common.Vec3
	// ElementSlot returns the selected element slot when it changed this tick.
	ElementSlot() (int, bool)
}

// NopInput never presses anything.
type NopInput struct{}

func (NopInput) FireHeld() bool           { return false }
func (NopInput) InteractPressed() bool    { return false }
func (NopInput) Aim() common.Vec3         { return common.Vec3{} }
func (NopInput) ElementSlot() (int, bool) { return 0, false }
