package component

import "github.com/milk9111/ghostwave/common"

// Push accumulates knockback velocity. It decays exponentially every tick and
// dampens forward pursuit while its magnitude exceeds Threshold.
type Push struct {
	Velocity      common.Vec3
	Decay         float64
	Threshold     float64
	ForwardFactor float64
}

func (p *Push) Active() bool {
	return p != nil && p.Velocity.Len() > p.Threshold
}

var PushComponent = NewComponent[Push]()
