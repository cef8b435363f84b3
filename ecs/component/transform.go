package component

import "github.com/milk9111/ghostwave/common"

// Transform places an entity in the arena. Yaw is the heading in radians
// around the vertical axis, zero facing +Z.
type Transform struct {
	Position common.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()

// Mover carries the forward speed of anything that walks or floats.
// SpeedMultiplier is owned by status effects and defaults to 1.
type Mover struct {
	Speed           float64
	SpeedMultiplier float64
}

func (m *Mover) Effective() float64 {
	if m == nil {
		return 0
	}
	return m.Speed * m.SpeedMultiplier
}

var MoverComponent = NewComponent[Mover]()

// Collider is the query footprint registered with the physics index.
type Collider struct {
	Radius float64
}

var ColliderComponent = NewComponent[Collider]()
