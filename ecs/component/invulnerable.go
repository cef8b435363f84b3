package component

// Invulnerable marks an entity as immune to direct damage and effects.
// If Remaining > 0 it counts down in seconds and the component is removed at
// zero. Remaining == 0 means indefinite until explicitly removed.
type Invulnerable struct {
	Remaining float64
}

var InvulnerableComponent = NewComponent[Invulnerable]()
