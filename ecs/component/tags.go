package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// MinionTag marks a spawned ghost. Wave is the index it was spawned for, or
// -1 for boss summons.
type MinionTag struct {
	Kind GhostKind
	Wave int
}

var MinionTagComponent = NewComponent[MinionTag]()

type BossTag struct{}

var BossTagComponent = NewComponent[BossTag]()

// FxName is the death/hit effect played through the effect sink.
type FxName struct {
	Death string
	Hit   string
}

var FxNameComponent = NewComponent[FxName]()
