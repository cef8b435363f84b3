package component

// PickupKind identifies a collectible item.
type PickupKind string

const (
	PickupHealth    PickupKind = "health_potion"
	PickupUltHealth PickupKind = "ultimate_health_potion"
	PickupMana      PickupKind = "mana_potion"
	PickupUltMana   PickupKind = "ultimate_mana_potion"
)

// Pickup is a collectible consumed by the player within Radius.
type Pickup struct {
	Kind   PickupKind
	Radius float64
	// Fraction of the pool restored. 1 means a full refill.
	Fraction float64
	// Lock seconds granted by ultimate potions.
	Lock float64
}

var PickupComponent = NewComponent[Pickup]()

// Drop is a single loot-table row.
type Drop struct {
	Kind   PickupKind
	Chance float64
}

// DropTable is rolled once when its owner dies.
type DropTable struct {
	Entries []Drop
}

var DropTableComponent = NewComponent[DropTable]()
