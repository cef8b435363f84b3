package component

import "strings"

// Element is the elemental typing shared by spells, weaknesses and shields.
type Element int

const (
	ElementNone Element = iota
	ElementFire
	ElementWater
	ElementWind
)

// Elements lists the castable elements in slot order.
var Elements = []Element{ElementFire, ElementWater, ElementWind}

func (e Element) String() string {
	switch e {
	case ElementFire:
		return "fire"
	case ElementWater:
		return "water"
	case ElementWind:
		return "wind"
	}
	return "none"
}

// ParseElement maps a config name to an Element.
func ParseElement(s string) (Element, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fire":
		return ElementFire, true
	case "water", "ice":
		return ElementWater, true
	case "wind", "poison":
		return ElementWind, true
	case "", "none":
		return ElementNone, true
	}
	return ElementNone, false
}

// Effect returns the status effect an element's hit applies.
func (e Element) Effect() EffectKind {
	switch e {
	case ElementFire:
		return EffectBurn
	case ElementWater:
		return EffectSlow
	case ElementWind:
		return EffectPush
	}
	return EffectNone
}

// Weakness is the single element that deals direct damage to its owner.
// Entities without a Weakness take direct damage from every element.
type Weakness struct {
	Element Element
}

var WeaknessComponent = NewComponent[Weakness]()
