package component

// RepulsionLayer lets pursuers choose which neighbours they steer away from.
type RepulsionLayer struct {
	// Category is this entity's bitmask. Zero is treated as category 1.
	Category uint32 `json:"category,omitempty"`
	// Mask selects the categories this entity separates from. Zero means all.
	Mask uint32 `json:"mask,omitempty"`
}

func (l *RepulsionLayer) category() uint32 {
	if l == nil || l.Category == 0 {
		return 1
	}
	return l.Category
}

func (l *RepulsionLayer) mask() uint32 {
	if l == nil || l.Mask == 0 {
		return ^uint32(0)
	}
	return l.Mask
}

// Repels reports whether l steers away from other. Nil layers use defaults.
func (l *RepulsionLayer) Repels(other *RepulsionLayer) bool {
	return l.mask()&other.category() != 0
}

var RepulsionLayerComponent = NewComponent[RepulsionLayer]()
