package session

import (
	"fmt"
	"strings"
)

// Tier is a difficulty level.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier accepts the names used in flags and config.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "":
		return Easy, nil
	case "medium", "med", "normal":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("session: unknown difficulty %q", s)
}

// Interval bounds the delay between two spawns in seconds.
type Interval struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// DefaultIntervals narrow as difficulty increases.
var DefaultIntervals = [3]Interval{
	Easy:   {Min: 0.5, Max: 6},
	Medium: {Min: 0.5, Max: 4},
	Hard:   {Min: 0.5, Max: 2},
}

// Difficulty is the run's difficulty provider.
type Difficulty struct {
	tier      Tier
	intervals [3]Interval
}

// NewDifficulty returns a provider at tier with the default intervals.
func NewDifficulty(tier Tier) *Difficulty {
	d := &Difficulty{intervals: DefaultIntervals}
	d.SetTier(tier)
	return d
}

func (d *Difficulty) Tier() Tier {
	if d == nil {
		return Easy
	}
	return d.tier
}

// SetTier clamps out-of-range tiers to Easy.
func (d *Difficulty) SetTier(t Tier) {
	if t < Easy || t > Hard {
		t = Easy
	}
	d.tier = t
}

// Cycle advances Easy -> Medium -> Hard -> Easy and returns the new tier.
func (d *Difficulty) Cycle() Tier {
	d.tier = (d.tier + 1) % 3
	return d.tier
}

// SetInterval overrides the bounds for one tier. Inverted bounds are swapped
// and negative values clamp to zero.
func (d *Difficulty) SetInterval(t Tier, iv Interval) {
	if t < Easy || t > Hard {
		return
	}
	if iv.Min < 0 {
		iv.Min = 0
	}
	if iv.Max < 0 {
		iv.Max = 0
	}
	if iv.Max < iv.Min {
		iv.Min, iv.Max = iv.Max, iv.Min
	}
	d.intervals[t] = iv
}

// Interval returns the spawn interval bounds for the current tier.
func (d *Difficulty) Interval() (float64, float64) {
	if d == nil {
		iv := DefaultIntervals[Easy]
		return iv.Min, iv.Max
	}
	iv := d.intervals[d.tier]
	return iv.Min, iv.Max
}
