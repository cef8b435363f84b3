package component

import "github.com/milk9111/ghostwave/common"

// Pursuer steers toward Target while keeping distance from neighbours.
type Pursuer struct {
	Target uint64

	StopDistance  float64
	RotationSpeed float64

	SeparationRadius    float64
	SeparationStrength  float64
	SeparationSmoothing float64
	Smoothed            common.Vec3

	// Below the target's height the pursuer drifts up toward
	// target.Y + HoverOffset at HeightAdjustSpeed.
	HoverOffset       float64
	HeightAdjustSpeed float64
}

var PursuerComponent = NewComponent[Pursuer]()
