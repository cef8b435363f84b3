package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the length below which vectors are treated as zero.
const Epsilon = 1e-6

// Vec3 is a world-space position or direction. Y is up; the ground plane is XZ.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) IsZero() bool {
	return v.Len() <= Epsilon
}

// Normalize returns v scaled to unit length, or the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l <= Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Planar projects v onto the ground plane as a chipmunk vector (X, Z).
func (v Vec3) Planar() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

// FromPlanar lifts a ground-plane vector back to world space at height y.
func FromPlanar(p cp.Vector, y float64) Vec3 {
	return Vec3{X: p.X, Y: y, Z: p.Y}
}

func LerpVec(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 clamps t to [0, 1].
func Clamp01(t float64) float64 {
	return Clamp(t, 0, 1)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Yaw returns the heading of a direction on the ground plane, in radians.
func Yaw(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// RotateToward steps angle current toward target by at most maxStep radians,
// taking the short way around.
func RotateToward(current, target, maxStep float64) float64 {
	diff := math.Remainder(target-current, 2*math.Pi)
	if math.Abs(diff) <= maxStep {
		return target
	}
	return current + math.Copysign(maxStep, diff)
}

// Forward is the unit heading for yaw on the ground plane.
func Forward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}
