// Package gamemath holds pure vector math shared by the simulation stages.
// Nothing here touches the ECS world or the physics collaborator.
package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// has zero length. mgl64's Normalize divides by zero and yields Inf/NaN.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Horizontal drops the vertical component of v.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// Nearest returns the index of the point closest to from and its distance.
// Ties keep the first minimum encountered. ok is false when points is empty.
func Nearest(from mgl64.Vec3, points []mgl64.Vec3) (idx int, dist float64, ok bool) {
	idx = -1
	for i, p := range points {
		d := Distance(from, p)
		if idx < 0 || d < dist {
			idx, dist = i, d
		}
	}
	return idx, dist, idx >= 0
}

// YawFacing returns the yaw in degrees that faces along the horizontal
// direction dir, using the same convention as MovementAxes (yaw 0 faces -Z).
// ok is false when the horizontal component of dir is degenerate.
func YawFacing(dir mgl64.Vec3) (yaw float64, ok bool) {
	h := NormalizeOrZero(Horizontal(dir))
	if h.LenSqr() == 0 {
		return 0, false
	}
	return mgl64.RadToDeg(math.Atan2(-h.X(), -h.Z())), true
}
