package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MovementAxes returns the horizontal forward and right axes for a yaw given
// in degrees. Yaw 0 looks down -Z.
func MovementAxes(yawDeg float64) (forward, right mgl64.Vec3) {
	yaw := mgl64.DegToRad(yawDeg)
	sin, cos := math.Sincos(yaw)
	forward = mgl64.Vec3{-sin, 0, -cos}
	right = mgl64.Vec3{cos, 0, -sin}
	return forward, right
}

// MovementVelocity converts forward/right intent into a horizontal velocity.
// The combined direction is normalized before scaling so diagonal input is
// never faster than single-axis input. The Y component is always zero.
func MovementVelocity(yawDeg, forward, right, speed float64) mgl64.Vec3 {
	fwdAxis, rightAxis := MovementAxes(yawDeg)
	dir := fwdAxis.Mul(forward).Add(rightAxis.Mul(right))
	return NormalizeOrZero(dir).Mul(speed)
}

// BlendDirection mixes a seek direction with a flocking steering vector. When
// the steering magnitude does not exceed threshold the seek direction is
// returned unchanged.
func BlendDirection(seek, steering mgl64.Vec3, threshold, seekWeight, steerWeight float64) mgl64.Vec3 {
	if steering.Len() <= threshold {
		return seek
	}
	blended := seek.Mul(seekWeight).Add(NormalizeOrZero(steering).Mul(steerWeight))
	return NormalizeOrZero(blended)
}

// LookDirection returns the unit view vector for yaw and pitch in degrees.
// Positive pitch looks up.
func LookDirection(yawDeg, pitchDeg float64) mgl64.Vec3 {
	sinY, cosY := math.Sincos(mgl64.DegToRad(yawDeg))
	sinP, cosP := math.Sincos(mgl64.DegToRad(pitchDeg))
	return mgl64.Vec3{-sinY * cosP, sinP, -cosY * cosP}
}
