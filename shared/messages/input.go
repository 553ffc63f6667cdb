package messages

import "github.com/go-gl/mathgl/mgl64"

// None of the client messages carry an actor id. The server resolves the
// sender from the connection that delivered the message.

// RotationInput is the client's current view orientation in degrees.
type RotationInput struct {
	Yaw   float64
	Pitch float64
}

// MovementInput is the client's movement intent relative to its yaw, each
// axis in [-1, 1].
type MovementInput struct {
	Forward float64
	Right   float64
}

// ShootEvent is a hitscan shot along a world-space ray.
type ShootEvent struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}
