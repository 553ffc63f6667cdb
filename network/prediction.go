package network

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/shared/gamemath"
	"github.com/tracerfps/tracer/shared/messages"
)

// Predictor dead-reckons the local player on the XZ plane from the movement
// it sends. It ignores collisions, so it drifts from the server whenever the
// player is blocked.
type Predictor struct {
	position mgl64.Vec3
	speed    float64
}

func NewPredictor(spawn mgl64.Vec3, speed float64) *Predictor {
	return &Predictor{position: spawn, speed: speed}
}

// Apply advances the prediction by one movement input held for dt seconds.
func (p *Predictor) Apply(yaw float64, in messages.MovementInput, dt float64) mgl64.Vec3 {
	v := gamemath.MovementVelocity(yaw, in.Forward, in.Right, p.speed)
	p.position = p.position.Add(v.Mul(dt))
	return p.position
}

// Position returns the current prediction.
func (p *Predictor) Position() mgl64.Vec3 {
	return p.position
}

// Reset places the prediction at pos, e.g. on respawn.
func (p *Predictor) Reset(pos mgl64.Vec3) {
	p.position = pos
}
