package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Kind selects how a body is integrated.
type Kind int

const (
	// Dynamic bodies are integrated by Step: gravity, ground contact and
	// obstacle blocking.
	Dynamic Kind = iota
	// Kinematic bodies are only moved by Teleport.
	Kinematic
)

// Body is a vertical capsule owned by one actor entity. Position is the
// capsule center.
type Body struct {
	Owner      donburi.Entity
	Kind       Kind
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Radius     float64
	HalfHeight float64
	OnGround   bool

	// Disabled bodies are skipped by ray casts and Step.
	Disabled bool

	object *resolv.Object
}

// SetHorizontalVelocity writes the X and Z velocity components. Y is left to
// gravity.
func (b *Body) SetHorizontalVelocity(v mgl64.Vec3) {
	b.Velocity[0] = v.X()
	b.Velocity[2] = v.Z()
}

// segment returns the endpoints of the capsule's inner axis.
func (b *Body) segment() (mgl64.Vec3, mgl64.Vec3) {
	h := mgl64.Vec3{0, b.HalfHeight, 0}
	return b.Position.Sub(h), b.Position.Add(h)
}
