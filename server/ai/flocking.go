package ai

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/shared/gamemath"
)

// FlockParams tunes the three steering rules.
type FlockParams struct {
	NeighborRange      float64
	CohesionWeight     float64
	AlignmentWeight    float64
	SeparationWeight   float64
	SeparationDistance float64
}

// Boid is one entry of the flat per-tick flocking snapshot.
type Boid struct {
	ID       uint32
	Position mgl64.Vec3
	Steering mgl64.Vec3 // previous tick's steering vector
}

// Steer computes the steering vector for flock[self] from the other entries
// within NeighborRange. The snapshot is read-only; callers store the result.
// With no neighbors the result is the zero vector.
func Steer(flock []Boid, self int, p FlockParams) mgl64.Vec3 {
	me := flock[self]

	var (
		posSum   mgl64.Vec3
		steerSum mgl64.Vec3
		sepSum   mgl64.Vec3
		count    int
	)

	for i, other := range flock {
		if i == self {
			continue
		}
		offset := me.Position.Sub(other.Position)
		dist := offset.Len()
		if dist > p.NeighborRange {
			continue
		}

		posSum = posSum.Add(other.Position)
		steerSum = steerSum.Add(other.Steering)
		count++

		if dist < p.SeparationDistance {
			falloff := (p.SeparationDistance - dist) / p.SeparationDistance
			sepSum = sepSum.Add(gamemath.NormalizeOrZero(offset).Mul(falloff * falloff))
		}
	}

	if count == 0 {
		return mgl64.Vec3{}
	}

	n := float64(count)
	cohesion := gamemath.NormalizeOrZero(posSum.Mul(1 / n).Sub(me.Position)).Mul(p.CohesionWeight)
	alignment := gamemath.NormalizeOrZero(steerSum.Mul(1 / n)).Mul(p.AlignmentWeight)
	separation := gamemath.NormalizeOrZero(sepSum).Mul(p.SeparationWeight)

	return cohesion.Add(alignment).Add(separation)
}
