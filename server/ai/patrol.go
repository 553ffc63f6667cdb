package ai

import "github.com/go-gl/mathgl/mgl64"

// Patrol is a fixed cyclic waypoint loop with a current index.
type Patrol struct {
	Waypoints []mgl64.Vec3
	Index     int
}

// NewPatrol builds the square loop through the four diagonal corners around
// center at the given radius. Y is kept from center. Index starts at 0.
func NewPatrol(center mgl64.Vec3, radius float64) Patrol {
	return Patrol{
		Waypoints: []mgl64.Vec3{
			center.Add(mgl64.Vec3{radius, 0, radius}),
			center.Add(mgl64.Vec3{radius, 0, -radius}),
			center.Add(mgl64.Vec3{-radius, 0, -radius}),
			center.Add(mgl64.Vec3{-radius, 0, radius}),
		},
	}
}

// CurrentWaypoint returns the waypoint at the current index.
func (p *Patrol) CurrentWaypoint() mgl64.Vec3 {
	return p.Waypoints[p.Index]
}

// Advance moves to the next waypoint, wrapping to the start.
func (p *Patrol) Advance() {
	p.Index = (p.Index + 1) % len(p.Waypoints)
}
