// Package physics is the server's collision collaborator. Actor capsules and
// static obstacles are indexed in a resolv space laid over the XZ plane; the
// vertical axis is handled analytically against a flat ground plane.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// Config holds everything the physics world needs at construction.
type Config struct {
	Gravity           float64
	GroundHeight      float64
	CapsuleRadius     float64
	CapsuleHalfHeight float64
	ObstacleHeight    float64
	Scale             float64 // resolv units per world unit
	CellSize          int
	Width, Depth      float64 // world extent on X and Z, centered on the origin
}

// ConfigFromGlobals builds a Config from the loaded configuration.
func ConfigFromGlobals() Config {
	return Config{
		Gravity:           config.Physics.Gravity,
		GroundHeight:      config.Physics.GroundHeight,
		CapsuleRadius:     config.Physics.CapsuleRadius,
		CapsuleHalfHeight: config.Physics.CapsuleHalfHeight,
		ObstacleHeight:    config.Physics.ObstacleHeight,
		Scale:             config.Physics.SpaceScale,
		CellSize:          config.Physics.SpaceCellSize,
		Width:             config.World.Width,
		Depth:             config.World.Depth,
	}
}

// Box is an axis-aligned static obstacle.
type Box struct {
	Min, Max mgl64.Vec3
}

// World owns all bodies and static geometry.
type World struct {
	cfg       Config
	space     *resolv.Space
	spaceW    float64
	spaceD    float64
	bodies    []*Body
	obstacles []Box
}

// NewWorld creates an empty world covering cfg.Width x cfg.Depth around the
// origin, with the ground plane at cfg.GroundHeight.
func NewWorld(cfg Config) *World {
	w := int(math.Ceil(cfg.Width * cfg.Scale))
	d := int(math.Ceil(cfg.Depth * cfg.Scale))
	return &World{
		cfg:    cfg,
		space:  resolv.NewSpace(w, d, cfg.CellSize, cfg.CellSize),
		spaceW: float64(w),
		spaceD: float64(d),
	}
}

// GroundHeight returns the Y of the static ground plane.
func (w *World) GroundHeight() float64 {
	return w.cfg.GroundHeight
}

// Bodies returns the live bodies. The slice must not be modified.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Obstacles returns the static boxes.
func (w *World) Obstacles() []Box {
	return w.obstacles
}

// AddBody creates a capsule for owner at pos.
func (w *World) AddBody(owner donburi.Entity, kind Kind, pos mgl64.Vec3) *Body {
	kindTag := tags.ResolvPlayer
	if kind == Kinematic {
		kindTag = tags.ResolvEnemy
	}

	size := 2 * w.cfg.CapsuleRadius * w.cfg.Scale
	obj := resolv.NewObject(0, 0, size, size, tags.ResolvBody, kindTag)
	obj.SetShape(resolv.NewRectangle(0, 0, size, size))

	b := &Body{
		Owner:      owner,
		Kind:       kind,
		Position:   pos,
		Radius:     w.cfg.CapsuleRadius,
		HalfHeight: w.cfg.CapsuleHalfHeight,
		object:     obj,
	}
	obj.Data = b
	w.syncObject(b)
	w.space.Add(obj)
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody detaches b from the world. Removing an unknown body is a no-op.
func (w *World) RemoveBody(b *Body) {
	for i, other := range w.bodies {
		if other != b {
			continue
		}
		w.space.Remove(b.object)
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		return
	}
}

// Teleport places b at pos and clears its velocity.
func (w *World) Teleport(b *Body, pos mgl64.Vec3) {
	b.Position = pos
	b.Velocity = mgl64.Vec3{}
	b.OnGround = false
	w.syncObject(b)
}

// MoveKinematic places b at pos keeping its velocity.
func (w *World) MoveKinematic(b *Body, pos mgl64.Vec3) {
	b.Position = pos
	w.syncObject(b)
}

// AddObstacle registers a static box. Its XZ footprint blocks dynamic bodies
// and the whole box blocks rays.
func (w *World) AddObstacle(box Box) {
	w.obstacles = append(w.obstacles, box)

	x, z := w.toSpace(box.Min.X(), box.Min.Z())
	width := (box.Max.X() - box.Min.X()) * w.cfg.Scale
	depth := (box.Max.Z() - box.Min.Z()) * w.cfg.Scale
	obj := resolv.NewObject(x, z, width, depth, tags.ResolvSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, width, depth))
	w.space.Add(obj)
}

// toSpace maps a world XZ coordinate into resolv space, clamped to its
// bounds so bodies that leave the arena stay indexed in the border cells.
func (w *World) toSpace(x, z float64) (float64, float64) {
	sx := (x + w.cfg.Width/2) * w.cfg.Scale
	sz := (z + w.cfg.Depth/2) * w.cfg.Scale
	return clamp(sx, 0, w.spaceW-1), clamp(sz, 0, w.spaceD-1)
}

func (w *World) syncObject(b *Body) {
	r := b.Radius
	x, z := w.toSpace(b.Position.X()-r, b.Position.Z()-r)
	b.object.X = x
	b.object.Y = z
	b.object.Update()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
