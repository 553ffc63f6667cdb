package physics

import (
	"math"

	"github.com/solarlune/resolv"
	"github.com/tracerfps/tracer/tags"
)

// Step integrates every enabled dynamic body by dt seconds: gravity on Y,
// horizontal velocity blocked by solid obstacles, then a ground plane clamp.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if b.Kind != Dynamic || b.Disabled {
			continue
		}
		w.stepBody(b, dt)
	}
}

func (w *World) stepBody(b *Body, dt float64) {
	// --- Resolve horizontal collision ---
	if w.sweep(b, 0, b.Velocity.X()*dt) {
		b.Velocity[0] = 0
	}
	if w.sweep(b, 2, b.Velocity.Z()*dt) {
		b.Velocity[2] = 0
	}

	// --- Gravity ---
	b.Velocity[1] -= w.cfg.Gravity * dt
	b.Position[1] += b.Velocity.Y() * dt

	floor := w.cfg.GroundHeight + b.Radius + b.HalfHeight
	if b.Position.Y() <= floor {
		b.Position[1] = floor
		b.Velocity[1] = 0
		b.OnGround = true
	} else {
		b.OnGround = false
	}
}

// sweep moves b by dist world units along X (axis 0) or Z (axis 2), in
// increments no longer than the body itself so thin solids cannot be skipped.
// It reports whether a solid stopped the move.
func (w *World) sweep(b *Body, axis int, dist float64) bool {
	scale := w.cfg.Scale
	remaining := dist * scale
	stride := b.object.W

	for remaining != 0 {
		part := math.Max(-stride, math.Min(stride, remaining))
		dx, dy := part, 0.0
		if axis == 2 {
			dx, dy = 0, part
		}

		blocked, allowed := w.blockedMove(b.object, dx, dy)
		if blocked {
			part = allowed
		}
		b.Position[axis] += part / scale
		w.syncObject(b)
		if blocked {
			return true
		}
		remaining -= part
	}
	return false
}

// blockedMove reports whether moving obj by (dx, dy) in resolv space runs into
// a solid, and if so the largest allowed move along that axis.
func (w *World) blockedMove(obj *resolv.Object, dx, dy float64) (bool, float64) {
	check := obj.Check(dx, dy, tags.ResolvSolid)
	if check == nil {
		return false, 0
	}

	move := dx
	if dy != 0 {
		move = dy
	}
	blocked := false
	for _, solid := range check.ObjectsByTags(tags.ResolvSolid) {
		// Cells are coarse; only solids overlapping on the other axis block.
		if dx != 0 && !overlaps(obj.Y, obj.H, solid.Y, solid.H) {
			continue
		}
		if dy != 0 && !overlaps(obj.X, obj.W, solid.X, solid.W) {
			continue
		}

		contact := check.ContactWithObject(solid)
		c := contact.X()
		if dy != 0 {
			c = contact.Y()
		}
		if move > 0 && c >= 0 && c < move {
			move, blocked = c, true
		}
		if move < 0 && c <= 0 && c > move {
			move, blocked = c, true
		}
	}
	return blocked, move
}

func overlaps(a, aLen, b, bLen float64) bool {
	return a < b+bLen && b < a+aLen
}
