package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/tracerfps/tracer/shared/gamemath"
	"github.com/tracerfps/tracer/tags"
)

// Hit is the nearest intersection along a ray. Body is nil when the ray was
// stopped by static geometry (ground or an obstacle).
type Hit struct {
	Body     *Body
	Distance float64
	Point    mgl64.Vec3
}

// Raycast returns the nearest intersection of the ray within maxDist,
// ignoring exclude and disabled bodies. A zero direction never hits.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64, exclude *Body) (Hit, bool) {
	dir = gamemath.NormalizeOrZero(dir)
	if dir == (mgl64.Vec3{}) || maxDist <= 0 {
		return Hit{}, false
	}

	best := Hit{Distance: math.Inf(1)}
	consider := func(t float64, b *Body) {
		if t >= 0 && t <= maxDist && t < best.Distance {
			best = Hit{Body: b, Distance: t}
		}
	}

	if dir.Y() < 0 {
		consider((w.cfg.GroundHeight-origin.Y())/dir.Y(), nil)
	}
	for _, box := range w.obstacles {
		if t, ok := rayBox(origin, dir, box); ok {
			consider(t, nil)
		}
	}

	end := origin.Add(dir.Mul(math.Min(maxDist, best.Distance)))
	for _, b := range w.candidates(origin, end) {
		if b == exclude || b.Disabled {
			continue
		}
		bottom, top := b.segment()
		if t, ok := rayCapsule(origin, dir, bottom, top, b.Radius); ok {
			consider(t, b)
		}
	}

	if math.IsInf(best.Distance, 1) {
		return Hit{}, false
	}
	best.Point = origin.Add(dir.Mul(best.Distance))
	return best, true
}

// candidates returns the bodies whose resolv cells touch the XZ bounding box
// of the segment origin..end.
func (w *World) candidates(origin, end mgl64.Vec3) []*Body {
	r := w.cfg.CapsuleRadius
	x0, z0 := w.toSpace(math.Min(origin.X(), end.X())-r, math.Min(origin.Z(), end.Z())-r)
	x1, z1 := w.toSpace(math.Max(origin.X(), end.X())+r, math.Max(origin.Z(), end.Z())+r)

	probe := resolv.NewObject(x0, z0, math.Max(x1-x0, 1), math.Max(z1-z0, 1), tags.ResolvProbe)
	w.space.Add(probe)
	defer w.space.Remove(probe)

	check := probe.Check(0, 0, tags.ResolvBody)
	if check == nil {
		return nil
	}
	out := make([]*Body, 0, len(check.Objects))
	for _, obj := range check.Objects {
		if b, ok := obj.Data.(*Body); ok {
			out = append(out, b)
		}
	}
	return out
}

// rayCapsule intersects a ray (unit dir) with the capsule around segment a-b.
// Rays starting inside the capsule do not hit it.
func rayCapsule(origin, dir, a, b mgl64.Vec3, r float64) (float64, bool) {
	ba := b.Sub(a)
	oa := origin.Sub(a)
	baba := ba.Dot(ba)
	bard := ba.Dot(dir)
	baoa := ba.Dot(oa)

	qa := baba - bard*bard
	if qa > 1e-12 {
		qb := baba*dir.Dot(oa) - baoa*bard
		qc := baba*oa.Dot(oa) - baoa*baoa - r*r*baba
		h := qb*qb - qa*qc
		if h < 0 {
			return 0, false
		}
		t := (-qb - math.Sqrt(h)) / qa
		if y := baoa + t*bard; y > 0 && y < baba {
			return t, t >= 0
		}
	}

	// End caps.
	best, hit := math.Inf(1), false
	for _, c := range [2]mgl64.Vec3{a, b} {
		if t, ok := raySphere(origin, dir, c, r); ok && t < best {
			best, hit = t, true
		}
	}
	return best, hit
}

func raySphere(origin, dir, center mgl64.Vec3, r float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - r*r
	h := b*b - c
	if h < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(h)
	return t, t >= 0
}

// rayBox is the slab test. Rays starting inside the box hit at distance 0.
func rayBox(origin, dir mgl64.Vec3, box Box) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - origin[i]) / dir[i]
		t2 := (box.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
