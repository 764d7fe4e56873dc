// Package collision provides capsule-versus-triangle-mesh queries over a
// static octree of world triangles.
package collision

import (
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-10

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	const big = 3.4e38
	return AABB{
		Min: mgl32.Vec3{big, big, big},
		Max: mgl32.Vec3{-big, -big, -big},
	}
}

// Extend grows the box to contain p.
func (b AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float32) AABB {
	off := mgl32.Vec3{d, d, d}
	return AABB{Min: b.Min.Sub(off), Max: b.Max.Add(off)}
}

// Overlaps reports whether two boxes intersect (touching counts).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// Center returns the box midpoint.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Capsule is a swept sphere between Start and End.
type Capsule struct {
	Start  mgl32.Vec3
	End    mgl32.Vec3
	Radius float32
}

// Translate moves both endpoints by v.
func (c *Capsule) Translate(v mgl32.Vec3) {
	c.Start = c.Start.Add(v)
	c.End = c.End.Add(v)
}

// Center returns the midpoint of the segment.
func (c Capsule) Center() mgl32.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

// Bounds returns the capsule's bounding box.
func (c Capsule) Bounds() AABB {
	return EmptyAABB().Extend(c.Start).Extend(c.End).Expand(c.Radius)
}

// Triangle is a world-space triangle.
type Triangle struct {
	A, B, C mgl32.Vec3
}

// Normal returns the unit face normal (counter-clockwise winding), or the
// zero vector for degenerate triangles.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t.C.Sub(t.B).Cross(t.A.Sub(t.B))
	l := n.Len()
	if l < epsilon {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

// Bounds returns the triangle's bounding box.
func (t Triangle) Bounds() AABB {
	return EmptyAABB().Extend(t.A).Extend(t.B).Extend(t.C)
}

// ContainsPoint reports whether p, assumed to lie on the triangle's plane,
// falls inside the triangle (edges included).
func (t Triangle) ContainsPoint(p mgl32.Vec3) bool {
	v0 := t.C.Sub(t.A)
	v1 := t.B.Sub(t.A)
	v2 := p.Sub(t.A)

	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}

// closestSegmentPoints returns the closest points between segments p1q1 and
// p2q2.
func closestSegmentPoints(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a <= epsilon && e <= epsilon:
		return p1, p2
	case a <= epsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= epsilon {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
