// Package picking provides ray casting against named world objects.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray through m. The direction is renormalized, so
// distances along the result are in the transformed space.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	o := mgl32.TransformCoordinate(r.Origin, m)
	d := mgl32.TransformNormal(r.Direction, m)
	if l := d.Len(); l > 0 {
		d = d.Mul(1 / l)
	}
	return Ray{Origin: o, Direction: d}
}

// NDCToRay converts normalized device coordinates (-1..1, +Y up) to a
// world-space ray using the inverse of the view-projection matrix.
func NDCToRay(ndc mgl32.Vec2, invViewProj mgl32.Mat4) Ray {
	nearWorld := invViewProj.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1})
	farWorld := invViewProj.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1})

	near := perspectiveDivide(nearWorld)
	far := perspectiveDivide(farWorld)

	dir := far.Sub(near)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: near, Direction: dir}
}

func perspectiveDivide(v mgl32.Vec4) mgl32.Vec3 {
	if v.W() != 0 {
		return v.Vec3().Mul(1 / v.W())
	}
	return v.Vec3()
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box
// using the slab method. Returns the entry distance, or the exit distance
// when the ray starts inside the box.
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle is the Möller–Trumbore test. Both faces count as hits.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
