package collision

import "github.com/go-gl/mathgl/mgl32"

// boxIntersectsTriangle is the separating axis test between an AABB and a
// triangle: three box axes, the triangle normal and the nine edge cross
// products.
func boxIntersectsTriangle(b AABB, t Triangle) bool {
	if !b.Overlaps(t.Bounds()) {
		return false
	}

	center := b.Center()
	extents := b.Size().Mul(0.5)
	v0 := t.A.Sub(center)
	v1 := t.B.Sub(center)
	v2 := t.C.Sub(center)
	edges := [3]mgl32.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}

	axes := make([]mgl32.Vec3, 0, 10)
	for _, e := range edges {
		axes = append(axes,
			mgl32.Vec3{0, -e.Z(), e.Y()},
			mgl32.Vec3{e.Z(), 0, -e.X()},
			mgl32.Vec3{-e.Y(), e.X(), 0},
		)
	}
	axes = append(axes, edges[0].Cross(edges[1]))

	for _, axis := range axes {
		if axis.Dot(axis) < epsilon {
			continue
		}
		r := extents.X()*abs(axis.X()) + extents.Y()*abs(axis.Y()) + extents.Z()*abs(axis.Z())
		p0, p1, p2 := v0.Dot(axis), v1.Dot(axis), v2.Dot(axis)
		if max(-max(p0, p1, p2), min(p0, p1, p2)) > r {
			return false
		}
	}
	return true
}
