package picking

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Target is a pickable object: triangles in the object's own space plus the
// transform that currently places it in the world.
type Target struct {
	Name      string
	Triangles [][3]mgl32.Vec3
	Bounds    AABB // local space

	transform mgl32.Mat4
	inverse   mgl32.Mat4
}

// NewTarget creates a target from local-space triangles placed by transform.
func NewTarget(name string, triangles [][3]mgl32.Vec3, transform mgl32.Mat4) *Target {
	t := &Target{Name: name, Triangles: triangles}
	if len(triangles) > 0 {
		lo, hi := triangles[0][0], triangles[0][0]
		for _, tri := range triangles {
			for _, v := range tri {
				for i := 0; i < 3; i++ {
					lo[i] = min(lo[i], v[i])
					hi[i] = max(hi[i], v[i])
				}
			}
		}
		t.Bounds = AABB{Min: lo, Max: hi}
	}
	t.SetTransform(transform)
	return t
}

// SetTransform updates where the target sits in the world.
func (t *Target) SetTransform(m mgl32.Mat4) {
	t.transform = m
	t.inverse = m.Inv()
}

// Transform returns the current world transform.
func (t *Target) Transform() mgl32.Mat4 {
	return t.transform
}

// Intersect returns the world-space distance to the nearest triangle hit.
func (t *Target) Intersect(r Ray) (float32, bool) {
	if len(t.Triangles) == 0 {
		return 0, false
	}
	local := r.Transform(t.inverse)
	if _, ok := local.IntersectAABB(t.Bounds); !ok {
		return 0, false
	}

	best := float32(0)
	found := false
	for _, tri := range t.Triangles {
		d, ok := local.IntersectTriangle(tri[0], tri[1], tri[2])
		if !ok || (found && d >= best) {
			continue
		}
		best, found = d, true
	}
	if !found {
		return 0, false
	}
	world := mgl32.TransformCoordinate(local.At(best), t.transform)
	return world.Sub(r.Origin).Len(), true
}

// Hit is the nearest target along a ray.
type Hit struct {
	Target   *Target
	Distance float32
}

// Nearest returns the closest target hit by r. Ties keep the earlier target.
func Nearest(r Ray, targets []*Target) (Hit, bool) {
	var best Hit
	found := false
	for _, t := range targets {
		d, ok := t.Intersect(r)
		if !ok || (found && d >= best.Distance) {
			continue
		}
		best = Hit{Target: t, Distance: d}
		found = true
	}
	return best, found
}
