package collision

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Build tuning.
const (
	// MaxDepth is the deepest octree level that may be split.
	MaxDepth = 8
	// TrianglesPerLeaf is the leaf population above which a node splits.
	TrianglesPerLeaf = 8
	// boundsPadding keeps triangles lying on the outer faces inside the root.
	boundsPadding = 0.01
)

// Hit is the resolved push-out for a capsule overlapping the world.
type Hit struct {
	Normal mgl32.Vec3 // unit direction to move the capsule
	Depth  float32    // distance to move it
}

// Index is an immutable spatial index over static world triangles.
// A nil *Index answers every query with "no hit".
type Index struct {
	triangles []Triangle
	root      *octant
}

type octant struct {
	box      AABB
	children []*octant
	tris     []int32
}

// Build indexes the given triangles. Degenerate triangles are dropped.
func Build(triangles []Triangle) *Index {
	idx := &Index{}
	bounds := EmptyAABB()
	for _, t := range triangles {
		if t.Normal() == (mgl32.Vec3{}) {
			continue
		}
		idx.triangles = append(idx.triangles, t)
		bounds = bounds.Extend(t.A).Extend(t.B).Extend(t.C)
	}
	if len(idx.triangles) == 0 {
		return idx
	}

	idx.root = &octant{box: bounds.Expand(boundsPadding)}
	idx.root.tris = make([]int32, len(idx.triangles))
	for i := range idx.root.tris {
		idx.root.tris[i] = int32(i)
	}
	idx.root.split(idx.triangles, 0)
	return idx
}

// FromCorners builds an index from corner triples, as produced by
// scenegraph.Node.Triangles.
func FromCorners(corners [][3]mgl32.Vec3) *Index {
	tris := make([]Triangle, len(corners))
	for i, c := range corners {
		tris[i] = Triangle{A: c[0], B: c[1], C: c[2]}
	}
	return Build(tris)
}

func (o *octant) split(all []Triangle, level int) {
	half := o.box.Size().Mul(0.5)
	var subs [8]*octant
	for i := range subs {
		off := mgl32.Vec3{
			float32(i&1) * half.X(),
			float32((i>>1)&1) * half.Y(),
			float32((i>>2)&1) * half.Z(),
		}
		lo := o.box.Min.Add(off)
		subs[i] = &octant{box: AABB{Min: lo, Max: lo.Add(half)}}
	}

	for _, ti := range o.tris {
		for _, s := range subs {
			if boxIntersectsTriangle(s.box, all[ti]) {
				s.tris = append(s.tris, ti)
			}
		}
	}
	o.tris = nil

	for _, s := range subs {
		if len(s.tris) == 0 {
			continue
		}
		if len(s.tris) > TrianglesPerLeaf && level < MaxDepth {
			s.split(all, level+1)
		}
		o.children = append(o.children, s)
	}
}

// Len returns the number of indexed triangles.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.triangles)
}

// Bounds returns the padded root box, or an empty box for an empty index.
func (idx *Index) Bounds() AABB {
	if idx == nil || idx.root == nil {
		return AABB{}
	}
	return idx.root.box
}

// Depth returns the number of octree levels below the root.
func (idx *Index) Depth() int {
	if idx == nil || idx.root == nil {
		return 0
	}
	return idx.root.depth()
}

func (o *octant) depth() int {
	d := 0
	for _, c := range o.children {
		d = max(d, c.depth()+1)
	}
	return d
}

// candidates returns the de-duplicated triangle indices whose leaves
// overlap box, in ascending order.
func (idx *Index) candidates(box AABB) []int32 {
	var out []int32
	var visit func(o *octant)
	visit = func(o *octant) {
		for _, c := range o.children {
			if !box.Overlaps(c.box) {
				continue
			}
			if len(c.tris) > 0 {
				out = append(out, c.tris...)
			} else {
				visit(c)
			}
		}
	}
	if idx.root.box.Overlaps(box) {
		visit(idx.root)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// IntersectCapsule resolves overlap between c and the indexed triangles.
// Each overlapping triangle pushes a scratch copy of the capsule out along
// its contact normal; the result is the total displacement of the capsule
// center. The input capsule is not modified.
func (idx *Index) IntersectCapsule(c Capsule) (Hit, bool) {
	if idx == nil || idx.root == nil {
		return Hit{}, false
	}

	moved := c
	hit := false
	for _, ti := range idx.candidates(c.Bounds()) {
		n, depth, ok := triangleCapsule(moved, idx.triangles[ti])
		if !ok {
			continue
		}
		hit = true
		moved.Translate(n.Mul(depth))
	}
	if !hit {
		return Hit{}, false
	}

	disp := moved.Center().Sub(c.Center())
	depth := disp.Len()
	if depth < epsilon {
		return Hit{}, false
	}
	return Hit{Normal: disp.Mul(1 / depth), Depth: depth}, true
}

// triangleCapsule tests one triangle against a capsule, returning the
// push-out normal and penetration depth.
func triangleCapsule(c Capsule, t Triangle) (mgl32.Vec3, float32, bool) {
	n := t.Normal()
	constant := -n.Dot(t.A)
	d1 := n.Dot(c.Start) + constant - c.Radius
	d2 := n.Dot(c.End) + constant - c.Radius

	if (d1 > 0 && d2 > 0) || (d1 < -c.Radius && d2 < -c.Radius) {
		return mgl32.Vec3{}, 0, false
	}

	delta := float32(0)
	if sum := abs(d1) + abs(d2); sum > epsilon {
		delta = abs(d1 / sum)
	}
	p := c.Start.Add(c.End.Sub(c.Start).Mul(delta))
	if t.ContainsPoint(p) {
		return n, abs(min(d1, d2)), true
	}

	r2 := c.Radius * c.Radius
	edges := [3][2]mgl32.Vec3{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
	for _, e := range edges {
		p1, p2 := closestSegmentPoints(c.Start, c.End, e[0], e[1])
		diff := p1.Sub(p2)
		if diff.Dot(diff) < r2 {
			dist := diff.Len()
			if dist < epsilon {
				return n, c.Radius, true
			}
			return diff.Mul(1 / dist), c.Radius - dist, true
		}
	}
	return mgl32.Vec3{}, 0, false
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
