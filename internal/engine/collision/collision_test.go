package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < tolerance
}

func floor(y, half float32) []Triangle {
	return []Triangle{
		{A: mgl32.Vec3{-half, y, -half}, B: mgl32.Vec3{-half, y, half}, C: mgl32.Vec3{half, y, half}},
		{A: mgl32.Vec3{-half, y, -half}, B: mgl32.Vec3{half, y, half}, C: mgl32.Vec3{half, y, -half}},
	}
}

// wallX is a wall in the plane x=at facing -X.
func wallX(at float32) []Triangle {
	return []Triangle{
		{A: mgl32.Vec3{at, 0, -10}, B: mgl32.Vec3{at, 0, 10}, C: mgl32.Vec3{at, 10, 10}},
		{A: mgl32.Vec3{at, 0, -10}, B: mgl32.Vec3{at, 10, 10}, C: mgl32.Vec3{at, 10, -10}},
	}
}

func grid(n int, cell float32) []Triangle {
	var tris []Triangle
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0, z0 := float32(i)*cell, float32(j)*cell
			x1, z1 := x0+cell, z0+cell
			tris = append(tris,
				Triangle{A: mgl32.Vec3{x0, 0, z0}, B: mgl32.Vec3{x0, 0, z1}, C: mgl32.Vec3{x1, 0, z1}},
				Triangle{A: mgl32.Vec3{x0, 0, z0}, B: mgl32.Vec3{x1, 0, z1}, C: mgl32.Vec3{x1, 0, z0}},
			)
		}
	}
	return tris
}

func capsuleAt(base mgl32.Vec3) Capsule {
	const r = 0.35
	return Capsule{
		Start:  base.Add(mgl32.Vec3{0, r, 0}),
		End:    base.Add(mgl32.Vec3{0, 1, 0}),
		Radius: r,
	}
}

func TestTriangleNormal(t *testing.T) {
	n := floor(0, 1)[0].Normal()
	if !near(n.Y(), 1) {
		t.Errorf("floor normal = %v, want +Y", n)
	}
	w := wallX(1)[1].Normal()
	if !near(w.X(), -1) {
		t.Errorf("wall normal = %v, want -X", w)
	}
	degenerate := Triangle{A: mgl32.Vec3{1, 1, 1}, B: mgl32.Vec3{1, 1, 1}, C: mgl32.Vec3{2, 2, 2}}
	if degenerate.Normal() != (mgl32.Vec3{}) {
		t.Error("degenerate triangle should have zero normal")
	}
}

func TestFloorPushOut(t *testing.T) {
	idx := Build(floor(0, 10))

	hit, ok := idx.IntersectCapsule(capsuleAt(mgl32.Vec3{2, -0.1, 3}))
	if !ok {
		t.Fatal("expected a hit for a sunken capsule")
	}
	if !near(hit.Normal.Y(), 1) {
		t.Errorf("normal = %v, want +Y", hit.Normal)
	}
	if !near(hit.Depth, 0.1) {
		t.Errorf("depth = %v, want 0.1", hit.Depth)
	}
}

func TestNoHitAboveFloor(t *testing.T) {
	idx := Build(floor(0, 10))
	if _, ok := idx.IntersectCapsule(capsuleAt(mgl32.Vec3{0, 0.5, 0})); ok {
		t.Error("capsule above the floor should not hit")
	}
	if _, ok := idx.IntersectCapsule(capsuleAt(mgl32.Vec3{50, -0.1, 50})); ok {
		t.Error("capsule outside the indexed bounds should not hit")
	}
}

func TestWallPushOut(t *testing.T) {
	idx := Build(wallX(1))

	c := capsuleAt(mgl32.Vec3{0.8, 0.65, 0})
	hit, ok := idx.IntersectCapsule(c)
	if !ok {
		t.Fatal("expected wall hit")
	}
	if !near(hit.Normal.X(), -1) || !near(hit.Normal.Y(), 0) {
		t.Errorf("normal = %v, want -X", hit.Normal)
	}
	if !near(hit.Depth, 0.15) {
		t.Errorf("depth = %v, want 0.15", hit.Depth)
	}
	if c.Start.X() != 0.8 {
		t.Error("query must not modify the input capsule")
	}
}

func TestEdgeContact(t *testing.T) {
	// Capsule beside the floor's +X edge, sunk below its surface.
	idx := Build(floor(0, 1))
	hit, ok := idx.IntersectCapsule(capsuleAt(mgl32.Vec3{1.2, -0.5, 0}))
	if !ok {
		t.Fatal("expected edge hit")
	}
	if hit.Normal.X() <= 0 {
		t.Errorf("edge contact should push away from the edge, got %v", hit.Normal)
	}
}

func TestNilAndEmptyIndex(t *testing.T) {
	var idx *Index
	if _, ok := idx.IntersectCapsule(capsuleAt(mgl32.Vec3{})); ok {
		t.Error("nil index should never hit")
	}
	if idx.Len() != 0 || idx.Depth() != 0 {
		t.Error("nil index should be empty")
	}

	empty := Build(nil)
	if _, ok := empty.IntersectCapsule(capsuleAt(mgl32.Vec3{})); ok {
		t.Error("empty index should never hit")
	}

	onlyDegenerate := Build([]Triangle{{A: mgl32.Vec3{1, 0, 0}, B: mgl32.Vec3{1, 0, 0}, C: mgl32.Vec3{1, 0, 0}}})
	if onlyDegenerate.Len() != 0 {
		t.Errorf("degenerate triangles should be dropped, got %d", onlyDegenerate.Len())
	}
}

func TestOctreeMatchesBruteForce(t *testing.T) {
	tris := grid(20, 1)
	idx := Build(tris)
	if idx.Len() != len(tris) {
		t.Fatalf("Len = %d, want %d", idx.Len(), len(tris))
	}
	if idx.Depth() == 0 {
		t.Fatal("expected the grid to be subdivided")
	}

	bases := []mgl32.Vec3{{0.5, -0.05, 0.5}, {10.5, -0.2, 7.5}, {19.5, -0.1, 19.5}, {5.5, -0.3, 5.5}}
	for _, base := range bases {
		c := capsuleAt(base)
		got, gotOK := idx.IntersectCapsule(c)

		moved := c
		wantOK := false
		for _, tri := range tris {
			if n, d, ok := triangleCapsule(moved, tri); ok {
				wantOK = true
				moved.Translate(n.Mul(d))
			}
		}
		if gotOK != wantOK {
			t.Errorf("base %v: hit=%v, brute force %v", base, gotOK, wantOK)
			continue
		}
		want := moved.Center().Sub(c.Center())
		if !near(got.Depth, want.Len()) {
			t.Errorf("base %v: depth %v, brute force %v", base, got.Depth, want.Len())
		}
		if !near(got.Depth, -base.Y()) {
			t.Errorf("base %v: depth %v, want %v", base, got.Depth, -base.Y())
		}
	}
}

func TestBoxIntersectsTriangle(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	tests := []struct {
		name string
		tri  Triangle
		want bool
	}{
		{"inside", Triangle{A: mgl32.Vec3{0.2, 0.5, 0.2}, B: mgl32.Vec3{0.8, 0.5, 0.2}, C: mgl32.Vec3{0.5, 0.5, 0.8}}, true},
		{"far away", Triangle{A: mgl32.Vec3{5, 5, 5}, B: mgl32.Vec3{6, 5, 5}, C: mgl32.Vec3{5, 6, 5}}, false},
		{"spanning", Triangle{A: mgl32.Vec3{-5, 0.5, -5}, B: mgl32.Vec3{-5, 0.5, 5}, C: mgl32.Vec3{5, 0.5, 0}}, true},
		// Bounding boxes overlap, but the triangle passes beyond the corner.
		{"past corner", Triangle{A: mgl32.Vec3{3.5, 0, 0}, B: mgl32.Vec3{0, 3.5, 0}, C: mgl32.Vec3{0, 0, 3.5}}, false},
	}
	for _, tt := range tests {
		if got := boxIntersectsTriangle(box, tt.tri); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClosestSegmentPoints(t *testing.T) {
	p1, p2 := closestSegmentPoints(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 2, 0},
		mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{1, 1, 1},
	)
	if !near(p1.Y(), 1) || !near(p2.X(), 0) || !near(p2.Z(), 1) {
		t.Errorf("crossing segments: %v %v", p1, p2)
	}

	// Parallel segments pick some pair at the shared distance.
	p1, p2 = closestSegmentPoints(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0},
	)
	if !near(p1.Sub(p2).Len(), 1) {
		t.Errorf("parallel segments distance = %v, want 1", p1.Sub(p2).Len())
	}
}

func TestCapsuleHelpers(t *testing.T) {
	c := capsuleAt(mgl32.Vec3{1, 2, 3})
	c.Translate(mgl32.Vec3{0, 1, 0})
	if !near(c.Start.Y(), 3.35) || !near(c.End.Y(), 4) {
		t.Errorf("Translate moved to %v-%v", c.Start, c.End)
	}
	if !near(c.Center().Y(), 3.675) {
		t.Errorf("Center = %v", c.Center())
	}
	b := c.Bounds()
	if !near(b.Min.X(), 0.65) || !near(b.Max.Y(), 4.35) {
		t.Errorf("Bounds = %+v", b)
	}
}
