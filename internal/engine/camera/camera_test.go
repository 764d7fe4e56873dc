package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestFollowPlacement(t *testing.T) {
	c := NewFollowCamera()
	c.Follow(mgl32.Vec3{5, 3, -2})

	want := mgl32.Vec3{5 - 33, 39, -2 - 37}
	if !c.Position.ApproxEqual(want) {
		t.Errorf("Position = %v, want %v", c.Position, want)
	}
	wantTarget := mgl32.Vec3{15, 0, 8}
	if !c.Target.ApproxEqual(wantTarget) {
		t.Errorf("Target = %v, want %v", c.Target, wantTarget)
	}
}

func TestFollowIsStateless(t *testing.T) {
	a := NewFollowCamera()
	b := NewFollowCamera()

	a.Follow(mgl32.Vec3{100, 0, 100})
	a.Follow(mgl32.Vec3{1, 2, 3})
	b.Follow(mgl32.Vec3{1, 2, 3})

	if a.Position != b.Position || a.Target != b.Target {
		t.Error("camera placement should depend only on the current avatar position")
	}
}

func TestFollowHeight(t *testing.T) {
	c := NewFollowCamera()
	c.FollowHeight = true
	c.Follow(mgl32.Vec3{0, 4, 0})
	if !near(c.Position.Y(), 43) {
		t.Errorf("Position.Y = %v, want 43", c.Position.Y())
	}
	if !near(c.Target.Y(), 4) {
		t.Errorf("Target.Y = %v, want 4", c.Target.Y())
	}
}

func TestResizePixelRatio(t *testing.T) {
	tests := []struct {
		dpr       float32
		wantRatio float32
		wantW     int
	}{
		{1, 1, 800},
		{1.5, 1.5, 1200},
		{2, 2, 1600},
		{3, 2, 1600},
		{0, 1, 800},
	}
	for _, tt := range tests {
		c := NewFollowCamera()
		c.Resize(800, 600, tt.dpr)
		if c.PixelRatio() != tt.wantRatio {
			t.Errorf("dpr %v: PixelRatio = %v, want %v", tt.dpr, c.PixelRatio(), tt.wantRatio)
		}
		if w, _ := c.DrawableSize(); w != tt.wantW {
			t.Errorf("dpr %v: drawable width = %d, want %d", tt.dpr, w, tt.wantW)
		}
	}
}

func TestProjectionFrustum(t *testing.T) {
	c := NewFollowCamera()
	c.Resize(1600, 800, 1)

	// A point at the right edge of the zoomed frustum maps to NDC x = 1.
	halfW := float32(2 * 50 / 2.2)
	p := c.Projection().Mul4x1(mgl32.Vec4{halfW, 0, -10, 1})
	if !near(p.X(), 1) {
		t.Errorf("right edge NDC x = %v, want 1", p.X())
	}
	top := c.Projection().Mul4x1(mgl32.Vec4{0, 50 / 2.2, -10, 1})
	if !near(top.Y(), 1) {
		t.Errorf("top edge NDC y = %v, want 1", top.Y())
	}
}

func TestRayFromNDCHitsTarget(t *testing.T) {
	c := NewFollowCamera()
	c.Resize(1280, 720, 1)
	c.Follow(mgl32.Vec3{0, 0, 0})

	r := c.RayFromNDC(mgl32.Vec2{0, 0})
	forward := c.Target.Sub(c.Position).Normalize()
	if !r.Direction.ApproxEqualThreshold(forward, 1e-3) {
		t.Errorf("center ray direction = %v, want %v", r.Direction, forward)
	}

	// The center ray passes through the look-at point.
	toTarget := c.Target.Sub(r.Origin)
	along := toTarget.Dot(r.Direction)
	closest := r.Origin.Add(r.Direction.Mul(along))
	if closest.Sub(c.Target).Len() > 1e-2 {
		t.Errorf("center ray misses the target by %v", closest.Sub(c.Target).Len())
	}
}
