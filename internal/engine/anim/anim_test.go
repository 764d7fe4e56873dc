package anim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

var one = mgl32.Vec3{1, 1, 1}

func TestEaseEndpoints(t *testing.T) {
	eases := map[string]Ease{
		"linear":        Linear,
		"power1.inOut":  Power1InOut,
		"power2.out":    Power2Out,
		"power2.inOut":  Power2InOut,
		"bounce.out":    BounceOut,
		"elastic.out":   ElasticOut(1, 0.3),
		"elastic.small": ElasticOut(0.5, 0.3),
	}
	for name, e := range eases {
		if !near(e(0), 0) {
			t.Errorf("%s(0) = %v, want 0", name, e(0))
		}
		if !near(e(1), 1) {
			t.Errorf("%s(1) = %v, want 1", name, e(1))
		}
	}
}

func TestEaseShapes(t *testing.T) {
	if !near(Power1InOut(0.5), 0.5) || !near(Power2InOut(0.5), 0.5) {
		t.Error("in-out curves should pass through the midpoint")
	}
	if Power2Out(0.5) <= 0.5 {
		t.Error("ease-out should be ahead of linear at the midpoint")
	}
	if !near(Power2Out(0.5), 0.875) {
		t.Errorf("Power2Out(0.5) = %v, want 0.875", Power2Out(0.5))
	}
	// Elastic overshoots early on.
	overshoot := false
	e := ElasticOut(1, 0.3)
	for i := 1; i < 100; i++ {
		if e(float32(i)/100) > 1 {
			overshoot = true
			break
		}
	}
	if !overshoot {
		t.Error("elastic ease should overshoot")
	}
}

func TestTimelineSequencing(t *testing.T) {
	tl := NewTimeline(one, mgl32.Vec3{})
	a := tl.Append(Scale, mgl32.Vec3{2, 2, 2}, 1, Linear)
	b := tl.With(Lift, mgl32.Vec3{0, 4, 0}, 2, Linear)
	c := tl.Append(Scale, one, 1, Linear)
	d := tl.Then(Lift, mgl32.Vec3{}, 0.5, Linear)

	if a.Start != 0 || b.Start != 0 || c.Start != 2 || d.Start != 3 {
		t.Errorf("starts = %v %v %v %v, want 0 0 2 3", a.Start, b.Start, c.Start, d.Start)
	}
	if tl.Duration() != 3.5 {
		t.Errorf("Duration = %v, want 3.5", tl.Duration())
	}

	tl.Advance(0.5)
	if !near(tl.Value(Scale).X(), 1.5) || !near(tl.Value(Lift).Y(), 1) {
		t.Errorf("at 0.5: scale %v lift %v", tl.Value(Scale), tl.Value(Lift))
	}
	if tl.Phase() != 0 {
		t.Errorf("Phase = %d, want 0", tl.Phase())
	}

	tl.Advance(2)
	if !near(tl.Value(Scale).X(), 1.5) {
		t.Errorf("at 2.5 scale = %v, want 1.5 on the way back", tl.Value(Scale))
	}
	if !near(tl.Value(Lift).Y(), 4) {
		t.Errorf("at 2.5 lift = %v, want 4", tl.Value(Lift))
	}

	tl.Advance(10)
	if !tl.Done() {
		t.Error("timeline should be done")
	}
	if tl.Value(Scale) != one || tl.Value(Lift) != (mgl32.Vec3{}) {
		t.Errorf("final values %v %v", tl.Value(Scale), tl.Value(Lift))
	}
	if tl.Elapsed() != 3.5 {
		t.Errorf("Elapsed should clamp to the duration, got %v", tl.Elapsed())
	}
}

func TestTimelineLargeStepKeepsOrder(t *testing.T) {
	tl := NewTimeline(one, mgl32.Vec3{})
	tl.Append(Scale, mgl32.Vec3{3, 3, 3}, 0.1, Linear)
	tl.Append(Scale, mgl32.Vec3{5, 5, 5}, 0.1, Linear)

	// One step spanning both tweens: the second starts from the first's end.
	tl.Advance(0.15)
	if !near(tl.Value(Scale).X(), 4) {
		t.Errorf("scale = %v, want 4", tl.Value(Scale))
	}
}

func TestCompletionFiresOnce(t *testing.T) {
	calls := 0
	tl := NewTimeline(one, mgl32.Vec3{})
	tw := tl.Append(Lift, mgl32.Vec3{0, 1, 0}, 0.2, Linear)
	tw.OnComplete = func() { calls++ }

	for i := 0; i < 10; i++ {
		tl.Advance(0.05)
	}
	if calls != 1 {
		t.Errorf("OnComplete fired %d times, want 1", calls)
	}
}

func TestHoldExtendsDuration(t *testing.T) {
	tl := AvatarSquash(one)
	if !near(tl.Duration(), 0.5) {
		t.Errorf("avatar squash duration = %v, want 0.5", tl.Duration())
	}
	tl.Advance(0.42)
	if tl.Done() {
		t.Error("hold should keep the timeline running")
	}
	if tl.Value(Scale) != one {
		t.Errorf("scale should be back to rest during the hold, got %v", tl.Value(Scale))
	}
	tl.Advance(0.1)
	if !tl.Done() {
		t.Error("timeline should finish after the hold")
	}
}

func TestAvatarSquashShape(t *testing.T) {
	tl := AvatarSquash(one)
	tl.Advance(0.1)
	if !tl.Value(Scale).ApproxEqual(mgl32.Vec3{1.08, 0.9, 1.08}) {
		t.Errorf("after squash: %v", tl.Value(Scale))
	}
	tl.Advance(0.15)
	if !tl.Value(Scale).ApproxEqual(mgl32.Vec3{0.92, 1.1, 0.92}) {
		t.Errorf("after stretch: %v", tl.Value(Scale))
	}
}

func TestCreatureBouncePhases(t *testing.T) {
	landed := 0
	tl := CreatureBounce(one, one, mgl32.Vec3{}, false, func() { landed++ })
	if !near(tl.Duration(), 0.85) {
		t.Fatalf("duration = %v, want 0.85", tl.Duration())
	}

	steps := []struct {
		advance   float32
		phase     int
		landed    int
		wantLiftY float32
	}{
		{0.1, PhaseStretch, 0, 0},
		{0.25, PhaseRecover, 0, BounceHeight},
		{0.15, PhaseFall, 0, BounceHeight},
		{0.25, PhaseSettle, 1, 0},
		{0.1, PhaseSettle + 1, 1, 0},
	}
	for i, s := range steps {
		tl.Advance(s.advance)
		if tl.Phase() != s.phase {
			t.Errorf("step %d: phase = %d, want %d", i, tl.Phase(), s.phase)
		}
		if landed != s.landed {
			t.Errorf("step %d: landed = %d, want %d", i, landed, s.landed)
		}
		if !near(tl.Value(Lift).Y(), s.wantLiftY) {
			t.Errorf("step %d: lift = %v, want %v", i, tl.Value(Lift).Y(), s.wantLiftY)
		}
	}
	if !tl.Done() || tl.Value(Scale) != one {
		t.Errorf("bounce should end at rest scale, got %v", tl.Value(Scale))
	}
}

func TestHeavyBounceIsRelativeAndShorter(t *testing.T) {
	base := mgl32.Vec3{2, 2, 2}
	landed := false
	tl := CreatureBounce(base, base, mgl32.Vec3{}, true, func() { landed = true })
	if !near(tl.Duration(), 0.75) {
		t.Errorf("heavy duration = %v, want 0.75", tl.Duration())
	}

	tl.Advance(0.1)
	if !tl.Value(Scale).ApproxEqual(mgl32.Vec3{2.4, 1.6, 2.4}) {
		t.Errorf("heavy squash = %v, want relative to base", tl.Value(Scale))
	}
	tl.Advance(1)
	if !landed || !tl.Done() {
		t.Error("heavy bounce should land and finish")
	}
	if tl.Value(Scale) != base {
		t.Errorf("heavy bounce should return to base scale, got %v", tl.Value(Scale))
	}
}
