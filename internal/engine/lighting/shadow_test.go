package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLightViewProjCoversTarget(t *testing.T) {
	pos, target := SunPosition, SunTarget
	m := LightViewProj(pos, target, DefaultShadowFrustum)

	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"target", target, true},
		{"park origin", mgl32.Vec3{0, 0, 0}, true},
		{"behind the light", pos.Add(pos.Sub(target)), false},
		{"far off to the side", mgl32.Vec3{100, 0, 5000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InShadowVolume(m, tt.p); got != tt.want {
				t.Errorf("InShadowVolume(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestLightViewProjVertical(t *testing.T) {
	m := LightViewProj(mgl32.Vec3{0, 100, 0}, mgl32.Vec3{}, DefaultShadowFrustum)
	for i := 0; i < 16; i++ {
		v := m[i]
		if v != v {
			t.Fatalf("matrix has NaN at %d: %v", i, m)
		}
	}
	if !InShadowVolume(m, mgl32.Vec3{}) {
		t.Error("a vertical light should still see its target")
	}
}
