package lighting

import "github.com/go-gl/mathgl/mgl32"

// ShadowFrustum is the orthographic volume of the sun's shadow camera, in light
// view space.
type ShadowFrustum struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// DefaultShadowFrustum covers the park seen from the sun position.
var DefaultShadowFrustum = ShadowFrustum{
	Left: -150, Right: 300,
	Bottom: -100, Top: 150,
	Near: 0.5, Far: 500,
}

// ShadowNormalBias offsets receivers along their normal before the depth
// comparison, in world units.
const ShadowNormalBias = 0.2

// LightViewProj returns the view-projection of a directional light placed at
// position and aimed at target.
func LightViewProj(position, target mgl32.Vec3, f ShadowFrustum) mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	// A vertical light would make the basis degenerate.
	if dir := position.Sub(target); dir.Len() > 0 && abs32(dir.Normalize().Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(position, target, up)
	proj := mgl32.Ortho(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
	return proj.Mul4(view)
}

// InShadowVolume reports whether a world point falls inside the light's clip
// volume.
func InShadowVolume(lightViewProj mgl32.Mat4, p mgl32.Vec3) bool {
	c := lightViewProj.Mul4x1(p.Vec4(1))
	ndc := c.Vec3().Mul(1 / c.W())
	return abs32(ndc.X()) <= 1 && abs32(ndc.Y()) <= 1 && abs32(ndc.Z()) <= 1
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
