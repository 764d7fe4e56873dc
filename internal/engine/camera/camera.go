// Package camera provides the orthographic follow camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/folio3d/parkwalk/internal/engine/picking"
)

// Default follow tuning for the park scene.
var (
	DefaultOffset = mgl32.Vec3{-33, 39, -37}
	DefaultLead   = mgl32.Vec2{10, 10}
)

const (
	DefaultDrop          = 39
	DefaultZoom          = 2.2
	DefaultFrustum       = 50
	DefaultNear          = 1
	DefaultFar           = 1000
	DefaultMaxPixelRatio = 2
)

// FollowCamera is an orthographic camera that tracks the avatar from a fixed
// offset. It keeps no state between frames beyond its tuning and viewport.
type FollowCamera struct {
	// Offset from the avatar to the camera. When FollowHeight is false the
	// camera height is Offset.Y in world space, so hops don't bob the view.
	Offset       mgl32.Vec3
	FollowHeight bool

	// Lead shifts the look-at point horizontally from the avatar (X, Z);
	// Drop is how far below the camera the look-at point sits.
	Lead mgl32.Vec2
	Drop float32

	Zoom          float32
	Frustum       float32 // half height of the view volume before zoom
	Near, Far     float32
	MaxPixelRatio float32

	Position mgl32.Vec3
	Target   mgl32.Vec3

	width, height int
	pixelRatio    float32
}

// NewFollowCamera creates a camera with the park's default tuning.
func NewFollowCamera() *FollowCamera {
	return &FollowCamera{
		Offset:        DefaultOffset,
		Lead:          DefaultLead,
		Drop:          DefaultDrop,
		Zoom:          DefaultZoom,
		Frustum:       DefaultFrustum,
		Near:          DefaultNear,
		Far:           DefaultFar,
		MaxPixelRatio: DefaultMaxPixelRatio,
		width:         1,
		height:        1,
		pixelRatio:    1,
	}
}

// Follow places the camera relative to the avatar position.
func (c *FollowCamera) Follow(avatar mgl32.Vec3) {
	y := c.Offset.Y()
	if c.FollowHeight {
		y += avatar.Y()
	}
	c.Position = mgl32.Vec3{avatar.X() + c.Offset.X(), y, avatar.Z() + c.Offset.Z()}
	c.Target = mgl32.Vec3{avatar.X() + c.Lead.X(), c.Position.Y() - c.Drop, avatar.Z() + c.Lead.Y()}
}

// Resize records the viewport size in logical pixels and the display's
// device pixel ratio, which is capped at MaxPixelRatio.
func (c *FollowCamera) Resize(width, height int, devicePixelRatio float32) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.pixelRatio = max(min(devicePixelRatio, c.MaxPixelRatio), 1)
}

// Aspect returns width / height of the viewport.
func (c *FollowCamera) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

// PixelRatio returns the capped render scale.
func (c *FollowCamera) PixelRatio() float32 {
	return c.pixelRatio
}

// DrawableSize returns the framebuffer size to render at.
func (c *FollowCamera) DrawableSize() (int, int) {
	return int(float32(c.width) * c.pixelRatio), int(float32(c.height) * c.pixelRatio)
}

// View returns the view matrix.
func (c *FollowCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the orthographic projection matrix.
func (c *FollowCamera) Projection() mgl32.Mat4 {
	halfH := c.Frustum / c.Zoom
	halfW := halfH * c.Aspect()
	return mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
}

// RayFromNDC returns the world-space pick ray through a normalized device
// coordinate.
func (c *FollowCamera) RayFromNDC(ndc mgl32.Vec2) picking.Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	return picking.NDCToRay(ndc, inv)
}
