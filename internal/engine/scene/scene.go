// Package scene describes what to draw each frame as plain data, so the
// simulation can build frames without a GL context.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/folio3d/parkwalk/pkg/scenegraph"
)

// Drawable is geometry uploaded once and drawn many times.
type Drawable struct {
	Name       string
	Primitives []scenegraph.Primitive
	CastShadow bool
}

// TriangleCount returns the number of triangles over all primitives.
func (d *Drawable) TriangleCount() int {
	n := 0
	for i := range d.Primitives {
		n += d.Primitives[i].TriangleCount()
	}
	return n
}

// Instance places a drawable in the world.
type Instance struct {
	Drawable *Drawable
	Model    mgl32.Mat4
}

// Frame is everything the renderer needs for one image.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Background mgl32.Vec3

	SunDir   mgl32.Vec3 // unit vector towards the sun
	SunColor mgl32.Vec3 // colour times intensity
	Ambient  mgl32.Vec3 // colour times intensity

	Shadows       bool
	LightViewProj mgl32.Mat4
	NormalBias    float32

	Instances []Instance
}

// Reset clears the instance list, keeping its storage.
func (f *Frame) Reset() {
	f.Instances = f.Instances[:0]
}

// Add appends an instance. Nil drawables are ignored.
func (f *Frame) Add(d *Drawable, model mgl32.Mat4) {
	if d == nil {
		return
	}
	f.Instances = append(f.Instances, Instance{Drawable: d, Model: model})
}

// ViewProjection returns Projection * View.
func (f *Frame) ViewProjection() mgl32.Mat4 {
	return f.Projection.Mul4(f.View)
}
