// Package renderer draws scene frames with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/engine/renderer/shaders"
	"github.com/folio3d/parkwalk/internal/engine/scene"
	"github.com/folio3d/parkwalk/internal/engine/shader"
	"github.com/folio3d/parkwalk/internal/engine/shadow"
	"github.com/folio3d/parkwalk/internal/logger"
	"github.com/folio3d/parkwalk/pkg/scenegraph"
)

// Config holds renderer configuration.
type Config struct {
	Width            int
	Height           int
	Shadows          bool
	ShadowResolution int32
}

// floats per interleaved vertex: position then normal
const vertexStride = 6

// mesh is one uploaded primitive.
type mesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	color         mgl32.Vec4
}

// Renderer handles all OpenGL rendering.
// IMPORTANT: every method must run on the thread owning the GL context.
type Renderer struct {
	config Config

	lambert *shader.Program
	depth   *shader.Program
	shadows *shadow.Map

	meshes map[*scene.Drawable][]mesh
	log    *zap.Logger
}

// New creates a renderer. Must be called after the GL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*scene.Drawable][]mesh),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var err error
	if r.lambert, err = shader.Compile(shaders.LambertVertexShader, shaders.LambertFragmentShader); err != nil {
		return nil, fmt.Errorf("lambert shader: %w", err)
	}
	if cfg.Shadows {
		if r.depth, err = shader.Compile(shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
			r.Close()
			return nil, fmt.Errorf("depth shader: %w", err)
		}
		if r.shadows, err = shadow.NewMap(cfg.ShadowResolution); err != nil {
			// Shadows are cosmetic; keep rendering without them.
			r.log.Warn("shadows disabled", zap.Error(err))
			r.depth.Delete()
			r.depth = nil
		}
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Upload copies drawables to GPU buffers. Drawables already uploaded are
// skipped.
func (r *Renderer) Upload(drawables []*scene.Drawable) error {
	triangles := 0
	for _, d := range drawables {
		if d == nil {
			continue
		}
		if _, ok := r.meshes[d]; ok {
			continue
		}
		meshes := make([]mesh, 0, len(d.Primitives))
		for i := range d.Primitives {
			p := &d.Primitives[i]
			if len(p.Indices) == 0 {
				continue
			}
			if len(p.Normals) != len(p.Positions) {
				return fmt.Errorf("drawable %q primitive %d: %d normals for %d positions",
					d.Name, i, len(p.Normals), len(p.Positions))
			}
			meshes = append(meshes, upload(p))
			triangles += p.TriangleCount()
		}
		r.meshes[d] = meshes
	}
	r.log.Debug("drawables uploaded",
		zap.Int("drawables", len(drawables)),
		zap.Int("triangles", triangles),
	)
	return nil
}

func upload(p *scenegraph.Primitive) mesh {
	vertices := interleave(p)
	m := mesh{indexCount: int32(len(p.Indices)), color: p.Color}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, unsafe.Pointer(&p.Indices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

// interleave packs positions and normals into one vertex buffer.
func interleave(p *scenegraph.Primitive) []float32 {
	out := make([]float32, 0, len(p.Positions)*vertexStride)
	for i, v := range p.Positions {
		n := p.Normals[i]
		out = append(out, v[0], v[1], v[2], n[0], n[1], n[2])
	}
	return out
}

// Render draws one frame: the shadow pass when enabled, then the lit pass.
func (r *Renderer) Render(f *scene.Frame) {
	shadowsOn := f.Shadows && r.shadows != nil
	if shadowsOn {
		r.renderDepth(f)
	}

	bg := f.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.lambert
	p.Use()
	vp := f.ViewProjection()
	lvp := f.LightViewProj
	gl.UniformMatrix4fv(p.Uniform("uViewProj"), 1, false, &vp[0])
	gl.UniformMatrix4fv(p.Uniform("uLightViewProj"), 1, false, &lvp[0])
	gl.Uniform1f(p.Uniform("uNormalBias"), f.NormalBias)
	gl.Uniform3fv(p.Uniform("uSunDir"), 1, &f.SunDir[0])
	gl.Uniform3fv(p.Uniform("uSunColor"), 1, &f.SunColor[0])
	gl.Uniform3fv(p.Uniform("uAmbient"), 1, &f.Ambient[0])

	var shadowFlag int32
	if shadowsOn {
		shadowFlag = 1
		r.shadows.BindTexture(gl.TEXTURE0)
		gl.Uniform1i(p.Uniform("uShadowMap"), 0)
	}
	gl.Uniform1i(p.Uniform("uShadows"), shadowFlag)

	locModel := p.Uniform("uModel")
	locColor := p.Uniform("uColor")
	for i := range f.Instances {
		in := &f.Instances[i]
		gl.UniformMatrix4fv(locModel, 1, false, &in.Model[0])
		for _, m := range r.meshes[in.Drawable] {
			gl.Uniform4fv(locColor, 1, &m.color[0])
			gl.BindVertexArray(m.vao)
			gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
		}
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) renderDepth(f *scene.Frame) {
	r.shadows.Bind()
	defer r.shadows.Unbind()

	p := r.depth
	p.Use()
	lvp := f.LightViewProj
	gl.UniformMatrix4fv(p.Uniform("uLightViewProj"), 1, false, &lvp[0])
	locModel := p.Uniform("uModel")
	for i := range f.Instances {
		in := &f.Instances[i]
		if !in.Drawable.CastShadow {
			continue
		}
		gl.UniformMatrix4fv(locModel, 1, false, &in.Model[0])
		for _, m := range r.meshes[in.Drawable] {
			gl.BindVertexArray(m.vao)
			gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
		}
	}
	gl.BindVertexArray(0)
}

// Resize updates the viewport to the drawable size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels returns the current back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return nil, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Close deletes every GPU object owned by the renderer.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for d, meshes := range r.meshes {
		for i := range meshes {
			m := &meshes[i]
			gl.DeleteVertexArrays(1, &m.vao)
			gl.DeleteBuffers(1, &m.vbo)
			gl.DeleteBuffers(1, &m.ebo)
		}
		delete(r.meshes, d)
	}
	if r.shadows != nil {
		r.shadows.Destroy()
		r.shadows = nil
	}
	if r.depth != nil {
		r.depth.Delete()
		r.depth = nil
	}
	if r.lambert != nil {
		r.lambert.Delete()
		r.lambert = nil
	}
}
