// Package scenegraph holds a named node hierarchy with triangle meshes,
// decoded from glTF/GLB world assets.
package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is an indexed triangle list with one flat base colour.
type Primitive struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
	Color     mgl32.Vec4
}

// TriangleCount returns the number of triangles in the primitive.
func (p *Primitive) TriangleCount() int {
	return len(p.Indices) / 3
}

// Transform returns a copy of the primitive with positions multiplied by m
// and normals by its inverse transpose.
func (p *Primitive) Transform(m mgl32.Mat4) Primitive {
	out := Primitive{
		Positions: make([]mgl32.Vec3, len(p.Positions)),
		Normals:   make([]mgl32.Vec3, len(p.Normals)),
		Indices:   append([]uint32(nil), p.Indices...),
		Color:     p.Color,
	}
	normalMat := m.Mat3().Inv().Transpose()
	for i, v := range p.Positions {
		out.Positions[i] = mgl32.TransformCoordinate(v, m)
	}
	for i, n := range p.Normals {
		out.Normals[i] = safeNormalize(normalMat.Mul3x1(n))
	}
	return out
}

// Mesh is a list of primitives attached to one node.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Node is one element of the scene hierarchy.
type Node struct {
	Name        string
	Parent      *Node
	Children    []*Node
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
	Mesh        *Mesh
	Hidden      bool
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// AddChild attaches child under n.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// World returns the node's transform in scene space.
func (n *Node) World() mgl32.Mat4 {
	m := n.Local()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// WorldPosition returns the node's origin in scene space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.World().Col(3).Vec3()
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Primitives returns this node's own mesh primitives transformed by
// space * World(). Children are not included.
func (n *Node) Primitives(space mgl32.Mat4) []Primitive {
	if n.Mesh == nil {
		return nil
	}
	m := space.Mul4(n.World())
	out := make([]Primitive, 0, len(n.Mesh.Primitives))
	for i := range n.Mesh.Primitives {
		out = append(out, n.Mesh.Primitives[i].Transform(m))
	}
	return out
}

// SubtreePrimitives returns the primitives of n and every descendant.
func (n *Node) SubtreePrimitives(space mgl32.Mat4) []Primitive {
	var out []Primitive
	n.Walk(func(c *Node) bool {
		out = append(out, c.Primitives(space)...)
		return true
	})
	return out
}

// Triangles flattens the subtree's meshes into triangle corner triples.
func (n *Node) Triangles(space mgl32.Mat4) [][3]mgl32.Vec3 {
	var tris [][3]mgl32.Vec3
	for _, p := range n.SubtreePrimitives(space) {
		for i := 0; i+2 < len(p.Indices); i += 3 {
			tris = append(tris, [3]mgl32.Vec3{
				p.Positions[p.Indices[i]],
				p.Positions[p.Indices[i+1]],
				p.Positions[p.Indices[i+2]],
			})
		}
	}
	return tris
}

// Yaw returns the rotation about +Y encoded in the node's local rotation.
func (n *Node) Yaw() float32 {
	fwd := n.Rotation.Normalize().Rotate(mgl32.Vec3{0, 0, 1})
	return atan2(fwd.X(), fwd.Z())
}

// Scene is a decoded world asset.
type Scene struct {
	Roots []*Node
}

// Walk visits every node in every root.
func (s *Scene) Walk(fn func(*Node) bool) {
	for _, r := range s.Roots {
		r.Walk(fn)
	}
}

// Find returns the first node with the given name.
func (s *Scene) Find(name string) *Node {
	for _, r := range s.Roots {
		if n := r.Find(name); n != nil {
			return n
		}
	}
	return nil
}

// Stats summarizes a scene.
type Stats struct {
	Nodes     int
	Meshes    int
	Triangles int
}

// Stats counts nodes, meshes and triangles.
func (s *Scene) Stats() Stats {
	var st Stats
	s.Walk(func(n *Node) bool {
		st.Nodes++
		if n.Mesh != nil {
			st.Meshes++
			for i := range n.Mesh.Primitives {
				st.Triangles += n.Mesh.Primitives[i].TriangleCount()
			}
		}
		return true
	})
	return st
}
