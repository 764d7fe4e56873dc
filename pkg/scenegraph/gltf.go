package scenegraph

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoScene is returned when a document has no scene to instantiate.
var ErrNoScene = errors.New("scenegraph: document has no scene")

var defaultColor = mgl32.Vec4{0.8, 0.8, 0.8, 1}

// Load opens a .gltf or .glb file and decodes its default scene.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	scene, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return scene, nil
}

// FromDocument builds a Scene from an already decoded glTF document.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}
	if sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", sceneIdx)
	}

	d := decoder{doc: doc, meshes: make(map[int]*Mesh)}
	scene := &Scene{}
	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		n, err := d.node(int(idx), 0)
		if err != nil {
			return nil, err
		}
		scene.Roots = append(scene.Roots, n)
	}
	return scene, nil
}

const maxDepth = 64

type decoder struct {
	doc    *gltf.Document
	meshes map[int]*Mesh
}

func (d *decoder) node(idx, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxDepth)
	}
	if idx < 0 || idx >= len(d.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	src := d.doc.Nodes[idx]

	n := NewNode(src.Name)
	if !applyMatrix(n, src.Matrix) {
		n.Translation = vec3(src.Translation)
		if src.Rotation != [4]float64{} {
			n.Rotation = mgl32.Quat{
				W: float32(src.Rotation[3]),
				V: mgl32.Vec3{float32(src.Rotation[0]), float32(src.Rotation[1]), float32(src.Rotation[2])},
			}
		}
		if src.Scale != [3]float64{} {
			n.Scale = vec3(src.Scale)
		}
	}

	if src.Mesh != nil {
		m, err := d.mesh(int(*src.Mesh))
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", src.Name, err)
		}
		n.Mesh = m
	}

	for _, c := range src.Children {
		child, err := d.node(int(c), depth+1)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// applyMatrix decomposes a non-identity node matrix into TRS. Shear is not
// representable and is dropped.
func applyMatrix(n *Node, m [16]float64) bool {
	identity := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if m == identity || m == [16]float64{} {
		return false
	}
	var mat mgl32.Mat4
	for i := range m {
		mat[i] = float32(m[i])
	}
	n.Translation = mat.Col(3).Vec3()
	sx := mat.Col(0).Vec3().Len()
	sy := mat.Col(1).Vec3().Len()
	sz := mat.Col(2).Vec3().Len()
	n.Scale = mgl32.Vec3{sx, sy, sz}
	rot := mgl32.Mat3FromCols(
		mat.Col(0).Vec3().Mul(1/sx),
		mat.Col(1).Vec3().Mul(1/sy),
		mat.Col(2).Vec3().Mul(1/sz),
	)
	n.Rotation = mgl32.Mat4ToQuat(rot.Mat4())
	return true
}

func (d *decoder) mesh(idx int) (*Mesh, error) {
	if m, ok := d.meshes[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(d.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}
	src := d.doc.Meshes[idx]
	m := &Mesh{Name: src.Name}
	for i, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		prim, err := d.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
		}
		m.Primitives = append(m.Primitives, prim)
	}
	d.meshes[idx] = m
	return m, nil
}

func (d *decoder) primitive(p *gltf.Primitive) (Primitive, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return Primitive{}, errors.New("missing POSITION attribute")
	}
	raw, err := modeler.ReadPosition(d.doc, d.doc.Accessors[posIdx], nil)
	if err != nil {
		return Primitive{}, fmt.Errorf("read positions: %w", err)
	}
	prim := Primitive{
		Positions: make([]mgl32.Vec3, len(raw)),
		Color:     d.baseColor(p.Material),
	}
	for i, v := range raw {
		prim.Positions[i] = mgl32.Vec3(v)
	}

	if p.Indices != nil {
		prim.Indices, err = modeler.ReadIndices(d.doc, d.doc.Accessors[*p.Indices], nil)
		if err != nil {
			return Primitive{}, fmt.Errorf("read indices: %w", err)
		}
	} else {
		prim.Indices = make([]uint32, len(raw))
		for i := range prim.Indices {
			prim.Indices[i] = uint32(i)
		}
	}
	for _, ix := range prim.Indices {
		if int(ix) >= len(prim.Positions) {
			return Primitive{}, fmt.Errorf("index %d out of range (%d vertices)", ix, len(prim.Positions))
		}
	}

	if nIdx, ok := p.Attributes[gltf.NORMAL]; ok {
		rawN, err := modeler.ReadNormal(d.doc, d.doc.Accessors[nIdx], nil)
		if err != nil {
			return Primitive{}, fmt.Errorf("read normals: %w", err)
		}
		if len(rawN) == len(raw) {
			prim.Normals = make([]mgl32.Vec3, len(rawN))
			for i, v := range rawN {
				prim.Normals[i] = mgl32.Vec3(v)
			}
		}
	}
	if prim.Normals == nil {
		prim.Normals = flatNormals(prim.Positions, prim.Indices)
	}
	return prim, nil
}

func (d *decoder) baseColor(material *uint32) mgl32.Vec4 {
	if material == nil || int(*material) >= len(d.doc.Materials) {
		return defaultColor
	}
	pbr := d.doc.Materials[*material].PBRMetallicRoughness
	if pbr == nil {
		return defaultColor
	}
	c := pbr.BaseColorFactorOrDefault()
	return mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
}

func vec3(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
