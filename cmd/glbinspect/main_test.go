package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// writeWorld saves a small park with the given named mesh nodes.
func writeWorld(t *testing.T, names ...string) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, 0, -1}, {-1, 0, 1}, {1, 0, 1}, {1, 0, -1}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: gltf.Attribute{gltf.POSITION: pos},
		}},
	}}

	root := &gltf.Node{Name: "Scene"}
	doc.Nodes = []*gltf.Node{root}
	for i, name := range names {
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        name,
			Mesh:        gltf.Index(0),
			Translation: [3]float64{float64(i) * 3, 0, 0},
		})
		root.Children = append(root.Children, uint32(i+1))
	}
	doc.Scenes[0].Nodes = []uint32{0}

	path := filepath.Join(t.TempDir(), "park.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestNodes(t *testing.T) {
	path := writeWorld(t, "Ground_Collider", "Character")
	var out, errOut bytes.Buffer
	if code := run([]string{"nodes", path}, &out, &errOut); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
	got := out.String()
	for _, want := range []string{"Scene", "  Ground_Collider  [2 tris]", "  Character", "3 nodes, 2 meshes, 4 triangles"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	run([]string{"nodes", "-depth", "1", path}, &out, &errOut)
	if strings.Contains(out.String(), "Character") {
		t.Errorf("depth 1 should print only roots:\n%s", out.String())
	}
}

func TestCheckComplete(t *testing.T) {
	path := writeWorld(t,
		"Ground_Collider", "Character",
		"Project_1", "Project_2", "Project_3", "Picnic", "Chest",
		"Squirtle", "Chicken", "Pikachu", "Bulbasaur", "Charmander", "Snorlax",
	)
	var out, errOut bytes.Buffer
	if code := run([]string{"check", path}, &out, &errOut); code != 0 {
		t.Fatalf("exit %d:\n%s%s", code, out.String(), errOut.String())
	}
	got := out.String()
	for _, want := range []string{"2 triangles", "creature (heavy)", "OK"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCheckMissingNodes(t *testing.T) {
	path := writeWorld(t, "Ground", "Chest")
	var out, errOut bytes.Buffer
	if code := run([]string{"check", path}, &out, &errOut); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	if !strings.Contains(out.String(), "Avatar    Character        MISSING") {
		t.Errorf("avatar should be reported missing:\n%s", out.String())
	}

	// Renaming the expected nodes fixes the collider and avatar.
	out.Reset()
	run([]string{"check", "-collider", "Ground", "-avatar", "Chest", path}, &out, &errOut)
	if strings.Contains(out.String(), "Avatar    Chest            MISSING") {
		t.Errorf("-avatar should be honored:\n%s", out.String())
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{nil, 1},
		{[]string{"bogus"}, 1},
		{[]string{"nodes"}, 1},
		{[]string{"check"}, 1},
		{[]string{"check", filepath.Join(t.TempDir(), "missing.glb")}, 1},
		{[]string{"help"}, 0},
	}
	for _, tt := range tests {
		var out, errOut bytes.Buffer
		if code := run(tt.args, &out, &errOut); code != tt.code {
			t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.code)
		}
	}
}
