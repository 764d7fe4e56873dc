// glbinspect checks a park world asset before it is shipped.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/folio3d/parkwalk/internal/game/world"
	"github.com/folio3d/parkwalk/pkg/scenegraph"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command, args := args[0], args[1:]
	switch command {
	case "nodes", "tree":
		return cmdNodes(args, stdout, stderr)
	case "check":
		return cmdCheck(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `glbinspect - park world asset inspector

Usage:
  glbinspect <command> [options] <file.glb>

Commands:
  nodes [-depth N] <file.glb>    Print the node tree
  check [-collider NAME] [-avatar NAME] <file.glb>
                                 Verify the nodes the park needs

Examples:
  glbinspect nodes -depth 2 Portfolio.glb
  glbinspect check Portfolio.glb`)
}

func cmdNodes(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nodes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	depth := fs.Int("depth", 0, "Maximum depth to print (0 = all)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Usage: glbinspect nodes [-depth N] <file.glb>")
		return 1
	}

	s, err := scenegraph.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printTree(stdout, s, *depth)

	st := s.Stats()
	fmt.Fprintf(stdout, "\n%d nodes, %d meshes, %d triangles\n", st.Nodes, st.Meshes, st.Triangles)
	return 0
}

func printTree(w io.Writer, s *scenegraph.Scene, maxDepth int) {
	var visit func(n *scenegraph.Node, depth int)
	visit = func(n *scenegraph.Node, depth int) {
		if maxDepth > 0 && depth >= maxDepth {
			return
		}
		line := strings.Repeat("  ", depth) + n.Name
		if n.Name == "" {
			line += "(unnamed)"
		}
		if n.Mesh != nil {
			tris := 0
			for i := range n.Mesh.Primitives {
				tris += n.Mesh.Primitives[i].TriangleCount()
			}
			line += fmt.Sprintf("  [%d tris]", tris)
		}
		fmt.Fprintln(w, line)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range s.Roots {
		visit(r, 0)
	}
}

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	cfg := world.DefaultConfig()

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.ColliderNode, "collider", cfg.ColliderNode, "Collision mesh node name")
	fs.StringVar(&cfg.AvatarNode, "avatar", cfg.AvatarNode, "Avatar node name")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Usage: glbinspect check [-collider NAME] [-avatar NAME] <file.glb>")
		return 1
	}

	s, err := scenegraph.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !report(stdout, s, cfg) {
		return 2
	}
	return 0
}

// report builds the world as the park would and prints what it found. It
// returns false when anything the park looks for is missing.
func report(w io.Writer, s *scenegraph.Scene, cfg world.Config) bool {
	built, err := world.Build(s, cfg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return false
	}

	idx := built.Index
	fmt.Fprintf(w, "Collider  %-16s %d triangles, octree depth %d\n", cfg.ColliderNode, idx.Len(), idx.Depth())
	if idx.Len() > 0 {
		b := idx.Bounds()
		fmt.Fprintf(w, "          bounds %v .. %v\n", b.Min, b.Max)
	}

	if a := built.Avatar; a != nil {
		fmt.Fprintf(w, "Avatar    %-16s spawn %v yaw %.2f scale %v\n", cfg.AvatarNode, a.Spawn, a.Yaw, a.BaseScale)
	} else {
		fmt.Fprintf(w, "Avatar    %-16s MISSING\n", cfg.AvatarNode)
	}

	for _, name := range cfg.Interactive {
		o, ok := built.Registry.Lookup(name)
		if !ok {
			fmt.Fprintf(w, "Object    %-16s MISSING\n", name)
			continue
		}
		kind := o.Kind.String()
		if o.Heavy {
			kind += " (heavy)"
		}
		fmt.Fprintf(w, "Object    %-16s %s, %d triangles\n", name, kind, o.Drawable.TriangleCount())
	}

	fmt.Fprintf(w, "Static    %d triangles\n", built.Static.TriangleCount())
	if len(built.Warnings) > 0 {
		fmt.Fprintf(w, "\n%d problem(s):\n", len(built.Warnings))
		for _, msg := range built.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
		return false
	}
	fmt.Fprintln(w, "\nOK")
	return true
}
