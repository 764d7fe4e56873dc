// Package world turns a decoded world asset into the pieces the park runs
// on: the collision index, the pickable objects, the avatar and the static
// scenery.
package world

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/engine/collision"
	"github.com/folio3d/parkwalk/internal/engine/scene"
	"github.com/folio3d/parkwalk/internal/game/interaction"
	"github.com/folio3d/parkwalk/internal/logger"
	"github.com/folio3d/parkwalk/pkg/scenegraph"
)

// Config names the asset and the nodes that matter in it.
type Config struct {
	AssetPath     string
	ColliderNode  string
	AvatarNode    string
	Interactive   []string
	Creatures     []string
	HeavyCreature string
}

// DefaultConfig returns the stock park layout.
func DefaultConfig() Config {
	return Config{
		AssetPath:    "Portfolio.glb",
		ColliderNode: "Ground_Collider",
		AvatarNode:   "Character",
		Interactive: []string{
			"Project_1", "Project_2", "Project_3",
			"Picnic", "Chest",
			"Squirtle", "Chicken", "Pikachu", "Bulbasaur", "Charmander", "Snorlax",
		},
		Creatures:     []string{"Bulbasaur", "Chicken", "Pikachu", "Charmander", "Squirtle", "Snorlax"},
		HeavyCreature: "Snorlax",
	}
}

// Avatar is what the world asset says about the controlled character.
type Avatar struct {
	Spawn     mgl32.Vec3
	Yaw       float32
	BaseScale mgl32.Vec3
	// Drawable is in the avatar node's local space, before its scale.
	Drawable *scene.Drawable
}

// World is a built park. It is immutable once Build returns.
type World struct {
	Scene    *scenegraph.Scene
	Index    *collision.Index
	Registry *interaction.Registry
	Avatar   *Avatar // nil when the asset has no avatar node
	Static   *scene.Drawable
	Warnings []string
}

// Drawables lists every drawable the renderer must upload.
func (w *World) Drawables() []*scene.Drawable {
	out := []*scene.Drawable{w.Static}
	for _, o := range w.Registry.Entries() {
		out = append(out, o.Drawable)
	}
	if w.Avatar != nil {
		out = append(out, w.Avatar.Drawable)
	}
	return out
}

// Build extracts the park from a decoded scene. Missing nodes degrade the
// matching feature and are reported in Warnings; Build only fails on a nil
// scene.
func Build(s *scenegraph.Scene, cfg Config) (*World, error) {
	if s == nil {
		return nil, scenegraph.ErrNoScene
	}
	log := logger.Named("world")
	w := &World{
		Scene:    s,
		Registry: interaction.NewRegistry(),
	}
	warn := func(msg, node string) {
		log.Warn(msg, zap.String("node", node))
		w.Warnings = append(w.Warnings, fmt.Sprintf("%s: %s", msg, node))
	}

	// Collision mesh
	var colliderTris [][3]mgl32.Vec3
	if n := s.Find(cfg.ColliderNode); n != nil {
		n.Hidden = true
		colliderTris = n.Triangles(mgl32.Ident4())
	} else {
		warn("collider node missing", cfg.ColliderNode)
	}
	w.Index = collision.FromCorners(colliderTris)

	// Avatar
	if n := s.Find(cfg.AvatarNode); n != nil {
		w.Avatar = &Avatar{
			Spawn:     n.WorldPosition(),
			Yaw:       n.Yaw(),
			BaseScale: n.Scale,
			Drawable: &scene.Drawable{
				Name:       n.Name,
				Primitives: n.SubtreePrimitives(n.World().Inv()),
				CastShadow: true,
			},
		}
	} else {
		warn("avatar node missing", cfg.AvatarNode)
	}

	// Interactive objects and static scenery
	static := &scene.Drawable{Name: "static", CastShadow: true}
	s.Walk(func(n *scenegraph.Node) bool {
		if n.Hidden || n.Name == cfg.AvatarNode {
			return false
		}
		if slices.Contains(cfg.Interactive, n.Name) {
			if err := w.Registry.Add(newObject(n, cfg)); err != nil {
				warn(fmt.Sprintf("interactive node skipped (%v)", err), n.Name)
			}
			return false
		}
		static.Primitives = append(static.Primitives, n.Primitives(mgl32.Ident4())...)
		return true
	})
	w.Static = static
	w.Registry.Freeze()

	for _, name := range cfg.Interactive {
		if _, ok := w.Registry.Lookup(name); !ok {
			warn("interactive node missing", name)
		}
	}

	log.Info("world built",
		zap.Int("collider_triangles", w.Index.Len()),
		zap.Int("objects", w.Registry.Len()),
		zap.Int("static_triangles", static.TriangleCount()),
		zap.Bool("avatar", w.Avatar != nil),
	)
	return w, nil
}

func newObject(n *scenegraph.Node, cfg Config) *interaction.Object {
	kind := interaction.Info
	if slices.Contains(cfg.Creatures, n.Name) {
		kind = interaction.Creature
	}
	rest := n.World()
	inv := rest.Inv()
	d := &scene.Drawable{
		Name:       n.Name,
		Primitives: n.SubtreePrimitives(inv),
		CastShadow: true,
	}
	o := interaction.NewObject(n.Name, kind, rest, n.Triangles(inv), d)
	o.Heavy = kind == interaction.Creature && n.Name == cfg.HeavyCreature
	return o
}

// Result is the outcome of an asynchronous load.
type Result struct {
	World *World
	Err   error
}

// Opener decodes a world asset.
type Opener func(path string) (*scenegraph.Scene, error)

// Load decodes and builds the world on a new goroutine. The channel
// receives exactly one Result and is then closed. A nil open uses
// scenegraph.Load.
func Load(ctx context.Context, cfg Config, open Opener) <-chan Result {
	if open == nil {
		open = scenegraph.Load
	}
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- load(ctx, cfg, open)
	}()
	return out
}

func load(ctx context.Context, cfg Config, open Opener) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	s, err := open(cfg.AssetPath)
	if err != nil {
		return Result{Err: fmt.Errorf("load world %s: %w", cfg.AssetPath, err)}
	}
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	w, err := Build(s, cfg)
	if err != nil {
		return Result{Err: fmt.Errorf("build world: %w", err)}
	}
	return Result{World: w}
}

// IsCanceled reports whether a load error came from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
