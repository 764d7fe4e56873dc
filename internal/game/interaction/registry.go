// Package interaction keeps the pickable world objects and decides what a
// pick does: creature reactions or info requests.
package interaction

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/folio3d/parkwalk/internal/engine/anim"
	"github.com/folio3d/parkwalk/internal/engine/picking"
	"github.com/folio3d/parkwalk/internal/engine/scene"
)

// Kind says how an object reacts to a pick.
type Kind int

const (
	// Info objects open an info overlay.
	Info Kind = iota
	// Creature objects hop and play a reaction sound.
	Creature
)

func (k Kind) String() string {
	if k == Creature {
		return "creature"
	}
	return "info"
}

var (
	// ErrFrozen is returned when adding to a frozen registry.
	ErrFrozen = errors.New("registry is frozen")
	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("duplicate object")
)

// Object is one registered world object.
type Object struct {
	Name  string
	Kind  Kind
	Heavy bool

	// Rest is the object's world transform at load.
	Rest     mgl32.Mat4
	Drawable *scene.Drawable
	Target   *picking.Target

	scale  mgl32.Vec3
	lift   mgl32.Vec3
	bounce *anim.Timeline
}

// NewObject creates an object at rest. triangles are in the object's own
// space.
func NewObject(name string, kind Kind, rest mgl32.Mat4, triangles [][3]mgl32.Vec3, d *scene.Drawable) *Object {
	o := &Object{
		Name:     name,
		Kind:     kind,
		Rest:     rest,
		Drawable: d,
		scale:    mgl32.Vec3{1, 1, 1},
	}
	o.Target = picking.NewTarget(name, triangles, rest)
	return o
}

// Model returns the object's current world transform with its animation
// applied.
func (o *Object) Model() mgl32.Mat4 {
	lift := mgl32.Translate3D(o.lift.X(), o.lift.Y(), o.lift.Z())
	return lift.Mul4(o.Rest).Mul4(mgl32.Scale3D(o.scale.X(), o.scale.Y(), o.scale.Z()))
}

// Scale returns the animated scale factor.
func (o *Object) Scale() mgl32.Vec3 {
	return o.scale
}

// Lift returns the animated offset.
func (o *Object) Lift() mgl32.Vec3 {
	return o.lift
}

// Bouncing reports whether a reaction is playing.
func (o *Object) Bouncing() bool {
	return o.bounce != nil
}

func (o *Object) startBounce(onLanded func()) {
	o.bounce = anim.CreatureBounce(mgl32.Vec3{1, 1, 1}, o.scale, o.lift, o.Heavy, onLanded)
}

// advance plays the reaction forward and keeps the pick target in sync.
func (o *Object) advance(dt float32) {
	if o.bounce == nil {
		return
	}
	o.bounce.Advance(dt)
	o.scale = o.bounce.Value(anim.Scale)
	o.lift = o.bounce.Value(anim.Lift)
	if o.bounce.Done() {
		o.bounce = nil
	}
	o.Target.SetTransform(o.Model())
}

// Registry is the ordered set of pickable objects. It is filled during world
// load and read-only after Freeze.
type Registry struct {
	objects []*Object
	byName  map[string]*Object
	frozen  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Object)}
}

// Add registers an object.
func (r *Registry) Add(o *Object) error {
	if r.frozen {
		return ErrFrozen
	}
	if _, ok := r.byName[o.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, o.Name)
	}
	r.objects = append(r.objects, o)
	r.byName[o.Name] = o
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup finds an object by name.
func (r *Registry) Lookup(name string) (*Object, bool) {
	if r == nil {
		return nil, false
	}
	o, ok := r.byName[name]
	return o, ok
}

// Entries returns the objects in registration order.
func (r *Registry) Entries() []*Object {
	if r == nil {
		return nil
	}
	return r.objects
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())
	for _, o := range r.Entries() {
		names = append(names, o.Name)
	}
	return names
}

// Len returns the number of objects.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.objects)
}

// Targets returns the pick targets in registration order.
func (r *Registry) Targets() []*picking.Target {
	out := make([]*picking.Target, 0, r.Len())
	for _, o := range r.Entries() {
		out = append(out, o.Target)
	}
	return out
}
