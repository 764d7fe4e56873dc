package interaction

import (
	"github.com/folio3d/parkwalk/internal/engine/picking"
)

// Result says what a pick did.
type Result int

const (
	// Missed means nothing registered was under the pointer.
	Missed Result = iota
	// Suppressed means an overlay was open, so nothing was tested.
	Suppressed
	// ShowInfo means the caller should open the info overlay for Name.
	ShowInfo
	// Bounced means a creature started its reaction.
	Bounced
	// Ignored means a creature was hit while another reaction was playing.
	Ignored
)

// Outcome is the result of one pick.
type Outcome struct {
	Result Result
	Name   string
}

// Router resolves picks against a registry. One creature reaction plays at
// a time across the whole park.
type Router struct {
	registry *Registry
	targets  []*picking.Target
	ready    bool
}

// NewRouter creates a router over r. A nil registry never hits.
func NewRouter(r *Registry) *Router {
	return &Router{registry: r, targets: r.Targets(), ready: true}
}

// Ready reports whether a creature may start a reaction.
func (rt *Router) Ready() bool {
	return rt.ready
}

// Pick casts ray against the registered objects.
func (rt *Router) Pick(ray picking.Ray, overlayOpen bool) Outcome {
	if overlayOpen {
		return Outcome{Result: Suppressed}
	}
	hit, ok := picking.Nearest(ray, rt.targets)
	if !ok {
		return Outcome{Result: Missed}
	}

	obj, _ := rt.registry.Lookup(hit.Target.Name)
	if obj.Kind != Creature {
		return Outcome{Result: ShowInfo, Name: obj.Name}
	}
	if !rt.ready {
		return Outcome{Result: Ignored, Name: obj.Name}
	}

	rt.ready = false
	obj.startBounce(func() { rt.ready = true })
	return Outcome{Result: Bounced, Name: obj.Name}
}

// Hover reports whether any registered object is under the ray.
func (rt *Router) Hover(ray picking.Ray) bool {
	_, ok := picking.Nearest(ray, rt.targets)
	return ok
}

// Advance plays object reactions forward by dt seconds.
func (rt *Router) Advance(dt float32) {
	for _, o := range rt.registry.Entries() {
		o.advance(dt)
	}
}
