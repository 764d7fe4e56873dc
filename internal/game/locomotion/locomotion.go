// Package locomotion moves the avatar: gravity, hop impulses, capsule
// collision against the static world and respawn on fall-through.
package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/engine/collision"
	"github.com/folio3d/parkwalk/internal/engine/input"
	"github.com/folio3d/parkwalk/internal/logger"
)

// Defaults for Params.
const (
	DefaultGravity       = 30
	DefaultJumpImpulse   = 11
	DefaultMoveSpeed     = 7
	DefaultFallThreshold = -20
	DefaultCapsuleRadius = 0.35
	DefaultCapsuleHeight = 1
	DefaultYawLerp       = 0.4
	// FixedStep is the integration step used regardless of frame time.
	FixedStep = 0.035
	// InitialTargetYaw is the heading the avatar turns to after load.
	InitialTargetYaw = math.Pi / 2
)

// Params tunes the controller. Capsule dimensions are fixed once a
// controller is created.
type Params struct {
	Gravity       float32
	JumpImpulse   float32
	MoveSpeed     float32
	FallThreshold float32
	CapsuleRadius float32
	CapsuleHeight float32
	YawLerp       float32
}

// DefaultParams returns the park's tuning.
func DefaultParams() Params {
	return Params{
		Gravity:       DefaultGravity,
		JumpImpulse:   DefaultJumpImpulse,
		MoveSpeed:     DefaultMoveSpeed,
		FallThreshold: DefaultFallThreshold,
		CapsuleRadius: DefaultCapsuleRadius,
		CapsuleHeight: DefaultCapsuleHeight,
		YawLerp:       DefaultYawLerp,
	}
}

// CollisionQuery resolves capsule overlap against static geometry.
// *collision.Index satisfies it, including a nil index.
type CollisionQuery interface {
	IntersectCapsule(c collision.Capsule) (collision.Hit, bool)
}

// Avatar is the controlled character's pose.
type Avatar struct {
	Position  mgl32.Vec3
	Yaw       float32
	TargetYaw float32
	Moving    bool
	Collider  collision.Capsule

	spawn mgl32.Vec3
}

// Spawn returns the position captured at world load.
func (a *Avatar) Spawn() mgl32.Vec3 {
	return a.spawn
}

// StepResult reports what one Step did.
type StepResult struct {
	Respawned bool
	Hit       bool
	OnFloor   bool
}

// Controller integrates the avatar. It is not safe for concurrent use; the
// frame loop owns it.
type Controller struct {
	params   Params
	avatar   *Avatar
	world    CollisionQuery
	velocity mgl32.Vec3
	onFloor  bool
	log      *zap.Logger
}

// New creates a controller with no avatar attached. Until Attach is called
// every operation is a no-op.
func New(p Params) *Controller {
	return &Controller{params: p, log: logger.Named("physics")}
}

// Params returns the controller tuning.
func (c *Controller) Params() Params {
	return c.params
}

// Attach places the avatar at spawn with the given yaw and starts colliding
// against world. A nil world means no collisions.
func (c *Controller) Attach(spawn mgl32.Vec3, yaw float32, world CollisionQuery) {
	c.avatar = &Avatar{
		Yaw:       yaw,
		TargetYaw: InitialTargetYaw,
		Collider:  collision.Capsule{Radius: c.params.CapsuleRadius},
		spawn:     spawn,
	}
	c.world = world
	c.reset()
}

// Present reports whether an avatar is attached.
func (c *Controller) Present() bool {
	return c.avatar != nil
}

// Avatar returns a copy of the avatar pose.
func (c *Controller) Avatar() (Avatar, bool) {
	if c.avatar == nil {
		return Avatar{}, false
	}
	return *c.avatar, true
}

// Velocity returns the current velocity.
func (c *Controller) Velocity() mgl32.Vec3 {
	return c.velocity
}

// OnFloor reports whether the last collision found ground under the avatar.
func (c *Controller) OnFloor() bool {
	return c.onFloor
}

// Respawn moves the avatar back to its spawn point and stops it.
func (c *Controller) Respawn() {
	if c.avatar == nil {
		return
	}
	c.reset()
	c.log.Debug("avatar respawned", zap.Float32("x", c.avatar.spawn.X()),
		zap.Float32("y", c.avatar.spawn.Y()), zap.Float32("z", c.avatar.spawn.Z()))
}

func (c *Controller) reset() {
	a := c.avatar
	a.Position = a.spawn
	a.Collider.Start = a.spawn.Add(mgl32.Vec3{0, c.params.CapsuleRadius, 0})
	a.Collider.End = a.spawn.Add(mgl32.Vec3{0, c.params.CapsuleHeight, 0})
	a.Moving = false
	c.velocity = mgl32.Vec3{}
}

// Step advances the avatar by dt seconds.
func (c *Controller) Step(dt float32) StepResult {
	a := c.avatar
	if a == nil {
		return StepResult{}
	}

	if a.Position.Y() < c.params.FallThreshold {
		c.Respawn()
		return StepResult{Respawned: true}
	}

	if !c.onFloor {
		c.velocity[1] -= c.params.Gravity * dt
	}
	a.Collider.Translate(c.velocity.Mul(dt))

	res := c.collide()

	a.Position = a.Collider.Start.Sub(mgl32.Vec3{0, c.params.CapsuleRadius, 0})
	a.Yaw += c.params.YawLerp * ShortestAngle(a.Yaw, a.TargetYaw)
	return res
}

func (c *Controller) collide() StepResult {
	c.onFloor = false
	if c.world == nil {
		return StepResult{}
	}
	hit, ok := c.world.IntersectCapsule(c.avatar.Collider)
	if !ok {
		return StepResult{}
	}

	c.onFloor = hit.Normal.Y() > 0
	c.avatar.Collider.Translate(hit.Normal.Mul(hit.Depth))
	if c.onFloor {
		c.avatar.Moving = false
		c.velocity[0] = 0
		c.velocity[2] = 0
	}
	return StepResult{Hit: true, OnFloor: c.onFloor}
}

// Dispatch starts a hop when any direction is held and the avatar is not
// already hopping. Directions add up; the last held in Forward, Back, Left,
// Right order sets the heading. Reports whether a hop started.
func (c *Controller) Dispatch(held input.Snapshot) bool {
	a := c.avatar
	if a == nil || a.Moving || !held.Any() {
		return false
	}

	speed := c.params.MoveSpeed
	if held.Held(input.Forward) {
		c.velocity[2] += speed
		a.TargetYaw = 0
	}
	if held.Held(input.Back) {
		c.velocity[2] -= speed
		a.TargetYaw = math.Pi
	}
	if held.Held(input.Left) {
		c.velocity[0] += speed
		a.TargetYaw = math.Pi / 2
	}
	if held.Held(input.Right) {
		c.velocity[0] -= speed
		a.TargetYaw = -math.Pi / 2
	}

	c.velocity[1] = c.params.JumpImpulse
	a.Moving = true
	return true
}

// ShortestAngle returns target-current wrapped into (-π, π].
func ShortestAngle(current, target float32) float32 {
	const twoPi = 2 * math.Pi
	r := math.Mod(math.Pi-float64(target-current), twoPi)
	if r < 0 {
		r += twoPi
	}
	return float32(math.Pi - r)
}
