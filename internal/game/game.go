// Package game drives the park: it owns the simulation state, turns
// platform commands into locomotion and picks, and issues one draw per frame.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/config"
	"github.com/folio3d/parkwalk/internal/engine/anim"
	"github.com/folio3d/parkwalk/internal/engine/camera"
	"github.com/folio3d/parkwalk/internal/engine/input"
	"github.com/folio3d/parkwalk/internal/engine/lighting"
	"github.com/folio3d/parkwalk/internal/engine/scene"
	"github.com/folio3d/parkwalk/internal/game/interaction"
	"github.com/folio3d/parkwalk/internal/game/locomotion"
	"github.com/folio3d/parkwalk/internal/game/world"
	"github.com/folio3d/parkwalk/internal/logger"
)

// MaxFrameDelta caps the measured frame delta so a stall does not tunnel
// the avatar through the floor.
const MaxFrameDelta = 0.1

// Sound is one of the fixed sound cues.
type Sound int

const (
	AmbientLoop Sound = iota
	InteractionChime
	CreatureReaction
	Jump
)

var soundNames = [...]string{"ambient", "chime", "creature", "jump"}

// String returns the bank name of the cue.
func (s Sound) String() string {
	if s < 0 || int(s) >= len(soundNames) {
		return "unknown"
	}
	return soundNames[s]
}

// Cursor is the pointer shape the host should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
)

// LoadState tracks the world load.
type LoadState int

const (
	Loading LoadState = iota
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Events receives everything the park tells its collaborators. Calls are
// made on the frame goroutine and must not block.
type Events interface {
	WorldReady()
	WorldFailed(err error)
	ShowInfo(name string)
	PlaySound(s Sound)
	SetCursor(c Cursor)
}

// Renderer draws frames. The GL renderer satisfies it.
type Renderer interface {
	Upload(drawables []*scene.Drawable) error
	Render(f *scene.Frame)
	Resize(width, height int)
	Close()
}

// Host is the platform side of the loop.
type Host interface {
	PollEvents() []input.Event
	SwapBuffers()
}

// ExternalState is what collaborators own: the mute toggle, the colour
// theme and whether an overlay covers the park.
type ExternalState struct {
	Muted       bool
	Theme       lighting.Theme
	OverlayOpen bool
}

// Config holds everything the park needs besides its collaborators.
type Config struct {
	World    world.Config
	Physics  locomotion.Params
	Bindings input.Bindings
	Shadows  bool

	// FixedStep integrates every frame with Step; otherwise the measured
	// delta is used, clamped to MaxFrameDelta.
	FixedStep bool
	Step      float32

	Camera func(*camera.FollowCamera)

	// Open decodes the world asset; nil uses the glTF loader.
	Open world.Opener
}

// DefaultConfig returns the stock park.
func DefaultConfig() Config {
	return Config{
		World:     world.DefaultConfig(),
		Physics:   locomotion.DefaultParams(),
		Bindings:  input.DefaultBindings(),
		Shadows:   true,
		FixedStep: true,
		Step:      locomotion.FixedStep,
	}
}

// ConfigFrom maps the application config onto the park config.
func ConfigFrom(c *config.Config) (Config, error) {
	bindings, err := input.ParseBindings(c.Controls)
	if err != nil {
		return Config{}, err
	}
	if len(bindings) == 0 {
		bindings = input.DefaultBindings()
	}

	p := locomotion.DefaultParams()
	ph := c.Physics
	step := float32(locomotion.FixedStep)
	if ph.Step > 0 {
		step = ph.Step
	}
	if ph.Gravity > 0 {
		p.Gravity = ph.Gravity
	}
	if ph.JumpImpulse > 0 {
		p.JumpImpulse = ph.JumpImpulse
	}
	if ph.MoveSpeed > 0 {
		p.MoveSpeed = ph.MoveSpeed
	}
	if ph.FallThreshold < 0 {
		p.FallThreshold = ph.FallThreshold
	}
	if ph.CapsuleRadius > 0 {
		p.CapsuleRadius = ph.CapsuleRadius
	}
	if ph.CapsuleHeight > 0 {
		p.CapsuleHeight = ph.CapsuleHeight
	}

	w := c.World
	cam := c.Camera
	maxRatio := c.Graphics.MaxPixelRatio
	return Config{
		World: world.Config{
			AssetPath:     w.Asset,
			ColliderNode:  w.ColliderNode,
			AvatarNode:    w.AvatarNode,
			Interactive:   w.Interactive,
			Creatures:     w.Creatures,
			HeavyCreature: w.HeavyCreature,
		},
		Physics:   p,
		Bindings:  bindings,
		Shadows:   c.Graphics.Shadows,
		FixedStep: ph.FixedStep,
		Step:      step,
		Camera: func(fc *camera.FollowCamera) {
			fc.Offset = mgl32.Vec3(cam.Offset)
			fc.Lead = mgl32.Vec2(cam.Lead)
			fc.FollowHeight = cam.FollowHeight
			if cam.Drop > 0 {
				fc.Drop = cam.Drop
			}
			if cam.Zoom > 0 {
				fc.Zoom = cam.Zoom
			}
			if cam.Frustum > 0 {
				fc.Frustum = cam.Frustum
			}
			if maxRatio > 0 {
				fc.MaxPixelRatio = maxRatio
			}
		},
	}, nil
}

// AvatarState is the avatar part of a Snapshot.
type AvatarState struct {
	Position [3]float32 `json:"position"`
	Yaw      float32    `json:"yaw"`
	Velocity [3]float32 `json:"velocity"`
	OnFloor  bool       `json:"on_floor"`
	Moving   bool       `json:"moving"`
}

// ObjectState is one registered object in a Snapshot.
type ObjectState struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Heavy    bool   `json:"heavy,omitempty"`
	Bouncing bool   `json:"bouncing"`
}

// Snapshot is a copy of the park state published once per frame. It is
// safe to read from any goroutine.
type Snapshot struct {
	Frame       uint64        `json:"frame"`
	LoadState   string        `json:"load_state"`
	Entered     bool          `json:"entered"`
	Avatar      *AvatarState  `json:"avatar,omitempty"`
	Objects     []ObjectState `json:"objects"`
	Theme       string        `json:"theme"`
	Muted       bool          `json:"muted"`
	OverlayOpen bool          `json:"overlay_open"`
}

// Game is the park. Everything except Stop and Snapshot must be called
// from the goroutine running the frame loop.
type Game struct {
	config   Config
	events   Events
	renderer Renderer

	controller *locomotion.Controller
	input      input.State
	pointer    input.Pointer
	camera     *camera.FollowCamera
	router     *interaction.Router
	lights     *lighting.Rig

	squash      *anim.Timeline
	squashScale mgl32.Vec3

	world     *world.World
	loading   <-chan world.Result
	loadState LoadState
	cancel    context.CancelFunc

	external ExternalState
	applied  bool
	entered  bool
	cursor   Cursor
	width    int
	height   int
	frames   uint64
	frame    scene.Frame

	snapshot atomic.Pointer[Snapshot]
	stopped  atomic.Bool
	log      *zap.Logger
}

// New creates a park drawing through r and reporting to events.
func New(cfg Config, r Renderer, events Events) *Game {
	if cfg.Bindings == nil {
		cfg.Bindings = input.DefaultBindings()
	}
	if cfg.Step <= 0 {
		cfg.Step = locomotion.FixedStep
	}
	cam := camera.NewFollowCamera()
	if cfg.Camera != nil {
		cfg.Camera(cam)
	}
	g := &Game{
		config:      cfg,
		events:      events,
		renderer:    r,
		controller:  locomotion.New(cfg.Physics),
		camera:      cam,
		router:      interaction.NewRouter(nil),
		lights:      lighting.NewRig(),
		squashScale: mgl32.Vec3{1, 1, 1},
		width:       1,
		height:      1,
		log:         logger.Named("game"),
	}
	g.publish()
	return g
}

// Start begins loading the world. The loop may run before the load ends.
func (g *Game) Start(ctx context.Context) {
	if g.loading != nil || g.loadState != Loading || g.world != nil {
		return
	}
	ctx, g.cancel = context.WithCancel(ctx)
	g.loading = world.Load(ctx, g.config.World, g.config.Open)
	g.log.Info("loading world", zap.String("asset", g.config.World.AssetPath))
}

// Run polls host and advances frames until ctx ends, Stop is called or the
// host reports a quit.
func (g *Game) Run(ctx context.Context, host Host) error {
	last := time.Now()
	for !g.stopped.Load() {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		for _, e := range host.PollEvents() {
			g.HandleEvent(e)
		}
		if g.stopped.Load() {
			break
		}

		now := time.Now()
		g.Frame(float32(now.Sub(last).Seconds()))
		last = now
		host.SwapBuffers()
	}
	return nil
}

// Stop ends Run after the current frame. Safe from any goroutine.
func (g *Game) Stop() {
	g.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (g *Game) Stopped() bool {
	return g.stopped.Load()
}

// Close cancels a pending load and releases renderer resources.
func (g *Game) Close() {
	g.Stop()
	if g.cancel != nil {
		g.cancel()
	}
	if g.renderer != nil {
		g.renderer.Close()
		g.renderer = nil
	}
}

// HandleEvent routes a platform event to the matching command and reports
// whether the park used it.
func (g *Game) HandleEvent(e input.Event) bool {
	switch e.Type {
	case input.EventQuit:
		g.Stop()
	case input.EventWindowResize:
		g.Resize(e.Width, e.Height, e.PixelRatio)
	case input.EventFocusLost:
		g.FocusLost()
	case input.EventKeyDown:
		action := g.config.Bindings.Lookup(e.Key)
		if dir, ok := action.Direction(); ok {
			g.input.Press(dir)
			return true
		}
		if action == input.ActionRespawn && !e.Repeat {
			g.Respawn()
			return true
		}
		return false
	case input.EventKeyUp:
		if dir, ok := g.config.Bindings.Lookup(e.Key).Direction(); ok {
			g.input.Release(dir)
			return true
		}
		return false
	case input.EventMouseMove:
		g.PointerMove(e.X, e.Y)
	case input.EventMouseClick:
		if g.pointer.ClickAt(e.X, e.Y, g.width, g.height) {
			g.pick()
		}
	case input.EventTouchEnd:
		g.TouchEnd(e.X, e.Y)
	default:
		return false
	}
	return true
}

// Press holds a movement direction, as an on-screen button would.
func (g *Game) Press(d input.Direction) { g.input.Press(d) }

// Release lets go of a movement direction.
func (g *Game) Release(d input.Direction) { g.input.Release(d) }

// PointerMove records the mouse at window coordinates.
func (g *Game) PointerMove(x, y float32) {
	g.pointer.MouseMove(x, y, g.width, g.height)
}

// TouchEnd records a finger lift at normalized window coordinates and
// picks immediately.
func (g *Game) TouchEnd(nx, ny float32) {
	g.pointer.TouchEnd(nx, ny)
	g.pick()
}

// Click picks at the last mouse position. Clicks synthesized from a touch
// are ignored.
func (g *Game) Click() {
	if g.pointer.Click() {
		g.pick()
	}
}

// Respawn puts the avatar back on its spawn point.
func (g *Game) Respawn() {
	g.controller.Respawn()
}

// FocusLost releases every held direction.
func (g *Game) FocusLost() {
	g.input.Clear()
}

// Resize updates the viewport. width and height are logical pixels.
func (g *Game) Resize(width, height int, pixelRatio float32) {
	g.width, g.height = max(width, 1), max(height, 1)
	g.camera.Resize(g.width, g.height, pixelRatio)
	if g.renderer != nil {
		g.renderer.Resize(g.camera.DrawableSize())
	}
}

// Enter dismisses the loading screen: the chime plays and the ambient loop
// starts unless muted. It reports false until the world is ready.
func (g *Game) Enter() bool {
	if g.loadState != Ready || g.entered {
		return false
	}
	g.entered = true
	g.play(InteractionChime)
	g.play(AmbientLoop)
	return true
}

// Entered reports whether Enter succeeded.
func (g *Game) Entered() bool {
	return g.entered
}

// LoadState returns the world load progress.
func (g *Game) LoadState() LoadState {
	return g.loadState
}

// External returns the last applied collaborator state.
func (g *Game) External() ExternalState {
	return g.external
}

// Apply takes the collaborators' state. Applying the same state twice does
// nothing. Closing an overlay, switching theme and muting play the chime.
func (g *Game) Apply(s ExternalState) {
	prev := g.external
	first := !g.applied
	g.external = s
	g.applied = true

	if first || s.Theme != prev.Theme {
		g.lights.SetTheme(s.Theme)
	}
	if first {
		return
	}

	chime := (prev.OverlayOpen && !s.OverlayOpen) ||
		s.Theme != prev.Theme
	// The chime precedes muting so it is still heard.
	if !prev.Muted && s.Muted {
		if g.events != nil {
			g.events.PlaySound(InteractionChime)
		}
		chime = false
	}
	if chime {
		g.play(InteractionChime)
	}
}

// Frame advances the park by one display frame of dt seconds and draws it.
func (g *Game) Frame(dt float32) {
	dt = min(max(dt, 0), MaxFrameDelta)
	g.frames++

	g.pollLoad()

	step := dt
	if g.config.FixedStep {
		step = g.config.Step
	}
	g.controller.Step(step)

	if g.controller.Dispatch(g.input.Snapshot()) {
		g.play(Jump)
		g.squash = anim.AvatarSquash(g.squashScale)
	}

	g.router.Advance(dt)
	if g.squash != nil {
		g.squash.Advance(dt)
		g.squashScale = g.squash.Value(anim.Scale)
		if g.squash.Done() {
			g.squash = nil
		}
	}
	g.lights.Advance(dt)

	avatar, present := g.controller.Avatar()
	g.camera.Follow(avatar.Position)

	g.hover()
	g.publish()

	if g.renderer != nil {
		g.buildFrame(avatar, present)
		g.renderer.Render(&g.frame)
	}
}

func (g *Game) pollLoad() {
	if g.loading == nil {
		return
	}
	var res world.Result
	select {
	case r, ok := <-g.loading:
		if !ok {
			g.loading = nil
			return
		}
		res = r
	default:
		return
	}
	g.loading = nil

	if res.Err == nil && g.renderer != nil {
		if err := g.renderer.Upload(res.World.Drawables()); err != nil {
			res = world.Result{Err: fmt.Errorf("upload world: %w", err)}
		}
	}
	if res.Err != nil {
		g.loadState = Failed
		if world.IsCanceled(res.Err) {
			g.log.Info("world load canceled")
			return
		}
		g.log.Error("world load failed", zap.Error(res.Err))
		if g.events != nil {
			g.events.WorldFailed(res.Err)
		}
		return
	}

	g.attach(res.World)
	if g.events != nil {
		g.events.WorldReady()
	}
}

func (g *Game) attach(w *world.World) {
	g.world = w
	g.router = interaction.NewRouter(w.Registry)
	if w.Avatar != nil {
		g.controller.Attach(w.Avatar.Spawn, w.Avatar.Yaw, w.Index)
	}
	g.loadState = Ready
	for _, msg := range w.Warnings {
		g.log.Warn("world degraded", zap.String("reason", msg))
	}
	g.log.Info("world ready",
		zap.Int("objects", w.Registry.Len()),
		zap.Bool("avatar", w.Avatar != nil),
	)
}

func (g *Game) pick() {
	ndc, ok := g.pointer.NDC()
	if !ok {
		return
	}
	out := g.router.Pick(g.camera.RayFromNDC(ndc), g.external.OverlayOpen)
	switch out.Result {
	case interaction.ShowInfo:
		g.log.Debug("show info", zap.String("name", out.Name))
		if g.events != nil {
			g.events.ShowInfo(out.Name)
		}
	case interaction.Bounced:
		g.play(CreatureReaction)
	}
}

func (g *Game) hover() {
	cursor := CursorDefault
	if ndc, ok := g.pointer.NDC(); ok && g.router.Hover(g.camera.RayFromNDC(ndc)) {
		cursor = CursorPointer
	}
	if cursor == g.cursor {
		return
	}
	g.cursor = cursor
	if g.events != nil {
		g.events.SetCursor(cursor)
	}
}

// play emits a sound unless muted.
func (g *Game) play(s Sound) {
	if g.external.Muted || g.events == nil {
		return
	}
	g.events.PlaySound(s)
}

// AvatarModel returns the avatar's model matrix: pose, then the hop squash
// on top of the asset scale.
func (g *Game) AvatarModel() mgl32.Mat4 {
	a, _ := g.controller.Avatar()
	base := mgl32.Vec3{1, 1, 1}
	if g.world != nil && g.world.Avatar != nil {
		base = g.world.Avatar.BaseScale
	}
	s := mgl32.Vec3{base.X() * g.squashScale.X(), base.Y() * g.squashScale.Y(), base.Z() * g.squashScale.Z()}
	return mgl32.Translate3D(a.Position.X(), a.Position.Y(), a.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(a.Yaw)).
		Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

func (g *Game) buildFrame(avatar locomotion.Avatar, present bool) {
	f := &g.frame
	f.Reset()
	f.View = g.camera.View()
	f.Projection = g.camera.Projection()
	f.Background = lighting.Background
	f.SunDir = lighting.SunDirection(lighting.SunPosition, lighting.SunTarget)
	f.SunColor = g.lights.Sun.Radiance()
	f.Ambient = g.lights.Ambient.Radiance()
	f.Shadows = g.config.Shadows
	f.LightViewProj = lighting.LightViewProj(lighting.SunPosition, lighting.SunTarget, lighting.DefaultShadowFrustum)
	f.NormalBias = lighting.ShadowNormalBias

	if g.world == nil {
		return
	}
	f.Add(g.world.Static, mgl32.Ident4())
	for _, o := range g.world.Registry.Entries() {
		f.Add(o.Drawable, o.Model())
	}
	if present && g.world.Avatar != nil {
		f.Add(g.world.Avatar.Drawable, g.AvatarModel())
	}
}

func (g *Game) publish() {
	s := &Snapshot{
		Frame:       g.frames,
		LoadState:   g.loadState.String(),
		Entered:     g.entered,
		Theme:       g.external.Theme.String(),
		Muted:       g.external.Muted,
		OverlayOpen: g.external.OverlayOpen,
	}
	if g.world != nil {
		for _, o := range g.world.Registry.Entries() {
			s.Objects = append(s.Objects, ObjectState{
				Name:     o.Name,
				Kind:     o.Kind.String(),
				Heavy:    o.Heavy,
				Bouncing: o.Bouncing(),
			})
		}
	}
	if a, ok := g.controller.Avatar(); ok {
		v := g.controller.Velocity()
		s.Avatar = &AvatarState{
			Position: a.Position,
			Yaw:      a.Yaw,
			Velocity: v,
			OnFloor:  g.controller.OnFloor(),
			Moving:   a.Moving,
		}
	}
	g.snapshot.Store(s)
}

// Snapshot returns the state published by the last frame. Safe from any
// goroutine.
func (g *Game) Snapshot() Snapshot {
	return *g.snapshot.Load()
}
