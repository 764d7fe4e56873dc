package anim

import "github.com/go-gl/mathgl/mgl32"

// BounceDuration is the hop length used by creature reactions.
const BounceDuration = 0.5

// BounceHeight is how far a reacting creature rises.
const BounceHeight = 2

// Bounce phase indices, in tween order.
const (
	PhaseSquash = iota
	PhaseStretch
	PhaseRise
	PhaseRecover
	PhaseFall
	PhaseSettle
)

// CreatureBounce builds the squash, hop and land reaction for a creature
// whose rest scale is base. current and lift are the values the object
// shows right now, so a restarted bounce continues smoothly. onLanded fires
// once when the fall finishes. Heavy creatures skip the elastic settle.
func CreatureBounce(base, current, lift mgl32.Vec3, heavy bool, onLanded func()) *Timeline {
	scaled := func(x, y, z float32) mgl32.Vec3 {
		return mgl32.Vec3{base.X() * x, base.Y() * y, base.Z() * z}
	}

	tl := NewTimeline(current, lift)
	tl.Append(Scale, scaled(1.2, 0.8, 1.2), 0.1, Power2Out)
	tl.Append(Scale, scaled(0.8, 1.3, 0.8), 0.15, Power2Out)
	tl.With(Lift, mgl32.Vec3{0, BounceHeight, 0}, BounceDuration*0.5, Power2Out)
	tl.Append(Scale, base, 0.15, Power1InOut)
	fall := tl.Then(Lift, mgl32.Vec3{}, BounceDuration*0.5, BounceOut)
	fall.OnComplete = onLanded
	if !heavy {
		tl.Append(Scale, base, 0.1, ElasticOut(1, 0.3))
	}
	return tl
}

// AvatarSquash builds the squash and stretch played when the avatar hops.
func AvatarSquash(current mgl32.Vec3) *Timeline {
	tl := NewTimeline(current, mgl32.Vec3{})
	tl.Append(Scale, mgl32.Vec3{1.08, 0.9, 1.08}, 0.1, Power2Out)
	tl.Append(Scale, mgl32.Vec3{0.92, 1.1, 0.92}, 0.15, Power2Out)
	tl.Append(Scale, mgl32.Vec3{1, 1, 1}, 0.15, Power1InOut)
	tl.Hold(0.1)
	return tl
}
