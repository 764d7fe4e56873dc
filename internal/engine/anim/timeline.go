package anim

import "github.com/go-gl/mathgl/mgl32"

// Channel is an animated property of one object.
type Channel int

const (
	// Scale is the per-axis scale multiplier.
	Scale Channel = iota
	// Lift is a world-space offset added to the object's rest position.
	Lift
	numChannels
)

// timeEpsilon absorbs float32 drift from summed frame deltas.
const timeEpsilon = 1e-5

// Tween moves one channel to a target value over a time window.
type Tween struct {
	Channel    Channel
	Start      float32
	Duration   float32
	To         mgl32.Vec3
	Ease       Ease
	OnComplete func()

	from    mgl32.Vec3
	started bool
	done    bool
}

// End returns when the tween finishes, relative to the timeline start.
func (tw *Tween) End() float32 {
	return tw.Start + tw.Duration
}

// Timeline is a fixed list of tweens advanced by explicit elapsed time.
// Each tween captures its starting value when playback first reaches it.
type Timeline struct {
	tweens  []*Tween
	values  [numChannels]mgl32.Vec3
	elapsed float32
	end     float32
}

// NewTimeline creates an empty timeline whose channels start at the given
// values.
func NewTimeline(scale, lift mgl32.Vec3) *Timeline {
	tl := &Timeline{}
	tl.values[Scale] = scale
	tl.values[Lift] = lift
	return tl
}

func (tl *Timeline) add(start float32, ch Channel, to mgl32.Vec3, dur float32, ease Ease) *Tween {
	if ease == nil {
		ease = Linear
	}
	tw := &Tween{Channel: ch, Start: start, Duration: max(dur, 0), To: to, Ease: ease}
	tl.tweens = append(tl.tweens, tw)
	tl.end = max(tl.end, tw.End())
	return tw
}

// Append adds a tween starting when everything so far has finished.
func (tl *Timeline) Append(ch Channel, to mgl32.Vec3, dur float32, ease Ease) *Tween {
	return tl.add(tl.end, ch, to, dur, ease)
}

// With adds a tween starting together with the previous one.
func (tl *Timeline) With(ch Channel, to mgl32.Vec3, dur float32, ease Ease) *Tween {
	return tl.add(tl.lastStart(), ch, to, dur, ease)
}

// Then adds a tween starting when the previous one ends.
func (tl *Timeline) Then(ch Channel, to mgl32.Vec3, dur float32, ease Ease) *Tween {
	start := float32(0)
	if n := len(tl.tweens); n > 0 {
		start = tl.tweens[n-1].End()
	}
	return tl.add(start, ch, to, dur, ease)
}

// Hold extends the timeline by d seconds without animating.
func (tl *Timeline) Hold(d float32) {
	tl.end += max(d, 0)
}

func (tl *Timeline) lastStart() float32 {
	if n := len(tl.tweens); n > 0 {
		return tl.tweens[n-1].Start
	}
	return 0
}

// Advance moves playback forward by dt seconds, evaluates every tween that
// has started and fires completion callbacks in tween order.
func (tl *Timeline) Advance(dt float32) {
	if dt > 0 {
		tl.elapsed = min(tl.elapsed+dt, tl.end)
	}

	for _, tw := range tl.tweens {
		if tw.done || tl.elapsed < tw.Start-timeEpsilon {
			continue
		}
		if !tw.started {
			tw.from = tl.values[tw.Channel]
			tw.started = true
		}

		p := float32(1)
		if tw.Duration > 0 && tl.elapsed < tw.End()-timeEpsilon {
			p = max((tl.elapsed-tw.Start)/tw.Duration, 0)
		}
		k := tw.Ease(p)
		tl.values[tw.Channel] = tw.from.Add(tw.To.Sub(tw.from).Mul(k))

		if p >= 1 {
			tl.values[tw.Channel] = tw.To
			tw.done = true
			if tw.OnComplete != nil {
				tw.OnComplete()
			}
		}
	}
}

// Value returns the current value of a channel.
func (tl *Timeline) Value(ch Channel) mgl32.Vec3 {
	return tl.values[ch]
}

// Phase returns the index of the first unfinished tween, or the tween count
// once all have finished.
func (tl *Timeline) Phase() int {
	for i, tw := range tl.tweens {
		if !tw.done {
			return i
		}
	}
	return len(tl.tweens)
}

// Elapsed returns the playback position in seconds.
func (tl *Timeline) Elapsed() float32 {
	return tl.elapsed
}

// Duration returns the total length in seconds.
func (tl *Timeline) Duration() float32 {
	return tl.end
}

// Done reports whether playback reached the end.
func (tl *Timeline) Done() bool {
	return tl.elapsed >= tl.end-timeEpsilon && tl.Phase() == len(tl.tweens)
}
