// Package anim provides easing curves and tween timelines advanced by the
// frame loop.
package anim

import "math"

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(t float32) float32

// Linear is the identity curve.
func Linear(t float32) float32 { return t }

// Power1InOut is a quadratic ease in and out.
func Power1InOut(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Power2Out is a cubic ease out.
func Power2Out(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// Power2InOut is a cubic ease in and out.
func Power2InOut(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// BounceOut settles with decaying bounces.
func BounceOut(t float32) float32 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// ElasticOut overshoots and oscillates into place. Amplitude below 1 is
// treated as 1.
func ElasticOut(amplitude, period float32) Ease {
	a := float64(max(amplitude, 1))
	p := float64(period)
	shift := p / (2 * math.Pi) * math.Asin(1/a)
	return func(t float32) float32 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		x := float64(t)
		return float32(a*math.Pow(2, -10*x)*math.Sin((x-shift)*2*math.Pi/p) + 1)
	}
}
