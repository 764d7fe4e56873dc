// Package lighting holds the scene's sun and ambient light and blends them
// between the light and dark themes.
package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/folio3d/parkwalk/internal/engine/anim"
)

// Theme selects a lighting preset.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// ParseTheme maps a theme name to its Theme.
func ParseTheme(name string) (Theme, error) {
	switch name {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeLight, fmt.Errorf("unknown theme %q", name)
}

// TransitionDuration is how long a theme change takes, in seconds.
const TransitionDuration = 1.0

// Scene constants for the park.
var (
	SunPosition = mgl32.Vec3{280, 200, -80}
	SunTarget   = mgl32.Vec3{100, 0, -10}
	Background  = mgl32.Vec3{0xae / 255.0, 0xc9 / 255.0, 0x72 / 255.0}
)

// Light is a colour and a multiplier.
type Light struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Radiance returns colour times intensity.
func (l Light) Radiance() mgl32.Vec3 {
	return l.Color.Mul(l.Intensity)
}

func mix(a, b Light, k float32) Light {
	return Light{
		Color:     a.Color.Add(b.Color.Sub(a.Color).Mul(k)),
		Intensity: a.Intensity + (b.Intensity-a.Intensity)*k,
	}
}

var white = mgl32.Vec3{1, 1, 1}

// Startup returns the lights shown before any theme has been applied.
func Startup() (sun, ambient Light) {
	gray := float32(0x40) / 255
	return Light{Color: white, Intensity: 1}, Light{Color: mgl32.Vec3{gray, gray, gray}, Intensity: 2.7}
}

// Preset returns the target lights for a theme.
func Preset(t Theme) (sun, ambient Light) {
	if t == ThemeDark {
		return Light{Color: mgl32.Vec3{0.25, 0.41, 0.88}, Intensity: 0.8},
			Light{Color: mgl32.Vec3{0.25, 0.31, 0.78}, Intensity: 0.9}
	}
	return Light{Color: white, Intensity: 1}, Light{Color: white, Intensity: 0.8}
}

// SunDirection returns the unit vector from the target towards the sun.
func SunDirection(position, target mgl32.Vec3) mgl32.Vec3 {
	d := position.Sub(target)
	if l := d.Len(); l > 0 {
		return d.Mul(1 / l)
	}
	return mgl32.Vec3{0, 1, 0}
}

// Rig is the sun plus ambient light with an optional running transition.
type Rig struct {
	Sun     Light
	Ambient Light

	theme       Theme
	themeSet    bool
	fromSun     Light
	fromAmbient Light
	elapsed     float32
	active      bool
}

// NewRig returns a rig with the startup lights.
func NewRig() *Rig {
	r := &Rig{}
	r.Sun, r.Ambient = Startup()
	return r
}

// Theme returns the last requested theme.
func (r *Rig) Theme() Theme {
	return r.theme
}

// SetTheme starts a transition from the current lights to the theme preset.
// Requesting the theme already targeted is a no-op.
func (r *Rig) SetTheme(t Theme) {
	if r.themeSet && t == r.theme {
		return
	}
	r.theme = t
	r.themeSet = true
	r.fromSun, r.fromAmbient = r.Sun, r.Ambient
	r.elapsed = 0
	r.active = true
}

// Transitioning reports whether a theme blend is running.
func (r *Rig) Transitioning() bool {
	return r.active
}

// Advance moves the running transition forward by dt seconds.
func (r *Rig) Advance(dt float32) {
	if !r.active {
		return
	}
	r.elapsed += dt
	p := min(r.elapsed/TransitionDuration, 1)
	k := anim.Power2InOut(p)

	toSun, toAmbient := Preset(r.theme)
	if p >= 1 {
		r.Sun, r.Ambient = toSun, toAmbient
		r.active = false
		return
	}
	r.Sun = mix(r.fromSun, toSun, k)
	r.Ambient = mix(r.fromAmbient, toAmbient, k)
}
