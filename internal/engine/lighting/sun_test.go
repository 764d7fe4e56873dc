package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestStartupLights(t *testing.T) {
	r := NewRig()
	if r.Sun.Intensity != 1 || r.Ambient.Intensity != 2.7 {
		t.Errorf("startup intensities sun=%v ambient=%v", r.Sun.Intensity, r.Ambient.Intensity)
	}
	if !near(r.Ambient.Color.X(), 64.0/255) {
		t.Errorf("startup ambient color = %v", r.Ambient.Color)
	}
	if r.Transitioning() {
		t.Error("no transition should run at startup")
	}
}

func TestDarkTransition(t *testing.T) {
	r := NewRig()
	r.SetTheme(ThemeDark)
	if !r.Transitioning() {
		t.Fatal("SetTheme should start a transition")
	}

	startSun := r.Sun
	r.Advance(0.5)
	wantSun, _ := Preset(ThemeDark)
	mid := (startSun.Intensity + wantSun.Intensity) / 2
	if !near(r.Sun.Intensity, mid) {
		t.Errorf("halfway sun intensity = %v, want %v", r.Sun.Intensity, mid)
	}

	r.Advance(0.6)
	if r.Transitioning() {
		t.Error("transition should finish after one second")
	}
	// A finished blend lands exactly on the preset.
	sun, ambient := Preset(ThemeDark)
	if r.Sun != sun {
		t.Errorf("sun = %+v, want %+v", r.Sun, sun)
	}
	if r.Ambient != ambient {
		t.Errorf("ambient = %+v, want %+v", r.Ambient, ambient)
	}
}

func TestRetargetMidTransition(t *testing.T) {
	r := NewRig()
	r.SetTheme(ThemeDark)
	r.Advance(0.3)
	partial := r.Ambient

	r.SetTheme(ThemeLight)
	r.Advance(0)
	if !r.Ambient.Color.ApproxEqual(partial.Color) {
		t.Error("a new transition should start from the current blended lights")
	}
	r.Advance(1)
	sun, ambient := Preset(ThemeLight)
	if r.Sun != sun || r.Ambient != ambient {
		t.Errorf("lights = %+v %+v, want %+v %+v", r.Sun, r.Ambient, sun, ambient)
	}
	if r.Theme() != ThemeLight || r.Theme().String() != "light" {
		t.Errorf("Theme = %v", r.Theme())
	}
}

func TestSameThemeIsNoop(t *testing.T) {
	r := NewRig()
	r.SetTheme(ThemeDark)
	r.Advance(2)
	r.SetTheme(ThemeDark)
	if r.Transitioning() {
		t.Error("requesting the current theme should not restart the blend")
	}
}

func TestSunDirection(t *testing.T) {
	d := SunDirection(SunPosition, SunTarget)
	if !near(d.Len(), 1) {
		t.Errorf("direction not normalized: %v", d)
	}
	if d.Y() <= 0 {
		t.Errorf("sun should be above the target, got %v", d)
	}
	if got := SunDirection(mgl32.Vec3{}, mgl32.Vec3{}); got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("degenerate direction = %v, want +Y", got)
	}
}

func TestRadiance(t *testing.T) {
	l := Light{Color: mgl32.Vec3{0.5, 1, 0}, Intensity: 2}
	if !l.Radiance().ApproxEqual(mgl32.Vec3{1, 2, 0}) {
		t.Errorf("Radiance = %v", l.Radiance())
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		name    string
		want    Theme
		wantErr bool
	}{
		{"light", ThemeLight, false},
		{"dark", ThemeDark, false},
		{"Dark", ThemeLight, true},
		{"", ThemeLight, true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTheme(%q) = %v, %v", tt.name, got, err)
		}
		if err == nil && got.String() != tt.name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.name)
		}
	}
}
