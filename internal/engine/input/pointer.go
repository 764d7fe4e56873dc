package input

import "github.com/go-gl/mathgl/mgl32"

// Pointer tracks the last pointer position in normalized device
// coordinates and whether the last interaction came from touch.
type Pointer struct {
	ndc   mgl32.Vec2
	valid bool
	touch bool
}

// ToNDC maps window coordinates to normalized device coordinates, +Y up.
func ToNDC(x, y float32, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		x/float32(width)*2 - 1,
		-(y/float32(height))*2 + 1,
	}
}

// MouseMove records a mouse position and ends touch mode.
func (p *Pointer) MouseMove(x, y float32, width, height int) {
	p.ndc = ToNDC(x, y, width, height)
	p.valid = true
	p.touch = false
}

// TouchEnd records a finger lift at normalized 0..1 window coordinates.
// The caller picks immediately.
func (p *Pointer) TouchEnd(nx, ny float32) {
	p.ndc = mgl32.Vec2{nx*2 - 1, -ny*2 + 1}
	p.valid = true
	p.touch = true
}

// Click reports whether a click at the current position should pick. The
// synthetic click that follows a touch is skipped.
func (p *Pointer) Click() bool {
	return p.valid && !p.touch
}

// ClickAt records a click position and reports whether it should pick.
// A click arriving in touch mode is the synthetic twin of that touch: it is
// skipped and touch mode is kept.
func (p *Pointer) ClickAt(x, y float32, width, height int) bool {
	if p.touch {
		return false
	}
	p.ndc = ToNDC(x, y, width, height)
	p.valid = true
	return true
}

// NDC returns the last position and whether any pointer event happened.
func (p *Pointer) NDC() (mgl32.Vec2, bool) {
	return p.ndc, p.valid
}

// Touch reports whether the last interaction was a touch.
func (p *Pointer) Touch() bool {
	return p.touch
}
