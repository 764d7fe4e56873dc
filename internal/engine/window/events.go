package window

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/folio3d/parkwalk/internal/engine/input"
)

// PollEvents drains the SDL queue and returns the translated events. The
// returned slice is reused by the next call.
func (w *Window) PollEvents() []input.Event {
	w.events = w.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := w.translate(event); ok {
			w.events = append(w.events, e)
		}
	}
	return w.events
}

func (w *Window) translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return input.Event{
				Type:       input.EventWindowResize,
				Width:      int(e.Data1),
				Height:     int(e.Data2),
				PixelRatio: w.PixelRatio(),
			}, true
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return input.Event{Type: input.EventFocusLost}, true
		}

	case *sdl.KeyboardEvent:
		name := strings.ToLower(sdl.GetKeyName(e.Keysym.Sym))
		switch e.Type {
		case sdl.KEYDOWN:
			return input.Event{Type: input.EventKeyDown, Key: name, Repeat: e.Repeat != 0}, true
		case sdl.KEYUP:
			return input.Event{Type: input.EventKeyUp, Key: name}, true
		}

	case *sdl.MouseMotionEvent:
		if e.Which == sdl.TOUCH_MOUSEID {
			return input.Event{}, false
		}
		return input.Event{Type: input.EventMouseMove, X: float32(e.X), Y: float32(e.Y)}, true

	case *sdl.MouseButtonEvent:
		// Touch-synthesized clicks arrive as finger events instead.
		if e.Which == sdl.TOUCH_MOUSEID || e.Button != sdl.BUTTON_LEFT || e.Type != sdl.MOUSEBUTTONUP {
			return input.Event{}, false
		}
		return input.Event{Type: input.EventMouseClick, X: float32(e.X), Y: float32(e.Y)}, true

	case *sdl.TouchFingerEvent:
		if e.Type == sdl.FINGERUP {
			return input.Event{Type: input.EventTouchEnd, X: e.X, Y: e.Y}, true
		}
	}
	return input.Event{}, false
}
