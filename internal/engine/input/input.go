// Package input tracks held movement directions, key bindings and the
// pointer, independent of the windowing backend.
package input

// EventType identifies a platform event after translation.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseClick
	EventTouchEnd
)

// Event is a backend-neutral input event.
type Event struct {
	Type EventType
	Key  string // lower-case key name, e.g. "w", "up", "escape"
	// Repeat is set for auto-repeated key downs.
	Repeat bool
	// X, Y are window coordinates for mouse events and normalized
	// 0..1 coordinates for touch events.
	X, Y          float32
	Width, Height int
	// PixelRatio is the drawable/window size ratio for resize events.
	PixelRatio float32
}

// Direction is one of the four movement directions.
type Direction int

const (
	Forward Direction = iota
	Back
	Left
	Right
	numDirections
)

var directionNames = [...]string{"forward", "back", "left", "right"}

func (d Direction) String() string {
	if d < 0 || d >= numDirections {
		return "unknown"
	}
	return directionNames[d]
}

// Snapshot is a copy of the held flags, indexed by Direction.
type Snapshot [numDirections]bool

// Held reports whether d was held.
func (s Snapshot) Held(d Direction) bool {
	return d >= 0 && d < numDirections && s[d]
}

// Any reports whether any direction was held.
func (s Snapshot) Any() bool {
	for _, h := range s {
		if h {
			return true
		}
	}
	return false
}

// State holds the four direction flags. It is owned by the frame loop.
type State struct {
	held Snapshot
}

// Press marks d as held. Pressing an already held direction is a no-op,
// so auto-repeat cannot re-trigger anything.
func (s *State) Press(d Direction) {
	if d >= 0 && d < numDirections {
		s.held[d] = true
	}
}

// Release clears d.
func (s *State) Release(d Direction) {
	if d >= 0 && d < numDirections {
		s.held[d] = false
	}
}

// Clear releases every direction; used when the window loses focus.
func (s *State) Clear() {
	s.held = Snapshot{}
}

// Held reports whether d is currently held.
func (s *State) Held(d Direction) bool {
	return s.held.Held(d)
}

// Snapshot returns a copy of the held flags.
func (s *State) Snapshot() Snapshot {
	return s.held
}
