package input

import (
	"fmt"
	"sort"
	"strings"
)

// Action is what a bound key does.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionRespawn
)

var actionNames = map[string]Action{
	"forward": ActionForward,
	"back":    ActionBack,
	"left":    ActionLeft,
	"right":   ActionRight,
	"respawn": ActionRespawn,
}

// ParseAction converts a config action name.
func ParseAction(name string) (Action, error) {
	a, ok := actionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ActionNone, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// Direction returns the movement direction for a movement action.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionForward:
		return Forward, true
	case ActionBack:
		return Back, true
	case ActionLeft:
		return Left, true
	case ActionRight:
		return Right, true
	}
	return 0, false
}

// Bindings maps lower-case key names to actions.
type Bindings map[string]Action

// DefaultBindings returns WASD plus arrow keys and R to respawn.
func DefaultBindings() Bindings {
	return Bindings{
		"w": ActionForward, "up": ActionForward,
		"s": ActionBack, "down": ActionBack,
		"a": ActionLeft, "left": ActionLeft,
		"d": ActionRight, "right": ActionRight,
		"r": ActionRespawn,
	}
}

// ParseBindings builds bindings from a key -> action-name map. Errors name
// every invalid entry.
func ParseBindings(raw map[string]string) (Bindings, error) {
	b := make(Bindings, len(raw))
	var bad []string
	for key, name := range raw {
		a, err := ParseAction(name)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%s=%s", key, name))
			continue
		}
		b[strings.ToLower(key)] = a
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("invalid key bindings: %s", strings.Join(bad, ", "))
	}
	return b, nil
}

// Lookup returns the action bound to key, case-insensitively.
func (b Bindings) Lookup(key string) Action {
	return b[strings.ToLower(key)]
}
