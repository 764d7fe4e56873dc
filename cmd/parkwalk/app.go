package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/engine/audio"
	"github.com/folio3d/parkwalk/internal/engine/capture"
	"github.com/folio3d/parkwalk/internal/engine/input"
	"github.com/folio3d/parkwalk/internal/engine/lighting"
	"github.com/folio3d/parkwalk/internal/engine/renderer"
	"github.com/folio3d/parkwalk/internal/engine/window"
	"github.com/folio3d/parkwalk/internal/game"
	"github.com/folio3d/parkwalk/internal/game/info"
	"github.com/folio3d/parkwalk/internal/overlay"
)

// app owns the collaborators around the park: the window, audio, the info
// overlay and the toggles. It is the game's host and event sink.
type app struct {
	win     *window.Window
	rend    *renderer.Renderer
	shots   *capture.Saver
	audio   *audio.Manager
	overlay *overlay.Presenter
	catalog info.Catalog
	game    *game.Game
	state   game.ExternalState
	events  []input.Event
	shotDue bool
	log     *zap.Logger
}

// PollEvents handles the app's own keys and overlay changes, and passes
// the remaining events to the game.
func (a *app) PollEvents() []input.Event {
	a.events = a.events[:0]
	for _, e := range a.win.PollEvents() {
		if e.Type == input.EventKeyDown && !e.Repeat && a.handleKey(e.Key) {
			continue
		}
		a.events = append(a.events, e)
	}

	for _, c := range a.overlay.Poll() {
		if c.Err != nil {
			a.log.Warn("overlay link failed", zap.String("name", c.Name), zap.Error(c.Err))
		}
	}
	if open := a.overlay.IsOpen(); open != a.state.OverlayOpen {
		a.state.OverlayOpen = open
		a.game.Apply(a.state)
	}
	return a.events
}

// SwapBuffers presents the frame, saving it first when a screenshot was
// requested.
func (a *app) SwapBuffers() {
	if a.shotDue {
		a.shotDue = false
		pixels, w, h := a.rend.ReadPixels()
		if path, err := a.shots.SavePixels(pixels, w, h); err != nil {
			a.log.Warn("screenshot failed", zap.Error(err))
		} else {
			a.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	a.win.SwapBuffers()
}

func (a *app) handleKey(key string) bool {
	switch key {
	case "return", "enter", "keypad enter":
		if a.game.Enter() {
			a.win.SetTitle(title)
		}
	case "t":
		if a.state.Theme == lighting.ThemeDark {
			a.state.Theme = lighting.ThemeLight
		} else {
			a.state.Theme = lighting.ThemeDark
		}
		a.game.Apply(a.state)
	case "m":
		a.state.Muted = !a.state.Muted
		a.game.Apply(a.state)
		a.audio.SetMuted(a.state.Muted)
		// A park entered while muted never started its loop.
		if !a.state.Muted && a.game.Entered() {
			a.PlaySound(game.AmbientLoop)
		}
	case "f12":
		a.shotDue = true
	default:
		return false
	}
	return true
}

func (a *app) WorldReady() {
	a.win.SetTitle(title + ": press Enter to explore")
}

func (a *app) WorldFailed(err error) {
	a.win.SetTitle(title + ": the park failed to load")
}

func (a *app) ShowInfo(name string) {
	entry, err := a.catalog.Lookup(name)
	if err != nil {
		a.log.Debug("no info for object", zap.String("name", name))
		return
	}
	if a.overlay.Show(name, entry) {
		a.state.OverlayOpen = true
		a.game.Apply(a.state)
	}
}

func (a *app) PlaySound(s game.Sound) {
	err := a.audio.Play(s.String())
	if err != nil && !errors.Is(err, audio.ErrNotInitialized) {
		a.log.Debug("sound not played", zap.Stringer("sound", s), zap.Error(err))
	}
}

func (a *app) SetCursor(c game.Cursor) {
	if c == game.CursorPointer {
		a.win.SetCursor(window.CursorPointer)
		return
	}
	a.win.SetCursor(window.CursorDefault)
}
