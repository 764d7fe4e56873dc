// Package overlay shows info entries as native dialogs.
//
// Dialogs block, so each one runs on its own goroutine; the frame loop
// learns about closed dialogs through Poll.
package overlay

import (
	"fmt"
	"sync"

	"github.com/pkg/browser"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/game/info"
	"github.com/folio3d/parkwalk/internal/logger"
)

// Closed describes a dialog the user dismissed.
type Closed struct {
	Name string
	// Followed is set when the user chose to open the entry's link.
	Followed bool
	Err      error
}

// Presenter shows one dialog at a time.
type Presenter struct {
	mu      sync.Mutex
	open    bool
	current string
	closed  []Closed

	// Swappable for tests.
	confirm func(title, message string) bool
	notify  func(title, message string)
	openURL func(url string) error

	log *zap.Logger
}

// New creates a presenter backed by the system dialogs and browser.
func New() *Presenter {
	return &Presenter{
		confirm: func(title, message string) bool {
			return dialog.Message("%s", message).Title(title).YesNo()
		},
		notify: func(title, message string) {
			dialog.Message("%s", message).Title(title).Info()
		},
		openURL: browser.OpenURL,
		log:     logger.Named("overlay"),
	}
}

// Show opens a dialog for the entry. It returns false, doing nothing, while
// another dialog is open.
func (p *Presenter) Show(name string, e info.Entry) bool {
	p.mu.Lock()
	if p.open {
		p.mu.Unlock()
		p.log.Debug("overlay busy, ignoring", zap.String("name", name))
		return false
	}
	p.open = true
	p.current = name
	p.mu.Unlock()

	p.log.Debug("overlay opened", zap.String("name", name))
	go p.present(name, e)
	return true
}

func (p *Presenter) present(name string, e info.Entry) {
	c := Closed{Name: name}
	if e.Link != "" {
		msg := fmt.Sprintf("%s\n\nOpen %s?", e.Content, e.Link)
		if p.confirm(e.Title, msg) {
			c.Followed = true
			if err := p.openURL(e.Link); err != nil {
				c.Err = fmt.Errorf("open %s: %w", e.Link, err)
				p.log.Warn("failed to open link", zap.String("link", e.Link), zap.Error(err))
			}
		}
	} else {
		p.notify(e.Title, e.Content)
	}

	p.mu.Lock()
	p.open = false
	p.current = ""
	p.closed = append(p.closed, c)
	p.mu.Unlock()
}

// IsOpen reports whether a dialog is showing.
func (p *Presenter) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Current returns the name shown by the open dialog, or "".
func (p *Presenter) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Poll returns the dialogs closed since the last call.
func (p *Presenter) Poll() []Closed {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.closed
	p.closed = nil
	return out
}
