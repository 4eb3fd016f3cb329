// Package modal implements the site's overlays. Every overlay composes a
// Shell, which owns the behaviour they all share: the body scroll lock, the
// Escape key listener and backdrop clicks. The interaction controller
// decides when an overlay is open; overlays only ask to be closed.
package modal

import (
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
)

// Modal is the capability every overlay exposes.
type Modal interface {
	IsOpen() bool
	RequestClose()
}

// Target is where a click inside an open overlay landed.
type Target int

// Click targets.
const (
	TargetBackdrop Target = iota
	TargetBody
)

// Shell is the shared overlay behaviour. While open it holds one scroll
// lock on the document and one keydown listener on the window; both are
// released on close and on unmount.
type Shell struct {
	doc            *page.Document
	win            *events.Window
	onRequestClose func()

	open      bool
	release   func()
	removeKey func()
}

// NewShell creates a closed shell. onRequestClose is invoked for Escape and
// backdrop clicks.
func NewShell(doc *page.Document, win *events.Window, onRequestClose func()) *Shell {
	if onRequestClose == nil {
		onRequestClose = func() {}
	}

	return &Shell{doc: doc, win: win, onRequestClose: onRequestClose}
}

// IsOpen reports whether the overlay is open.
func (s *Shell) IsOpen() bool {
	return s.open
}

// RequestClose asks the owner to close the overlay.
func (s *Shell) RequestClose() {
	s.onRequestClose()
}

// SetOpen opens or closes the overlay. Repeating the current state does
// nothing, so the lock count stays exact.
func (s *Shell) SetOpen(open bool) {
	if open == s.open {
		return
	}

	s.open = open
	if open {
		s.release = s.doc.LockScroll()
		s.removeKey = s.win.Keydown.Add(func(ev events.KeyEvent) {
			if ev.Key == events.KeyEscape {
				s.onRequestClose()
			}
		})

		return
	}

	s.detach()
}

// Click handles a pointer click. Only the backdrop closes the overlay;
// clicks in the body stop there.
func (s *Shell) Click(target Target) {
	if !s.open || target != TargetBackdrop {
		return
	}

	s.onRequestClose()
}

// Unmount closes the overlay and releases everything it holds.
func (s *Shell) Unmount() {
	s.open = false
	s.detach()
}

func (s *Shell) detach() {
	if s.release != nil {
		s.release()
		s.release = nil
	}

	if s.removeKey != nil {
		s.removeKey()
		s.removeKey = nil
	}
}
