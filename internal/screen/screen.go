// Package screen defines what the router needs from every page of the TUI.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/ui/layout"
)

// Screen is one page on the router stack.
type Screen interface {
	// Init runs when the screen is pushed, and again when the stack is
	// popped back to it as the root.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold timers or other resources.
// The router calls Close once when the screen leaves the stack.
type Closer interface {
	Close()
}

// EscapeHandler is implemented by screens that want Esc delivered to them
// instead of the app popping them off the stack.
type EscapeHandler interface {
	HandlesEscape() bool
}
