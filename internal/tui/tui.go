package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/theme"
)

// TUI manages the terminal screen using tcell.
type TUI struct {
	screen tcell.Screen
	// viewTop is the first layout line on screen.
	viewTop int
}

// New creates and initializes a terminal screen.
func New(th *theme.Theme) (*TUI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	return NewWithScreen(s, th)
}

// NewWithScreen initializes the given screen. Tests pass a simulation screen.
func NewWithScreen(s tcell.Screen, th *theme.Theme) (*TUI, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	s.SetStyle(th.GetStyle("Default"))
	return &TUI{screen: s}, nil
}

// SetTheme changes the screen background style.
func (t *TUI) SetTheme(th *theme.Theme) {
	t.screen.SetStyle(th.GetStyle("Default"))
}

// Close finalizes the tcell screen.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// PollEvent retrieves the next event. It returns nil once the screen is
// finalized.
func (t *TUI) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Clear clears the entire screen.
func (t *TUI) Clear() {
	t.screen.Clear()
}

// Show makes the changes visible.
func (t *TUI) Show() {
	t.screen.Show()
}

// Size returns the width and height of the terminal screen.
func (t *TUI) Size() (int, int) {
	return t.screen.Size()
}

// GetScreen provides direct access (use with caution).
func (t *TUI) GetScreen() tcell.Screen {
	return t.screen
}
