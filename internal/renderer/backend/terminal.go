// Package backend wraps the terminal screen behind a small surface so the
// renderer can be tested against a simulation screen.
package backend

import (
	"github.com/gdamore/tcell/v2"
)

// Terminal owns a tcell screen.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal creates a terminal backend on the real screen.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen. Tests pass a
// tcell simulation screen here.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen and enables bracketed paste.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.screen.Fini()
}

// Size returns the screen dimensions.
func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

// Clear erases the screen buffer.
func (t *Terminal) Clear() {
	t.screen.Clear()
}

// Show flushes pending drawing to the terminal.
func (t *Terminal) Show() {
	t.screen.Show()
}

// SetCell places one rune at a screen position.
func (t *Terminal) SetCell(x, y int, r rune, style tcell.Style) {
	t.screen.SetContent(x, y, r, nil, style)
}

// ShowCursor positions the hardware cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.screen.ShowCursor(x, y)
}

// HideCursor hides the hardware cursor.
func (t *Terminal) HideCursor() {
	t.screen.HideCursor()
}

// PollEvent blocks for the next input event.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// PostEvent injects an event into the input queue.
func (t *Terminal) PostEvent(ev tcell.Event) error {
	return t.screen.PostEvent(ev)
}
