// Package renderer draws the document buffer onto the terminal: text,
// selection highlight, cursor, and a one-line status bar. It is a pure
// consumer of the buffer's read surface and never mutates document state.
package renderer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/quillpad/quill/internal/engine/buffer"
	"github.com/quillpad/quill/internal/renderer/backend"
)

// View renders a buffer into a terminal backend, keeping the cursor
// visible with simple vertical scrolling.
type View struct {
	term     *backend.Terminal
	tabWidth int

	scrollTop int
}

// NewView creates a view on the given terminal.
func NewView(term *backend.Terminal, tabWidth int) *View {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	return &View{term: term, tabWidth: tabWidth}
}

// Draw renders the buffer and status line and flushes the screen.
func (v *View) Draw(buf *buffer.Buffer, status string) {
	width, height := v.term.Size()
	if width <= 0 || height <= 0 {
		return
	}
	textRows := height - 1

	cursor := buf.CursorPoint()
	v.scrollToReveal(cursor.Line, textRows)

	selRange, selActive := selectionRange(buf)

	v.term.Clear()

	lines := buf.Lines()
	lineStart := 0
	for i := 0; i < v.scrollTop && i < len(lines); i++ {
		lineStart += len(lines[i]) + 1
	}

	for row := 0; row < textRows; row++ {
		lineIdx := v.scrollTop + row
		if lineIdx >= len(lines) {
			break
		}
		line := lines[lineIdx]
		v.drawLine(row, line, lineStart, width, selRange, selActive)
		lineStart += len(line) + 1
	}

	v.drawStatus(textRows, width, status)

	if cursor.Line >= v.scrollTop && cursor.Line < v.scrollTop+textRows {
		x := v.displayColumn(lines[cursor.Line], cursor.Column)
		if x < width {
			v.term.ShowCursor(x, cursor.Line-v.scrollTop)
		} else {
			v.term.HideCursor()
		}
	} else {
		v.term.HideCursor()
	}

	v.term.Show()
}

// scrollToReveal adjusts the scroll offset so the cursor row is on screen.
func (v *View) scrollToReveal(line, textRows int) {
	if textRows < 1 {
		textRows = 1
	}
	if line < v.scrollTop {
		v.scrollTop = line
	}
	if line >= v.scrollTop+textRows {
		v.scrollTop = line - textRows + 1
	}
	if v.scrollTop < 0 {
		v.scrollTop = 0
	}
}

// drawLine renders one content line, highlighting the selected span.
func (v *View) drawLine(row int, line string, lineStart, width int, sel buffer.Range, selActive bool) {
	x := 0
	for i, r := range line {
		if x >= width {
			break
		}
		style := tcell.StyleDefault
		if selActive && sel.Contains(lineStart+i) {
			style = style.Reverse(true)
		}

		if r == '\t' {
			next := (x/v.tabWidth + 1) * v.tabWidth
			for ; x < next && x < width; x++ {
				v.term.SetCell(x, row, ' ', style)
			}
			continue
		}

		v.term.SetCell(x, row, r, style)
		x += runewidth.RuneWidth(r)
	}

	// A selection spanning the newline highlights one trailing cell.
	if selActive && sel.Contains(lineStart+len(line)) && x < width {
		v.term.SetCell(x, row, ' ', tcell.StyleDefault.Reverse(true))
	}
}

// drawStatus renders the status bar on the bottom row.
func (v *View) drawStatus(row, width int, status string) {
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		v.term.SetCell(x, row, r, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		v.term.SetCell(x, row, ' ', style)
	}
}

// displayColumn converts a byte column within a line to a screen column,
// accounting for tabs and wide runes.
func (v *View) displayColumn(line string, byteCol int) int {
	x := 0
	for i, r := range line {
		if i >= byteCol {
			break
		}
		if r == '\t' {
			x = (x/v.tabWidth + 1) * v.tabWidth
			continue
		}
		x += runewidth.RuneWidth(r)
	}
	return x
}

// selectionRange returns the normalized active selection, if any.
func selectionRange(buf *buffer.Buffer) (buffer.Range, bool) {
	sel := buf.Selection()
	if !sel.Active() {
		return buffer.Range{}, false
	}
	return sel.Range(), true
}
