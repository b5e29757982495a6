package buffer

import "strings"

// Point is a 0-indexed line and column position. Column is measured in
// bytes from the start of the line. Read-only derived data for consumers
// such as the renderer; the editing contract is purely offset-based.
type Point struct {
	Line   int
	Column int
}

// LineCount returns the number of lines in the content. An empty document
// has one line.
func (b *Buffer) LineCount() int {
	return strings.Count(b.content, "\n") + 1
}

// Lines returns the content split into lines, without newlines.
func (b *Buffer) Lines() []string {
	return strings.Split(b.content, "\n")
}

// CursorPoint returns the cursor position as line/column.
func (b *Buffer) CursorPoint() Point {
	return b.OffsetToPoint(b.cursor)
}

// OffsetToPoint converts a byte offset to line/column, clamping the offset
// into the content bounds.
func (b *Buffer) OffsetToPoint(offset int) Point {
	offset = clamp(offset, 0, len(b.content))
	before := b.content[:offset]
	line := strings.Count(before, "\n")
	col := offset
	if nl := strings.LastIndexByte(before, '\n'); nl >= 0 {
		col = offset - nl - 1
	}
	return Point{Line: line, Column: col}
}

// PointToOffset converts line/column to a byte offset, clamping both
// coordinates to the content.
func (b *Buffer) PointToOffset(p Point) int {
	if p.Line < 0 {
		return 0
	}
	offset := 0
	for line := 0; line < p.Line; line++ {
		nl := strings.IndexByte(b.content[offset:], '\n')
		if nl < 0 {
			return len(b.content)
		}
		offset += nl + 1
	}
	end := strings.IndexByte(b.content[offset:], '\n')
	if end < 0 {
		end = len(b.content) - offset
	}
	return offset + clamp(p.Column, 0, end)
}
