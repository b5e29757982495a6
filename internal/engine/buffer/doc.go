// Package buffer implements the document model: the text content, the
// cursor, and the selection, together with every editing operation the
// editor exposes.
//
// Content is a flat, byte-indexed character sequence owned exclusively by
// the Buffer. Every content mutation is first recorded with the history
// manager and then applied, so undo and redo are exact inverses of what
// the user did. Navigation is not recorded.
//
// All operations are total: out-of-range positions are clamped, and edits
// that would do nothing (backspace at the start of the document, inserting
// the empty string) change no state and record no command.
package buffer
