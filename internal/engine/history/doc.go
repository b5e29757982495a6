// Package history provides grouped undo/redo for buffer edits.
//
// Every primitive mutation of the document is recorded as a Command: an
// immutable value describing the edit, the text it removed and inserted,
// and the cursor positions around it. Commands are coalesced into Groups
// according to a Policy (category, timing, and position adjacency), so a
// burst of typed characters undoes as one unit while a paste or a pause
// starts a new unit.
//
// The Manager owns the undo and redo stacks. It never touches a buffer
// directly: Undo and Redo are pure content transformations that take the
// current text and cursor and return the replayed result. The caller (the
// buffer) adopts whatever comes back.
package history
