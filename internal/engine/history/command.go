package history

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the primitive mutation a Command describes.
type Kind uint8

const (
	// KindInsert is text inserted at a position.
	KindInsert Kind = iota
	// KindDelete is text removed at or after the cursor.
	KindDelete
	// KindBackspace is text removed before the cursor.
	KindBackspace
	// KindReplace is text swapped in place (remove then insert at one position).
	KindReplace
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindBackspace:
		return "backspace"
	case KindReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Category labels a group of commands for coalescing purposes.
type Category uint8

const (
	// CategoryTyping is a single alphanumeric character insert.
	CategoryTyping Category = iota
	// CategoryNewLine is an insert of exactly one newline.
	CategoryNewLine
	// CategoryPaste is a multi-character insert.
	CategoryPaste
	// CategoryDeletion is any delete or backspace.
	CategoryDeletion
	// CategoryReplace is an in-place replacement.
	CategoryReplace
	// CategoryInsert is reserved for inserts that fit no narrower label.
	CategoryInsert
	// CategoryOther is everything else.
	CategoryOther
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTyping:
		return "typing"
	case CategoryNewLine:
		return "newline"
	case CategoryPaste:
		return "paste"
	case CategoryDeletion:
		return "deletion"
	case CategoryReplace:
		return "replace"
	case CategoryInsert:
		return "insert"
	case CategoryOther:
		return "other"
	default:
		return "unknown"
	}
}

// Command records one atomic text mutation. Position is a byte offset into
// the content as it was immediately before the mutation. Commands are
// immutable once recorded and owned by exactly one Group.
type Command struct {
	Kind         Kind
	Position     int
	RemovedText  string
	InsertedText string
	CursorBefore int
	CursorAfter  int
	Timestamp    time.Time
}

// String returns a human-readable description of the command.
func (c Command) String() string {
	switch c.Kind {
	case KindInsert:
		return fmt.Sprintf("Insert(%d, %q)", c.Position, c.InsertedText)
	case KindDelete, KindBackspace:
		return fmt.Sprintf("Delete(%d, %q)", c.Position, c.RemovedText)
	case KindReplace:
		return fmt.Sprintf("Replace(%d, %q -> %q)", c.Position, c.RemovedText, c.InsertedText)
	default:
		return fmt.Sprintf("Command(%d)", c.Position)
	}
}

// EndPosition returns the offset just past the command's effect: the end of
// the inserted text for inserts, the removal point for deletions. Used by
// the adjacency check when deciding whether a run of edits is contiguous.
func (c Command) EndPosition() int {
	return c.Position + len(c.InsertedText)
}

// Classify assigns a category to a command. Single alphanumeric inserts are
// typing, a lone newline is its own category, and longer inserts count as
// pastes regardless of origin.
func Classify(cmd Command) Category {
	switch cmd.Kind {
	case KindDelete, KindBackspace:
		return CategoryDeletion
	case KindReplace:
		return CategoryReplace
	case KindInsert:
		if cmd.InsertedText == "\n" {
			return CategoryNewLine
		}
		if r, size := utf8.DecodeRuneInString(cmd.InsertedText); size == len(cmd.InsertedText) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return CategoryTyping
			}
			return CategoryOther
		}
		if len(cmd.InsertedText) > 1 {
			return CategoryPaste
		}
		return CategoryOther
	default:
		return CategoryOther
	}
}
