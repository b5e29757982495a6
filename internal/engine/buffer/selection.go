package buffer

import "fmt"

// Selection is an anchor plus a floating end. The zero value means "no
// selection"; a selection is active only when it has been set and the two
// ends differ. Selection is an immutable value type.
type Selection struct {
	anchor int
	head   int
	set    bool
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{anchor: anchor, head: head, set: true}
}

// Active returns true if the selection covers a non-empty range.
func (s Selection) Active() bool {
	return s.set && s.anchor != s.head
}

// Anchor returns where the selection started.
func (s Selection) Anchor() int {
	return s.anchor
}

// Head returns the floating end of the selection.
func (s Selection) Head() int {
	return s.head
}

// WithHead returns a selection with the same anchor and a new floating end.
func (s Selection) WithHead(head int) Selection {
	return Selection{anchor: s.anchor, head: head, set: s.set}
}

// Range returns the normalized (min, max) extent of the selection.
func (s Selection) Range() Range {
	if s.anchor <= s.head {
		return Range{Start: s.anchor, End: s.head}
	}
	return Range{Start: s.head, End: s.anchor}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if !s.set {
		return "Selection(none)"
	}
	return fmt.Sprintf("Selection(%d..%d)", s.anchor, s.head)
}
