package history

import (
	"strings"
	"testing"
	"time"
)

// fakeClock gives tests full control over the grouping timeout.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestManager() (*Manager, *fakeClock) {
	clock := newFakeClock()
	return NewManager(WithClock(clock.now)), clock
}

// typeString records one typing command per byte, starting at pos.
func typeString(m *Manager, pos int, s string) {
	for i := 0; i < len(s); i++ {
		m.Record(KindInsert, pos+i, "", string(s[i]), pos+i, pos+i+1)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want Category
	}{
		{"letter", Command{Kind: KindInsert, InsertedText: "a"}, CategoryTyping},
		{"digit", Command{Kind: KindInsert, InsertedText: "7"}, CategoryTyping},
		{"multibyte letter", Command{Kind: KindInsert, InsertedText: "é"}, CategoryTyping},
		{"newline", Command{Kind: KindInsert, InsertedText: "\n"}, CategoryNewLine},
		{"space", Command{Kind: KindInsert, InsertedText: " "}, CategoryOther},
		{"punctuation", Command{Kind: KindInsert, InsertedText: "."}, CategoryOther},
		{"paste", Command{Kind: KindInsert, InsertedText: "hello"}, CategoryPaste},
		{"two newlines", Command{Kind: KindInsert, InsertedText: "\n\n"}, CategoryPaste},
		{"delete", Command{Kind: KindDelete, RemovedText: "x"}, CategoryDeletion},
		{"backspace", Command{Kind: KindBackspace, RemovedText: "x"}, CategoryDeletion},
		{"replace", Command{Kind: KindReplace, RemovedText: "a", InsertedText: "b"}, CategoryReplace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.cmd); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestUndoEmptyReturnsInput(t *testing.T) {
	m, _ := newTestManager()
	content, cursor := m.Undo("hello", 3)
	if content != "hello" || cursor != 3 {
		t.Errorf("Undo on empty history = (%q, %d), want (%q, 3)", content, cursor, "hello")
	}
	if m.CanRedo() {
		t.Error("CanRedo should be false after no-op undo")
	}
}

func TestInsertUndoIsInverse(t *testing.T) {
	m, _ := newTestManager()
	m.Record(KindInsert, 2, "", "XY", 2, 4)

	content, cursor := m.Undo("heXYllo", 4)
	if content != "hello" {
		t.Errorf("content = %q, want %q", content, "hello")
	}
	if cursor != 2 {
		t.Errorf("cursor = %d, want 2", cursor)
	}
}

func TestTypingCoalescesIntoOneGroup(t *testing.T) {
	m, _ := newTestManager()
	typeString(m, 0, "abc")

	content, cursor := m.Undo("abc", 3)
	if content != "" {
		t.Errorf("one undo should remove the whole run, got %q", content)
	}
	if cursor != 0 {
		t.Errorf("cursor = %d, want 0", cursor)
	}
	if m.CanUndo() {
		t.Error("no further undo expected")
	}
}

func TestTimeoutStartsNewGroup(t *testing.T) {
	m, clock := newTestManager()
	typeString(m, 0, "a")
	clock.advance(1001 * time.Millisecond)
	typeString(m, 1, "bc")

	content, cursor := m.Undo("abc", 3)
	if content != "a" {
		t.Errorf("undo after pause should remove only %q-suffix, got %q", "bc", content)
	}
	if cursor != 1 {
		t.Errorf("cursor = %d, want 1", cursor)
	}

	content, _ = m.Undo(content, cursor)
	if content != "" {
		t.Errorf("second undo should remove the rest, got %q", content)
	}
}

func TestExactTimeoutStillCoalesces(t *testing.T) {
	m, clock := newTestManager()
	typeString(m, 0, "a")
	clock.advance(1000 * time.Millisecond)
	typeString(m, 1, "b")

	if got := undoCountAfterFinalize(m); got != 1 {
		t.Errorf("groups = %d, want 1 (timeout is exclusive)", got)
	}
}

func TestCategoryChangeStartsNewGroup(t *testing.T) {
	m, _ := newTestManager()
	typeString(m, 0, "a")
	m.Record(KindInsert, 1, "", "\n", 1, 2)
	typeString(m, 2, "b")

	if got := undoCountAfterFinalize(m); got != 3 {
		t.Errorf("groups = %d, want 3", got)
	}
}

func TestAdjacencyJumpStartsNewGroup(t *testing.T) {
	m, _ := newTestManager()
	typeString(m, 0, "a")
	// Jump elsewhere in the document.
	m.Record(KindInsert, 10, "", "b", 10, 11)

	if got := undoCountAfterFinalize(m); got != 2 {
		t.Errorf("groups = %d, want 2", got)
	}
}

func TestBackspaceRunCoalesces(t *testing.T) {
	m, _ := newTestManager()
	// Backspacing "abc" from the end: each removal is one to the left.
	m.Record(KindBackspace, 2, "c", "", 3, 2)
	m.Record(KindBackspace, 1, "b", "", 2, 1)
	m.Record(KindBackspace, 0, "a", "", 1, 0)

	content, cursor := m.Undo("", 0)
	if content != "abc" {
		t.Errorf("content = %q, want %q", content, "abc")
	}
	if cursor != 3 {
		t.Errorf("cursor = %d, want 3", cursor)
	}
}

func TestRecordClearsRedo(t *testing.T) {
	m, _ := newTestManager()
	typeString(m, 0, "a")
	content, cursor := m.Undo("a", 1)
	if !m.CanRedo() {
		t.Fatal("CanRedo should be true after undo")
	}

	m.Record(KindInsert, cursor, "", "z", cursor, cursor+1)
	_ = content
	if m.CanRedo() {
		t.Error("recording a new command must clear the redo stack")
	}
}

func TestRedoReappliesGroup(t *testing.T) {
	m, _ := newTestManager()
	typeString(m, 0, "abc")

	content, cursor := m.Undo("abc", 3)
	content, cursor = m.Redo(content, cursor)
	if content != "abc" {
		t.Errorf("content = %q, want %q", content, "abc")
	}
	if cursor != 3 {
		t.Errorf("cursor = %d, want 3", cursor)
	}
	if m.CanRedo() {
		t.Error("redo stack should be exhausted")
	}
	if !m.CanUndo() {
		t.Error("group should be back on the undo stack")
	}
}

func TestRedoEmptyReturnsInput(t *testing.T) {
	m, _ := newTestManager()
	content, cursor := m.Redo("hello", 2)
	if content != "hello" || cursor != 2 {
		t.Errorf("Redo on empty stack = (%q, %d), want (%q, 2)", content, cursor, "hello")
	}
}

func TestCapacityEviction(t *testing.T) {
	m, clock := newTestManager()
	content := ""
	for i := 0; i < 150; i++ {
		m.Record(KindInsert, 0, "", "x", 0, 1)
		content = "x" + content
		clock.advance(2 * time.Second)
	}

	cursor := 0
	undos := 0
	for m.CanUndo() {
		content, cursor = m.Undo(content, cursor)
		undos++
		if undos > 200 {
			t.Fatal("undo did not terminate")
		}
	}

	if undos != 100 {
		t.Errorf("undo count = %d, want 100 (cap)", undos)
	}
	if len(content) != 50 {
		t.Errorf("remaining content length = %d, want 50 (evicted groups are unrecoverable)", len(content))
	}
}

func TestCompositeGroupsAcrossCategories(t *testing.T) {
	m, _ := newTestManager()

	// Replace selection "bar" in "foobarbaz" with "X": a delete and an
	// insert with different categories, undone as one unit.
	m.BeginComposite(CategoryReplace)
	m.Record(KindDelete, 3, "bar", "", 6, 3)
	m.Record(KindInsert, 3, "", "X", 3, 4)
	m.EndComposite()

	content, cursor := m.Undo("fooXbaz", 4)
	if content != "foobarbaz" {
		t.Errorf("content = %q, want %q", content, "foobarbaz")
	}
	if cursor != 6 {
		t.Errorf("cursor = %d, want 6 (position before the delete)", cursor)
	}

	content, cursor = m.Redo(content, cursor)
	if content != "fooXbaz" {
		t.Errorf("redo content = %q, want %q", content, "fooXbaz")
	}
	if cursor != 4 {
		t.Errorf("redo cursor = %d, want 4", cursor)
	}
}

func TestCompositeFollowedByTypingSplits(t *testing.T) {
	m, _ := newTestManager()
	m.BeginComposite(CategoryReplace)
	m.Record(KindDelete, 0, "ab", "", 2, 0)
	m.Record(KindInsert, 0, "", "Z", 0, 1)
	m.EndComposite()
	typeString(m, 1, "q")

	if got := undoCountAfterFinalize(m); got != 2 {
		t.Errorf("groups = %d, want 2 (typing breaks away from composite)", got)
	}
}

func TestStaleReplaySkipped(t *testing.T) {
	m, _ := newTestManager()
	m.Record(KindInsert, 10, "", "zzz", 10, 13)

	// Content was replaced externally and is now too short for the
	// recorded offsets; replay must leave it untouched.
	content, _ := m.Undo("ab", 1)
	if content != "ab" {
		t.Errorf("stale replay modified content: %q", content)
	}
}

func TestReplaceRoundTrip(t *testing.T) {
	m, _ := newTestManager()

	// "hello" with "el" replaced by "EL" in place.
	m.Record(KindReplace, 1, "el", "EL", 1, 3)

	content, cursor := m.Undo("hELlo", 3)
	if content != "hello" {
		t.Errorf("Undo content = %q, want %q", content, "hello")
	}
	if cursor != 1 {
		t.Errorf("Undo cursor = %d, want 1", cursor)
	}

	content, cursor = m.Redo(content, cursor)
	if content != "hELlo" {
		t.Errorf("Redo content = %q, want %q", content, "hELlo")
	}
	if cursor != 3 {
		t.Errorf("Redo cursor = %d, want 3", cursor)
	}
}

func TestStaleReplaceSkipped(t *testing.T) {
	m, _ := newTestManager()
	m.Record(KindReplace, 1, "xy", "QRS", 1, 4)

	// The recorded removal span no longer fits the content. The command
	// must be skipped whole: neither the removal nor the insertion half
	// may apply on its own.
	content, _ := m.Undo("ab", 1)
	if content != "ab" {
		t.Errorf("stale replace undo modified content: %q", content)
	}

	content, _ = m.Redo("a", 0)
	if content != "a" {
		t.Errorf("stale replace redo modified content: %q", content)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	m, _ := newTestManager()
	m.Finalize()
	m.Finalize()
	if m.CanUndo() {
		t.Error("finalizing with no open group should record nothing")
	}

	typeString(m, 0, "a")
	m.Finalize()
	m.Finalize()
	if got := m.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1", got)
	}
}

func TestClear(t *testing.T) {
	m, _ := newTestManager()
	typeString(m, 0, "abc")
	m.Undo("abc", 3)
	typeString(m, 0, "d")

	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Error("Clear must discard both stacks and the open group")
	}
}

func TestLongRunStaysOneGroup(t *testing.T) {
	m, clock := newTestManager()
	word := strings.Repeat("a", 40)
	for i := 0; i < len(word); i++ {
		m.Record(KindInsert, i, "", "a", i, i+1)
		clock.advance(50 * time.Millisecond)
	}

	if got := undoCountAfterFinalize(m); got != 1 {
		t.Errorf("groups = %d, want 1", got)
	}
}

// undoCountAfterFinalize flushes the open group and returns the stack depth.
func undoCountAfterFinalize(m *Manager) int {
	m.Finalize()
	return m.UndoCount()
}
