package history

import "time"

// Manager owns the undo and redo stacks and the currently open group.
// It classifies and coalesces incoming commands and replays groups as pure
// content transformations. A Manager is exclusively owned by one editing
// session and is not safe for concurrent use.
type Manager struct {
	policy Policy
	now    func() time.Time

	undoStack []*Group
	redoStack []*Group

	open       *Group
	composite  bool
	lastRecord time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy sets the grouping policy.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p.normalize()
	}
}

// WithClock sets the time source used for grouping decisions.
// Tests use this to control the grouping timeout deterministically.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager with the default policy and wall clock.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		policy: DefaultPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the manager's grouping policy.
func (m *Manager) Policy() Policy {
	return m.policy
}

// SetPolicy replaces the grouping policy, re-capping the undo stack if the
// new limit is smaller. Used for configuration reload.
func (m *Manager) SetPolicy(p Policy) {
	m.policy = p.normalize()
	if excess := len(m.undoStack) - m.policy.MaxGroups; excess > 0 {
		m.undoStack = append([]*Group(nil), m.undoStack[excess:]...)
	}
}

// Record logs one atomic mutation. Recording always invalidates the redo
// stack; the command then either extends the open group or starts a new
// one according to the policy. The caller applies the mutation itself.
func (m *Manager) Record(kind Kind, position int, removedText, insertedText string, cursorBefore, cursorAfter int) {
	now := m.now()
	cmd := Command{
		Kind:         kind,
		Position:     position,
		RemovedText:  removedText,
		InsertedText: insertedText,
		CursorBefore: cursorBefore,
		CursorAfter:  cursorAfter,
		Timestamp:    now,
	}

	m.redoStack = nil

	cat := Classify(cmd)
	if m.shouldStartNewGroup(cmd, cat, now) {
		m.pushOpen()
		m.open = newGroup(cat, now)
	}

	m.open.append(cmd)
	m.lastRecord = now
}

// shouldStartNewGroup decides whether cmd opens a fresh group: always when
// none is open, after a pause longer than the grouping timeout, on a
// category change, and for typing and deletion runs when the command is
// not adjacent to where the previous one ended. Inside a composite scope
// the open group absorbs everything.
func (m *Manager) shouldStartNewGroup(cmd Command, cat Category, now time.Time) bool {
	if m.open == nil {
		return true
	}
	if m.composite {
		return false
	}
	if !m.lastRecord.IsZero() && now.Sub(m.lastRecord) > m.policy.GroupTimeout {
		return true
	}
	if cat != m.open.Category {
		return true
	}
	if cat == CategoryTyping || cat == CategoryDeletion {
		if !m.open.IsEmpty() && !m.policy.contiguous(m.open.last(), cmd.Position) {
			return true
		}
	}
	return false
}

// BeginComposite opens a group that absorbs every command recorded until
// EndComposite, regardless of category or position. Used for operations
// that are several primitive edits but one semantic action, such as
// replacing a selection. Any previously open group is finalized first.
func (m *Manager) BeginComposite(cat Category) {
	if m.composite {
		return
	}
	m.pushOpen()
	m.open = newGroup(cat, m.now())
	m.composite = true
}

// EndComposite closes the composite scope. The group stays open so the
// usual heuristics decide when the next command breaks away from it.
func (m *Manager) EndComposite() {
	m.composite = false
	if m.open != nil && m.open.IsEmpty() {
		m.open = nil
	}
}

// Finalize pushes the open group, if any, onto the undo stack.
// Callers invoke this after a period of input inactivity; it is idempotent
// when no group is open.
func (m *Manager) Finalize() {
	m.composite = false
	m.pushOpen()
}

// pushOpen moves a non-empty open group onto the undo stack.
func (m *Manager) pushOpen() {
	if m.open == nil || m.open.IsEmpty() {
		m.open = nil
		return
	}
	m.undoStack = append(m.undoStack, m.open)
	m.open = nil

	if excess := len(m.undoStack) - m.policy.MaxGroups; excess > 0 {
		m.undoStack = append([]*Group(nil), m.undoStack[excess:]...)
	}
}

// Undo pops the most recent group and replays its commands in reverse,
// applying each command's inverse to content. The returned cursor is the
// position from immediately before the whole group began. If there is
// nothing to undo, the input is returned unchanged.
func (m *Manager) Undo(content string, cursor int) (string, int) {
	m.Finalize()

	if len(m.undoStack) == 0 {
		return content, cursor
	}

	g := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, g)

	for i := len(g.Commands) - 1; i >= 0; i-- {
		cmd := g.Commands[i]
		content = applyInverse(content, cmd)
		cursor = cmd.CursorBefore
	}

	return content, clampOffset(cursor, len(content))
}

// Redo pops the most recently undone group and replays its commands in
// forward order. The returned cursor is the position from immediately
// after the group's final command. If there is nothing to redo, the input
// is returned unchanged.
func (m *Manager) Redo(content string, cursor int) (string, int) {
	if len(m.redoStack) == 0 {
		return content, cursor
	}

	g := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, g)

	for _, cmd := range g.Commands {
		content = applyForward(content, cmd)
		cursor = cmd.CursorAfter
	}

	return content, clampOffset(cursor, len(content))
}

// applyInverse reverses one command against content. A command whose
// recorded offsets no longer fit the content is skipped rather than
// corrupting the text.
func applyInverse(content string, cmd Command) string {
	switch cmd.Kind {
	case KindInsert:
		return removeAt(content, cmd.Position, len(cmd.InsertedText))
	case KindDelete, KindBackspace:
		return insertAt(content, cmd.Position, cmd.RemovedText)
	case KindReplace:
		return replaceAt(content, cmd.Position, len(cmd.InsertedText), cmd.RemovedText)
	default:
		return content
	}
}

// applyForward re-applies one command against content, with the same
// stale-offset protection as applyInverse.
func applyForward(content string, cmd Command) string {
	switch cmd.Kind {
	case KindInsert:
		return insertAt(content, cmd.Position, cmd.InsertedText)
	case KindDelete, KindBackspace:
		return removeAt(content, cmd.Position, len(cmd.RemovedText))
	case KindReplace:
		return replaceAt(content, cmd.Position, len(cmd.RemovedText), cmd.InsertedText)
	default:
		return content
	}
}

// insertAt inserts text at offset, or returns content unchanged if the
// offset is out of bounds.
func insertAt(content string, offset int, text string) string {
	if offset < 0 || offset > len(content) || text == "" {
		return content
	}
	return content[:offset] + text + content[offset:]
}

// replaceAt removes length bytes at offset and inserts text in their
// place as one atomic step. If the removal span is out of bounds the
// whole command is skipped: neither half applies.
func replaceAt(content string, offset, length int, text string) string {
	if offset < 0 || length < 0 || offset+length > len(content) {
		return content
	}
	return content[:offset] + text + content[offset+length:]
}

// removeAt removes length bytes at offset, or returns content unchanged if
// the span is out of bounds.
func removeAt(content string, offset, length int) string {
	if offset < 0 || length <= 0 || offset+length > len(content) {
		return content
	}
	return content[:offset] + content[offset+length:]
}

func clampOffset(offset, max int) int {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// CanUndo returns true if an undo unit is available.
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0 || (m.open != nil && !m.open.IsEmpty())
}

// CanRedo returns true if a redo unit is available.
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0
}

// UndoCount returns the number of finalized undo groups.
func (m *Manager) UndoCount() int {
	return len(m.undoStack)
}

// RedoCount returns the number of redo groups.
func (m *Manager) RedoCount() int {
	return len(m.redoStack)
}

// Clear discards both stacks and any open group. Used when the document is
// wholesale-replaced.
func (m *Manager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
	m.open = nil
	m.composite = false
	m.lastRecord = time.Time{}
}
