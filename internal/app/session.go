package app

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/quillpad/quill/internal/config"
	"github.com/quillpad/quill/internal/engine/buffer"
	"github.com/quillpad/quill/internal/engine/history"
)

// Clipboard abstracts the system clipboard so tests can substitute an
// in-memory one.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard bridges to the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Session owns one document being edited: the buffer, its history, the
// file it came from, and the idle clock that closes undo groups. It is
// driven synchronously by the front end, one input event at a time.
type Session struct {
	id  string
	log *Logger
	cfg *config.Config

	buf  *buffer.Buffer
	hist *history.Manager
	clip Clipboard

	path      string
	dirty     bool
	lastInput time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClipboard substitutes the clipboard implementation.
func WithClipboard(c Clipboard) SessionOption {
	return func(s *Session) {
		if c != nil {
			s.clip = c
		}
	}
}

// NewSession creates a session from configuration. Nil cfg or log fall
// back to defaults.
func NewSession(cfg *config.Config, log *Logger, opts ...SessionOption) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = NewLogger(ParseLogLevel(cfg.Logging.Level), nil)
	}

	hist := history.NewManager(history.WithPolicy(cfg.Policy()))
	buf := buffer.New(
		buffer.WithHistory(hist),
		buffer.WithWordClass(cfg.WordClass()),
	)

	s := &Session{
		id:   uuid.New().String(),
		log:  log.WithComponent("session"),
		cfg:  cfg,
		buf:  buf,
		hist: hist,
		clip: systemClipboard{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log.WithField("session", s.id).Debug("session created")
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Buffer returns the document buffer. Navigation and selection calls go
// straight to it; content mutations should go through the Session methods
// so the dirty flag and idle clock stay accurate.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

// Path returns the file backing this session, or "".
func (s *Session) Path() string {
	return s.path
}

// Dirty reports whether the document has unsaved changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Editing wrappers

// Insert inserts text at the cursor.
func (s *Session) Insert(text string, now time.Time) {
	s.buf.InsertText(text)
	s.touch(now)
}

// Backspace deletes backward, word-wise when word is true.
func (s *Session) Backspace(word bool, now time.Time) {
	s.buf.DeleteBackward(word)
	s.touch(now)
}

// Delete deletes forward, word-wise when word is true.
func (s *Session) Delete(word bool, now time.Time) {
	s.buf.DeleteForward(word)
	s.touch(now)
}

// Undo rolls back one undo unit.
func (s *Session) Undo(now time.Time) {
	s.buf.Undo()
	s.touch(now)
}

// Redo re-applies one undone unit.
func (s *Session) Redo(now time.Time) {
	s.buf.Redo()
	s.touch(now)
}

// Paste inserts the system clipboard contents at the cursor. Multi-
// character pastes coalesce as their own undo unit.
func (s *Session) Paste(now time.Time) {
	text, err := s.clip.ReadAll()
	if err != nil {
		s.log.Warn("clipboard read failed: %v", err)
		return
	}
	if text == "" {
		return
	}
	s.buf.InsertText(text)
	s.touch(now)
}

// Copy places the selected text on the system clipboard.
func (s *Session) Copy() {
	text := s.buf.SelectedText()
	if text == "" {
		return
	}
	if err := s.clip.WriteAll(text); err != nil {
		s.log.Warn("clipboard write failed: %v", err)
	}
}

// Cut copies the selection and then deletes it.
func (s *Session) Cut(now time.Time) {
	if !s.buf.Selection().Active() {
		return
	}
	s.Copy()
	s.buf.DeleteSelection()
	s.touch(now)
}

// touch marks input activity and the document dirty.
func (s *Session) touch(now time.Time) {
	s.lastInput = now
	s.dirty = true
}

// Tick is the caller-driven idle poll. If input has been quiet for the
// configured interval, the open undo group is finalized so the next edit
// starts a fresh unit. The engine itself owns no timer.
func (s *Session) Tick(now time.Time) {
	if s.lastInput.IsZero() {
		return
	}
	if now.Sub(s.lastInput) >= s.cfg.IdleFinalize() {
		s.buf.FinalizeGroup()
		s.lastInput = time.Time{}
	}
}

// File handling

// OpenFile loads a file into the buffer, replacing content, cursor,
// selection, and history.
func (s *Session) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	s.buf.SetContent(string(data))
	s.path = path
	s.dirty = false
	s.lastInput = time.Time{}
	s.log.Info("opened %s (%d bytes)", path, len(data))
	return nil
}

// NewDocument clears the buffer and detaches it from any file.
func (s *Session) NewDocument() {
	s.buf.SetContent("")
	s.path = ""
	s.dirty = false
	s.lastInput = time.Time{}
}

// Save writes the buffer back to its file.
func (s *Session) Save() error {
	if s.path == "" {
		return fmt.Errorf("no file associated with session")
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the buffer to path and re-associates the session with it.
func (s *Session) SaveAs(path string) error {
	if err := os.WriteFile(path, []byte(s.buf.Text()), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	s.path = path
	s.dirty = false
	s.log.Info("saved %s (%d bytes)", path, s.buf.Len())
	return nil
}

// ApplyConfig applies a reloaded configuration to the running session.
// The grouping policy and word class take effect immediately; content and
// history are untouched.
func (s *Session) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
	s.hist.SetPolicy(cfg.Policy())
	s.buf.SetWordClass(cfg.WordClass())
	s.log.SetLevel(ParseLogLevel(cfg.Logging.Level))
	s.log.Debug("configuration reloaded")
}
