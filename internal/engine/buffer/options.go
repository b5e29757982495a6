package buffer

import (
	"unicode"

	"github.com/quillpad/quill/internal/engine/history"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithHistory sets the history manager recording this buffer's edits.
func WithHistory(m *history.Manager) Option {
	return func(b *Buffer) {
		if m != nil {
			b.history = m
		}
	}
}

// WithWordClass sets the predicate deciding which runes belong to a word.
// Word-wise navigation and deletion both use it.
func WithWordClass(isWord func(rune) bool) Option {
	return func(b *Buffer) {
		if isWord != nil {
			b.isWord = isWord
		}
	}
}

// DefaultWordClass treats letters, digits, and underscore as word
// characters.
func DefaultWordClass(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
