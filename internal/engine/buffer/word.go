package buffer

import "unicode/utf8"

// wordStartIndex scans backward from pos over any run of non-word
// characters (newlines included), then over the contiguous run of word
// characters before it.
func (b *Buffer) wordStartIndex(pos int) int {
	pos = clamp(pos, 0, len(b.content))

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(b.content[:pos])
		if b.isWord(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(b.content[:pos])
		if !b.isWord(r) {
			break
		}
		pos -= size
	}
	return pos
}

// wordEndIndex scans forward from pos over leading non-word characters and
// then to the end of the word, stopping dead at a newline: unlike
// wordStartIndex it never leaves the current line.
func (b *Buffer) wordEndIndex(pos int) int {
	pos = clamp(pos, 0, len(b.content))

	for pos < len(b.content) {
		r, size := utf8.DecodeRuneInString(b.content[pos:])
		if r == '\n' {
			return pos
		}
		if b.isWord(r) {
			break
		}
		pos += size
	}
	for pos < len(b.content) {
		r, size := utf8.DecodeRuneInString(b.content[pos:])
		if !b.isWord(r) {
			break
		}
		pos += size
	}
	return pos
}
