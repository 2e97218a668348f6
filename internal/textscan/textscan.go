// Package textscan provides a line-oriented scanning cursor over a text buffer.
//
// A Cursor identifies one line of its text: the line's content is available via
// Line, and Advance/Retreat move the cursor a line at a time. Cursors are plain
// values; copying one (or calling Clone) yields an independent cursor at the
// same position, which makes speculative lookahead cheap: advance the copy,
// leave the original untouched.
//
// '\n' is the line boundary. A trailing '\r' is stripped from Line so that CRLF
// and LF texts compare equal line by line. The final line of a text without a
// trailing terminator is still yielded once, with HasLineEnd reporting false.
package textscan

import "strings"

// Cursor is a scanning position over a line-oriented text buffer.
//
// The zero value is a cursor over the empty text. Mutating methods use pointer
// receivers; everything else operates on the value.
type Cursor struct {
	text string
	pos  int // byte offset of the first byte of the current line
	line int // zero-based index of the current line
}

// New returns a cursor positioned at the first line of text. For empty text
// the cursor is immediately Ended.
func New(text string) Cursor {
	return Cursor{text: text}
}

// Ended reports whether the cursor has moved past the last line.
func (c Cursor) Ended() bool {
	return c.pos >= len(c.text)
}

// AtLineStart reports whether the cursor's position is a line boundary. It is
// false only for a cursor that ended on a text without a trailing terminator.
func (c Cursor) AtLineStart() bool {
	return c.pos == 0 || c.text[c.pos-1] == '\n'
}

// LineIndex returns the zero-based index of the current line.
func (c Cursor) LineIndex() int {
	return c.line
}

// lineEnd returns the byte offset of the current line's terminator, or
// len(text) if the line runs to the end of the text.
func (c Cursor) lineEnd() int {
	if i := strings.IndexByte(c.text[c.pos:], '\n'); i >= 0 {
		return c.pos + i
	}
	return len(c.text)
}

// HasLineEnd reports whether the current line has a terminator before the end
// of the text. A final line without one is still readable via Line.
func (c Cursor) HasLineEnd() bool {
	return !c.Ended() && c.lineEnd() < len(c.text)
}

// Line returns the current line's content without its terminator. It returns
// "" when the cursor has Ended.
func (c Cursor) Line() string {
	if c.Ended() {
		return ""
	}
	return strings.TrimSuffix(c.text[c.pos:c.lineEnd()], "\r")
}

// Advance moves the cursor to the start of the next line and reports whether a
// line exists there. Advancing an Ended cursor is a no-op returning false.
func (c *Cursor) Advance() bool {
	if c.Ended() {
		return false
	}
	end := c.lineEnd()
	if end < len(c.text) {
		end++ // step over the terminator
	}
	c.pos = end
	c.line++
	return !c.Ended()
}

// Retreat moves the cursor to the start of the previous line, scanning
// backward for its boundary. It reports whether the cursor moved; at the first
// line it stays put and returns false.
func (c *Cursor) Retreat() bool {
	if c.pos == 0 {
		return false
	}
	i := c.pos - 1
	if c.text[i] == '\n' {
		i-- // the previous line's terminator, not a boundary of interest
	}
	for i >= 0 && c.text[i] != '\n' {
		i--
	}
	c.pos = i + 1
	c.line--
	return true
}

// Clone returns an independent cursor at the same position over the same text.
func (c Cursor) Clone() Cursor {
	return c
}

// Behind reports whether c's position precedes o's. Both cursors must be over
// the same text.
func (c Cursor) Behind(o Cursor) bool {
	return c.pos < o.pos
}

// SameLine reports whether c's current line content equals o's. The cursors
// may be over different texts; neither is consumed.
func (c Cursor) SameLine(o Cursor) bool {
	return c.Line() == o.Line()
}
