package parser

import (
	"strings"

	"github.com/ardnew/lom/store"
)

// Cursor is a position within an input string. Advancing a cursor never
// copies the input.
type Cursor struct {
	src string
	off int
}

// At returns a cursor at the start of src.
func At(src string) Cursor { return Cursor{src: src} }

// Input returns the complete input the cursor points into.
func (c Cursor) Input() string { return c.src }

// Offset returns the byte offset of c within its input.
func (c Cursor) Offset() int { return c.off }

// Rest returns the unconsumed input.
func (c Cursor) Rest() string { return c.src[c.off:] }

// Len returns the number of unconsumed bytes.
func (c Cursor) Len() int { return len(c.src) - c.off }

// Empty reports whether all input is consumed.
func (c Cursor) Empty() bool { return c.off >= len(c.src) }

// HasPrefix reports whether the unconsumed input starts with s.
func (c Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.src[c.off:], s)
}

// Peek returns the next byte. It must not be called on an empty cursor.
func (c Cursor) Peek() byte { return c.src[c.off] }

// Advance returns c moved forward n bytes, clamped to the end of input.
func (c Cursor) Advance(n int) Cursor {
	c.off = min(c.off+max(n, 0), len(c.src))

	return c
}

// Result is the outcome of parsing at a cursor.
//
// On success Value is a handle owned by the receiver of the result and Rest
// is the position after the consumed input. On failure Value is
// [store.NoRef] and Rest is where the failure was detected.
type Result struct {
	Rest  Cursor
	Value store.Handle
	OK    bool
}

// Success returns a successful result.
func Success(rest Cursor, value store.Handle) Result {
	return Result{Rest: rest, Value: value, OK: true}
}

// Failure returns a failed result at c.
func Failure(c Cursor) Result { return Result{Rest: c} }
