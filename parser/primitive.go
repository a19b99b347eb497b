package parser

import "github.com/ardnew/lom/store"

// Literal returns a node matching exactly s. Its value is s.
func (rt *Runtime) Literal(s string) *Node {
	return rt.newNode(KindLiteral, &literal{text: s})
}

// AnyChar returns a node matching one UTF-8 encoded code point, whose width
// is taken from the lead byte alone. It fails only on empty input.
func (rt *Runtime) AnyChar() *Node {
	return rt.newNode(KindAnyChar, anyChar{})
}

// Identifier returns a node matching an ASCII letter or digit followed by
// any run of letters, digits, '-' and '_'.
func (rt *Runtime) Identifier() *Node {
	return rt.newNode(KindIdentifier, identifier{})
}

type literal struct{ text string }

func (l *literal) parse(rt *Runtime, in Cursor) Result {
	if !in.HasPrefix(l.text) {
		return Failure(in)
	}

	return Success(in.Advance(len(l.text)), rt.store.Store(l.text))
}

func (*literal) children() []*Node         { return nil }
func (*literal) callbacks() []store.Handle { return nil }

type anyChar struct{}

func (anyChar) parse(rt *Runtime, in Cursor) Result {
	if in.Empty() {
		return Failure(in)
	}

	w := min(runeWidth(in.Peek()), in.Len())
	rest := in.Advance(w)

	return Success(rest, rt.store.Store(in.Rest()[:w]))
}

func (anyChar) children() []*Node         { return nil }
func (anyChar) callbacks() []store.Handle { return nil }

// runeWidth returns the encoded length announced by a UTF-8 lead byte.
// Continuation and invalid bytes count as one.
func runeWidth(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

type identifier struct{}

func (identifier) parse(rt *Runtime, in Cursor) Result {
	s := in.Rest()
	if s == "" || !isAlnum(s[0]) {
		return Failure(in)
	}

	i := 1
	for i < len(s) && (isAlnum(s[i]) || s[i] == '-' || s[i] == '_') {
		i++
	}

	return Success(in.Advance(i), rt.store.Store(s[:i]))
}

func (identifier) children() []*Node         { return nil }
func (identifier) callbacks() []store.Handle { return nil }

func isAlnum(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
