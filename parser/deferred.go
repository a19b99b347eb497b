package parser

import (
	"log/slog"
	"strings"

	"github.com/ardnew/lom/store"
)

// Lazy returns a node that calls thunk with no arguments each time it
// parses, and parses with the node the thunk returns. The returned node is
// referenced only for the duration of that parse, which lets a grammar refer
// to itself without forming a reference cycle. The node takes ownership of
// the thunk handle.
func (rt *Runtime) Lazy(thunk store.Handle) *Node {
	return rt.newNode(KindLazy, &lazy{fn: thunk})
}

// Custom returns a node that delegates to callback. The callback receives the
// unconsumed input and must return a two-element sequence holding the value
// and the rest. The rest is either the remaining input as a string or the
// number of bytes consumed as an integer. The node takes ownership of the
// callback handle.
func (rt *Runtime) Custom(callback store.Handle) *Node {
	return rt.newNode(KindCustom, &custom{fn: callback})
}

type lazy struct{ fn store.Handle }

func (l *lazy) parse(rt *Runtime, in Cursor) Result {
	h, ok := rt.call(KindLazy, l.fn, in)
	if !ok {
		return Failure(in)
	}

	n, ok := rt.resolve(KindLazy, h, in)
	if !ok {
		return Failure(in)
	}

	defer n.Unref()

	return n.Parse(in)
}

func (*lazy) children() []*Node           { return nil }
func (l *lazy) callbacks() []store.Handle { return []store.Handle{l.fn} }

type custom struct{ fn store.Handle }

func (c *custom) parse(rt *Runtime, in Cursor) Result {
	arg := rt.store.Store(in.Rest())
	h, ok := rt.call(KindCustom, c.fn, in, arg)
	rt.release(arg)

	if !ok {
		return Failure(in)
	}

	out := rt.borrow(h)
	rt.release(h)

	value, rest, err := splitPair(in, out)
	if err != nil {
		rt.violation(KindCustom, in, err)

		return Failure(in)
	}

	return Success(rest, rt.store.Store(value))
}

func (*custom) children() []*Node           { return nil }
func (c *custom) callbacks() []store.Handle { return []store.Handle{c.fn} }

// splitPair interprets the result of a custom callback.
func splitPair(in Cursor, out any) (any, Cursor, error) {
	var pair []any

	switch v := out.(type) {
	case []any:
		pair = v
	case [2]any:
		pair = v[:]
	}

	if len(pair) != 2 || pair[0] == nil || pair[1] == nil {
		return nil, in, ErrNotPair.With(slog.String("type", typeName(out)))
	}

	switch rest := pair[1].(type) {
	case string:
		// A suffix of the input keeps the cursor in the original input.
		if len(rest) <= in.Len() && strings.HasSuffix(in.Rest(), rest) {
			return pair[0], in.Advance(in.Len() - len(rest)), nil
		}

		return pair[0], At(rest), nil

	case int:
		return consumed(in, pair[0], int64(rest))
	case int64:
		return consumed(in, pair[0], rest)
	case float64:
		return consumed(in, pair[0], int64(rest))
	default:
		return nil, in, ErrNotPair.With(slog.String("rest", typeName(rest)))
	}
}

func consumed(in Cursor, value any, n int64) (any, Cursor, error) {
	if n < 0 || n > int64(in.Len()) {
		return nil, in, ErrNotPair.With(slog.Int64("consumed", n))
	}

	return value, in.Advance(int(n)), nil
}
