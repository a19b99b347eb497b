package parser

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/lom/store"
)

// call invokes the callback fn on behalf of a node of kind k parsing at at.
// A host failure is logged and reported as false; no handle is acquired in
// that case.
func (rt *Runtime) call(
	k Kind,
	fn store.Handle,
	at Cursor,
	args ...store.Handle,
) (store.Handle, bool) {
	h, err := rt.store.Call(fn, args...)
	if err != nil {
		rt.logger.WarnContext(rt.ctx, k.String()+" callback error",
			slog.Int("offset", at.Offset()),
			slog.Any("error", err),
		)

		return store.NoRef, false
	}

	return h, true
}

// violation logs a callback that returned something other than what its
// combinator requires.
func (rt *Runtime) violation(k Kind, at Cursor, err error) {
	rt.logger.WarnContext(rt.ctx, k.String()+" callback error",
		slog.Int("offset", at.Offset()),
		slog.Any("error", err),
	)
}

// release gives h back to the store. NoRef is ignored.
func (rt *Runtime) release(h store.Handle) {
	if h == store.NoRef {
		return
	}

	if err := rt.store.Release(h); err != nil {
		rt.logger.ErrorContext(rt.ctx, "value release failed",
			slog.Any("error", err))
	}
}

// borrow reads the value behind h. NoRef reads as nil.
func (rt *Runtime) borrow(h store.Handle) any {
	if h == store.NoRef {
		return nil
	}

	v, _ := rt.store.Borrow(h)

	return v
}

// compose stores the values behind hs as one sequence, releasing every
// handle in hs.
func (rt *Runtime) compose(hs ...store.Handle) store.Handle {
	seq := make([]any, len(hs))

	for i, h := range hs {
		seq[i] = rt.borrow(h)
		rt.release(h)
	}

	return rt.store.Store(seq)
}

// truthy reports whether the value behind h is truthy.
func (rt *Runtime) truthy(h store.Handle) bool { return Truthy(rt.borrow(h)) }

// Truthy reports whether v counts as true for a predicate: nil and false are
// false, everything else is true.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// resolve returns a transient reference to the node named by the value
// behind h, which is released in every case. The caller must Unref the
// returned node.
func (rt *Runtime) resolve(k Kind, h store.Handle, at Cursor) (*Node, bool) {
	v := rt.borrow(h)

	n := NodeOf(v)
	if n == nil || n.rt != rt || n.refs <= 0 {
		rt.release(h)
		rt.violation(k, at, ErrNotParser.With(
			slog.String("type", typeName(v))))

		return nil, false
	}

	// Reference the node before releasing the handle: the handle may hold the
	// only reference to its wrapper.
	n.Ref()
	rt.release(h)

	return n, true
}

// NodeOf returns the node carried by v, which may be a *Node or an open
// *Parser, or nil if v carries none.
func NodeOf(v any) *Node {
	switch v := v.(type) {
	case *Node:
		return v
	case *Parser:
		if v == nil || v.closed {
			return nil
		}

		return v.node
	default:
		return nil
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}
