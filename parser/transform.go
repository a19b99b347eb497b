package parser

import "github.com/ardnew/lom/store"

// Map returns a node that parses inner and replaces its value with the
// result of calling transform on it. The node takes ownership of the
// transform handle.
//
// If the transform fails, the node fails at its starting position.
func (rt *Runtime) Map(inner *Node, transform store.Handle) *Node {
	return rt.newNode(KindMap, &mapper{inner: inner, fn: transform})
}

// Pred returns a node that parses inner and succeeds with inner's result
// only if predicate returns a truthy value for inner's value. The node takes
// ownership of the predicate handle.
//
// Every failure, including a failure of inner, is reported at the node's
// starting position, so a failed Pred never consumes input.
func (rt *Runtime) Pred(inner *Node, predicate store.Handle) *Node {
	return rt.newNode(KindPred, &pred{inner: inner, fn: predicate})
}

// AndThen returns a node that parses inner, passes its value to
// continuation to obtain a parser, and runs that parser from where inner
// stopped. The node takes ownership of the continuation handle.
//
// The continuation parser's result is returned as is. In particular, when it
// fails, the failure position is the one it reports, not the position where
// this node started.
func (rt *Runtime) AndThen(inner *Node, continuation store.Handle) *Node {
	return rt.newNode(KindAndThen, &andThen{inner: inner, fn: continuation})
}

type mapper struct {
	inner *Node
	fn    store.Handle
}

func (m *mapper) parse(rt *Runtime, in Cursor) Result {
	r := m.inner.Parse(in)
	if !r.OK {
		return r
	}

	h, ok := rt.call(KindMap, m.fn, in, r.Value)
	rt.release(r.Value)

	if !ok {
		return Failure(in)
	}

	return Success(r.Rest, h)
}

func (m *mapper) children() []*Node         { return []*Node{m.inner} }
func (m *mapper) callbacks() []store.Handle { return []store.Handle{m.fn} }

type pred struct {
	inner *Node
	fn    store.Handle
}

func (p *pred) parse(rt *Runtime, in Cursor) Result {
	r := p.inner.Parse(in)
	if !r.OK {
		return Failure(in)
	}

	h, ok := rt.call(KindPred, p.fn, in, r.Value)
	if ok {
		ok = rt.truthy(h)
		rt.release(h)
	}

	if !ok {
		rt.release(r.Value)

		return Failure(in)
	}

	return r
}

func (p *pred) children() []*Node         { return []*Node{p.inner} }
func (p *pred) callbacks() []store.Handle { return []store.Handle{p.fn} }

type andThen struct {
	inner *Node
	fn    store.Handle
}

func (a *andThen) parse(rt *Runtime, in Cursor) Result {
	r := a.inner.Parse(in)
	if !r.OK {
		return r
	}

	h, ok := rt.call(KindAndThen, a.fn, in, r.Value)
	rt.release(r.Value)

	if !ok {
		return Failure(in)
	}

	next, ok := rt.resolve(KindAndThen, h, in)
	if !ok {
		return Failure(in)
	}

	defer next.Unref()

	return next.Parse(r.Rest)
}

func (a *andThen) children() []*Node         { return []*Node{a.inner} }
func (a *andThen) callbacks() []store.Handle { return []store.Handle{a.fn} }
