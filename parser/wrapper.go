package parser

import (
	"log/slog"
	"runtime"

	"github.com/ardnew/lom/store"
)

// Parser is the host-side handle of a [Node]. It owns one reference on the
// node, which is dropped by [Parser.Close] or, if the Parser is never
// closed, some time after the garbage collector finds it unreachable.
//
// The combinator methods build new wrappers and leave the receiver and
// arguments open.
type Parser struct {
	node    *Node
	cleanup runtime.Cleanup
	closed  bool
}

// Wrap moves the caller's reference on n into a new Parser.
func (rt *Runtime) Wrap(n *Node) *Parser {
	if n == nil {
		panic(ErrNilNode)
	}

	if n.rt != rt {
		panic(ErrForeignNode.With(slog.String("kind", n.kind.String())))
	}

	rt.Collect()

	p := &Parser{node: n}
	p.cleanup = runtime.AddCleanup(p, rt.pending.push, n)

	return p
}

// Node returns the wrapped node, or nil once p is closed. The node is only
// guaranteed to stay alive while p is reachable; take a reference with
// [Node.Ref] to keep it longer.
func (p *Parser) Node() *Node {
	if p.closed {
		return nil
	}

	return p.node
}

// Kind returns the kind of the wrapped node.
func (p *Parser) Kind() Kind { return p.node.kind }

// Closed reports whether Close has been called.
func (p *Parser) Closed() bool { return p.closed }

func (p *Parser) String() string { return p.node.String() }

// Close drops the wrapper's reference. It is safe to call more than once.
func (p *Parser) Close() {
	if p.closed {
		return
	}

	p.closed = true
	p.cleanup.Stop()
	p.node.Unref()
}

// Parse runs the wrapped node over input. See [Parse].
func (p *Parser) Parse(input string) (value any, rest string, ok bool) {
	defer runtime.KeepAlive(p)

	if p.closed {
		return nil, input, false
	}

	return p.node.rt.Parse(p.node, input)
}

// open returns the wrapped node, panicking if p is closed.
func (p *Parser) open() *Node {
	if p == nil {
		panic(ErrNilNode)
	}

	if p.closed {
		panic(ErrReleased.With(slog.String("kind", p.node.kind.String())))
	}

	return p.node
}

func (p *Parser) unary(build func(*Runtime, *Node) *Node) *Parser {
	defer runtime.KeepAlive(p)

	n := p.open()

	return n.rt.Wrap(build(n.rt, n))
}

func (p *Parser) binary(q *Parser, build func(rt *Runtime, l, r *Node) *Node) *Parser {
	defer runtime.KeepAlive(p)
	defer runtime.KeepAlive(q)

	l, r := p.open(), q.open()

	return l.rt.Wrap(build(l.rt, l, r))
}

func (p *Parser) callback(fn store.Callable, build func(*Runtime, *Node, store.Handle) *Node) *Parser {
	defer runtime.KeepAlive(p)

	n := p.open()

	// The handle is stored only once construction cannot fail.
	n.rt.mustOpen(n.kind)

	return n.rt.Wrap(build(n.rt, n, n.rt.store.Store(fn)))
}

// Map wraps [Runtime.Map] over p with fn as the transform.
func (p *Parser) Map(fn store.Callable) *Parser {
	return p.callback(fn, (*Runtime).Map)
}

// Pred wraps [Runtime.Pred] over p with fn as the predicate.
func (p *Parser) Pred(fn store.Callable) *Parser {
	return p.callback(fn, (*Runtime).Pred)
}

// AndThen wraps [Runtime.AndThen] over p with fn as the continuation.
func (p *Parser) AndThen(fn store.Callable) *Parser {
	return p.callback(fn, (*Runtime).AndThen)
}

// OrElse wraps [Runtime.OrElse] over p and q.
func (p *Parser) OrElse(q *Parser) *Parser { return p.binary(q, (*Runtime).OrElse) }

// Pair wraps [Runtime.Pair] over p and q.
func (p *Parser) Pair(q *Parser) *Parser { return p.binary(q, (*Runtime).Pair) }

// TakeAfter wraps [Runtime.TakeAfter] over p and q.
func (p *Parser) TakeAfter(q *Parser) *Parser { return p.binary(q, (*Runtime).TakeAfter) }

// DropFor wraps [Runtime.DropFor] over p and q.
func (p *Parser) DropFor(q *Parser) *Parser { return p.binary(q, (*Runtime).DropFor) }

// OneOrMore wraps [Runtime.OneOrMore] over p.
func (p *Parser) OneOrMore() *Parser { return p.unary((*Runtime).OneOrMore) }

// ZeroOrMore wraps [Runtime.ZeroOrMore] over p.
func (p *Parser) ZeroOrMore() *Parser { return p.unary((*Runtime).ZeroOrMore) }
