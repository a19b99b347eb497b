package parser

import (
	"log/slog"

	"github.com/ardnew/lom/store"
)

// Node is a parser in a reference-counted combinator graph. Nodes are built
// by the constructor methods of [Runtime].
type Node struct {
	impl impl
	rt   *Runtime
	refs int
	kind Kind
}

// impl is the kind-specific part of a node.
type impl interface {
	// parse runs the node at in. Every handle received from a child or a
	// callback must be forwarded in the result or released.
	parse(rt *Runtime, in Cursor) Result
	// children returns the nodes this node holds a reference on.
	children() []*Node
	// callbacks returns the callback handles this node owns.
	callbacks() []store.Handle
}

// Kind returns the parsing behavior of n.
func (n *Node) Kind() Kind { return n.kind }

// Runtime returns the runtime n was built on.
func (n *Node) Runtime() *Runtime { return n.rt }

// Refs returns the current reference count. A released node reports 0.
func (n *Node) Refs() int { return n.refs }

// Children returns the direct children of n in their parse order.
func (n *Node) Children() []*Node { return n.impl.children() }

// Literal returns the text matched by a literal node.
func (n *Node) Literal() (string, bool) {
	if l, ok := n.impl.(*literal); ok {
		return l.text, true
	}

	return "", false
}

func (n *Node) String() string { return "<Parser:" + n.kind.String() + ">" }

// Ref adds a reference to n and returns n.
func (n *Node) Ref() *Node {
	if n.refs <= 0 {
		panic(ErrReleased.With(slog.String("kind", n.kind.String())))
	}

	n.refs++

	return n
}

// Unref drops a reference to n. Dropping the last reference releases the
// callbacks n owns and drops its references to its children.
func (n *Node) Unref() {
	if n.refs <= 0 {
		panic(ErrReleased.With(slog.String("kind", n.kind.String())))
	}

	n.refs--
	if n.refs > 0 {
		return
	}

	for _, h := range n.impl.callbacks() {
		n.rt.release(h)
	}

	for _, c := range n.impl.children() {
		c.Unref()
	}

	n.rt.live--
	n.rt.logger.TraceContext(n.rt.ctx, "parser node released",
		slog.String("kind", n.kind.String()))
}

// Parse runs n at in. The caller owns the value of a successful result.
func (n *Node) Parse(in Cursor) Result {
	rt := n.rt

	if n.refs <= 0 {
		rt.logger.ErrorContext(rt.ctx, "parse of released node",
			slog.String("kind", n.kind.String()))

		return Failure(in)
	}

	rt.depth++
	defer func() { rt.depth-- }()

	if rt.maxDepth > 0 && rt.depth > rt.maxDepth {
		rt.logger.WarnContext(rt.ctx, "parse depth limit reached",
			slog.Any("error", ErrTooDeep.With(
				slog.Int("max", rt.maxDepth),
				slog.String("kind", n.kind.String()),
				slog.Int("offset", in.Offset()),
			)))

		return Failure(in)
	}

	return n.impl.parse(rt, in)
}

// Walk calls fn for n and every node reachable from it, parents before
// children, visiting shared nodes once. It stops when fn returns false.
func (n *Node) Walk(fn func(depth int, n *Node) bool) {
	seen := make(map[*Node]struct{})

	var visit func(int, *Node) bool

	visit = func(depth int, n *Node) bool {
		if _, ok := seen[n]; ok {
			return true
		}

		seen[n] = struct{}{}

		if !fn(depth, n) {
			return false
		}

		for _, c := range n.Children() {
			if !visit(depth+1, c) {
				return false
			}
		}

		return true
	}

	visit(0, n)
}
