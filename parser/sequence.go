package parser

import "github.com/ardnew/lom/store"

// Pair returns a node that parses left and then right where left stopped.
// Its value is the two-element sequence of both values.
func (rt *Runtime) Pair(left, right *Node) *Node {
	return rt.newNode(KindPair, &sequence{left: left, right: right, keep: keepBoth})
}

// TakeAfter returns a node that parses left and then right, keeping only
// left's value.
func (rt *Runtime) TakeAfter(left, right *Node) *Node {
	return rt.newNode(KindTakeAfter, &sequence{left: left, right: right, keep: keepLeft})
}

// DropFor returns a node that parses left and then right, keeping only
// right's value.
func (rt *Runtime) DropFor(left, right *Node) *Node {
	return rt.newNode(KindDropFor, &sequence{left: left, right: right, keep: keepRight})
}

type keep uint8

const (
	keepBoth keep = iota
	keepLeft
	keepRight
)

// sequence runs two nodes in order. A failure of either is returned as is
// after releasing left's value.
type sequence struct {
	left, right *Node
	keep        keep
}

func (s *sequence) parse(rt *Runtime, in Cursor) Result {
	l := s.left.Parse(in)
	if !l.OK {
		return l
	}

	r := s.right.Parse(l.Rest)
	if !r.OK {
		rt.release(l.Value)

		return r
	}

	switch s.keep {
	case keepLeft:
		rt.release(r.Value)

		return Success(r.Rest, l.Value)

	case keepRight:
		rt.release(l.Value)

		return Success(r.Rest, r.Value)

	default:
		return Success(r.Rest, rt.compose(l.Value, r.Value))
	}
}

func (s *sequence) children() []*Node       { return []*Node{s.left, s.right} }
func (*sequence) callbacks() []store.Handle { return nil }
