package parser

import "github.com/ardnew/lom/store"

// OneOrMore returns a node that applies inner as many times as it succeeds,
// at least once. Its value is the sequence of inner's values. If the first
// attempt fails, that failure is returned unchanged.
func (rt *Runtime) OneOrMore(inner *Node) *Node {
	return rt.newNode(KindOneOrMore, &repeat{inner: inner, min: 1})
}

// ZeroOrMore returns a node that applies inner as many times as it
// succeeds. It never fails; with no match its value is an empty sequence and
// no input is consumed.
func (rt *Runtime) ZeroOrMore(inner *Node) *Node {
	return rt.newNode(KindZeroOrMore, &repeat{inner: inner})
}

// repeat loops rather than recursing. A match that consumes nothing is kept
// and ends the loop, since repeating it would never terminate.
type repeat struct {
	inner *Node
	min   int
}

func (p *repeat) parse(rt *Runtime, in Cursor) Result {
	var hs []store.Handle

	cur := in

	for {
		r := p.inner.Parse(cur)
		if !r.OK {
			if len(hs) < p.min {
				// Only reachable before the first match when min is 1.
				return r
			}

			break
		}

		hs = append(hs, r.Value)

		if r.Rest.Offset() == cur.Offset() && r.Rest.Input() == cur.Input() {
			break
		}

		cur = r.Rest
	}

	return Success(cur, rt.compose(hs...))
}

func (p *repeat) children() []*Node       { return []*Node{p.inner} }
func (*repeat) callbacks() []store.Handle { return nil }
