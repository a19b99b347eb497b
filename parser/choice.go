package parser

import "github.com/ardnew/lom/store"

// OrElse returns a node that tries left and, only if it fails, right from
// the same position. Whichever result is chosen is returned unchanged.
func (rt *Runtime) OrElse(left, right *Node) *Node {
	return rt.newNode(KindOrElse, &orElse{left: left, right: right})
}

type orElse struct{ left, right *Node }

func (o *orElse) parse(_ *Runtime, in Cursor) Result {
	if r := o.left.Parse(in); r.OK {
		return r
	}

	return o.right.Parse(in)
}

func (o *orElse) children() []*Node       { return []*Node{o.left, o.right} }
func (*orElse) callbacks() []store.Handle { return nil }
