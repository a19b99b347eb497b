package grammar

import (
	"log/slog"

	"github.com/ardnew/lom/parser"
	"github.com/ardnew/lom/store"
)

type builder struct {
	g  *Grammar
	rt *parser.Runtime
}

// build returns the node for e with one reference owned by the caller.
func (b builder) build(e *Expr) (*parser.Node, error) {
	switch e.Form {
	case FormLiteral:
		return b.rt.Literal(e.Text), nil
	case FormAnyChar:
		return b.rt.AnyChar(), nil
	case FormIdentifier:
		return b.rt.Identifier(), nil
	case FormRef:
		return b.rt.Lazy(b.g.host.Func(b.g.ref(e.Text))), nil
	case FormLazy:
		return b.callback(e, func(fn store.Handle) *parser.Node { return b.rt.Lazy(fn) })
	case FormCustom:
		return b.callback(e, func(fn store.Handle) *parser.Node { return b.rt.Custom(fn) })
	}

	args := make([]*parser.Node, 0, len(e.Args))

	defer func() {
		for _, n := range args {
			n.Unref()
		}
	}()

	for _, a := range e.Args {
		n, err := b.build(a)
		if err != nil {
			return nil, err
		}

		args = append(args, n)
	}

	switch e.Form {
	case FormMap:
		return b.callback(e, func(fn store.Handle) *parser.Node { return b.rt.Map(args[0], fn) })
	case FormPred:
		return b.callback(e, func(fn store.Handle) *parser.Node { return b.rt.Pred(args[0], fn) })
	case FormAndThen:
		return b.callback(e, func(fn store.Handle) *parser.Node { return b.rt.AndThen(args[0], fn) })
	case FormOrElse:
		return b.fold(args, b.rt.OrElse), nil
	case FormPair:
		return b.rt.Pair(args[0], args[1]), nil
	case FormTakeAfter:
		return b.rt.TakeAfter(args[0], args[1]), nil
	case FormDropFor:
		return b.rt.DropFor(args[0], args[1]), nil
	case FormOneOrMore:
		return b.rt.OneOrMore(args[0]), nil
	case FormZeroOrMore:
		return b.rt.ZeroOrMore(args[0]), nil
	case FormSeq:
		nested := b.fold(args, b.rt.Pair)
		defer nested.Unref()

		return b.rt.Map(nested, b.g.host.Func(flatten(len(args)))), nil
	}

	return nil, ErrSyntax.With(slog.String("form", string(e.Form)))
}

// callback compiles the source of e and passes its handle to construct.
func (b builder) callback(e *Expr, construct func(store.Handle) *parser.Node) (*parser.Node, error) {
	fn, err := b.g.host.Compile(e.Text)
	if err != nil {
		return nil, err
	}

	return construct(fn), nil
}

// fold combines nodes from the right: f(a, f(b, c)). The caller keeps its
// references on nodes.
func (b builder) fold(nodes []*parser.Node, f func(l, r *parser.Node) *parser.Node) *parser.Node {
	acc := nodes[len(nodes)-1].Ref()

	for i := len(nodes) - 2; i >= 0; i-- {
		next := f(nodes[i], acc)
		acc.Unref()
		acc = next
	}

	return acc
}

// flatten returns a transform turning the value of n right-nested pairs
// into a list of n values.
func flatten(n int) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		out := make([]any, 0, n)
		v := args[0]

		for range n - 1 {
			pair, ok := v.([]any)
			if !ok || len(pair) != 2 {
				return nil, ErrSeqShape.With(slog.Int("length", n))
			}

			out = append(out, pair[0])
			v = pair[1]
		}

		return append(out, v), nil
	}
}

// ref returns the callback resolving a rule reference at parse time.
func (g *Grammar) ref(name string) func(...any) (any, error) {
	return func(...any) (any, error) {
		p, ok := g.Rule(name)
		if !ok {
			return nil, ErrUnknownRule.With(slog.String("rule", name))
		}

		return p, nil
	}
}
