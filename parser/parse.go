package parser

import (
	"log/slog"

	"github.com/ardnew/lom/store"
)

// Parse runs n over input. On success it moves the value out of the store
// and returns it with the unconsumed input. On failure value is nil and rest
// is the input from the position where the failure was detected.
//
// The caller must own a reference on n.
func Parse(n *Node, input string) (value any, rest string, ok bool) {
	if n == nil {
		return nil, input, false
	}

	return n.rt.Parse(n, input)
}

// Parse runs n over input. See the package-level [Parse].
func (rt *Runtime) Parse(n *Node, input string) (value any, rest string, ok bool) {
	if rt.closed.IsSet() || n == nil || n.rt != rt || n.refs <= 0 {
		rt.logger.ErrorContext(rt.ctx, "parse rejected",
			slog.Bool("closed", rt.closed.IsSet()),
			slog.Bool("nil", n == nil),
			slog.Bool("foreign", n != nil && n.rt != rt),
		)

		return nil, input, false
	}

	// Hold a reference for the whole parse so that a callback closing the
	// last wrapper of n cannot release it midway.
	n.Ref()
	defer n.Unref()

	rt.Collect()

	res := n.Parse(At(input))
	if !res.OK {
		return nil, res.Rest.Rest(), false
	}

	v, err := store.Take(rt.store, res.Value)
	if err != nil {
		rt.logger.ErrorContext(rt.ctx, "parse result lost",
			slog.Any("error", err))

		return nil, res.Rest.Rest(), false
	}

	rt.logger.TraceContext(rt.ctx, "parse complete",
		slog.String("parser", n.String()),
		slog.Int("consumed", res.Rest.Offset()),
	)

	return v, res.Rest.Rest(), true
}
