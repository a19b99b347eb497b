package parser

import (
	"context"
	"log/slog"
	"sync"

	"github.com/edwingeng/deque"
	"github.com/tevino/abool/v2"

	"github.com/ardnew/lom/log"
	"github.com/ardnew/lom/store"
)

// DefaultMaxDepth bounds the nesting of node invocations within one parse.
const DefaultMaxDepth = 10000

// Runtime owns the value store shared by a set of nodes and the queue of
// nodes whose host wrappers were collected.
//
// A Runtime and its nodes must be used from a single goroutine. Only the
// release queue is safe for concurrent use, since garbage collector cleanups
// run on their own goroutine.
type Runtime struct {
	store    store.Store
	logger   log.Logger
	ctx      context.Context
	pending  *releaseQueue
	closed   *abool.AtomicBool
	live     int
	depth    int
	maxDepth int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger for callback failures and node lifecycle
// traces. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(rt *Runtime) { rt.logger = logger }
}

// WithContext sets the context attached to log records.
func WithContext(ctx context.Context) Option {
	return func(rt *Runtime) { rt.ctx = ctx }
}

// WithMaxDepth bounds the nesting of node invocations within one parse.
// Zero or a negative value removes the bound.
func WithMaxDepth(depth int) Option {
	return func(rt *Runtime) { rt.maxDepth = depth }
}

// NewRuntime returns a Runtime storing parse values in s.
func NewRuntime(s store.Store, opts ...Option) *Runtime {
	rt := &Runtime{
		store:    s,
		ctx:      context.Background(),
		pending:  newReleaseQueue(),
		closed:   abool.New(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// Store returns the value store.
func (rt *Runtime) Store() store.Store { return rt.store }

// Logger returns the runtime logger.
func (rt *Runtime) Logger() log.Logger { return rt.logger }

// Live returns the number of nodes built on rt that are not yet released.
func (rt *Runtime) Live() int { return rt.live }

// Pending returns the number of nodes queued for release by collected
// wrappers.
func (rt *Runtime) Pending() int { return rt.pending.len() }

// Collect drops the wrapper reference of every node queued by a collected
// [Parser] and returns how many were processed.
func (rt *Runtime) Collect() int {
	n := 0

	for node, ok := rt.pending.pop(); ok; node, ok = rt.pending.pop() {
		node.Unref()
		n++
	}

	if n > 0 {
		rt.logger.TraceContext(rt.ctx, "collected parser wrappers",
			slog.Int("count", n), slog.Int("live", rt.live))
	}

	return n
}

// Close drains the release queue and prevents further construction and
// parsing. Nodes still referenced are left as they are.
func (rt *Runtime) Close() error {
	if !rt.closed.SetToIf(false, true) {
		return nil
	}

	rt.Collect()

	rt.logger.DebugContext(rt.ctx, "parser runtime closed",
		slog.Int("live", rt.live))

	return nil
}

// Closed reports whether Close has been called.
func (rt *Runtime) Closed() bool { return rt.closed.IsSet() }

// newNode takes a reference on every child of im and returns a node with one
// reference owned by the caller.
func (rt *Runtime) newNode(kind Kind, im impl) *Node {
	rt.mustOpen(kind)

	children := im.children()

	// Every child is checked before any is referenced, so a panic leaves
	// the children as they were.
	for _, c := range children {
		switch {
		case c == nil:
			panic(ErrNilNode.With(slog.String("kind", kind.String())))
		case c.rt != rt:
			panic(ErrForeignNode.With(slog.String("kind", kind.String())))
		case c.refs <= 0:
			panic(ErrReleased.With(slog.String("kind", c.kind.String())))
		}
	}

	for _, c := range children {
		c.Ref()
	}

	// Children are referenced before draining so that a child whose wrapper
	// was just collected survives.
	rt.Collect()
	rt.live++

	return &Node{impl: im, rt: rt, refs: 1, kind: kind}
}

// mustOpen panics with [ErrClosed] if rt is closed.
func (rt *Runtime) mustOpen(kind Kind) {
	if rt.closed.IsSet() {
		panic(ErrClosed.With(slog.String("kind", kind.String())))
	}
}

// releaseQueue is the FIFO of nodes whose wrappers were collected.
type releaseQueue struct {
	mu sync.Mutex
	q  deque.Deque
}

func newReleaseQueue() *releaseQueue {
	return &releaseQueue{q: deque.NewDeque()}
}

func (r *releaseQueue) push(n *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.q.PushBack(n)
}

func (r *releaseQueue) pop() (*Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.q.Empty() {
		return nil, false
	}

	n, _ := r.q.PopFront().(*Node)

	return n, n != nil
}

func (r *releaseQueue) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.q.Len()
}
