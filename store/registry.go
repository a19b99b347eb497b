package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tevino/abool/v2"

	"github.com/ardnew/lom/log"
)

// Registry is a map-backed [Store]. Every call to Store yields a distinct
// handle, even for equal values.
//
// A Registry is safe for concurrent use, although parsers sharing one are
// expected to run on a single goroutine.
type Registry struct {
	mu     sync.Mutex
	next   Handle
	values map[Handle]any
	closed *abool.AtomicBool
	logger log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for handle accounting traces.
func WithLogger(logger log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		values: make(map[Handle]any),
		closed: abool.New(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Registry) Store(v any) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.values[r.next] = v

	return r.next
}

func (r *Registry) Borrow(h Handle) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.values[h]

	return v, ok
}

func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.values[h]; !ok {
		return ErrUnknownHandle.With(handleAttr(h))
	}

	delete(r.values, h)

	return nil
}

// Call invokes the value behind fn. A panic raised by the callee is
// recovered and reported as [ErrCallback].
func (r *Registry) Call(fn Handle, args ...Handle) (res Handle, err error) {
	if r.closed.IsSet() {
		return NoRef, ErrClosed
	}

	f, ok := r.Borrow(fn)
	if !ok {
		return NoRef, ErrUnknownHandle.With(handleAttr(fn))
	}

	call, ok := callable(f)
	if !ok {
		return NoRef, ErrNotCallable.With(
			handleAttr(fn), slog.String("type", fmt.Sprintf("%T", f)))
	}

	vals := make([]any, len(args))
	for i, h := range args {
		if vals[i], ok = r.Borrow(h); !ok {
			return NoRef, ErrUnknownHandle.With(handleAttr(h))
		}
	}

	defer func() {
		if p := recover(); p != nil {
			res = NoRef
			err = ErrCallback.Wrap(fmt.Errorf("panic: %v", p)).With(handleAttr(fn))
		}
	}()

	v, cerr := call.Call(vals...)
	if cerr != nil {
		return NoRef, ErrCallback.Wrap(cerr).With(handleAttr(fn))
	}

	return r.Store(v), nil
}

func callable(v any) (Callable, bool) {
	switch f := v.(type) {
	case Callable:
		return f, true
	case func(...any) (any, error):
		return Func(f), true
	case func(...any) any:
		return Func(func(args ...any) (any, error) { return f(args...), nil }), true
	default:
		return nil, false
	}
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.values)
}

// Handles returns the live handles in acquisition order.
func (r *Registry) Handles() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	hs := make([]Handle, 0, len(r.values))
	for h := range r.values {
		hs = append(hs, h)
	}

	slices.Sort(hs)

	return hs
}

// Close marks the registry closed so that further calls fail, then drops
// every value. It reports [ErrLeaked] if any handle was still live.
func (r *Registry) Close() error {
	if !r.closed.SetToIf(false, true) {
		return nil
	}

	live := r.Handles()

	r.mu.Lock()
	clear(r.values)
	r.mu.Unlock()

	if len(live) == 0 {
		return nil
	}

	r.logger.Debug("value store closed with live handles",
		slog.Int("count", len(live)))

	return ErrLeaked.With(slog.Int("count", len(live)))
}
