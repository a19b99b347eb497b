package host

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/vm"
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/ardnew/lom/log"
	"github.com/ardnew/lom/parser"
	"github.com/ardnew/lom/store"
)

// Resolver supplies the parser bound to a rule name.
type Resolver interface {
	Rule(name string) (*parser.Parser, bool)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(name string) (*parser.Parser, bool)

// Rule calls f(name).
func (f ResolverFunc) Rule(name string) (*parser.Parser, bool) { return f(name) }

// Host owns a value store and the parser runtime bound to it, and compiles
// callback sources into programs stored there.
type Host struct {
	ctx      context.Context
	logger   log.Logger
	registry *store.Registry
	rt       *parser.Runtime
	resolver Resolver
	store    store.Store
	wrap     func(*store.Registry) store.Store
	rtOpts   []parser.Option
	env      env
	programs map[uint64]*Program
}

// New returns a Host with an empty value store.
func New(ctx context.Context, opts ...Option) *Host {
	h := &Host{
		ctx:      ctx,
		programs: make(map[uint64]*Program),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.registry = store.NewRegistry(store.WithLogger(h.logger))
	h.store = h.registry

	if h.wrap != nil {
		h.store = h.wrap(h.registry)
	}

	h.rt = parser.NewRuntime(h.store, append([]parser.Option{
		parser.WithLogger(h.logger),
		parser.WithContext(ctx),
	}, h.rtOpts...)...)
	h.env = h.makeEnv()

	return h
}

// Runtime returns the parser runtime.
func (h *Host) Runtime() *parser.Runtime { return h.rt }

// Store returns the value store.
func (h *Host) Store() *store.Registry { return h.registry }

// SetResolver replaces the source of parsers returned by rule(name).
func (h *Host) SetResolver(r Resolver) { h.resolver = r }

// Program returns the compiled program for src, compiling it on first use.
func (h *Host) Program(src string) (*Program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrEmptySource
	}

	key := fnv1a.HashString64(src)
	if p, ok := h.programs[key]; ok && p.source == src {
		h.logger.TraceContext(h.ctx, "callback cache hit",
			slog.String("source", src))

		return p, nil
	}

	prog, err := compile(src)
	if err != nil {
		return nil, err
	}

	p := &Program{host: h, source: src, prog: prog}
	h.programs[key] = p

	h.logger.DebugContext(h.ctx, "callback compiled",
		slog.String("source", src),
		slog.Int("cached", len(h.programs)),
	)

	return p, nil
}

// Compile stores the program for src and returns its handle, which the
// caller owns.
func (h *Host) Compile(src string) (store.Handle, error) {
	p, err := h.Program(src)
	if err != nil {
		return store.NoRef, err
	}

	return h.store.Store(p), nil
}

// Func stores fn as a callback and returns its handle, which the caller
// owns.
func (h *Host) Func(fn func(args ...any) (any, error)) store.Handle {
	return h.store.Store(store.Func(fn))
}

// Close closes the parser runtime and the value store. Handles still held
// by live nodes are reported as leaked.
func (h *Host) Close() error {
	_ = h.rt.Close()

	h.logger.DebugContext(h.ctx, "host closed",
		slog.Int("live_nodes", h.rt.Live()),
		slog.Int("handles", h.registry.Len()),
	)

	return h.registry.Close()
}

// Program is a compiled callback. It implements [store.Callable].
type Program struct {
	host   *Host
	source string
	prog   *vm.Program
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string { return p.source }

func (p *Program) String() string { return p.source }

// Call runs the program with v bound to the first argument and args bound to
// all of them.
func (p *Program) Call(args ...any) (any, error) {
	out, err := vm.Run(p.prog, p.host.bind(args))
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("source", p.source))
	}

	return out, nil
}
