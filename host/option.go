package host

import (
	"github.com/ardnew/lom/log"
	"github.com/ardnew/lom/parser"
	"github.com/ardnew/lom/store"
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger shared by the host, its value store and its
// parser runtime.
func WithLogger(logger log.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// WithResolver sets the source of parsers returned by rule(name).
func WithResolver(r Resolver) Option {
	return func(h *Host) { h.resolver = r }
}

// WithRuntimeOptions passes opts to the parser runtime.
func WithRuntimeOptions(opts ...parser.Option) Option {
	return func(h *Host) { h.rtOpts = append(h.rtOpts, opts...) }
}

// WithStore replaces the store the runtime and callbacks use with the one
// wrap returns for the host's registry, such as a [store.Counter].
func WithStore(wrap func(*store.Registry) store.Store) Option {
	return func(h *Host) { h.wrap = wrap }
}
