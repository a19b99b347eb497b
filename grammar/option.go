package grammar

import (
	"github.com/ardnew/lom/host"
	"github.com/ardnew/lom/log"
)

// Option configures how a grammar is loaded.
type Option func(*Grammar)

// WithHost builds the grammar on h instead of a host of its own. The
// grammar does not close h.
func WithHost(h *host.Host) Option {
	return func(g *Grammar) { g.host = h }
}

// WithLogger sets the logger for loading and for the host the grammar
// creates.
func WithLogger(logger log.Logger) Option {
	return func(g *Grammar) { g.logger = logger }
}

// WithSearchPath sets the directories searched for included files after the
// directory of the including file.
func WithSearchPath(dirs ...string) Option {
	return func(g *Grammar) { g.path = dirs }
}

// WithName sets the name reported for a grammar read by [Load]. Includes
// are resolved relative to its directory.
func WithName(name string) Option {
	return func(g *Grammar) { g.name = name }
}

// WithHostOptions passes opts to the host the grammar creates.
func WithHostOptions(opts ...host.Option) Option {
	return func(g *Grammar) { g.hostOpts = append(g.hostOpts, opts...) }
}
