// Package profile starts an optional [github.com/pkg/profile] session for
// the lom command.
//
// Profiling is compiled in only with the "pprof" build tag. Without it every
// [Profiler] is inert and [Modes] is empty, so callers may start and stop
// one unconditionally:
//
//	p := profile.New(profile.WithMode("cpu"), profile.WithPath(dir))
//	defer p.Start().Stop()
//
// Profiles are written to Path as <mode>.pprof and can be read with
// "go tool pprof". A pprof build also registers the [net/http/pprof]
// handlers on the default mux.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
