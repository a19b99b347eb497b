// Package cmd implements the lom subcommands: run, check, fmt, repl and
// init.
//
// Commands receive their [context.Context] from kong. The CLI stores the
// [kong.Context] and the grammar search path in it with [WithContext] and
// [WithSearchPath]; commands write to the writer set by [WithOutput], or to
// stdout.
package cmd

const (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path. It also names the mapping written by [Init].
	ConfigIdentifier = "config"
)
