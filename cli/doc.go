// Package cli contains the command line interface for lom.
//
// # Usage
//
//	lom [flags] <command> [args]
//
// Every command that reads a grammar takes -g/--grammar. Grammar includes
// are resolved relative to the including file, then along the search path
// built from --path and the LOM_PATH environment variable.
//
//	lom run -g list.yaml 'a, 12, b'    # parse arguments with the start rule
//	lom run -g list.yaml -r item < in  # parse each stdin line with "item"
//	lom check -g list.yaml             # validate and list rules
//	lom fmt yaml -g list.yaml          # print the normalized grammar
//	lom repl -g list.yaml              # interactive session
//	lom init                           # write the default config file
//
// "run" is the default command, so "lom -g list.yaml input" is equivalent
// to "lom run -g list.yaml input".
//
// # Configuration
//
// Flag defaults are read from the "config" mapping of
// $XDG_CONFIG_HOME/lom/config.yaml (and from config.yaml.json, if present).
// Keys are flag names, with hyphens or underscores:
//
//	config:
//	  log-level: debug
//	  log_format: json
//	  path: [/usr/share/lom]
//
// Command-line flags override configured values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, ..., or none)
//   - --[no-]log-caller: include the source location
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lom .
//
//   - --pprof-mode: profile to collect (cpu, heap, allocs, ...)
//   - --pprof-dir: output directory (default: <cache dir>/pprof)
package cli
