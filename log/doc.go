// Package log is the structured logger used throughout lom. It wraps
// [log/slog] with a Trace level, functional options and colorized handlers
// for interactive terminals.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("grammar loaded", slog.Int("rules", n))
//
// The zero [Logger] discards everything, so components may hold one without
// checking whether logging was configured. Package-level functions such as
// [Info] write through a default logger that the CLI reconfigures with
// [Config] once flags are parsed.
package log
