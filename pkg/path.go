package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var (
	debugBinary = regexp.MustCompile(`^__debug_bin\d+$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// Prefix returns the base name of the running executable with its extension
// removed. It names the configuration and cache directories.
//
// The dlv default output name "__debug_bin<N>" maps to [Name], and leading
// dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		return cleanPrefix(exe)
	},
)

func cleanPrefix(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = debugBinary.ReplaceAllString(base, Name)

	return leadingDots.ReplaceAllString(base, "")
}

// ConfigDir returns the per-user configuration directory for lom.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the per-user cache directory for lom. REPL history and
// profiles are written here.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir resolves a per-user directory with lookup, falling back to a dot
// directory under $HOME and then to the working directory.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
