package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/lom/pkg"
)

// baseConfig is the name of the configuration mapping and the base name of
// the configuration file.
const baseConfig = "config"

// configExt is the extension of the configuration file.
const configExt = ".yaml"

//nolint:gochecknoglobals
var defaultDirMode os.FileMode = 0o700

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// cachePath joins elem to the cache directory.
func cachePath(elem ...string) string {
	return filepath.Join(append([]string{pkg.CacheDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return ErrMkdir.Wrap(err)
		}
	}

	return nil
}
