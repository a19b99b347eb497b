package grammar

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/lom/pkg"
)

// Extensions tried, in order, for a grammar name given without one.
var Extensions = []string{".yaml", ".yml"}

// SearchPath returns the directories searched for grammar files: dirs
// followed by the entries of the LOM_PATH environment variable. Entries
// that are not directories are dropped.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pkg.PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// Find locates the grammar file name. A relative name is tried against base
// and then each directory of path. A name without an extension is also
// tried with each of [Extensions].
func Find(name, base string, path []string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}

	var dirs []string
	if !filepath.IsAbs(name) {
		dirs = append([]string{base}, path...)
	} else {
		dirs = []string{""}
	}

	for _, dir := range dirs {
		for _, c := range candidates {
			if p := filepath.Join(dir, c); isFile(p) {
				if abs, err := filepath.Abs(p); err == nil {
					return abs, nil
				}

				return p, nil
			}
		}
	}

	return "", ErrIncludeNotFound.With(
		slog.String("name", name),
		slog.Any("searched", dirs),
	)
}
