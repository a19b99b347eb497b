package cmd

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type (
	contextKey    struct{}
	searchPathKey struct{}
	outputKey     struct{}
	stdinKey      struct{}
)

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// WithSearchPath returns a copy of ctx carrying the grammar search path.
func WithSearchPath(ctx context.Context, path []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, path)
}

func searchPathFrom(ctx context.Context) []string {
	path, _ := ctx.Value(searchPathKey{}).([]string)

	return path
}

// WithOutput returns a copy of ctx directing command output to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithStdin returns a copy of ctx reading standard input from r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource names standard input in a list of input files.
const stdinSource = "-"

// sourceFiles yields the lines of a list of input files, each file read
// once, followed by standard input if it was named.
type sourceFiles struct {
	paths    []string
	stdin    io.Reader
	hasStdin bool
	err      error
}

// fileKey identifies a file by device and inode, so that symlinks and
// differently spelled paths to one file are read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// newSourceFiles resolves sources, dropping duplicates. All occurrences of
// "-" collapse into a single read of stdin, placed last. It returns nil if
// nothing remains to be read.
func newSourceFiles(sources []string, stdin io.Reader) *sourceFiles {
	s := sourceFiles{stdin: stdin}
	seen := make(map[fileKey]struct{})

	for _, src := range sources {
		if src == stdinSource {
			s.hasStdin = true

			continue
		}

		if path, ok := uniqueFile(src, seen); ok {
			s.paths = append(s.paths, path)
		}
	}

	if len(s.paths) == 0 && !s.hasStdin {
		return nil
	}

	return &s
}

// uniqueFile resolves path to a regular file not yet in seen.
func uniqueFile(path string, seen map[fileKey]struct{}) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return resolved, true
	}

	if _, dup := seen[key]; dup {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// Lines yields every line of every source in order. Iteration stops at the
// first read error, reported by [sourceFiles.Err].
func (s *sourceFiles) Lines(yield func(string) bool) {
	scan := func(r io.Reader) bool {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if !yield(sc.Text()) {
				return false
			}
		}

		s.err = sc.Err()

		return s.err == nil
	}

	for _, path := range s.paths {
		f, err := os.Open(path)
		if err != nil {
			s.err = err

			return
		}

		more := scan(f)
		f.Close()

		if !more {
			return
		}
	}

	if s.hasStdin {
		scan(s.stdin)
	}
}

// Err returns the error that stopped [sourceFiles.Lines], if any.
func (s *sourceFiles) Err() error { return s.err }
