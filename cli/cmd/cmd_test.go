package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestSourceFilesEmpty(t *testing.T) {
	if s := newSourceFiles(nil, nil); s != nil {
		t.Errorf("newSourceFiles(nil) = %+v, want nil", s)
	}

	missing := filepath.Join(t.TempDir(), "missing")
	if s := newSourceFiles([]string{missing}, nil); s != nil {
		t.Errorf("newSourceFiles(missing) = %+v, want nil", s)
	}
}

func TestSourceFilesLines(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", "a=1\nb=2")
	second := writeFile(t, dir, "second.txt", "c=3\n")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(first, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	stdin := strings.NewReader("d=4\n")
	src := newSourceFiles(
		[]string{"-", first, link, second, "-", filepath.Join(dir, "nope")},
		stdin,
	)
	if src == nil {
		t.Fatal("newSourceFiles returned nil")
	}

	got := slices.Collect(src.Lines)
	want := []string{"a=1", "b=2", "c=3", "d=4"}

	if !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}

	if err := src.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestSourceFilesStopEarly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.txt", "x\ny\nz\n")

	var got []string

	for line := range newSourceFiles([]string{path}, nil).Lines {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}

	if !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("lines = %q", got)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := t.Context()

	if outputFrom(ctx) != os.Stdout {
		t.Error("outputFrom default is not stdout")
	}

	if stdinFrom(ctx) != os.Stdin {
		t.Error("stdinFrom default is not stdin")
	}

	if kongContextFrom(ctx) != nil {
		t.Error("kongContextFrom default is not nil")
	}

	var buf bytes.Buffer

	ctx = WithOutput(WithSearchPath(ctx, []string{"a", "b"}), &buf)

	if outputFrom(ctx) != &buf {
		t.Error("outputFrom did not return the writer set")
	}

	if got := searchPathFrom(ctx); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("searchPathFrom = %v", got)
	}
}
