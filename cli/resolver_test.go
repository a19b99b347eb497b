package cli

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lom/log"
)

func kongFlag(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolveLookup(t *testing.T) {
	doc := `
config:
  log_level: debug
  log-format: json
  max-depth: 250
  path: [/a, /b]
other:
  grammar: ignored.yaml
`

	r, err := resolve(baseConfig)(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log_level", "debug"},
		{"log-format", "json"},
		{"max-depth", "250"},
		{"grammar", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, kongFlag(tt.flag))
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.flag, err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	got, _ := r.Resolve(nil, nil, kongFlag("path"))

	list, ok := got.([]any)
	if !ok || len(list) != 2 || list[0] != "/a" || list[1] != "/b" {
		t.Errorf("Resolve(path) = %#v, want [/a /b]", got)
	}
}

func TestResolveIgnoresBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no mapping", "other:\n  a: 1\n"},
		{"scalar mapping", "config: 3\n"},
		{"malformed", "config: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve(baseConfig)(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("resolve error = %v, want nil", err)
			}

			if v, _ := r.Resolve(nil, nil, kongFlag("a")); v != nil {
				t.Errorf("Resolve = %#v, want nil", v)
			}
		})
	}

	r, err := resolve(baseConfig)(iotest.ErrReader(errors.New("boom")))
	if err != nil || r == nil {
		t.Errorf("resolve(failing reader) = %v, %v", r, err)
	}
}

func TestResolveConfiguresKong(t *testing.T) {
	var cli struct {
		Depth int      `default:"1"`
		Name  string   `default:"x"`
		Tags  []string
		Quiet bool
	}

	doc := "config:\n  depth: 7\n  tags: [a, b]\n  quiet: true\n"

	res, err := resolve(baseConfig)(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(res), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--name=cli"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cli.Depth != 7 || cli.Name != "cli" || !cli.Quiet {
		t.Errorf("cli = %+v", cli)
	}

	if len(cli.Tags) != 2 || cli.Tags[0] != "a" || cli.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", cli.Tags)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{3, "3"},
		{int64(-4), "-4"},
		{uint64(5), "5"},
		{1.5, "1.5"},
		{"s", "s"},
		{true, true},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestLogScan(t *testing.T) {
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithCaller(false),
			log.WithPretty(true),
		)
	})

	var f logConfig

	f.Pretty = true
	f.scan([]string{
		"run", "--log-level", "debug", "--log-format=json",
		"--log-caller", "--no-log-pretty", "--", "--log-level=error",
	})

	if f.Level != "debug" || f.Format != "json" {
		t.Errorf("level, format = %q, %q", f.Level, f.Format)
	}

	if !f.Caller || f.Pretty {
		t.Errorf("caller, pretty = %v, %v", f.Caller, f.Pretty)
	}

	f.scan([]string{"--log-caller=false", "--log-level", "-x"})

	if f.Caller {
		t.Error("--log-caller=false left caller set")
	}

	if f.Level != "" {
		t.Errorf("--log-level followed by a flag set level %q", f.Level)
	}
}
