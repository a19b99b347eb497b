package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lom/grammar"
)

const kvGrammar = "testdata/kv.yaml"

func testContext(t *testing.T, stdin string) (context.Context, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true

	var out bytes.Buffer

	ctx := WithOutput(t.Context(), &out)
	ctx = WithStdin(ctx, strings.NewReader(stdin))

	return ctx, &out
}

func TestRunNative(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		input   []string
		want    []string
		wantErr error
	}{
		{
			name:  "accept",
			input: []string{"a=12"},
			want:  []string{"✔ [a = 12]"},
		},
		{
			name:  "rest",
			input: []string{"a=12;", "b=3"},
			want:  []string{`✔ [a = 12] rest=";"`, "✔ [b = 3]"},
		},
		{
			name:    "reject",
			input:   []string{"b=3", "=3"},
			want:    []string{"✔ [b = 3]", `✘ "=3" rest="=3"`},
			wantErr: ErrParseFailed,
		},
		{
			name:  "rule",
			rule:  "number",
			input: []string{"42x"},
			want:  []string{`✔ 42 rest="x"`},
		},
		{
			name:    "unknown rule",
			rule:    "nubmer",
			input:   []string{"1"},
			wantErr: grammar.ErrUnknownRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, "")

			r := &Run{
				GrammarFlags: GrammarFlags{Grammar: kvGrammar},
				Rule:         tt.rule,
				Format:       "native",
				Input:        tt.input,
			}

			err := r.Run(ctx)
			if !errors.Is(err, tt.wantErr) || (err != nil) != (tt.wantErr != nil) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.want == nil {
				return
			}

			got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("output:\n%s\nwant:\n%s", out, strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestRunJSON(t *testing.T) {
	ctx, out := testContext(t, "x=1\n=\n")

	r := &Run{
		GrammarFlags: GrammarFlags{Grammar: kvGrammar},
		Format:       "json",
	}

	if err := r.Run(ctx); !errors.Is(err, ErrParseFailed) {
		t.Fatalf("Run() error = %v, want ErrParseFailed", err)
	}

	dec := json.NewDecoder(out)

	var results []map[string]any

	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}

		results = append(results, m)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %s", len(results), out)
	}

	if results[0]["ok"] != true || results[0]["rule"] != "pair" {
		t.Errorf("results[0] = %v", results[0])
	}

	if v, _ := results[0]["value"].([]any); len(v) != 3 || v[2] != float64(1) {
		t.Errorf("results[0].value = %v", results[0]["value"])
	}

	if results[1]["ok"] != false || results[1]["rest"] != "=" {
		t.Errorf("results[1] = %v", results[1])
	}

	if _, ok := results[1]["value"]; ok {
		t.Errorf("rejected input has a value: %v", results[1])
	}
}

func TestRunYAMLFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.txt", "a=1\nb=2\n")

	ctx, out := testContext(t, "")

	r := &Run{
		GrammarFlags: GrammarFlags{Grammar: kvGrammar},
		Format:       "yaml",
		File:         []string{path},
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	docs := strings.Split(out.String(), "---\n")
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2:\n%s", len(docs), out)
	}

	var res result
	if err := yaml.Unmarshal([]byte(docs[1]), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if res.Input != "b=2" || !res.OK || res.Rule != "pair" {
		t.Errorf("second result = %+v", res)
	}
}

func TestRunMissingGrammar(t *testing.T) {
	ctx, _ := testContext(t, "")

	r := &Run{GrammarFlags: GrammarFlags{Grammar: "testdata/none.yaml"}}

	if err := r.Run(ctx); !errors.Is(err, ErrLoadGrammar) {
		t.Errorf("Run() error = %v, want ErrLoadGrammar", err)
	}
}

func TestRunSearchPath(t *testing.T) {
	ctx, out := testContext(t, "")
	ctx = WithSearchPath(ctx, []string{"testdata"})

	r := &Run{
		GrammarFlags: GrammarFlags{Grammar: "kv"},
		Format:       "native",
		Input:        []string{"k=7"},
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "[k = 7]") {
		t.Errorf("output = %q", out)
	}
}
