package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lom/grammar"
	"github.com/ardnew/lom/host"
	"github.com/ardnew/lom/log"
)

// Run parses each input with a grammar rule and prints the outcome.
type Run struct {
	GrammarFlags `embed:""`

	Rule   string   `help:"Rule to parse with (default: the grammar's start rule)." short:"r"`
	Format string   `default:"native" enum:"native,json,yaml" help:"Output format." short:"o"`
	File   []string `help:"Read inputs, one per line, from file(s) or '-' for stdin." placeholder:"FILE" short:"f" type:"path"`

	Input []string `arg:"" help:"Inputs to parse. Without any, inputs are read from --file or stdin." optional:""`
}

// result is the record printed for each input.
type result struct {
	Input string `json:"input"           yaml:"input"`
	Rule  string `json:"rule"            yaml:"rule"`
	OK    bool   `json:"ok"              yaml:"ok"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Rest  string `json:"rest"            yaml:"rest"`
}

// Run executes the run command. It returns [ErrParseFailed] if any input was
// rejected.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g, err := r.load(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := g.Close(); cerr != nil {
			log.WarnContext(ctx, "grammar close", slog.Any("error", cerr))
		}
	}()

	w := newResultWriter(outputFrom(ctx), r.Format)

	var total, failed int

	for input := range r.inputs(ctx, &err) {
		m, perr := g.Parse(r.Rule, input)
		if perr != nil {
			return perr
		}

		total++

		if !m.OK {
			failed++
		}

		if werr := w.write(input, m); werr != nil {
			return werr
		}
	}

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "run complete",
		slog.Int("inputs", total),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrParseFailed.With(
			slog.Int("failed", failed),
			slog.Int("inputs", total),
		)
	}

	return nil
}

// inputs yields the positional inputs, or else the lines of --file (stdin
// by default). A read error is stored in errp.
func (r *Run) inputs(ctx context.Context, errp *error) func(func(string) bool) {
	return func(yield func(string) bool) {
		if len(r.Input) > 0 {
			for _, in := range r.Input {
				if !yield(in) {
					return
				}
			}

			return
		}

		files := r.File
		if len(files) == 0 {
			files = []string{stdinSource}
		}

		src := newSourceFiles(files, stdinFrom(ctx))
		if src == nil {
			return
		}

		src.Lines(yield)

		if src.Err() != nil {
			*errp = ErrReadInput.Wrap(src.Err())
		}
	}
}

// resultWriter prints each [grammar.Match] in one output format.
type resultWriter struct {
	w      io.Writer
	format string
	count  int
	ok     *color.Color
	fail   *color.Color
	faint  *color.Color
}

func newResultWriter(w io.Writer, format string) *resultWriter {
	return &resultWriter{
		w:      w,
		format: format,
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
}

func (rw *resultWriter) write(input string, m grammar.Match) error {
	defer func() { rw.count++ }()

	res := result{Input: input, Rule: m.Rule, OK: m.OK, Value: m.Value, Rest: m.Rest}

	switch rw.format {
	case "json":
		if err := json.NewEncoder(rw.w).Encode(res); err != nil {
			return ErrJSONMarshal.Wrap(err).With(slog.String("input", input))
		}

		return nil

	case "yaml":
		buf, err := yaml.Marshal(res)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err).With(slog.String("input", input))
		}

		if rw.count > 0 {
			fmt.Fprintln(rw.w, "---")
		}

		_, err = rw.w.Write(buf)

		return err
	}

	var rest string
	if m.Rest != "" {
		rest = rw.faint.Sprint(" rest=" + strconv.Quote(m.Rest))
	}

	if !m.OK {
		_, err := fmt.Fprintln(rw.w, rw.fail.Sprint("✘ ")+strconv.Quote(input)+rest)

		return err
	}

	_, err := fmt.Fprintln(rw.w, rw.ok.Sprint("✔ ")+host.Str(m.Value)+rest)

	return err
}
