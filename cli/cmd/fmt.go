package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lom/log"
)

// Fmt prints a grammar in normalized form: includes inlined, aliases
// resolved, and every node in its canonical spelling.
type Fmt struct {
	GrammarFlags `embed:""`

	JSON   bool `help:"Format as JSON."            xor:"format"`
	YAML   bool `help:"Format as YAML (default)."  xor:"format"`
	Indent int  `default:"2"                       help:"Indent width; 0 writes a single line." short:"i"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g, err := f.load(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := g.Close(); cerr != nil {
			log.WarnContext(ctx, "grammar close", slog.Any("error", cerr))
		}
	}()

	out := outputFrom(ctx)

	if f.JSON {
		if err := g.FormatJSON(ctx, out, f.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err).With(slog.String("grammar", g.Name()))
		}

		return nil
	}

	if err := g.FormatYAML(ctx, out, f.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err).With(slog.String("grammar", g.Name()))
	}

	return nil
}
