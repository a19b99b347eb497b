package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lom/grammar"
	"github.com/ardnew/lom/host"
	"github.com/ardnew/lom/log"
	"github.com/ardnew/lom/parser"
)

// GrammarFlags are the flags of every command that loads a grammar.
type GrammarFlags struct {
	Grammar  string `help:"Grammar file, located along the search path." placeholder:"FILE" required:"" short:"g"`
	MaxDepth int    `default:"${maxDepth}"                             help:"Maximum parser nesting depth."`
}

// load reads the grammar named by the flags.
func (f GrammarFlags) load(ctx context.Context) (*grammar.Grammar, error) {
	depth := f.MaxDepth
	if depth <= 0 {
		depth = parser.DefaultMaxDepth
	}

	g, err := grammar.LoadFile(ctx, f.Grammar,
		grammar.WithSearchPath(searchPathFrom(ctx)...),
		grammar.WithLogger(log.Default()),
		grammar.WithHostOptions(
			host.WithRuntimeOptions(parser.WithMaxDepth(depth)),
		),
	)
	if err != nil {
		return nil, ErrLoadGrammar.Wrap(err).
			With(slog.String("grammar", f.Grammar))
	}

	log.DebugContext(ctx, "grammar loaded",
		slog.String("file", g.Name()),
		slog.Int("rules", len(g.Rules())),
		slog.Int("files", len(g.Files())),
	)

	return g, nil
}
