package cmd

import (
	"context"

	"github.com/ardnew/lom/cli/cmd/repl"
	"github.com/ardnew/lom/log"
	"github.com/ardnew/lom/pkg"
)

// Repl starts an interactive session parsing lines with a grammar rule.
type Repl struct {
	GrammarFlags `embed:""`

	Rule string `help:"Initial rule (default: the grammar's start rule)." short:"r"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	cacheDir := pkg.CacheDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, r.load, r.Rule, cacheDir, log.Default())
}
