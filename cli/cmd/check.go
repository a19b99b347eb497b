package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/ardnew/lom/log"
)

// Check loads a grammar, reporting any error, and lists its rules.
type Check struct {
	GrammarFlags `embed:""`

	Quiet bool `help:"Only validate; print nothing on success." short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g, err := c.load(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := g.Close(); cerr != nil {
			log.WarnContext(ctx, "grammar close", slog.Any("error", cerr))
		}
	}()

	if c.Quiet {
		return nil
	}

	out := outputFrom(ctx)
	bold := color.New(color.Bold)

	fmt.Fprintln(out, bold.Sprint("grammar"), g.Name())

	for _, f := range g.Files() {
		if f != g.Name() {
			fmt.Fprintln(out, bold.Sprint("include"), f)
		}
	}

	fmt.Fprintln(out, bold.Sprint("start"), g.Start())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for _, name := range g.Rules() {
		mark := " "
		if name == g.Start() {
			mark = "*"
		}

		e, _ := g.Expr(name)
		fmt.Fprintf(tw, "%s %s\t%s\n", mark, name, e)
	}

	return tw.Flush()
}
