package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/lom/grammar"
	"github.com/ardnew/lom/log"
)

const defaultEditor = "vi"

// editGrammarCommand implements [tea.ExecCommand]. It opens the grammar file
// in the user's editor and reloads it, offering to edit again while the file
// fails to load.
type editGrammarCommand struct {
	path    string
	load    Loader
	ctxFunc func() context.Context
	logger  log.Logger
	loaded  *grammar.Grammar
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editGrammarCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editGrammarCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editGrammarCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run returns [ErrEditDeclined] if the user gives up on a file that does not
// load.
func (c *editGrammarCommand) Run() error {
	ctx := c.ctxFunc()

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, c.path); err != nil {
			return err
		}

		g, err := c.load(ctx)

		c.logger.TraceContext(ctx, "editor reload attempt",
			slog.String("file", c.path),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.loaded = g

			return nil
		}

		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		sc := bufio.NewScanner(c.stdin)
		if !sc.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR (or vi) on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
