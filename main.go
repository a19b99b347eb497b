package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/lom/cli"
	"github.com/ardnew/lom/cli/cmd"
	"github.com/ardnew/lom/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// A rejected input has already been reported on stdout.
		if !errors.Is(err, cmd.ErrParseFailed) {
			log.Error("run failed", slog.Any("error", err))
		}

		os.Exit(1)
	}
}
