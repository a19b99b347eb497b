package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/lom/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("grammar loaded", slog.Int("rules", 3))
	logger.Debug("not shown at the default level")
	// Output:
	// level=INFO msg="grammar loaded" rules=3
}
