package main

import (
	"log/slog"
	"os"

	"bootd/internal/app"
	"bootd/internal/platform/logger"
	"bootd/internal/report"
)

func main() {
	application, err := app.New()
	if err != nil {
		fail(err, nil)
	}
	defer func() { _ = logger.Close(application.Logger()) }()

	if err := application.Run(); err != nil {
		fail(err, application.Logger())
	}
}

// fail reports a startup failure and exits. Before configuration is loaded
// there is no application logger, so the report falls back to the default one.
func fail(err error, log *slog.Logger) {
	report.New(os.Stderr, log).Report(err)
	if log != nil {
		_ = logger.Close(log)
	}
	os.Exit(1)
}
