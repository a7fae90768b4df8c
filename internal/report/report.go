// Package report presents startup failures to the operator.
package report

import (
	"fmt"
	"io"
	"log/slog"

	"bootd/internal/diagnose"
	"bootd/internal/failure"
)

const banner = `
***************************
APPLICATION FAILED TO START
***************************

Description:

%s

Action:

%s

`

// Reporter writes a diagnosis banner and logs the underlying failure.
type Reporter struct {
	out io.Writer
	log *slog.Logger
}

// New creates a Reporter. A nil logger falls back to slog.Default.
func New(out io.Writer, log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{out: out, log: log}
}

// Report classifies err, prints the banner and returns the diagnosis.
// Write errors are ignored: the process is already failing.
func (r *Reporter) Report(err error) diagnose.Diagnosis {
	f := failure.Capture(err)
	d := diagnose.Classify(f)

	r.log.Error("application failed to start",
		slog.String("category", categoryOf(f)),
		slog.String("description", d.Description),
		slog.String("action", d.Action),
		slog.Any("chain", chainOf(f)),
	)

	if r.out != nil {
		_, _ = fmt.Fprintf(r.out, banner, d.Description, d.Action)
	}
	return d
}

func categoryOf(f *failure.Failure) string {
	if f == nil {
		return failure.CategoryUnknown.String()
	}
	return f.Category.String()
}

// chainOf renders the cause chain as "Category: message" lines for the log record.
func chainOf(f *failure.Failure) []string {
	chain := failure.Chain(f)
	out := make([]string, 0, len(chain))
	for _, c := range chain {
		out = append(out, c.Category.String()+": "+c.Message)
	}
	return out
}
