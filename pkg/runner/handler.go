package runner

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (REPL) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the calculator display after a command.
	Output(ctx context.Context, view View) error

	// OutputHistory presents the history list, newest first.
	OutputHistory(ctx context.Context, history domain.History) error

	// Input reads one command line. It returns ctx.Err() when ctx is done
	// and io.EOF when the input stream ends.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, errors, farewells).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written, e.g. into ANSI.
type ContentRenderer func(string) (string, error)
