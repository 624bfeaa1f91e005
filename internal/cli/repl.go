package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/google/uuid"
)

// ReplOptions configures RunREPL.
type ReplOptions struct {
	SessionID string
	JSON      bool
	Input     io.Reader
	Output    io.Writer
	// Interrupts clears the display or exits on each tick, like Ctrl+C.
	Interrupts <-chan struct{}
}

// RunREPL runs the line calculator against a persisted session.
// An empty SessionID starts a fresh session with a generated ID.
func RunREPL(ctx context.Context, app *App, opts ReplOptions) error {
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var handler runner.IOHandler
	var greeting string
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.Input, opts.Output)
	} else {
		var handlerOpts []runner.TextHandlerOption
		if IsTerminal(opts.Output) {
			tui.PrintBanner(opts.Output, strings.TrimSpace(tally.Version))
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(opts.Input, opts.Output, handlerOpts...)
		greeting = fmt.Sprintf(">>> Session '%s' active. Type \"help\" for commands.", sessionID)
	}

	r := runner.NewRunner(
		runner.WithLogger(app.Logger),
		runner.WithSessions(app.Sessions),
		runner.WithSessionID(sessionID),
		runner.WithInputHandler(handler),
		runner.WithInterruptSource(opts.Interrupts),
		runner.WithGreeting(greeting),
	)

	app.Logger.Info("Session started", "session_id", sessionID)
	if err := r.Run(ctx, app.Engine()); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
