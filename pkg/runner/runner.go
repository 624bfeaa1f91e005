package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/session"
)

// Runner drives a calculator session from line-based input.
//
// Each line is either a run of keys or a command (history, recall, help,
// exit). An interrupt clears the expression; a second interrupt on an empty
// display ends the loop.
type Runner struct {
	Handler         IOHandler
	Logger          *slog.Logger
	Sessions        *session.Manager
	SessionID       string
	InterruptSource <-chan struct{}
	Greeting        string
}

// NewRunner creates a Runner reading from stdin and writing to stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run executes the loop until exit, EOF or ctx cancellation.
func (r *Runner) Run(ctx context.Context, engine *tally.Engine) error {
	state, err := r.initialState(ctx, engine)
	if err != nil {
		return err
	}

	signals := NewSignalManager(ctx, r.InterruptSource)
	defer signals.Stop()

	if r.Greeting != "" {
		if err := r.Handler.SystemOutput(ctx, r.Greeting); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	if err := r.Handler.Output(ctx, NewView(state)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		line, err := r.Handler.Input(signals.Context())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if signals.Interrupted() {
				if state.Expression == "" && state.Result == "" {
					return nil
				}
				r.Logger.Debug("interrupt clears display", "session_id", state.SessionID)
				signals.Reset()
				if state, err = r.apply(ctx, engine, state, []domain.Key{domain.KeyClear}); err != nil {
					return err
				}
				if err := r.Handler.Output(ctx, NewView(state)); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			if err := r.Handler.SystemOutput(ctx, "Error: "+err.Error()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		switch cmd.Kind {
		case CommandExit:
			return r.Handler.SystemOutput(ctx, "Bye!")
		case CommandHelp:
			err = r.Handler.SystemOutput(ctx, HelpText)
		case CommandHistory:
			err = r.Handler.OutputHistory(ctx, state.History)
		case CommandRecall:
			next, rerr := r.restore(ctx, engine, state, cmd.Index)
			if errors.Is(rerr, domain.ErrHistoryIndex) {
				err = r.Handler.SystemOutput(ctx, "Error: "+rerr.Error())
				break
			}
			if rerr != nil {
				return rerr
			}
			state = next
			err = r.Handler.Output(ctx, NewView(state))
		case CommandKeys:
			if len(cmd.Keys) > 0 {
				if state, err = r.apply(ctx, engine, state, cmd.Keys); err != nil {
					return err
				}
			}
			err = r.Handler.Output(ctx, NewView(state))
		}
		if err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

func (r *Runner) initialState(ctx context.Context, engine *tally.Engine) (*domain.State, error) {
	if r.Sessions == nil || r.SessionID == "" {
		return engine.Start(r.SessionID), nil
	}
	state, err := r.Sessions.LoadOrStart(ctx, r.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session %s: %w", r.SessionID, err)
	}
	r.Logger.Debug("session opened", "session_id", r.SessionID, "history", len(state.History))
	return state, nil
}

// apply presses keys, persisting through the session manager when one is set.
// With a manager, the stored state is the base so concurrent clients of the
// same session see each other's input.
func (r *Runner) apply(ctx context.Context, engine *tally.Engine, state *domain.State, keys []domain.Key) (*domain.State, error) {
	if r.Sessions == nil || r.SessionID == "" {
		return engine.PressAll(ctx, state, keys...)
	}
	next, err := r.Sessions.Update(ctx, r.SessionID, func(current *domain.State) (*domain.State, error) {
		return engine.PressAll(ctx, current, keys...)
	})
	if err != nil {
		return nil, fmt.Errorf("critical persistence error: %w", err)
	}
	return next, nil
}

func (r *Runner) restore(ctx context.Context, engine *tally.Engine, state *domain.State, index int) (*domain.State, error) {
	if r.Sessions == nil || r.SessionID == "" {
		return engine.Restore(ctx, state, index)
	}
	return r.Sessions.Update(ctx, r.SessionID, func(current *domain.State) (*domain.State, error) {
		return engine.Restore(ctx, current, index)
	})
}
