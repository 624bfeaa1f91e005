package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
)

// Engine is the calculator input editor.
// Every transition is pure: it returns a new State and never mutates its input.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an editor engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Press applies a single key to state and returns the resulting state.
// Labels outside the key set return domain.ErrUnknownKey and no state.
func (e *Engine) Press(ctx context.Context, state *domain.State, key domain.Key) (*domain.State, error) {
	class, ok := key.Class()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKey, key)
	}

	next := state.Clone()
	switch class {
	case domain.ClassClear:
		clearAll(next)
	case domain.ClassSign:
		toggleSign(next)
	case domain.ClassPercent:
		applyPercent(next)
	case domain.ClassDigit:
		appendDigit(next, key)
	case domain.ClassDecimal:
		appendDecimal(next)
	case domain.ClassOperator:
		applyOperator(next, key)
	case domain.ClassEquals:
		e.evaluate(ctx, next)
	}
	next.UpdatedAt = e.now()

	e.logger.Debug("key applied",
		"session_id", next.SessionID,
		"key", string(key),
		"expression", next.Expression,
		"result", next.Result,
	)
	e.emitKeyPress(ctx, next, key, class)
	return next, nil
}

// PressAll applies keys in order, stopping at the first unknown key.
func (e *Engine) PressAll(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error) {
	current := state
	for _, k := range keys {
		next, err := e.Press(ctx, current, k)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}

// Restore recalls a history entry: expression and result are copied verbatim
// and nothing is re-evaluated.
func (e *Engine) Restore(ctx context.Context, state *domain.State, index int) (*domain.State, error) {
	entry, err := state.History.Entry(index)
	if err != nil {
		return nil, err
	}

	next := state.Clone()
	next.Expression = entry.Expression
	next.Result = entry.Result
	next.UpdatedAt = e.now()

	if e.hooks.OnRestore != nil {
		e.hooks.OnRestore(ctx, &domain.RestoreEvent{
			EventBase: e.eventBase(domain.EventRestore, next.SessionID),
			Index:     index,
			Entry:     entry,
		})
	}
	return next, nil
}

func (e *Engine) eventBase(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: sessionID,
	}
}

func (e *Engine) emitKeyPress(ctx context.Context, state *domain.State, key domain.Key, class domain.KeyClass) {
	if e.hooks.OnKeyPress == nil {
		return
	}
	e.hooks.OnKeyPress(ctx, &domain.KeyEvent{
		EventBase:  e.eventBase(domain.EventKeyPress, state.SessionID),
		Key:        key,
		Class:      class,
		Expression: state.Expression,
	})
}

func (e *Engine) emitEvaluate(ctx context.Context, state *domain.State, err error) {
	if e.hooks.OnEvaluate == nil {
		return
	}
	e.hooks.OnEvaluate(ctx, &domain.EvaluationEvent{
		EventBase:  e.eventBase(domain.EventEvaluate, state.SessionID),
		Expression: state.Expression,
		Result:     state.Result,
		IsError:    err != nil,
		Err:        err,
	})
}
