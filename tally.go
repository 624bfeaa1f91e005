package tally

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/expr"
)

// Engine is the high-level entry point for the tally library.
// It wraps the internal editor runtime behind a small API.
type Engine struct {
	runtime *runtime.Engine
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.now),
	)
	return eng
}

// Start creates an empty calculator state for sessionID.
func (e *Engine) Start(sessionID string) *domain.State {
	return domain.NewState(sessionID)
}

// Press applies one key. The input state is never modified.
func (e *Engine) Press(ctx context.Context, state *domain.State, key domain.Key) (*domain.State, error) {
	return e.runtime.Press(ctx, state, key)
}

// PressAll applies keys in order. On an unknown key it returns the state
// reached so far together with the error.
func (e *Engine) PressAll(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error) {
	return e.runtime.PressAll(ctx, state, keys...)
}

// Apply parses a line of key labels (see domain.ExpandKeys) and presses them.
// Nothing is applied if any label is unknown.
func (e *Engine) Apply(ctx context.Context, state *domain.State, input string) (*domain.State, error) {
	keys, err := domain.ExpandKeys(input)
	if err != nil {
		return nil, err
	}
	return e.runtime.PressAll(ctx, state, keys...)
}

// Restore recalls history entry index (0 is the newest).
func (e *Engine) Restore(ctx context.Context, state *domain.State, index int) (*domain.State, error) {
	return e.runtime.Restore(ctx, state, index)
}

// Evaluate computes a free-form expression outside of any session.
// Both display glyphs (×, ÷) and ASCII operators are accepted.
func (e *Engine) Evaluate(expression string) (string, error) {
	return expr.Calculate(expression)
}
