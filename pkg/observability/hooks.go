package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tally/pkg/domain"
)

// LoggingHooks logs evaluations at Info and restores at Debug.
// Key presses are already logged by the engine at Debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			if e.IsError {
				logger.Info("evaluation failed",
					"session_id", e.SessionID,
					"expression", e.Expression,
					"error", e.Err,
				)
				return
			}
			logger.Info("evaluation",
				"session_id", e.SessionID,
				"expression", e.Expression,
				"result", e.Result,
			)
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			logger.Debug("history restored",
				"session_id", e.SessionID,
				"index", e.Index,
				"expression", e.Entry.Expression,
			)
		},
	}
}

// Compose fans every event out to all hooks, in order.
func Compose(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnKeyPress: func(ctx context.Context, e *domain.KeyEvent) {
			for _, h := range hooks {
				if h.OnKeyPress != nil {
					h.OnKeyPress(ctx, e)
				}
			}
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			for _, h := range hooks {
				if h.OnEvaluate != nil {
					h.OnEvaluate(ctx, e)
				}
			}
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			for _, h := range hooks {
				if h.OnRestore != nil {
					h.OnRestore(ctx, e)
				}
			}
		},
	}
}
