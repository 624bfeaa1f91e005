package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventKeyPress EventType = "key_press"
	EventEvaluate EventType = "evaluate"
	EventRestore  EventType = "restore"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// KeyEvent is emitted after a key press has been applied.
type KeyEvent struct {
	EventBase
	Key        Key      `json:"key"`
	Class      KeyClass `json:"class"`
	Expression string   `json:"expression"`
}

// EvaluationEvent is emitted after "=" ran the evaluator.
type EvaluationEvent struct {
	EventBase
	Expression string `json:"expression"`
	Result     string `json:"result"`
	IsError    bool   `json:"is_error,omitempty"`
	Err        error  `json:"-"`
}

// RestoreEvent is emitted when a history entry is recalled.
type RestoreEvent struct {
	EventBase
	Index int          `json:"index"`
	Entry HistoryEntry `json:"entry"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnKeyPress func(context.Context, *KeyEvent)
	OnEvaluate func(context.Context, *EvaluationEvent)
	OnRestore  func(context.Context, *RestoreEvent)
}
