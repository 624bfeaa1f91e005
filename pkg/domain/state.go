package domain

import "time"

// ResultError is the result line shown when an evaluation fails.
const ResultError = "Error"

// State represents the current snapshot of a calculator session.
type State struct {
	// SessionID identifies the session this state belongs to.
	SessionID string `json:"session_id"`

	// Expression is the infix formula being edited, using display glyphs.
	Expression string `json:"expression"`

	// Result is the last computed result. Empty once the expression is edited again.
	Result string `json:"result"`

	// History holds the most recent successful evaluations, newest first.
	History History `json:"history"`

	// UpdatedAt is the time of the last transition.
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries an encrypted copy of the real state when the store is
	// wrapped by an encrypting middleware. It is empty otherwise.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates an empty state for a session.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		History:   History{},
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.History = make(History, len(s.History))
	copy(c.History, s.History)
	return &c
}

// Display returns the primary display line: the result when one is shown,
// otherwise the expression, otherwise "0".
func (s *State) Display() string {
	if s.Result != "" {
		return s.Result
	}
	if s.Expression != "" {
		return s.Expression
	}
	return "0"
}

// IsError reports whether the last evaluation failed.
func (s *State) IsError() bool {
	return s.Result == ResultError
}
