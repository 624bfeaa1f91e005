package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownKey is returned when a label is not part of the calculator key set.
var ErrUnknownKey = errors.New("unknown key")

// ErrHistoryIndex is returned when a history position does not exist.
var ErrHistoryIndex = errors.New("history index out of range")
