package domain

import (
	"fmt"
	"time"
)

// HistoryLimit is the maximum number of entries kept in a History.
const HistoryLimit = 10

// HistoryEntry records one successful evaluation.
type HistoryEntry struct {
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// History is a newest-first log of evaluations.
type History []HistoryEntry

// Push returns a new History with e at the front, truncated to HistoryLimit.
// The receiver is left untouched.
func (h History) Push(e HistoryEntry) History {
	n := len(h) + 1
	if n > HistoryLimit {
		n = HistoryLimit
	}
	out := make(History, 0, n)
	out = append(out, e)
	out = append(out, h[:n-1]...)
	return out
}

// Entry returns the entry at index i (0 is the newest).
func (h History) Entry(i int) (HistoryEntry, error) {
	if i < 0 || i >= len(h) {
		return HistoryEntry{}, fmt.Errorf("%w: %d (have %d)", ErrHistoryIndex, i, len(h))
	}
	return h[i], nil
}
