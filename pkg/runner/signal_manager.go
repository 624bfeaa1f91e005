package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager turns SIGINT/SIGTERM (and an optional extra source) into
// cancellation of a re-armable context.
type SignalManager struct {
	parent context.Context
	source <-chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a manager derived from parent and starts listening.
// source may be nil.
func NewSignalManager(parent context.Context, source <-chan struct{}) *SignalManager {
	sm := &SignalManager{parent: parent, source: source}
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Interrupted reports whether the current context was cancelled by a signal
// rather than by the parent.
func (sm *SignalManager) Interrupted() bool {
	return sm.ctx.Err() != nil && sm.parent.Err() == nil
}

// Reset re-arms the listener after an interrupt has been handled.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	ctx, stop := signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(ctx)
	sm.ctx = ctx
	sm.cancel = func() {
		cancel()
		stop()
	}

	if sm.source != nil {
		go func() {
			select {
			case <-sm.source:
				cancel()
			case <-ctx.Done():
			}
		}()
	}
}

// Stop permanently stops the listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}
