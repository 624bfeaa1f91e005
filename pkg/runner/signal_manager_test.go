package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := NewSignalManager(context.Background(), nil)
	defer sm.Stop()

	ctx1 := sm.Context()
	assert.NoError(t, ctx1.Err())

	sm.Reset()
	ctx2 := sm.Context()
	assert.NotEqual(t, ctx1, ctx2, "Reset should generate a new context")
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "Reset retires the old context")
	assert.NoError(t, ctx2.Err())

	sm.Stop()
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
}

func TestSignalManager_Source(t *testing.T) {
	source := make(chan struct{})
	sm := NewSignalManager(context.Background(), source)
	defer sm.Stop()

	source <- struct{}{}

	select {
	case <-sm.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("interrupt source did not cancel the context")
	}
	assert.True(t, sm.Interrupted())

	sm.Reset()
	assert.False(t, sm.Interrupted())
}

func TestSignalManager_ParentCancelIsNotInterrupt(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sm := NewSignalManager(parent, nil)
	defer sm.Stop()

	cancel()
	<-sm.Context().Done()
	assert.False(t, sm.Interrupted())
}
