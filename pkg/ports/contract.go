package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Expression = "3+4×2"
		state.Result = "11"
		state.History = state.History.Push(domain.HistoryEntry{
			Expression: "3+4×2",
			Result:     "11",
			Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		})

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, "3+4×2", loaded.Expression)
		assert.Equal(t, "11", loaded.Result)
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "11", loaded.History[0].Result)
		assert.True(t, loaded.History[0].Timestamp.Equal(state.History[0].Timestamp))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Expression = "1+"
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "1+", loaded.Expression)
		assert.Empty(t, loaded.History)
	})

	t.Run("Loaded State Is Isolated", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Expression = "7"
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Expression = "mutated"
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "7", loaded.Expression)

		loaded.Expression = "mutated again"
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "7", again.Expression)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
