package ports

import (
	"context"
	"testing"
	"time"

	"enkat/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests verifying that a
// SessionStore implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewSessionState(sessionID, "welcome")
		state.History = append(state.History, domain.RecordedAnswer{
			QuestionID: "welcome",
			RawAnswer:  "Ja, jag vill delta",
			AnsweredAt: time.Now().UTC().Truncate(time.Second),
		})
		state.Log = append(state.Log, domain.Message{Speaker: domain.SpeakerBot, Text: "Hej!"})

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Current, loaded.Current)
		assert.Equal(t, state.Status, loaded.Status)
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "Ja, jag vill delta", loaded.History[0].RawAnswer)
		require.Len(t, loaded.Log, 1)
		assert.Equal(t, domain.SpeakerBot, loaded.Log[0].Speaker)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		state := domain.NewSessionState(sessionID, "welcome")
		require.NoError(t, store.Save(ctx, sessionID, state))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Current = "mutated"

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "welcome", second.Current)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSessionState(sessionID, "welcome")))

		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSessionState(id1, "welcome"))
		_ = store.Save(ctx, id2, domain.NewSessionState(id2, "welcome"))

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
