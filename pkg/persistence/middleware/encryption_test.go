package middleware_test

import (
	"context"
	"testing"
	"time"

	"enkat/pkg/adapters/memory"
	"enkat/pkg/domain"
	"enkat/pkg/persistence/middleware"
	"enkat/pkg/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func sampleState() *domain.SessionState {
	return &domain.SessionState{
		SessionID: "s1",
		Current:   "intro",
		Status:    domain.StatusAwaitingAnswer,
		History: []domain.RecordedAnswer{
			{QuestionID: "welcome", RawAnswer: "Ja, jag vill delta", AnsweredAt: time.Unix(1700000000, 0).UTC()},
		},
		Log: []domain.Message{
			{Speaker: domain.SpeakerBot, Text: "Vill du delta?"},
			{Speaker: domain.SpeakerRespondent, Text: "Ja, jag vill delta"},
		},
	}
}

func TestEncryption_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)

	original := sampleState()
	require.NoError(t, store.Save(ctx, "s1", original))

	// The backend only ever sees the sealed envelope.
	raw, err := backend.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Empty(t, raw.History)
	assert.Empty(t, raw.Log)
	assert.Empty(t, raw.Current)
	assert.Equal(t, domain.StatusAwaitingAnswer, raw.Status)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestEncryption_KeyRotation(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	require.NoError(t, oldStore.Save(ctx, "s1", sampleState()))

	// New active key, old key demoted to fallback.
	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    testKey(2),
		FallbackKeys: [][]byte{testKey(1)},
	})(backend)

	loaded, err := newStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "intro", loaded.Current)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	require.NoError(t, store.Save(ctx, "s1", sampleState()))

	other := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(9),
	})(backend)
	_, err := other.Load(ctx, "s1")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryption_RejectsPlaintextSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	require.NoError(t, backend.Save(ctx, "s1", sampleState()))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	_, err := store.Load(ctx, "s1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestEncryption_SatisfiesStoreContract(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(memory.NewStore())
	ports.RunSessionStoreContract(t, store)
}
