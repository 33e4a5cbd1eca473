package redis_test

import (
	"context"
	"testing"
	"time"

	"enkat/pkg/adapters/redis"
	"enkat/pkg/domain"
	"enkat/pkg/ports"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*backend.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{Addr: mr.Addr()}), mr
}

func TestRedisStore_Contract(t *testing.T) {
	client, _ := newClient(t)
	ports.RunSessionStoreContract(t, redis.NewStore(client))
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	client, mr := newClient(t)
	store := redis.NewStore(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	state := domain.NewSessionState("session-ttl", "welcome")
	require.NoError(t, store.Save(ctx, "session-ttl", state))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	// Fast-forward past the TTL.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	client, mr := newClient(t)
	store := redis.NewStore(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", domain.NewSessionState("abc", "welcome")))
	assert.True(t, mr.Exists("custom:abc"))
}

func TestRedisSink_AppendsInOrder(t *testing.T) {
	client, _ := newClient(t)
	sink := redis.NewSink(client)
	ctx := context.Background()

	first := domain.RecordedAnswer{
		QuestionID: "welcome",
		RawAnswer:  "Ja, jag vill delta",
		AnsweredAt: time.Now().UTC().Truncate(time.Second),
	}
	second := domain.RecordedAnswer{
		QuestionID: "intro",
		RawAnswer:  "Singelhushåll",
		AnsweredAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, sink.SaveResponse(ctx, "s1", first))
	require.NoError(t, sink.SaveResponse(ctx, "s1", second))
	require.NoError(t, sink.SaveResponse(ctx, "s2", first))

	got, err := sink.Responses(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "welcome", got[0].QuestionID)
	assert.Equal(t, "intro", got[1].QuestionID)

	other, err := sink.Responses(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
