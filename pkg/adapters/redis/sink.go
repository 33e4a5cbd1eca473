package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"enkat/pkg/domain"

	backend "github.com/redis/go-redis/v9"
)

// Sink implements ports.ResponseSink by appending each recorded answer
// to a per-session Redis list. Downstream consumers drain the lists
// into durable storage.
type Sink struct {
	client *backend.Client
	prefix string
}

// NewSink creates a Redis response sink from an existing client.
func NewSink(client *backend.Client) *Sink {
	return &Sink{
		client: client,
		prefix: "enkat:responses:",
	}
}

// SaveResponse appends the answer to the session's response list.
func (s *Sink) SaveResponse(ctx context.Context, sessionID string, ans domain.RecordedAnswer) error {
	data, err := json.Marshal(ans)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if err := s.client.RPush(ctx, s.prefix+sessionID, data).Err(); err != nil {
		return fmt.Errorf("failed to push response to redis: %w", err)
	}
	return nil
}

// Responses returns all answers recorded for a session, in order.
func (s *Sink) Responses(ctx context.Context, sessionID string) ([]domain.RecordedAnswer, error) {
	vals, err := s.client.LRange(ctx, s.prefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read responses from redis: %w", err)
	}

	out := make([]domain.RecordedAnswer, 0, len(vals))
	for _, val := range vals {
		var ans domain.RecordedAnswer
		if err := json.Unmarshal([]byte(val), &ans); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		out = append(out, ans)
	}
	return out, nil
}
