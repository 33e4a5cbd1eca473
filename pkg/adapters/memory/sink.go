package memory

import (
	"context"
	"sync"

	"enkat/pkg/domain"
)

// SavedResponse pairs a recorded answer with its session id.
type SavedResponse struct {
	SessionID string
	Answer    domain.RecordedAnswer
}

// Sink implements ports.ResponseSink by recording responses in memory.
// FailWith can be set to make every save fail, for exercising the
// fire-and-forget policy in tests.
type Sink struct {
	mu        sync.Mutex
	responses []SavedResponse

	FailWith error
}

// NewSink creates an empty recording sink.
func NewSink() *Sink {
	return &Sink{}
}

// SaveResponse records the answer, or fails when FailWith is set.
func (s *Sink) SaveResponse(ctx context.Context, sessionID string, ans domain.RecordedAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.responses = append(s.responses, SavedResponse{SessionID: sessionID, Answer: ans})
	return nil
}

// Responses returns a copy of everything saved so far.
func (s *Sink) Responses() []SavedResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SavedResponse(nil), s.responses...)
}
