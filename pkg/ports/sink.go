package ports

import (
	"context"

	"enkat/pkg/domain"
)

// ResponseSink receives each recorded answer as it is appended to a
// session's history. The engine treats delivery as fire-and-forget: a
// failing sink is logged and must never block or roll back the
// in-memory state transition.
type ResponseSink interface {
	SaveResponse(ctx context.Context, sessionID string, ans domain.RecordedAnswer) error
}
