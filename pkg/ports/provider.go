package ports

import (
	"context"

	"enkat/pkg/domain"
)

// SurveyProvider supplies the active survey configuration. It is
// consumed once at session start; the resolution engine never branches
// on where the document came from.
type SurveyProvider interface {
	// ActiveSurvey returns the question graph to run conversations
	// against.
	ActiveSurvey(ctx context.Context) (domain.Survey, error)
}
