package middleware

import (
	"context"
	"regexp"

	"enkat/pkg/domain"
	"enkat/pkg/ports"
)

// Masked replaces answer text matched by the PII middleware.
const Masked = "***"

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks recorded answers
// for questions whose id matches one of the patterns. The respondent's
// echo of a masked answer disappears from the stored transcript too.
// A session resumed from a masked snapshot no longer has the original
// answer text, so skip rules keyed on a masked question stop firing;
// don't mask questions that later rules depend on.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	// Clone first: the engine keeps using the in-memory state.
	cloned := state.Clone()

	masked := map[string]bool{}
	for i, ans := range cloned.History {
		if m.matches(ans.QuestionID) {
			masked[ans.RawAnswer] = true
			cloned.History[i].RawAnswer = Masked
		}
	}
	for i, msg := range cloned.Log {
		if msg.Speaker == domain.SpeakerRespondent && masked[msg.Text] {
			cloned.Log[i].Text = Masked
		}
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) matches(questionID string) bool {
	for _, p := range m.patterns {
		if p.MatchString(questionID) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
