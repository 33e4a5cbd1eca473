// Package resolver computes the next question of a survey
// conversation: normalized answer-key lookup with default fallback,
// followed by iterated skip-rule overrides up to a fixed point.
package resolver

import (
	"log/slog"

	"enkat/internal/logging"
	"enkat/pkg/domain"
	"enkat/pkg/textkey"
)

// DefaultMaxSkipHops bounds the skip fixed-point loop. The ceiling is
// a policy constant, not a structural limit: a misconfigured cyclic
// skip chain lands on whatever candidate the loop last computed
// instead of hanging the session.
const DefaultMaxSkipHops = 10

// Resolver is a pure function holder; it keeps no per-session state
// and is safe to share across sessions.
type Resolver struct {
	maxSkipHops int
	logger      *slog.Logger

	// Trace callbacks, wired by the session layer.
	onSkip    func(from, to string)
	onCeiling func(id string)
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithMaxSkipHops overrides the skip-loop ceiling.
func WithMaxSkipHops(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxSkipHops = n
		}
	}
}

// WithLogger sets a structured logger for resolution tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithSkipTrace registers a callback fired on every skip redirect.
func WithSkipTrace(fn func(from, to string)) Option {
	return func(r *Resolver) {
		r.onSkip = fn
	}
}

// WithCeilingTrace registers a callback fired when the loop hits its
// iteration ceiling.
func WithCeilingTrace(fn func(id string)) Option {
	return func(r *Resolver) {
		r.onCeiling = fn
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		maxSkipHops: DefaultMaxSkipHops,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next resolves the question following currentID given the raw answer.
// The second return is false when no transition exists: the current id
// is unknown, the question is terminal (a normal outcome, not an
// error), or neither an answer-specific nor a default path is defined.
func (r *Resolver) Next(survey domain.Survey, currentID, rawAnswer string, history []domain.RecordedAnswer) (string, bool) {
	q, ok := survey.Question(currentID)
	if !ok {
		r.logger.Warn("resolution from unknown question", "question", currentID)
		return "", false
	}
	if q.Terminal {
		return "", false
	}

	key := textkey.Normalize(rawAnswer)

	// Answer-specific path always beats the default, even when both
	// point at the same id.
	candidate, ok := q.AnswerNext[key]
	if !ok {
		candidate = q.DefaultNext
	}
	if candidate == "" {
		r.logger.Warn("no transition found", "question", currentID, "answer_key", key)
		return "", false
	}

	r.logger.Debug("transition resolved", "question", currentID, "answer_key", key, "candidate", candidate)
	return r.ApplySkipRules(survey, candidate, history), true
}

// ApplySkipRules runs the fixed-point loop: the candidate question's
// skip rules are evaluated in declared order and the first satisfied
// rule redirects immediately; the new candidate is re-evaluated until
// stable or the hop ceiling is reached. Never fails; with no firing
// rule the input id comes back unchanged.
func (r *Resolver) ApplySkipRules(survey domain.Survey, questionID string, history []domain.RecordedAnswer) string {
	current := questionID
	for hop := 0; hop < r.maxSkipHops; hop++ {
		next := r.evalSkipRules(survey, current, history)
		if next == current {
			return current
		}
		r.logger.Debug("skip rule applied", "from", current, "to", next)
		if r.onSkip != nil {
			r.onSkip(current, next)
		}
		current = next
	}

	r.logger.Warn("skip loop ceiling reached", "question", questionID, "landed_on", current, "max_hops", r.maxSkipHops)
	if r.onCeiling != nil {
		r.onCeiling(current)
	}
	return current
}

// evalSkipRules checks one question's rules against history and
// returns the redirect target of the first rule that fires, or the
// question id itself. Dangling or unknown ids simply have no rules.
func (r *Resolver) evalSkipRules(survey domain.Survey, questionID string, history []domain.RecordedAnswer) string {
	q, ok := survey.Question(questionID)
	if !ok {
		return questionID
	}
	for _, rule := range q.SkipRules {
		if ruleFires(rule, history) {
			return rule.SkipTo
		}
	}
	return questionID
}

// ruleFires compares normalized operands against the normalized most
// recent answer to the referenced question. Equals and NotEquals are
// ANDed when both are present; a rule with neither never fires.
func ruleFires(rule domain.SkipRule, history []domain.RecordedAnswer) bool {
	if rule.Equals == "" && rule.NotEquals == "" {
		return false
	}
	ans, ok := domain.LatestAnswer(history, rule.When)
	if !ok {
		return false
	}
	key := textkey.Normalize(ans.RawAnswer)
	if rule.Equals != "" && key != textkey.Normalize(rule.Equals) {
		return false
	}
	if rule.NotEquals != "" && key == textkey.Normalize(rule.NotEquals) {
		return false
	}
	return true
}
