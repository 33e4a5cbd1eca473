package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"enkat/internal/logging"
	"enkat/internal/resolver"
	"enkat/pkg/domain"
	"enkat/pkg/pronoun"
	"enkat/pkg/ports"
	"enkat/pkg/textkey"

	"github.com/google/uuid"
)

// Session runs one respondent's conversation: it owns the current
// question, the answer history and the transcript, and sequences
// accept answer -> resolve next question -> emit next question.
//
// A Session is exclusively owned by the conversation it serves.
// Overlapping Submit calls serialize on an internal mutex, since
// history append order is significant to skip-rule evaluation.
type Session struct {
	mu sync.Mutex

	survey   domain.Survey
	state    *domain.SessionState
	resolver *resolver.Resolver
	adapter  *pronoun.Adapter
	sink     ports.ResponseSink
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithSessionID fixes the session id instead of minting one.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.state.SessionID = id
	}
}

// WithStart overrides the start question id.
func WithStart(id string) Option {
	return func(s *Session) {
		s.state.Current = id
	}
}

// WithResolver injects a configured resolver.
func WithResolver(r *resolver.Resolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithPronounAdapter injects a configured pronoun adapter.
func WithPronounAdapter(a *pronoun.Adapter) Option {
	return func(s *Session) {
		s.adapter = a
	}
}

// WithSink attaches a response sink. Delivery is fire-and-forget.
func WithSink(sink ports.ResponseSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a session awaiting the start question. The start
// question's adapted message is appended to the transcript right away.
func New(survey domain.Survey, opts ...Option) *Session {
	s := &Session{
		survey: survey,
		state:  domain.NewSessionState(uuid.NewString(), domain.StartQuestionID),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.applyDefaults()

	if q, ok := survey.Question(s.state.Current); ok {
		s.showQuestion(s.state.Current, q)
	} else {
		s.logger.Warn("start question missing from survey", "question", s.state.Current)
	}
	return s
}

// Hydrate rebuilds a session from a persisted snapshot. The snapshot
// is deep-copied; no message is emitted.
func Hydrate(survey domain.Survey, state *domain.SessionState, opts ...Option) *Session {
	s := &Session{
		survey: survey,
		state:  state.Clone(),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.applyDefaults()
	return s
}

// applyDefaults fills in the resolver and pronoun adapter when the
// caller injected none. The default resolver forwards skip traces to
// the session's lifecycle hooks.
func (s *Session) applyDefaults() {
	if s.resolver == nil {
		sessionID := s.state.SessionID
		s.resolver = resolver.New(
			resolver.WithLogger(s.logger),
			resolver.WithSkipTrace(func(from, to string) {
				if s.hooks.OnSkipApplied != nil {
					s.hooks.OnSkipApplied(sessionID, from, to)
				}
			}),
			resolver.WithCeilingTrace(func(id string) {
				if s.hooks.OnSkipCeiling != nil {
					s.hooks.OnSkipCeiling(sessionID, id)
				}
			}),
		)
	}
	if s.adapter == nil {
		s.adapter = pronoun.New()
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SessionID
}

// Current returns the current question id.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current
}

// Status returns the session status.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// State returns a deep copy of the session snapshot.
func (s *Session) State() *domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Transcript returns a copy of the message log.
func (s *Session) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.state.Log...)
}

// Submit records an answer to the current question and advances the
// conversation. It returns the transcript messages appended by this
// call (the respondent echo and, unless the conversation ended, the
// next question).
//
// On a configuration gap (domain.ErrNoTransition) or a dangling
// reference (domain.ErrQuestionNotFound) no state changes at all: the
// session stays answerable at its current question so the caller can
// retry, show a fallback, or end gracefully.
func (s *Session) Submit(ctx context.Context, rawAnswer string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status == domain.StatusTerminal {
		return nil, domain.ErrSessionTerminated
	}

	currentID := s.state.Current
	ans := domain.RecordedAnswer{
		QuestionID: currentID,
		RawAnswer:  rawAnswer,
		AnsweredAt: s.now(),
	}

	// Resolve against history including the answer being submitted,
	// but commit nothing until the outcome is known: history append
	// and current-question update are atomic with respect to each
	// other.
	history := append(append([]domain.RecordedAnswer(nil), s.state.History...), ans)

	current, currentKnown := s.survey.Question(currentID)
	if currentKnown && current.Terminal {
		s.commit(ctx, ans, history, currentID, domain.StatusTerminal, nil)
		return s.tail(1), nil
	}

	nextID, found := s.resolver.Next(s.survey, currentID, rawAnswer, history)
	if !found {
		s.reportGap(currentID, "no transition found")
		return nil, domain.ErrNoTransition
	}

	next, ok := s.survey.Question(nextID)
	if !ok {
		s.reportGap(nextID, "dangling question reference")
		return nil, domain.ErrQuestionNotFound
	}

	status := domain.StatusAwaitingAnswer
	if next.Terminal {
		status = domain.StatusTerminal
	}
	s.commit(ctx, ans, history, nextID, status, &next)
	return s.tail(2), nil
}

// SubmitChoices records a multiple-choice answer, pre-joined into a
// single raw answer string.
func (s *Session) SubmitChoices(ctx context.Context, selected []string) ([]domain.Message, error) {
	return s.Submit(ctx, textkey.JoinSelections(selected))
}

// commit applies the state transition and emits side effects. Only
// called once the whole transition is known to succeed.
func (s *Session) commit(ctx context.Context, ans domain.RecordedAnswer, history []domain.RecordedAnswer, nextID string, status domain.SessionStatus, next *domain.Question) {
	s.state.History = history
	s.state.Log = append(s.state.Log, domain.Message{
		Speaker: domain.SpeakerRespondent,
		Text:    s.adapter.Adapt(ans.RawAnswer, history),
	})
	s.state.Current = nextID
	s.state.Status = status

	if s.hooks.OnAnswerRecorded != nil {
		s.hooks.OnAnswerRecorded(s.state.SessionID, ans)
	}

	if next != nil {
		s.showQuestion(nextID, *next)
	}

	s.persist(ctx, ans)
}

// showQuestion appends a question's adapted message to the transcript.
func (s *Session) showQuestion(id string, q domain.Question) {
	s.state.Log = append(s.state.Log, domain.Message{
		Speaker: domain.SpeakerBot,
		Text:    s.adapter.Adapt(q.Message, s.state.History),
	})
	if s.hooks.OnQuestionShown != nil {
		s.hooks.OnQuestionShown(s.state.SessionID, id)
	}
}

// persist hands the answer to the sink. Failure is logged and ignored:
// the respondent-facing transition never blocks on storage.
func (s *Session) persist(ctx context.Context, ans domain.RecordedAnswer) {
	if s.sink == nil {
		return
	}
	if err := s.sink.SaveResponse(ctx, s.state.SessionID, ans); err != nil {
		s.logger.Warn("failed to persist response",
			"session_id", s.state.SessionID,
			"question", ans.QuestionID,
			"err", err,
		)
	}
}

func (s *Session) reportGap(questionID, reason string) {
	s.logger.Error("conversation stuck",
		"session_id", s.state.SessionID,
		"question", questionID,
		"reason", reason,
	)
	if s.hooks.OnResolutionGap != nil {
		s.hooks.OnResolutionGap(s.state.SessionID, questionID)
	}
}

// tail returns the last n transcript messages.
func (s *Session) tail(n int) []domain.Message {
	if n > len(s.state.Log) {
		n = len(s.state.Log)
	}
	return append([]domain.Message(nil), s.state.Log[len(s.state.Log)-n:]...)
}
