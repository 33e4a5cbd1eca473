package enkat

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"enkat/internal/logging"
	"enkat/pkg/adapters/file"
	"enkat/pkg/adapters/memory"
	"enkat/pkg/domain"
	"enkat/pkg/ports"
	"enkat/pkg/session"
	"enkat/pkg/textkey"

	"github.com/google/uuid"
)

// Version is the released version of the module.
const Version = "0.4.0"

// Engine is the high-level entry point for the library. It ties a
// survey provider, a session store and the conversation engine
// together behind a small API; embedders wanting finer control use
// pkg/session directly.
type Engine struct {
	provider    ports.SurveyProvider
	store       ports.SessionStore
	manager     *session.Manager
	sessionOpts []session.Option
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithProvider injects a custom survey source, bypassing the default
// file document at the path given to New.
func WithProvider(p ports.SurveyProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithStore sets the session store. Defaults to in-memory.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithSink forwards every recorded answer to a response sink.
func WithSink(sink ports.ResponseSink) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, session.WithSink(sink))
	}
}

// WithLifecycleHooks registers observability hooks on every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, session.WithLifecycleHooks(hooks))
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSessionOptions appends raw options applied to every session the
// engine starts or resumes.
func WithSessionOptions(opts ...session.Option) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, opts...)
	}
}

// New initializes an Engine. By default the survey is read from the
// document at documentPath; WithProvider skips the file entirely and
// documentPath may then be empty. The document is parsed eagerly so
// misconfiguration surfaces here, not on the first session.
func New(documentPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.provider == nil {
		if documentPath == "" {
			return nil, fmt.Errorf("documentPath is required when no custom provider is given")
		}
		absPath, err := filepath.Abs(documentPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)
		eng.provider = file.NewProvider(absPath)
	} else if documentPath != "" {
		eng.Name = filepath.Base(documentPath)
	}

	if _, err := eng.provider.ActiveSurvey(context.Background()); err != nil {
		return nil, err
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("survey", eng.Name)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	eng.manager = session.NewManager(eng.store, session.WithManagerLogger(eng.logger))

	eng.sessionOpts = append(eng.sessionOpts, session.WithLogger(eng.logger))
	if start := providerStart(eng.provider); start != "" {
		eng.sessionOpts = append(eng.sessionOpts, session.WithStart(start))
	}

	return eng, nil
}

// providerStart picks up a non-default start question when the
// provider knows one (the file provider reads it from the document).
func providerStart(p ports.SurveyProvider) string {
	s, ok := p.(interface{ Start() string })
	if !ok {
		return ""
	}
	if start := s.Start(); start != domain.StartQuestionID {
		return start
	}
	return ""
}

// Survey returns the active survey configuration.
func (e *Engine) Survey(ctx context.Context) (domain.Survey, error) {
	return e.provider.ActiveSurvey(ctx)
}

// StartSession creates a session, or resumes it when the id already
// exists in the store. An empty id gets a generated one.
func (e *Engine) StartSession(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	survey, err := e.provider.ActiveSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return e.manager.LoadOrStart(ctx, sessionID, survey, e.sessionOpts...)
}

// Answer submits one free-text answer and returns the transcript
// messages it appended (the respondent echo plus the next question).
func (e *Engine) Answer(ctx context.Context, sessionID, rawAnswer string) ([]domain.Message, error) {
	survey, err := e.provider.ActiveSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return e.manager.Submit(ctx, sessionID, survey, rawAnswer, e.sessionOpts...)
}

// AnswerChoices submits an ordered multi-select answer.
func (e *Engine) AnswerChoices(ctx context.Context, sessionID string, selections []string) ([]domain.Message, error) {
	return e.Answer(ctx, sessionID, textkey.JoinSelections(selections))
}

// Session loads the current state of a session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return e.manager.Load(ctx, sessionID)
}

// DeleteSession removes a session from the store.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	return e.manager.Delete(ctx, sessionID)
}

// Sessions lists the ids of all stored sessions.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.manager.List(ctx)
}

// Validate reports dangling transition and skip targets in the active
// survey, keyed by the referencing question id.
func (e *Engine) Validate(ctx context.Context) (map[string][]string, error) {
	survey, err := e.provider.ActiveSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return survey.DanglingRefs(), nil
}

// Manager exposes the underlying session manager for embedders that
// need its locking or store access.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Provider exposes the survey source.
func (e *Engine) Provider() ports.SurveyProvider {
	return e.provider
}
