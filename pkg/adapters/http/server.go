// Package http adapts the survey engine to an HTTP JSON API. Sessions
// are stateless between requests: every answer loads the snapshot via
// the session manager, applies one submission and persists the result.
// Transport is a collaborator of the engine, never part of it.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"enkat/internal/logging"
	"enkat/pkg/domain"
	"enkat/pkg/ports"
	"enkat/pkg/session"
	"enkat/pkg/textkey"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Server exposes the conversation API.
type Server struct {
	provider ports.SurveyProvider
	manager  *session.Manager

	sessionOpts []session.Option
	logger      *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessionOptions forwards options (sink, hooks, resolver, pronoun
// adapter) to every session the server creates or hydrates.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the survey API.
func NewHandler(provider ports.SurveyProvider, manager *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		provider: provider,
		manager:  manager,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/questions", server.GetQuestions)
	r.Post("/sessions", server.CreateSession)
	r.Get("/sessions/{sessionID}", server.GetSession)
	r.Post("/sessions/{sessionID}/answer", server.SubmitAnswer)
	return r
}

// CreateSessionRequest optionally pins the session id (e.g. a client
// resuming a known conversation).
type CreateSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// SessionResponse is the transcript-facing view of a session.
type SessionResponse struct {
	SessionID string               `json:"session_id"`
	Current   string               `json:"current"`
	Status    domain.SessionStatus `json:"status"`
	Messages  []domain.Message     `json:"messages"`
}

// AnswerRequest carries one submission: free text in Answer, or the
// ordered multi-select in Selections (joined before resolution).
type AnswerRequest struct {
	Answer     string   `json:"answer,omitempty"`
	Selections []string `json:"selections,omitempty"`
}

// AnswerResponse returns the transcript messages this answer appended.
type AnswerResponse struct {
	SessionID string               `json:"session_id"`
	Status    domain.SessionStatus `json:"status"`
	Appended  []domain.Message     `json:"appended"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	survey, err := s.provider.ActiveSurvey(r.Context())
	if err != nil {
		s.logger.Error("failed to load active survey", "err", err)
		s.writeError(w, http.StatusServiceUnavailable, "no active survey")
		return
	}

	state, err := s.manager.LoadOrStart(r.Context(), body.SessionID, survey, s.sessionOpts...)
	if err != nil {
		s.logger.Error("failed to start session", "session_id", body.SessionID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	s.writeJSON(w, http.StatusCreated, sessionResponse(state))
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := s.manager.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("failed to load session", "session_id", sessionID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	s.writeJSON(w, http.StatusOK, sessionResponse(state))
}

// SubmitAnswer handles POST /sessions/{sessionID}/answer.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := body.Answer
	if len(body.Selections) > 0 {
		raw = textkey.JoinSelections(body.Selections)
	}
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "answer is required")
		return
	}

	survey, err := s.provider.ActiveSurvey(r.Context())
	if err != nil {
		s.logger.Error("failed to load active survey", "err", err)
		s.writeError(w, http.StatusServiceUnavailable, "no active survey")
		return
	}

	appended, err := s.manager.Submit(r.Context(), sessionID, survey, raw, s.sessionOpts...)
	if err != nil {
		s.answerError(w, sessionID, err)
		return
	}

	state, err := s.manager.Load(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("failed to reload session", "session_id", sessionID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	s.writeJSON(w, http.StatusOK, AnswerResponse{
		SessionID: sessionID,
		Status:    state.Status,
		Appended:  appended,
	})
}

// answerError maps resolution failures onto status codes. Gaps and
// dangling references leave the session answerable; the respondent
// sees a stalled conversation, operators see the log and metrics.
func (s *Server) answerError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrSessionTerminated):
		s.writeError(w, http.StatusConflict, "session terminated")
	case errors.Is(err, domain.ErrNoTransition):
		s.writeError(w, http.StatusConflict, "no transition found")
	case errors.Is(err, domain.ErrQuestionNotFound):
		s.writeError(w, http.StatusConflict, "question not found")
	default:
		s.logger.Error("submit failed", "session_id", sessionID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "submit failed")
	}
}

// GetQuestions handles GET /questions.
func (s *Server) GetQuestions(w http.ResponseWriter, r *http.Request) {
	survey, err := s.provider.ActiveSurvey(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "no active survey")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"questions": survey.IDs()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func sessionResponse(state *domain.SessionState) SessionResponse {
	messages := state.Log
	if messages == nil {
		messages = []domain.Message{}
	}
	return SessionResponse{
		SessionID: state.SessionID,
		Current:   state.Current,
		Status:    state.Status,
		Messages:  messages,
	}
}
