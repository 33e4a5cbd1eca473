// Package observability exposes the engine's operator-facing signals.
// Configuration gaps and skip anomalies are reported through metrics
// and logs, never to the respondent.
package observability

import (
	"log/slog"

	"enkat/internal/logging"
	"enkat/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one engine instance.
type Metrics struct {
	questionsShown  *prometheus.CounterVec
	answersRecorded *prometheus.CounterVec
	resolutionGaps  *prometheus.CounterVec
	skipRedirects   prometheus.Counter
	skipCeilingHits prometheus.Counter

	logger *slog.Logger
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithLogger sets a logger for the hook-side reporting.
func WithLogger(logger *slog.Logger) MetricsOption {
	return func(m *Metrics) {
		m.logger = logger
	}
}

// NewMetrics creates and registers the collectors with the registerer.
// Pass prometheus.DefaultRegisterer for the ordinary case.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) *Metrics {
	m := &Metrics{
		questionsShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enkat_questions_shown_total",
			Help: "Total number of questions shown to respondents",
		}, []string{"question_id"}),
		answersRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enkat_answers_recorded_total",
			Help: "Total number of answers appended to session history",
		}, []string{"question_id"}),
		resolutionGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enkat_resolution_gaps_total",
			Help: "Conversations stuck on a configuration gap or dangling reference",
		}, []string{"question_id"}),
		skipRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enkat_skip_redirects_total",
			Help: "Skip-rule redirects applied during resolution",
		}),
		skipCeilingHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enkat_skip_ceiling_hits_total",
			Help: "Skip fixed-point loops stopped by the iteration ceiling",
		}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	reg.MustRegister(
		m.questionsShown,
		m.answersRecorded,
		m.resolutionGaps,
		m.skipRedirects,
		m.skipCeilingHits,
	)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Attach them
// to sessions via session.WithLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionShown: func(sessionID, questionID string) {
			m.questionsShown.WithLabelValues(questionID).Inc()
		},
		OnAnswerRecorded: func(sessionID string, ans domain.RecordedAnswer) {
			m.answersRecorded.WithLabelValues(ans.QuestionID).Inc()
		},
		OnSkipApplied: func(sessionID, from, to string) {
			m.skipRedirects.Inc()
		},
		OnResolutionGap: func(sessionID, questionID string) {
			m.resolutionGaps.WithLabelValues(questionID).Inc()
			m.logger.Error("survey configuration gap",
				"session_id", sessionID,
				"question", questionID,
			)
		},
		OnSkipCeiling: func(sessionID, questionID string) {
			m.skipCeilingHits.Inc()
			m.logger.Warn("skip ceiling reached",
				"session_id", sessionID,
				"question", questionID,
			)
		},
	}
}
