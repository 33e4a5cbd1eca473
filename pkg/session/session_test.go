package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"enkat/pkg/adapters/memory"
	"enkat/pkg/domain"
	"enkat/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSurvey() domain.Survey {
	return domain.Survey{
		"welcome": {
			Message: "Hej och välkommen till vår undersökning! Vill ni börja?",
			Options: []string{"Ja, jag vill delta", "Nej tack"},
			AnswerNext: map[string]string{
				"ja_jag_vill_delta": "intro",
				"nej_tack":          "early_exit",
			},
		},
		"intro": {
			Message:     "Hur ser din familjesituation ut?",
			Options:     []string{"Singelhushåll", "Familj med barn", "Annat"},
			DefaultNext: "habits",
		},
		"habits": {
			Message:     "Hur planerar ni er matvecka?",
			DefaultNext: "thank_you",
		},
		"early_exit": {Message: "Tack ändå!", Terminal: true},
		"thank_you":  {Message: "Tack så mycket för era svar!", Terminal: true},
	}
}

func TestSession_ShowsStartQuestion(t *testing.T) {
	s := session.New(testSurvey())

	log := s.Transcript()
	require.Len(t, log, 1)
	assert.Equal(t, domain.SpeakerBot, log[0].Speaker)
	assert.Contains(t, log[0].Text, "välkommen")
	assert.Equal(t, "welcome", s.Current())
	assert.Equal(t, domain.StatusAwaitingAnswer, s.Status())
}

func TestSession_EndToEnd_EarlyExit(t *testing.T) {
	s := session.New(testSurvey())
	ctx := context.Background()

	appended, err := s.Submit(ctx, "Nej tack")
	require.NoError(t, err)
	require.Len(t, appended, 2)
	assert.Equal(t, domain.SpeakerRespondent, appended[0].Speaker)
	assert.Equal(t, "Nej tack", appended[0].Text)
	assert.Equal(t, domain.SpeakerBot, appended[1].Speaker)
	assert.Equal(t, "Tack ändå!", appended[1].Text)

	assert.Equal(t, "early_exit", s.Current())
	assert.Equal(t, domain.StatusTerminal, s.Status())

	// The conversation is over; further answers are rejected.
	_, err = s.Submit(ctx, "Jag ångrade mig")
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
	assert.Len(t, s.Transcript(), 3)
}

func TestSession_FullTraversal(t *testing.T) {
	s := session.New(testSurvey())
	ctx := context.Background()

	_, err := s.Submit(ctx, "Ja, jag vill delta")
	require.NoError(t, err)
	assert.Equal(t, "intro", s.Current())

	_, err = s.Submit(ctx, "Annat")
	require.NoError(t, err)
	assert.Equal(t, "habits", s.Current())

	_, err = s.Submit(ctx, "Vi planerar inte alls")
	require.NoError(t, err)
	assert.Equal(t, "thank_you", s.Current())
	assert.Equal(t, domain.StatusTerminal, s.Status())

	state := s.State()
	require.Len(t, state.History, 3)
	assert.Equal(t, "welcome", state.History[0].QuestionID)
	assert.Equal(t, "Ja, jag vill delta", state.History[0].RawAnswer)
}

func TestSession_PronounAdaptationInTranscript(t *testing.T) {
	survey := testSurvey()
	s := session.New(survey)
	ctx := context.Background()

	_, err := s.Submit(ctx, "Ja, jag vill delta")
	require.NoError(t, err)

	// Answering "Singelhushåll" gates the adaptation of everything
	// shown afterwards, including the next question.
	appended, err := s.Submit(ctx, "Singelhushåll")
	require.NoError(t, err)
	require.Len(t, appended, 2)
	assert.Equal(t, "Hur planerar du din matvecka?", appended[1].Text)

	// History keeps the raw answer; only display is adapted.
	state := s.State()
	assert.Equal(t, "Singelhushåll", state.History[1].RawAnswer)
}

func TestSession_NoAdaptationForFamilies(t *testing.T) {
	s := session.New(testSurvey())
	ctx := context.Background()

	_, err := s.Submit(ctx, "Ja, jag vill delta")
	require.NoError(t, err)

	appended, err := s.Submit(ctx, "Familj med barn")
	require.NoError(t, err)
	assert.Equal(t, "Hur planerar ni er matvecka?", appended[1].Text)
}

func TestSession_ConfigurationGapLeavesStateUntouched(t *testing.T) {
	survey := domain.Survey{
		"welcome": {Message: "Hej!"}, // no transitions at all
	}
	gaps := 0
	s := session.New(survey, session.WithLifecycleHooks(domain.LifecycleHooks{
		OnResolutionGap: func(sessionID, questionID string) { gaps++ },
	}))

	before := s.State()
	_, err := s.Submit(context.Background(), "hej")
	assert.ErrorIs(t, err, domain.ErrNoTransition)
	assert.Equal(t, 1, gaps)

	after := s.State()
	assert.Equal(t, before.Current, after.Current)
	assert.Equal(t, before.Status, after.Status)
	assert.Len(t, after.History, 0, "history append must roll back with the failed transition")
	assert.Equal(t, len(before.Log), len(after.Log))

	// The session remains answerable once the configuration is fixed.
	assert.Equal(t, domain.StatusAwaitingAnswer, s.Status())
}

func TestSession_DanglingReferenceLeavesStateUntouched(t *testing.T) {
	survey := domain.Survey{
		"welcome": {Message: "Hej!", DefaultNext: "ghost"},
	}
	s := session.New(survey)

	_, err := s.Submit(context.Background(), "hej")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	assert.Equal(t, "welcome", s.Current())
	assert.Len(t, s.State().History, 0)
}

func TestSession_SinkReceivesResponses(t *testing.T) {
	sink := memory.NewSink()
	s := session.New(testSurvey(), session.WithSessionID("sess-1"), session.WithSink(sink))

	_, err := s.Submit(context.Background(), "Nej tack")
	require.NoError(t, err)

	saved := sink.Responses()
	require.Len(t, saved, 1)
	assert.Equal(t, "sess-1", saved[0].SessionID)
	assert.Equal(t, "welcome", saved[0].Answer.QuestionID)
	assert.Equal(t, "Nej tack", saved[0].Answer.RawAnswer)
}

func TestSession_SinkFailureDoesNotBlockTransition(t *testing.T) {
	sink := memory.NewSink()
	sink.FailWith = errors.New("storage down")
	s := session.New(testSurvey(), session.WithSink(sink))

	_, err := s.Submit(context.Background(), "Ja, jag vill delta")
	require.NoError(t, err, "persistence failure must not fail the transition")
	assert.Equal(t, "intro", s.Current())
}

func TestSession_SkipOverride(t *testing.T) {
	survey := domain.Survey{
		"welcome": {Message: "Hej!", DefaultNext: "intro"},
		"intro": {
			Message:     "Familjesituation?",
			DefaultNext: "location",
		},
		"location": {
			Message:     "Var bor du?",
			DefaultNext: "done",
			SkipRules: []domain.SkipRule{
				{When: "intro", Equals: "singelhushall", SkipTo: "done"},
			},
		},
		"done": {Message: "Klart!", Terminal: true},
	}
	var skips [][2]string
	s := session.New(survey, session.WithLifecycleHooks(domain.LifecycleHooks{
		OnSkipApplied: func(sessionID, from, to string) {
			skips = append(skips, [2]string{from, to})
		},
	}))
	ctx := context.Background()

	_, err := s.Submit(ctx, "hej")
	require.NoError(t, err)
	require.Equal(t, "intro", s.Current())

	_, err = s.Submit(ctx, "Singelhushåll")
	require.NoError(t, err)
	assert.Equal(t, "done", s.Current(), "skip rule must jump past location")
	assert.Equal(t, [][2]string{{"location", "done"}}, skips)
	assert.Equal(t, domain.StatusTerminal, s.Status())
}

func TestSession_SubmitChoices(t *testing.T) {
	survey := domain.Survey{
		"welcome": {
			Message:     "Vad brukar ni göra med rester?",
			Kind:        domain.KindMultipleChoice,
			Options:     []string{"Fryser in", "Slänger"},
			AnswerNext:  map[string]string{"fryser_in": "freeze_detail"},
			DefaultNext: "done",
		},
		"freeze_detail": {Message: "Berätta mer!", DefaultNext: "done"},
		"done":          {Message: "Tack!", Terminal: true},
	}
	ctx := context.Background()

	t.Run("single selection can match answer path", func(t *testing.T) {
		s := session.New(survey)
		_, err := s.SubmitChoices(ctx, []string{"Fryser in"})
		require.NoError(t, err)
		assert.Equal(t, "freeze_detail", s.Current())
	})

	t.Run("joined selection falls through to default", func(t *testing.T) {
		s := session.New(survey)
		_, err := s.SubmitChoices(ctx, []string{"Fryser in", "Slänger"})
		require.NoError(t, err)
		assert.Equal(t, "done", s.Current())

		// The raw joined answer is what history records.
		assert.Equal(t, "Fryser in, Slänger", s.State().History[0].RawAnswer)
	})
}

func TestSession_ClockInjection(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := session.New(testSurvey(), session.WithClock(func() time.Time { return fixed }))

	_, err := s.Submit(context.Background(), "Nej tack")
	require.NoError(t, err)
	assert.Equal(t, fixed, s.State().History[0].AnsweredAt)
}

func TestSession_ConcurrentSubmissionsSerialize(t *testing.T) {
	// A long chain of free-text questions; every concurrent Submit
	// should land on a distinct question, never interleave.
	survey := domain.Survey{}
	const steps = 8
	for i := 0; i < steps; i++ {
		id := string(rune('a' + i))
		next := string(rune('a' + i + 1))
		survey[id] = domain.Question{Message: id, DefaultNext: next}
	}
	survey[string(rune('a'+steps))] = domain.Question{Message: "end", Terminal: true}

	s := session.New(survey, session.WithStart("a"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < steps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(ctx, "svar")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state := s.State()
	require.Len(t, state.History, steps)
	seen := map[string]bool{}
	for _, ans := range state.History {
		assert.False(t, seen[ans.QuestionID], "question %s answered twice", ans.QuestionID)
		seen[ans.QuestionID] = true
	}
}
