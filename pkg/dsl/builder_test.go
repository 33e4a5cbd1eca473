package dsl_test

import (
	"context"
	"testing"

	"enkat/pkg/domain"
	"enkat/pkg/dsl"
	"enkat/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BuildsSurvey(t *testing.T) {
	survey, err := dsl.New().
		Add("welcome").Ask("Vill du delta?").
		Options("Ja, jag vill delta", "Nej tack").
		On("Ja, jag vill delta", "intro").
		On("Nej tack", "early_exit").
		Done().
		Add("intro").Ask("Hur ser ditt hushåll ut?").
		Options("Singelhushåll", "Familj med barn").
		Go("thank_you").
		Done().
		Add("early_exit").Ask("Tack ändå!").Terminal().Done().
		Add("thank_you").Ask("Tack!").Terminal().Done().
		Build()
	require.NoError(t, err)

	welcome, ok := survey.Question("welcome")
	require.True(t, ok)
	assert.Equal(t, domain.KindSingleChoice, welcome.Kind)
	assert.Equal(t, map[string]string{
		"ja_jag_vill_delta": "intro",
		"nej_tack":          "early_exit",
	}, welcome.AnswerNext)
	assert.Empty(t, survey.DanglingRefs())
}

func TestBuilder_SkipRules(t *testing.T) {
	survey, err := dsl.New().
		Start("store").
		Add("store").Ask("Var handlar ni?").
		Options("Online", "Butik").
		Go("online_detail").
		Done().
		Add("online_detail").Ask("Hur ofta online?").
		SkipUnless("store", "Online", "done").
		Go("done").
		Done().
		Add("done").Ask("Tack!").Terminal().Done().
		Build()
	require.NoError(t, err)

	detail, _ := survey.Question("online_detail")
	require.Len(t, detail.SkipRules, 1)
	assert.Equal(t, domain.SkipRule{When: "store", NotEquals: "online", SkipTo: "done"}, detail.SkipRules[0])
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := dsl.New()
	first := b.Add("welcome").Ask("Hej")
	second := b.Add("welcome")
	assert.Same(t, first, second)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := dsl.New().Build()
	assert.ErrorContains(t, err, "no questions")

	_, err = dsl.New().
		Add("intro").Ask("Hej").Terminal().Done().
		Build()
	assert.ErrorContains(t, err, "start question")
}

func TestBuilder_SurveyRunsEndToEnd(t *testing.T) {
	survey, err := dsl.New().
		Add("welcome").Ask("Vill du delta?").
		On("Ja", "done").
		Done().
		Add("done").Ask("Tack!").Terminal().Done().
		Build()
	require.NoError(t, err)

	sess := session.New(survey, session.WithSessionID("s1"))
	msgs, err := sess.Submit(context.Background(), "Ja")
	require.NoError(t, err)
	assert.Equal(t, "Tack!", msgs[1].Text)
	assert.Equal(t, domain.StatusTerminal, sess.Status())
}
