package dsl

import (
	"enkat/pkg/domain"
	"enkat/pkg/textkey"
)

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	id       string
	question domain.Question
	builder  *Builder
}

// Ask sets the message shown to the respondent.
func (q *QuestionBuilder) Ask(message string) *QuestionBuilder {
	q.question.Message = message
	return q
}

// Options sets the fixed choices for a single-choice question.
func (q *QuestionBuilder) Options(options ...string) *QuestionBuilder {
	q.question.Options = options
	q.question.Kind = domain.KindSingleChoice
	return q
}

// MultiSelect marks the question as accepting several of its options.
func (q *QuestionBuilder) MultiSelect(options ...string) *QuestionBuilder {
	q.question.Options = options
	q.question.Kind = domain.KindMultipleChoice
	return q
}

// FreeText marks the question as accepting arbitrary input.
func (q *QuestionBuilder) FreeText() *QuestionBuilder {
	q.question.Kind = domain.KindFreeText
	return q
}

// Go sets the default transition target.
func (q *QuestionBuilder) Go(target string) *QuestionBuilder {
	q.question.DefaultNext = target
	return q
}

// On routes a specific answer to a target question. The answer is
// given as display text ("Ja, jag vill delta") and normalized into
// its matching key here, so builder code never hand-writes keys.
func (q *QuestionBuilder) On(answer, target string) *QuestionBuilder {
	if q.question.AnswerNext == nil {
		q.question.AnswerNext = make(map[string]string)
	}
	q.question.AnswerNext[textkey.Normalize(answer)] = target
	return q
}

// SkipIf redirects away from this question when an earlier answer
// matches. Both sides are normalized before comparison.
func (q *QuestionBuilder) SkipIf(when, equals, target string) *QuestionBuilder {
	q.question.SkipRules = append(q.question.SkipRules, domain.SkipRule{
		When:   when,
		Equals: textkey.Normalize(equals),
		SkipTo: target,
	})
	return q
}

// SkipUnless redirects away from this question when an earlier answer
// does not match.
func (q *QuestionBuilder) SkipUnless(when, equals, target string) *QuestionBuilder {
	q.question.SkipRules = append(q.question.SkipRules, domain.SkipRule{
		When:      when,
		NotEquals: textkey.Normalize(equals),
		SkipTo:    target,
	})
	return q
}

// Terminal marks the question as an end of the conversation.
func (q *QuestionBuilder) Terminal() *QuestionBuilder {
	q.question.Terminal = true
	return q
}

// Done returns to the survey builder for chained construction.
func (q *QuestionBuilder) Done() *Builder {
	return q.builder
}

// Build returns the underlying domain.Question.
// This is primarily used by the Builder, but exposed for advanced usage.
func (q *QuestionBuilder) Build() domain.Question {
	return q.question
}
