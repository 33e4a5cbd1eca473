package dsl

import (
	"fmt"

	"enkat/pkg/domain"
)

// Builder manages survey construction.
type Builder struct {
	questions map[string]*QuestionBuilder
	order     []string
	start     string
}

// New creates a new survey builder.
func New() *Builder {
	return &Builder{
		questions: make(map[string]*QuestionBuilder),
	}
}

// Add creates a new question in the survey.
// If the question already exists, it returns the existing builder.
func (b *Builder) Add(id string) *QuestionBuilder {
	if qb, ok := b.questions[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{id: id, builder: b}
	b.questions[id] = qb
	b.order = append(b.order, id)
	return qb
}

// Start overrides the conventional start question id.
func (b *Builder) Start(id string) *Builder {
	b.start = id
	return b
}

// Build compiles the survey. It fails on an empty survey or a start
// question that was never added; dangling transition targets are left
// to Survey.DanglingRefs, mirroring the document loader.
func (b *Builder) Build() (domain.Survey, error) {
	if len(b.questions) == 0 {
		return nil, fmt.Errorf("survey has no questions")
	}

	start := b.start
	if start == "" {
		start = domain.StartQuestionID
	}
	if _, ok := b.questions[start]; !ok {
		return nil, fmt.Errorf("start question %q not defined", start)
	}

	survey := make(domain.Survey, len(b.questions))
	for _, id := range b.order {
		survey[id] = b.questions[id].question
	}
	return survey, nil
}
