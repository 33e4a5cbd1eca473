package domain

// AnswerKind constants define how the UI collects input for a question.
// Resolution itself is answer-string-driven regardless of kind.
const (
	// KindFreeText collects a free-form text answer.
	KindFreeText = "free_text"
	// KindSingleChoice offers the question's options, one selectable.
	KindSingleChoice = "single_choice"
	// KindMultipleChoice offers the options, several selectable.
	// Selections are joined into one string before resolution.
	KindMultipleChoice = "multiple_choice"
)

// Question is one node in the survey graph.
type Question struct {
	// Message is the text shown to the respondent. It may contain
	// collective phrasing subject to pronoun adaptation.
	Message string `json:"message" yaml:"message"`

	// Options holds the fixed choices, present only for choice questions.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Kind is one of the AnswerKind constants. When empty,
	// EffectiveKind derives it from Options.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Terminal marks the end of the conversation; no transition is
	// looked up once a terminal question has been answered.
	Terminal bool `json:"terminal,omitempty" yaml:"terminal,omitempty"`

	// DefaultNext is the fallback transition used when no
	// answer-specific transition matches.
	DefaultNext string `json:"default_next,omitempty" yaml:"default_next,omitempty"`

	// AnswerNext maps normalized answer keys to question ids.
	// Keys are produced by textkey.Normalize over option literals.
	AnswerNext map[string]string `json:"answer_next,omitempty" yaml:"answer_next,omitempty"`

	// SkipRules are conditional overrides evaluated whenever this
	// question becomes the candidate next question.
	SkipRules []SkipRule `json:"skip_rules,omitempty" yaml:"skip_rules,omitempty"`
}

// EffectiveKind resolves an absent Kind: options imply single choice,
// otherwise free text.
func (q Question) EffectiveKind() string {
	if q.Kind != "" {
		return q.Kind
	}
	if len(q.Options) > 0 {
		return KindSingleChoice
	}
	return KindFreeText
}

// SkipRule redirects the conversation to a different question based on
// a previously recorded answer. Equals and NotEquals are independent
// predicates compared against the normalized stored answer; when both
// are set, both must hold. A rule with neither set never fires.
type SkipRule struct {
	// When references the question whose recorded answer is inspected.
	When string `json:"when" yaml:"when"`

	Equals    string `json:"equals,omitempty" yaml:"equals,omitempty"`
	NotEquals string `json:"not_equals,omitempty" yaml:"not_equals,omitempty"`

	// SkipTo is the redirect target when the predicate holds.
	SkipTo string `json:"skip_to" yaml:"skip_to"`
}
