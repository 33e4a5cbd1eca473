// Package pronoun rewrites collective household phrasing ("ni", "vi",
// "er", "vår") into singular phrasing when the answer history shows a
// single-person household. It is a literal whole-word substitution by
// a fixed table, not a grammar engine, and is kept deliberately narrow.
package pronoun

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"enkat/pkg/domain"
	"enkat/pkg/textkey"
)

// DefaultHouseholdQuestionID is the question whose answer gates adaptation.
const DefaultHouseholdQuestionID = "intro"

// DefaultSingleHouseholdKey is the normalized option that triggers it.
const DefaultSingleHouseholdKey = "singelhushall"

// substitution maps one collective word to its singular replacement.
// Order matters: longer possessive forms come before their prefixes.
type substitution struct {
	re      *regexp.Regexp
	replace string
}

// Whole-word, case-insensitive matches. Word boundaries also cover the
// sentence-initial position after terminal punctuation.
var table = []substitution{
	{regexp.MustCompile(`(?i)\bvårt\b`), "mitt"},
	{regexp.MustCompile(`(?i)\bvåra\b`), "mina"},
	{regexp.MustCompile(`(?i)\bvår\b`), "min"},
	{regexp.MustCompile(`(?i)\bni\b`), "du"},
	{regexp.MustCompile(`(?i)\ber\b`), "din"},
	{regexp.MustCompile(`(?i)\bvi\b`), "jag"},
}

// Adapter applies the substitution table when the history qualifies.
type Adapter struct {
	questionID string
	triggerKey string
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithHouseholdQuestion overrides the gating question id.
func WithHouseholdQuestion(id string) Option {
	return func(a *Adapter) {
		a.questionID = id
	}
}

// WithSingleHouseholdKey overrides the normalized trigger answer.
func WithSingleHouseholdKey(key string) Option {
	return func(a *Adapter) {
		a.triggerKey = key
	}
}

// New creates an Adapter gated on the household-composition question.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		questionID: DefaultHouseholdQuestionID,
		triggerKey: DefaultSingleHouseholdKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Adapt rewrites text to singular phrasing when the most recent answer
// to the household question normalizes to the single-household key.
// Otherwise text is returned unchanged.
func (a *Adapter) Adapt(text string, history []domain.RecordedAnswer) string {
	if !a.qualifies(history) {
		return text
	}
	for _, sub := range table {
		text = sub.re.ReplaceAllStringFunc(text, func(match string) string {
			return matchCase(match, sub.replace)
		})
	}
	return text
}

func (a *Adapter) qualifies(history []domain.RecordedAnswer) bool {
	ans, ok := domain.LatestAnswer(history, a.questionID)
	if !ok {
		return false
	}
	return textkey.Normalize(ans.RawAnswer) == a.triggerKey
}

// matchCase carries the leading capitalization of the matched word
// over to the replacement, so sentence-initial words stay capitalized.
func matchCase(match, replace string) string {
	if utf8.RuneCountInString(match) > 1 && strings.ToUpper(match) == match {
		return strings.ToUpper(replace)
	}
	first, _ := utf8.DecodeRuneInString(match)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(replace)
		return string(unicode.ToUpper(r)) + replace[size:]
	}
	return replace
}
