package domain

import "sort"

// StartQuestionID is the conventional entry point of a survey graph.
const StartQuestionID = "welcome"

// Survey is the full configuration mapping of question id to
// definition, forming a (possibly cyclic) directed graph via
// DefaultNext, AnswerNext and SkipRules.
type Survey map[string]Question

// Question looks up a definition by id.
func (s Survey) Question(id string) (Question, bool) {
	q, ok := s[id]
	return q, ok
}

// Has reports whether the survey defines the given question id.
func (s Survey) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns all question ids in deterministic order.
func (s Survey) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DanglingRefs returns every transition or skip target referencing a
// question id absent from the survey, keyed by the referencing
// question. Advisory only: the engine never crashes on a dangling id
// at runtime, it just fails to find a next question there.
func (s Survey) DanglingRefs() map[string][]string {
	missing := map[string][]string{}
	add := func(from, target string) {
		if target != "" && !s.Has(target) {
			missing[from] = append(missing[from], target)
		}
	}
	for _, id := range s.IDs() {
		q := s[id]
		add(id, q.DefaultNext)
		for _, target := range q.AnswerNext {
			add(id, target)
		}
		for _, rule := range q.SkipRules {
			add(id, rule.SkipTo)
		}
	}
	return missing
}
