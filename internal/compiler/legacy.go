package compiler

import (
	"fmt"
	"strings"

	"enkat/pkg/domain"
	"enkat/pkg/textkey"

	"github.com/mitchellh/mapstructure"
)

// legacyQuestion mirrors the original web client's question object.
// Answer-specific transitions were dynamic `next_<key>` properties on
// the same object; those are scanned separately.
type legacyQuestion struct {
	Message string   `mapstructure:"message"`
	Options []string `mapstructure:"options"`
	Type    string   `mapstructure:"type"`
	Next    string   `mapstructure:"next"`
	End     bool     `mapstructure:"end"`

	SkipToIf []legacySkipCondition `mapstructure:"skipToIf"`
}

type legacySkipCondition struct {
	Question string `mapstructure:"question"`
	Equals   string `mapstructure:"equals"`
	To       string `mapstructure:"to"`
}

const legacyNextPrefix = "next_"

// migrateLegacy converts a legacy flat document into the domain model.
// Every dynamic next_* key is re-normalized through textkey.Normalize,
// which erases the inconsistent hand-formatted keys the original call
// sites produced.
func migrateLegacy(doc map[string]any) (domain.Survey, error) {
	survey := make(domain.Survey, len(doc))

	for id, raw := range doc {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("question %q is not an object", id)
		}

		var lq legacyQuestion
		if err := mapstructure.Decode(obj, &lq); err != nil {
			return nil, fmt.Errorf("failed to decode question %q: %w", id, err)
		}

		q := domain.Question{
			Message:     lq.Message,
			Options:     lq.Options,
			Kind:        migrateKind(lq.Type),
			Terminal:    lq.End,
			DefaultNext: lq.Next,
		}

		for key, value := range obj {
			if !strings.HasPrefix(key, legacyNextPrefix) || key == "next" {
				continue
			}
			target, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("question %q: transition %q is not a question id", id, key)
			}
			if q.AnswerNext == nil {
				q.AnswerNext = make(map[string]string)
			}
			answerKey := textkey.Normalize(strings.TrimPrefix(key, legacyNextPrefix))
			q.AnswerNext[answerKey] = target
		}

		for _, cond := range lq.SkipToIf {
			q.SkipRules = append(q.SkipRules, domain.SkipRule{
				When:   cond.Question,
				Equals: cond.Equals,
				SkipTo: cond.To,
			})
		}

		survey[id] = q
	}

	return survey, nil
}

// migrateKind maps the legacy type field onto the AnswerKind
// constants. The legacy "text" value and an absent type both mean
// free text unless options imply single choice, which
// Question.EffectiveKind already handles.
func migrateKind(legacy string) string {
	switch legacy {
	case "text":
		return domain.KindFreeText
	case domain.KindSingleChoice, domain.KindMultipleChoice, domain.KindFreeText:
		return legacy
	default:
		return ""
	}
}
