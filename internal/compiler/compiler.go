// Package compiler parses survey configuration documents into the
// domain model. Two document shapes are accepted: the structured
// format (a `questions` map with explicit answer_next/skip_rules
// fields) and the legacy web-client format (a flat map with dynamic
// `next_<key>` properties). Legacy documents are migrated once at load
// time so no historical normalization quirk survives into the engine.
package compiler

import (
	"fmt"

	"enkat/pkg/domain"

	"gopkg.in/yaml.v3"
)

// Document is the structured survey document shape.
type Document struct {
	// Start overrides the conventional start question id.
	Start string `yaml:"start" json:"start"`

	Questions domain.Survey `yaml:"questions" json:"questions"`
}

// Parse decodes a survey document, YAML or JSON, in either the
// structured or the legacy shape. It returns the survey and the start
// question id (domain.StartQuestionID unless the document overrides it).
func Parse(data []byte) (domain.Survey, string, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, "", fmt.Errorf("failed to parse survey document: %w", err)
	}
	if len(probe) == 0 {
		return nil, "", fmt.Errorf("empty survey document")
	}

	if isLegacy(probe) {
		survey, err := migrateLegacy(probe)
		if err != nil {
			return nil, "", err
		}
		return survey, domain.StartQuestionID, nil
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("failed to parse survey document: %w", err)
	}
	if len(doc.Questions) == 0 {
		return nil, "", fmt.Errorf("survey document defines no questions")
	}

	start := doc.Start
	if start == "" {
		start = domain.StartQuestionID
	}
	if !doc.Questions.Has(start) {
		return nil, "", fmt.Errorf("start question %q not defined", start)
	}
	return doc.Questions, start, nil
}

// isLegacy detects the flat legacy shape: no `questions` map at the
// top level, values are question objects keyed directly by id.
func isLegacy(probe map[string]any) bool {
	if _, ok := probe["questions"].(map[string]any); ok {
		return false
	}
	return true
}
