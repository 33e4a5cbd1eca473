// Package file provides filesystem-backed adapters: a survey provider
// reading a single YAML or JSON document, and a session store writing
// one JSON snapshot per session.
package file

import (
	"context"
	"fmt"
	"os"

	"enkat/internal/compiler"
	"enkat/pkg/domain"
)

// Provider implements ports.SurveyProvider over a survey document on
// disk. The document is parsed once, on first use, and cached;
// configuration changes require a new Provider.
type Provider struct {
	path string

	survey domain.Survey
	start  string
}

// NewProvider creates a provider for the given document path.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// ActiveSurvey loads and returns the survey document.
func (p *Provider) ActiveSurvey(ctx context.Context) (domain.Survey, error) {
	if p.survey != nil {
		return p.survey, nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey document: %w", err)
	}

	survey, start, err := compiler.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid survey document %s: %w", p.path, err)
	}

	p.survey = survey
	p.start = start
	return survey, nil
}

// Start returns the survey's start question id. Valid after a
// successful ActiveSurvey call; it defaults to the conventional id.
func (p *Provider) Start() string {
	if p.start == "" {
		return domain.StartQuestionID
	}
	return p.start
}
