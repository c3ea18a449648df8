package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SessionPlan declares a complete session configuration for the CLI: which
// dose-unit scale to use, the BMR definitions, and the model selections with
// their overrides.
type SessionPlan struct {
	URL         string      `yaml:"url"`
	DoseUnitsID int         `yaml:"dose_units"`
	BMRs        []PlanBMR   `yaml:"bmrs"`
	Models      []PlanModel `yaml:"models"`
}

// PlanBMR declares one benchmark response in a session plan.
type PlanBMR struct {
	Type            string  `yaml:"type"`
	Value           float64 `yaml:"value"`
	ConfidenceLevel float64 `yaml:"confidence_level"`
}

// PlanModel declares one model selection in a session plan. Overrides holds
// wire-encoded values keyed by option field key.
type PlanModel struct {
	Name      string         `yaml:"name"`
	Overrides map[string]any `yaml:"overrides,omitempty"`
}

// LoadSessionPlan loads and validates a session plan from a YAML file.
func LoadSessionPlan(path string) (*SessionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan SessionPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return &plan, nil
}

// Validate checks the structural requirements a plan must meet before it can
// drive a session.
func (p *SessionPlan) Validate() error {
	if p.URL == "" {
		return fmt.Errorf("url is required")
	}
	for i, b := range p.BMRs {
		if b.Type == "" {
			return fmt.Errorf("bmrs[%d]: type is required", i)
		}
		if b.ConfidenceLevel <= 0 || b.ConfidenceLevel >= 1 {
			return fmt.Errorf("bmrs[%d]: confidence_level must be in (0, 1), got %v", i, b.ConfidenceLevel)
		}
	}
	for i, m := range p.Models {
		if m.Name == "" {
			return fmt.Errorf("models[%d]: name is required", i)
		}
	}
	return nil
}

// BMR converts a plan entry to a session BMR.
func (b PlanBMR) BMR() BMR {
	return BMR{Type: b.Type, Value: b.Value, ConfidenceLevel: b.ConfidenceLevel}
}
