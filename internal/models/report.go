package models

import "time"

// SessionReport is the JSON document written after a run: the configuration
// that was executed, every model's merged settings and outputs, and the
// recommendation results.
type SessionReport struct {
	SessionURL    string         `json:"session_url"`
	Endpoint      string         `json:"endpoint"`
	DataType      DataType       `json:"data_type"`
	DoseUnitsID   int            `json:"dose_units"`
	Timestamp     time.Time      `json:"timestamp"`
	BMRs          []BMR          `json:"bmrs"`
	Models        []ReportModel  `json:"models"`
	SelectedModel *SelectedModel `json:"selected_model,omitempty"`
}

// ReportModel is one model's entry in a session report. Settings holds the
// merged (default plus override) configuration in wire encoding; Overridden
// lists the keys the user changed.
type ReportModel struct {
	ID          int            `json:"id,omitempty"`
	Name        string         `json:"name"`
	BMRID       int            `json:"bmr_id"`
	Settings    map[string]any `json:"settings"`
	Overridden  []string       `json:"overridden,omitempty"`
	Output      *ModelOutput   `json:"output,omitempty"`
	Logic       []RuleResult   `json:"logic,omitempty"`
	Bin         FailureBin     `json:"bin"`
	Recommended bool           `json:"recommended"`
}
