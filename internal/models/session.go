package models

// SessionSettings is the remote session payload returned by the settings
// fetch. It carries the canonical model list (all BMR associations, with
// outputs once the session has executed), the immutable option catalogs, and
// the recommendation rule set.
type SessionSettings struct {
	Models          []*ModelSettings  `json:"models"`
	AllModelOptions []RawOptionSchema `json:"allModelOptions"`
	AllBMROptions   []BMROption       `json:"allBmrOptions"`
	BMRs            []BMR             `json:"bmrs"`
	DoseUnitsID     int               `json:"dose_units"`
	SelectedModel   *SelectedModel    `json:"selected_model,omitempty"`
	Logic           []map[string]any  `json:"logic"`
	IsFinished      bool              `json:"is_finished"`
}
