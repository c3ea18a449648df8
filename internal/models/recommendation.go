package models

// FailureBin grades how badly a model tripped a recommendation rule.
type FailureBin int

const (
	BinNoWarning    FailureBin = 0
	BinQuestionable FailureBin = 1
	BinFailure      FailureBin = 2
)

// RuleResult records one recommendation rule applied to one model.
type RuleResult struct {
	RuleName string     `json:"rule_name"`
	Bin      FailureBin `json:"bin"`
	Passed   bool       `json:"passed"`
	Notes    string     `json:"notes,omitempty"`
}

// SelectedModel is the final model choice for a session, set either by
// recommendation logic or by the user, and persisted remotely.
type SelectedModel struct {
	ModelID *int   `json:"model"`
	Notes   string `json:"notes"`
}
