// Package validation gates session execution: a pure rule check over the
// configured BMRs and model settings, plus JSON-Schema validation of session
// plan files.
package validation

import "github.com/shapiromatron/hawc-sub006/internal/models"

// Messages emitted by the execution gate. They are displayed verbatim.
const (
	MsgBMRRequired   = "At least one BMR setting is required."
	MsgModelRequired = "At least one model is required."
)

// Validate inspects a session's configuration and returns every blocking
// problem found. Rules are evaluated independently, not short-circuited, and
// an empty result means the configuration is executable. The check is pure
// and must be re-run on every execution attempt.
func Validate(bmrs []models.BMR, modelSettings []*models.ModelSettings) []string {
	var errs []string
	if len(bmrs) == 0 {
		errs = append(errs, MsgBMRRequired)
	}
	if len(modelSettings) == 0 {
		errs = append(errs, MsgModelRequired)
	}
	return errs
}
