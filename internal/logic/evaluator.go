// Package logic evaluates the externally supplied recommendation rule set
// over finished model outputs and manages the final model selection. The rule
// content (thresholds, bins, enabled flags) comes from the remote payload;
// this package only implements the evaluation contract.
package logic

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shapiromatron/hawc-sub006/internal/client"
	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/session"
)

// Rule is one decoded recommendation rule.
type Rule struct {
	Name               string            `mapstructure:"name"`
	Description        string            `mapstructure:"description"`
	RuleClass          string            `mapstructure:"rule_class"`
	FailureBin         models.FailureBin `mapstructure:"failure_bin"`
	Threshold          *float64          `mapstructure:"threshold"`
	EnabledContinuous  bool              `mapstructure:"enabled_continuous"`
	EnabledDichotomous bool              `mapstructure:"enabled_dichotomous"`
}

// enabledFor reports whether the rule applies to the endpoint's data type.
func (r Rule) enabledFor(dt models.DataType) bool {
	switch dt {
	case models.DataTypeContinuous:
		return r.EnabledContinuous
	case models.DataTypeDichotomous:
		return r.EnabledDichotomous
	default:
		return false
	}
}

// DecodeRules decodes the raw rule set from the remote session payload.
func DecodeRules(raw []map[string]any) ([]Rule, error) {
	rules := make([]Rule, 0, len(raw))
	for i, entry := range raw {
		var rule Rule
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &rule,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(entry); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		if rule.Name == "" {
			return nil, fmt.Errorf("rule %d: name is required", i)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Evaluator applies a rule set to a session's finished model outputs.
type Evaluator struct {
	rules  []Rule
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// NewEvaluator creates an evaluator over the given rule set.
func NewEvaluator(rules []Rule, opts ...Option) *Evaluator {
	e := &Evaluator{rules: rules, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply evaluates every enabled rule against every canonical model and flags
// the recommended model. Results are recomputed from scratch on each call,
// so applying twice to the same inputs yields the same outcome. Evaluation
// runs once per fresh endpoint and session pairing; a session already marked
// applied is left untouched.
func (e *Evaluator) Apply(s *session.Session) {
	if s.LogicApplied() {
		return
	}
	if !s.Ready() {
		return
	}

	endpoint := s.Endpoint()
	maxDose := endpoint.MaxDose(s.DoseUnitsID())

	for _, m := range s.Models() {
		m.Logic = m.Logic[:0]
		m.Bin = models.BinNoWarning
		m.Recommended = false

		for _, rule := range e.rules {
			if !rule.enabledFor(s.DataType()) {
				continue
			}
			passed, notes := evaluateRule(rule, m.Output, maxDose)
			result := models.RuleResult{
				RuleName: rule.Name,
				Bin:      rule.FailureBin,
				Passed:   passed,
				Notes:    notes,
			}
			m.Logic = append(m.Logic, result)
			if !passed && rule.FailureBin > m.Bin {
				m.Bin = rule.FailureBin
			}
		}
	}

	e.recommend(s.Models())
	s.MarkLogicApplied()
	e.logger.Debug("recommendation logic applied", "models", len(s.Models()), "rules", len(e.rules))
}

// recommend flags the viable model with the lowest AIC. Models in the
// failure bin or without a reported AIC are never recommended.
func (e *Evaluator) recommend(ms []*models.ModelSettings) {
	var best *models.ModelSettings
	bestAIC := math.Inf(1)

	for _, m := range ms {
		if m.Bin >= models.BinFailure {
			continue
		}
		if m.Output == nil || m.Output.AIC == nil {
			continue
		}
		if *m.Output.AIC < bestAIC {
			best = m
			bestAIC = *m.Output.AIC
		}
	}

	if best != nil {
		best.Recommended = true
	}
}

// evaluateRule checks one rule against one model output. Unknown rule
// classes pass; the rule set is a versioned external artifact and may carry
// classes this client does not implement yet.
func evaluateRule(rule Rule, out *models.ModelOutput, maxDose float64) (bool, string) {
	threshold := math.NaN()
	if rule.Threshold != nil {
		threshold = *rule.Threshold
	}

	switch rule.RuleClass {
	case "bmd_exists":
		if out == nil || out.BMD == nil {
			return false, "BMD not reported"
		}
	case "bmdl_exists":
		if out == nil || out.BMDL == nil {
			return false, "BMDL not reported"
		}
	case "bmdu_exists":
		if out == nil || out.BMDU == nil {
			return false, "BMDU not reported"
		}
	case "aic_exists":
		if out == nil || out.AIC == nil {
			return false, "AIC not reported"
		}
	case "gof_pvalue":
		if out == nil || out.PValue == nil {
			return false, "goodness-of-fit p-value not reported"
		}
		if !math.IsNaN(threshold) && *out.PValue < threshold {
			return false, fmt.Sprintf("goodness-of-fit p-value %.3f < %.3f", *out.PValue, threshold)
		}
	case "bmd_bmdl_ratio":
		if out == nil || out.BMD == nil || out.BMDL == nil || *out.BMDL == 0 {
			return false, "BMD/BMDL ratio not computable"
		}
		ratio := *out.BMD / *out.BMDL
		if !math.IsNaN(threshold) && ratio > threshold {
			return false, fmt.Sprintf("BMD/BMDL ratio %.2f > %.2f", ratio, threshold)
		}
	case "high_bmd":
		if out == nil || out.BMD == nil {
			return false, "BMD not reported"
		}
		if !math.IsNaN(threshold) && maxDose > 0 && *out.BMD > threshold*maxDose {
			return false, fmt.Sprintf("BMD %.3g exceeds %.3g times the highest dose", *out.BMD, threshold)
		}
	case "high_bmdl":
		if out == nil || out.BMDL == nil {
			return false, "BMDL not reported"
		}
		if !math.IsNaN(threshold) && maxDose > 0 && *out.BMDL > threshold*maxDose {
			return false, fmt.Sprintf("BMDL %.3g exceeds %.3g times the highest dose", *out.BMDL, threshold)
		}
	case "residual_of_interest":
		if out == nil || out.ResidualOfInterest == nil {
			return false, "residual of interest not reported"
		}
		if !math.IsNaN(threshold) && math.Abs(*out.ResidualOfInterest) > threshold {
			return false, fmt.Sprintf("residual of interest %.2f exceeds %.2f", *out.ResidualOfInterest, threshold)
		}
	case "warnings":
		if out != nil && len(out.Warnings) > 0 {
			return false, fmt.Sprintf("%d warning(s) reported", len(out.Warnings))
		}
	}
	return true, ""
}

// SaveSelected persists the final model choice, then applies it locally.
// There is no optimistic update: a remote failure leaves the prior selection
// untouched, and the error is returned rather than swallowed.
func SaveSelected(ctx context.Context, api client.API, s *session.Session, modelID *int, notes string) error {
	sel := &models.SelectedModel{ModelID: modelID, Notes: notes}
	if err := api.SaveSelectedModel(ctx, sel); err != nil {
		return fmt.Errorf("saving selected model: %w", err)
	}
	s.SetSelectedModel(modelID, notes)
	return nil
}
