package logic

import (
	"context"
	"errors"
	"testing"

	"github.com/shapiromatron/hawc-sub006/internal/client"
	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fptr(v float64) *float64 { return &v }

func rawRules() []map[string]any {
	return []map[string]any{
		{
			"name":               "BMD exists",
			"rule_class":         "bmd_exists",
			"failure_bin":        float64(2),
			"enabled_continuous": true,
		},
		{
			"name":               "AIC exists",
			"rule_class":         "aic_exists",
			"failure_bin":        float64(2),
			"enabled_continuous": true,
		},
		{
			"name":               "GOF p-value",
			"rule_class":         "gof_pvalue",
			"failure_bin":        float64(1),
			"threshold":          0.1,
			"enabled_continuous": true,
		},
	}
}

func logicSession(t *testing.T, outputs map[int]*models.ModelOutput) *session.Session {
	t.Helper()

	payload := &models.SessionSettings{
		AllModelOptions: []models.RawOptionSchema{
			{
				Name: "Linear",
				Defaults: map[string]map[string]any{
					"constant_variance": {"name": "Constant variance", "type": "b", "default": float64(0), "category": "model"},
				},
			},
		},
		Models: []*models.ModelSettings{
			{ID: 1, Name: "Linear", BMRID: 0},
			{ID: 2, Name: "Linear", BMRID: 0},
			{ID: 3, Name: "Linear", BMRID: 0},
		},
		BMRs: []models.BMR{
			{Type: "Std Dev", Value: 1, ConfidenceLevel: 0.95},
		},
		DoseUnitsID: 1,
		Logic:       rawRules(),
		IsFinished:  true,
	}
	for _, m := range payload.Models {
		m.Output = outputs[m.ID]
	}

	s := session.New()
	s.ReceiveEndpoint(&models.Endpoint{
		ID:       7,
		DataType: models.DataTypeContinuous,
		Groups: []models.DoseGroup{
			{Doses: []models.DoseValue{{UnitsID: 1, Dose: 0}}},
			{Doses: []models.DoseValue{{UnitsID: 1, Dose: 100}}},
		},
	})
	require.NoError(t, s.ReceiveSessionSettings(payload))
	return s
}

func TestDecodeRules(t *testing.T) {
	rules, err := DecodeRules(rawRules())
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "bmd_exists", rules[0].RuleClass)
	assert.Equal(t, models.BinFailure, rules[0].FailureBin)
	assert.True(t, rules[0].EnabledContinuous)
	assert.False(t, rules[0].EnabledDichotomous)

	require.NotNil(t, rules[2].Threshold)
	assert.Equal(t, 0.1, *rules[2].Threshold)
}

func TestDecodeRules_NameRequired(t *testing.T) {
	_, err := DecodeRules([]map[string]any{{"rule_class": "bmd_exists"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestApply_RecommendsLowestAIC(t *testing.T) {
	s := logicSession(t, map[int]*models.ModelOutput{
		1: {BMD: fptr(10), AIC: fptr(120), PValue: fptr(0.5)},
		2: {BMD: fptr(12), AIC: fptr(100), PValue: fptr(0.5)},
		3: {BMD: fptr(11), AIC: fptr(110), PValue: fptr(0.5)},
	})

	rules, err := DecodeRules(s.LogicRules())
	require.NoError(t, err)
	NewEvaluator(rules).Apply(s)

	recommended := recommendedIDs(s)
	assert.Equal(t, []int{2}, recommended)
	assert.True(t, s.LogicApplied())
}

func TestApply_FailureBinExcluded(t *testing.T) {
	// Model 2 has the lowest AIC but no BMD, which is a failure-bin rule.
	s := logicSession(t, map[int]*models.ModelOutput{
		1: {BMD: fptr(10), AIC: fptr(120), PValue: fptr(0.5)},
		2: {AIC: fptr(100), PValue: fptr(0.5)},
	})

	rules, err := DecodeRules(s.LogicRules())
	require.NoError(t, err)
	NewEvaluator(rules).Apply(s)

	assert.Equal(t, []int{1}, recommendedIDs(s))

	for _, m := range s.Models() {
		if m.ID == 2 {
			assert.Equal(t, models.BinFailure, m.Bin)
		}
	}
}

func TestApply_QuestionableStillEligible(t *testing.T) {
	// A questionable-bin failure (low p-value) does not block recommendation.
	s := logicSession(t, map[int]*models.ModelOutput{
		1: {BMD: fptr(10), AIC: fptr(120), PValue: fptr(0.5)},
		2: {BMD: fptr(12), AIC: fptr(100), PValue: fptr(0.01)},
	})

	rules, err := DecodeRules(s.LogicRules())
	require.NoError(t, err)
	NewEvaluator(rules).Apply(s)

	assert.Equal(t, []int{2}, recommendedIDs(s))
	for _, m := range s.Models() {
		if m.ID == 2 {
			assert.Equal(t, models.BinQuestionable, m.Bin)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	s := logicSession(t, map[int]*models.ModelOutput{
		1: {BMD: fptr(10), AIC: fptr(120), PValue: fptr(0.5)},
	})

	rules, err := DecodeRules(s.LogicRules())
	require.NoError(t, err)
	e := NewEvaluator(rules)

	e.Apply(s)
	first := len(s.Models()[0].Logic)
	require.NotZero(t, first)

	// A second application is a no-op; results are not appended twice.
	e.Apply(s)
	assert.Len(t, s.Models()[0].Logic, first)
}

func TestApply_DisabledRulesSkipped(t *testing.T) {
	// Continuous endpoint, but the rule is dichotomous-only.
	s := logicSession(t, map[int]*models.ModelOutput{
		1: {AIC: fptr(100)},
	})

	rules := []Rule{
		{Name: "BMD exists", RuleClass: "bmd_exists", FailureBin: models.BinFailure, EnabledDichotomous: true},
	}
	NewEvaluator(rules).Apply(s)

	assert.Empty(t, s.Models()[0].Logic)
	assert.Equal(t, models.BinNoWarning, s.Models()[0].Bin)
}

func TestApply_UnknownRuleClassPasses(t *testing.T) {
	s := logicSession(t, map[int]*models.ModelOutput{
		1: {AIC: fptr(100)},
	})

	rules := []Rule{
		{Name: "Future rule", RuleClass: "not_yet_implemented", FailureBin: models.BinFailure, EnabledContinuous: true},
	}
	NewEvaluator(rules).Apply(s)

	require.Len(t, s.Models()[0].Logic, 1)
	assert.True(t, s.Models()[0].Logic[0].Passed)
}

func TestEvaluateRule(t *testing.T) {
	out := &models.ModelOutput{
		BMD:                fptr(50),
		BMDL:               fptr(10),
		BMDU:               fptr(90),
		AIC:                fptr(100),
		PValue:             fptr(0.2),
		ResidualOfInterest: fptr(1.5),
	}

	tests := []struct {
		name     string
		rule     Rule
		out      *models.ModelOutput
		wantPass bool
	}{
		{name: "bmd exists", rule: Rule{RuleClass: "bmd_exists"}, out: out, wantPass: true},
		{name: "bmd missing", rule: Rule{RuleClass: "bmd_exists"}, out: &models.ModelOutput{}, wantPass: false},
		{name: "no output", rule: Rule{RuleClass: "aic_exists"}, out: nil, wantPass: false},
		{name: "gof above threshold", rule: Rule{RuleClass: "gof_pvalue", Threshold: fptr(0.1)}, out: out, wantPass: true},
		{name: "gof below threshold", rule: Rule{RuleClass: "gof_pvalue", Threshold: fptr(0.3)}, out: out, wantPass: false},
		{name: "ratio within bound", rule: Rule{RuleClass: "bmd_bmdl_ratio", Threshold: fptr(20)}, out: out, wantPass: true},
		{name: "ratio exceeds bound", rule: Rule{RuleClass: "bmd_bmdl_ratio", Threshold: fptr(3)}, out: out, wantPass: false},
		{name: "high bmd", rule: Rule{RuleClass: "high_bmd", Threshold: fptr(0.1)}, out: out, wantPass: false},
		{name: "bmd within dose range", rule: Rule{RuleClass: "high_bmd", Threshold: fptr(1)}, out: out, wantPass: true},
		{name: "residual ok", rule: Rule{RuleClass: "residual_of_interest", Threshold: fptr(2)}, out: out, wantPass: true},
		{name: "residual too large", rule: Rule{RuleClass: "residual_of_interest", Threshold: fptr(1)}, out: out, wantPass: false},
		{name: "no warnings", rule: Rule{RuleClass: "warnings"}, out: out, wantPass: true},
		{
			name:     "warnings present",
			rule:     Rule{RuleClass: "warnings"},
			out:      &models.ModelOutput{Warnings: []string{"non-convergence"}},
			wantPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, _ := evaluateRule(tt.rule, tt.out, 100)
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestSaveSelected(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := client.NewMockAPI(ctrl)

	s := logicSession(t, nil)
	id := 2

	api.EXPECT().SaveSelectedModel(gomock.Any(), &models.SelectedModel{ModelID: &id, Notes: "ok"}).
		Return(nil)

	require.NoError(t, SaveSelected(context.Background(), api, s, &id, "ok"))
	sel := s.SelectedModel()
	require.NotNil(t, sel)
	assert.Equal(t, 2, *sel.ModelID)
}

func TestSaveSelected_RemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := client.NewMockAPI(ctrl)

	s := logicSession(t, nil)
	id := 2
	remoteErr := errors.New("403")

	api.EXPECT().SaveSelectedModel(gomock.Any(), gomock.Any()).Return(remoteErr)

	err := SaveSelected(context.Background(), api, s, &id, "ok")
	require.ErrorIs(t, err, remoteErr)

	// The local selection is untouched on failure.
	assert.Nil(t, s.SelectedModel())
}

func recommendedIDs(s *session.Session) []int {
	var ids []int
	for _, m := range s.Models() {
		if m.Recommended {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
