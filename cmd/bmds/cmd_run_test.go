package main

import (
	"testing"

	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planSession(t *testing.T) *session.Session {
	t.Helper()

	sess := session.New()
	require.NoError(t, sess.ReceiveSessionSettings(&models.SessionSettings{
		AllModelOptions: []models.RawOptionSchema{
			{
				Name: "Polynomial",
				Defaults: map[string]map[string]any{
					"degree_poly": {"name": "Degree", "type": "i", "default": float64(2), "category": "model"},
				},
			},
		},
		AllBMROptions: []models.BMROption{
			{Type: "Std Dev", Value: 1, ConfidenceLevel: 0.95},
		},
	}))
	return sess
}

func TestApplyPlan(t *testing.T) {
	sess := planSession(t)

	plan := &models.SessionPlan{
		URL:         "https://example.org/bmd/session/42/",
		DoseUnitsID: 2,
		BMRs: []models.PlanBMR{
			{Type: "Std Dev", Value: 1, ConfidenceLevel: 0.95},
		},
		Models: []models.PlanModel{
			{Name: "Polynomial", Overrides: map[string]any{"degree_poly": 3}},
		},
	}

	require.NoError(t, applyPlan(sess, plan))
	assert.Equal(t, 2, sess.DoseUnitsID())
	require.Len(t, sess.BMRs(), 1)
	require.Len(t, sess.ModelSettings(), 1)
	assert.Equal(t, 3, sess.ModelSettings()[0].Overrides["degree_poly"])
}

func TestApplyPlan_UnknownOverrideKey(t *testing.T) {
	sess := planSession(t)

	// A typo'd override key is rejected up front rather than silently doing
	// nothing at execution time.
	plan := &models.SessionPlan{
		URL: "https://example.org/bmd/session/42/",
		Models: []models.PlanModel{
			{Name: "Polynomial", Overrides: map[string]any{"degre_poly": 9}},
		},
	}

	err := applyPlan(sess, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no option field "degre_poly"`)
	assert.Contains(t, err.Error(), "degree_poly")
}

func TestApplyPlan_UnknownModel(t *testing.T) {
	sess := planSession(t)

	plan := &models.SessionPlan{
		URL:    "https://example.org/bmd/session/42/",
		Models: []models.PlanModel{{Name: "Mystery"}},
	}

	err := applyPlan(sess, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no model option named "Mystery"`)
}

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range newRootCommand().Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"run", "validate", "recommend", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestBinLabel(t *testing.T) {
	assert.Equal(t, "viable", binLabel(models.BinNoWarning))
	assert.Equal(t, "questionable", binLabel(models.BinQuestionable))
	assert.Equal(t, "failure", binLabel(models.BinFailure))
}
