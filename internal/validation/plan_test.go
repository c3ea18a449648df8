package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanYAML = `url: https://example.org/bmd/session/42/
dose_units: 1
bmrs:
  - type: Std Dev
    value: 1
    confidence_level: 0.95
models:
  - name: Linear
  - name: Polynomial
    overrides:
      degree_poly: 3
`

const invalidPlanYAML = `dose_units: 1
bmrs:
  - type: Std Dev
    value: 1
    confidence_level: 1.5
models:
  - overrides: {}
`

func TestValidatePlanBytes_Valid(t *testing.T) {
	errs := ValidatePlanBytes([]byte(validPlanYAML))
	assert.Empty(t, errs)
}

func TestValidatePlanBytes_Invalid(t *testing.T) {
	errs := ValidatePlanBytes([]byte(invalidPlanYAML))
	require.NotEmpty(t, errs)

	// Missing url, out-of-range confidence level, unnamed model.
	assert.Len(t, errs, 3)
}

func TestValidatePlanBytes_BadYAML(t *testing.T) {
	errs := ValidatePlanBytes([]byte("url: [unclosed"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "YAML parse error")
}

func TestValidatePlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validPlanYAML), 0o644))

	errs, err := ValidatePlanFile(path)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidatePlanFile_Missing(t *testing.T) {
	_, err := ValidatePlanFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading plan file")
}
