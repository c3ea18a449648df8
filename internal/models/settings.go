package models

// ModelSettings is one configured, executable model run. Defaults is a shared
// reference to the schema's field table; Overrides is a sparse map of
// wire-encoded values for the keys the user changed. Multiple instances may
// share the same Name with different overrides; they are never deduplicated.
type ModelSettings struct {
	ID        int            `json:"id,omitempty"`
	Name      string         `json:"name"`
	BMRID     int            `json:"bmr_id"`
	Overrides map[string]any `json:"overrides"`
	Output    *ModelOutput   `json:"output,omitempty"`

	// Defaults is attached locally from the matching option schema; it is not
	// part of the wire payload.
	Defaults map[string]Field `json:"-"`

	// Logic, Bin, and Recommended are produced by recommendation evaluation
	// and never sent back to the remote system.
	Logic       []RuleResult `json:"-"`
	Bin         FailureBin   `json:"-"`
	Recommended bool         `json:"-"`
}

// NewModelSettings builds a fresh instance from an option schema with no
// overrides.
func NewModelSettings(schema *ModelOptionSchema) *ModelSettings {
	return &ModelSettings{
		Name:      schema.Name,
		Overrides: map[string]any{},
		Defaults:  schema.Fields,
	}
}

// Clone returns a copy whose overrides map is independent of the receiver.
// Defaults stays a shared reference to the immutable schema table, and the
// output pointer is carried over as-is.
func (m *ModelSettings) Clone() *ModelSettings {
	overrides := make(map[string]any, len(m.Overrides))
	for k, v := range m.Overrides {
		overrides[k] = v
	}

	clone := *m
	clone.Overrides = overrides
	clone.Logic = append([]RuleResult(nil), m.Logic...)
	return &clone
}
