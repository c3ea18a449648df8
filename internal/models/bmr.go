package models

// BMR is a benchmark response definition. A session holds an ordered sequence
// of these; model settings are associated to one by index.
type BMR struct {
	Type            string  `json:"type"`
	Value           float64 `json:"value"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// BMROption is a selectable BMR template offered by the remote catalog for
// the endpoint's data type.
type BMROption struct {
	Type            string  `json:"type"`
	Value           float64 `json:"value"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// NewBMR builds a BMR from a catalog template.
func NewBMR(opt BMROption) BMR {
	return BMR{
		Type:            opt.Type,
		Value:           opt.Value,
		ConfidenceLevel: opt.ConfidenceLevel,
	}
}
