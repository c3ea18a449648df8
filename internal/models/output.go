package models

// ModelOutput holds the fitted results reported by the modeling engine for
// one model run. Pointers distinguish "not reported" from zero.
type ModelOutput struct {
	BMD                *float64 `json:"bmd,omitempty"`
	BMDL               *float64 `json:"bmdl,omitempty"`
	BMDU               *float64 `json:"bmdu,omitempty"`
	AIC                *float64 `json:"aic,omitempty"`
	PValue             *float64 `json:"p_value,omitempty"`
	DegreesFreedom     *float64 `json:"df,omitempty"`
	ResidualOfInterest *float64 `json:"residual_of_interest,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}
