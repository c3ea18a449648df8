// Package models defines the data model shared across the BMD session core:
// dose-response endpoints, model option schemas, benchmark responses, model
// settings, and execution outputs.
package models

// DataType classifies the response data recorded for an endpoint.
type DataType string

const (
	DataTypeContinuous  DataType = "C"
	DataTypeDichotomous DataType = "D"
	DataTypeOther       DataType = "O"
)

// DoseUnits identifies one of the dose-unit scales recorded for an endpoint.
type DoseUnits struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DoseValue is a single dose expressed against one dose-unit scale.
type DoseValue struct {
	UnitsID int     `json:"dose_units_id"`
	Dose    float64 `json:"dose"`
}

// DoseGroup is one dose group of the underlying dose-response dataset.
// Response and StdDev are present for continuous data, Incidence for
// dichotomous data.
type DoseGroup struct {
	Index     int         `json:"dose_group_id"`
	Doses     []DoseValue `json:"doses"`
	N         int         `json:"n"`
	Response  *float64    `json:"response,omitempty"`
	StdDev    *float64    `json:"stdev,omitempty"`
	Incidence *int        `json:"incidence,omitempty"`
}

// Endpoint is the read-only reference to the dose-response dataset a session
// models. It is fetched once and never mutated for the session's lifetime.
type Endpoint struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	DataType  DataType    `json:"data_type"`
	DoseUnits []DoseUnits `json:"dose_units"`
	Groups    []DoseGroup `json:"groups"`

	// NOEL and LOEL are dose-group indices of interest; -999 when not set.
	NOEL int `json:"noel"`
	LOEL int `json:"loel"`
}

// DosesForUnits returns the per-group dose values for the given dose-unit
// scale, in group order. Groups with no dose recorded for the scale are
// skipped.
func (e *Endpoint) DosesForUnits(unitsID int) []float64 {
	var doses []float64
	for _, g := range e.Groups {
		for _, d := range g.Doses {
			if d.UnitsID == unitsID {
				doses = append(doses, d.Dose)
				break
			}
		}
	}
	return doses
}

// MaxDose returns the highest dose for the given dose-unit scale, or 0 when
// no doses are recorded for it.
func (e *Endpoint) MaxDose(unitsID int) float64 {
	max := 0.0
	for _, d := range e.DosesForUnits(unitsID) {
		if d > max {
			max = d
		}
	}
	return max
}
