// Package webapi exposes finished session reports over a small read-only
// JSON API.
package webapi

import (
	"time"

	"github.com/shapiromatron/hawc-sub006/internal/models"
)

// ReportSummary is the API response for a single report in the list.
type ReportSummary struct {
	ID          string          `json:"id"`
	Endpoint    string          `json:"endpoint"`
	DataType    models.DataType `json:"dataType"`
	ModelCount  int             `json:"modelCount"`
	BMRCount    int             `json:"bmrCount"`
	Recommended string          `json:"recommended,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ReportDetail is the API response for a single report with per-model
// results.
type ReportDetail struct {
	ReportSummary
	BMRs   []models.BMR         `json:"bmrs"`
	Models []models.ReportModel `json:"models"`
}

// SummaryResponse is the aggregate response across all reports.
type SummaryResponse struct {
	TotalReports     int     `json:"totalReports"`
	TotalModels      int     `json:"totalModels"`
	RecommendedShare float64 `json:"recommendedShare"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
