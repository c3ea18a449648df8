// Package reporting builds and writes session reports: the executed
// configuration, merged settings, model outputs, and recommendation results
// as a single JSON document.
package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/session"
	"github.com/shapiromatron/hawc-sub006/internal/settings"
)

// Build assembles a report from a session. The canonical model list is used
// so outputs and recommendation results are included when present.
func Build(s *session.Session, sessionURL string) (*models.SessionReport, error) {
	report := &models.SessionReport{
		SessionURL:    sessionURL,
		DoseUnitsID:   s.DoseUnitsID(),
		Timestamp:     time.Now().UTC(),
		BMRs:          s.BMRs(),
		SelectedModel: s.SelectedModel(),
	}
	if ep := s.Endpoint(); ep != nil {
		report.Endpoint = ep.Name
		report.DataType = ep.DataType
	}

	for _, m := range s.Models() {
		merged := settings.Merge(m.Defaults, m.Overrides)

		var overridden []string
		for _, o := range settings.OverrideSummary(m.Defaults, m.Overrides) {
			overridden = append(overridden, o.Key)
		}

		report.Models = append(report.Models, models.ReportModel{
			ID:          m.ID,
			Name:        m.Name,
			BMRID:       m.BMRID,
			Settings:    merged,
			Overridden:  overridden,
			Output:      m.Output,
			Logic:       m.Logic,
			Bin:         m.Bin,
			Recommended: m.Recommended,
		})
	}

	return report, nil
}

// Write serializes a report to a JSON file, creating parent directories as
// needed.
func Write(path string, report *models.SessionReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Load reads a report written by Write.
func Load(path string) (*models.SessionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report models.SessionReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &report, nil
}
