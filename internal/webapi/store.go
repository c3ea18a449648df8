package webapi

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/reporting"
)

// ErrReportNotFound is returned when a report ID does not match any stored
// report.
var ErrReportNotFound = errors.New("report not found")

// ReportStore provides access to finished session reports.
type ReportStore interface {
	// ListReports returns all reports, newest first.
	ListReports() ([]ReportSummary, error)
	// GetReport returns a single report with full model details.
	GetReport(id string) (*ReportDetail, error)
	// Summary returns aggregate metrics across all reports.
	Summary() (*SummaryResponse, error)
}

// FileStore reads session report JSON files from a directory.
type FileStore struct {
	dir string

	mu      sync.RWMutex
	reports map[string]*models.SessionReport
	loaded  bool
}

// NewFileStore creates a FileStore that reads reports from dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:     dir,
		reports: make(map[string]*models.SessionReport),
	}
}

// load reads all report JSON files from the configured directory.
func (fs *FileStore) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.reports = make(map[string]*models.SessionReport)

	if fs.dir == "" {
		fs.loaded = true
		return nil
	}

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			fs.loaded = true
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		report, err := reporting.Load(filepath.Join(fs.dir, e.Name()))
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		fs.reports[id] = report
	}

	fs.loaded = true
	return nil
}

// ensureLoaded loads data if not already loaded.
func (fs *FileStore) ensureLoaded() error {
	fs.mu.RLock()
	if fs.loaded {
		fs.mu.RUnlock()
		return nil
	}
	fs.mu.RUnlock()
	return fs.load()
}

// Reload forces a fresh reload of all report files from disk.
func (fs *FileStore) Reload() error {
	return fs.load()
}

func reportToSummary(id string, r *models.SessionReport) ReportSummary {
	recommended := ""
	for _, m := range r.Models {
		if m.Recommended {
			recommended = m.Name
			break
		}
	}

	return ReportSummary{
		ID:          id,
		Endpoint:    r.Endpoint,
		DataType:    r.DataType,
		ModelCount:  len(r.Models),
		BMRCount:    len(r.BMRs),
		Recommended: recommended,
		Timestamp:   r.Timestamp,
	}
}

// ListReports returns all reports, newest first.
func (fs *FileStore) ListReports() ([]ReportSummary, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	summaries := make([]ReportSummary, 0, len(fs.reports))
	for id, r := range fs.reports {
		summaries = append(summaries, reportToSummary(id, r))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})
	return summaries, nil
}

// GetReport returns a single report with full model details.
func (fs *FileStore) GetReport(id string) (*ReportDetail, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	r, ok := fs.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}

	detail := &ReportDetail{
		ReportSummary: reportToSummary(id, r),
		BMRs:          r.BMRs,
		Models:        r.Models,
	}
	if detail.BMRs == nil {
		detail.BMRs = []models.BMR{}
	}
	if detail.Models == nil {
		detail.Models = []models.ReportModel{}
	}
	return detail, nil
}

// Summary returns aggregate metrics across all reports.
func (fs *FileStore) Summary() (*SummaryResponse, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	resp := &SummaryResponse{}
	recommended := 0
	for _, r := range fs.reports {
		resp.TotalReports++
		resp.TotalModels += len(r.Models)
		for _, m := range r.Models {
			if m.Recommended {
				recommended++
				break
			}
		}
	}
	if resp.TotalReports > 0 {
		resp.RecommendedShare = float64(recommended) / float64(resp.TotalReports)
	}
	return resp, nil
}

// Ensure FileStore satisfies ReportStore.
var _ ReportStore = (*FileStore)(nil)
