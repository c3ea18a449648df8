package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestReports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	older := &models.SessionReport{
		SessionURL:  "https://example.org/bmd/session/41/",
		Endpoint:    "kidney weight",
		DataType:    models.DataTypeContinuous,
		DoseUnitsID: 1,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		BMRs:        []models.BMR{{Type: "Std Dev", Value: 1, ConfidenceLevel: 0.95}},
		Models: []models.ReportModel{
			{ID: 1, Name: "Linear"},
		},
	}
	newer := &models.SessionReport{
		SessionURL:  "https://example.org/bmd/session/42/",
		Endpoint:    "liver weight",
		DataType:    models.DataTypeContinuous,
		DoseUnitsID: 1,
		Timestamp:   time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		BMRs:        []models.BMR{{Type: "Std Dev", Value: 1, ConfidenceLevel: 0.95}},
		Models: []models.ReportModel{
			{ID: 2, Name: "Polynomial", Recommended: true},
			{ID: 3, Name: "Linear"},
		},
	}

	require.NoError(t, reporting.Write(filepath.Join(dir, "session-41.json"), older))
	require.NoError(t, reporting.Write(filepath.Join(dir, "session-42.json"), newer))
	return dir
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewFileStore(writeTestReports(t)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)

	var health HealthResponse
	code := getJSON(t, srv.URL+"/api/health", &health)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, Version, health.Version)
}

func TestHandleReports_NewestFirst(t *testing.T) {
	srv := testServer(t)

	var reports []ReportSummary
	code := getJSON(t, srv.URL+"/api/reports", &reports)
	assert.Equal(t, http.StatusOK, code)

	require.Len(t, reports, 2)
	assert.Equal(t, "session-42", reports[0].ID)
	assert.Equal(t, "session-41", reports[1].ID)
	assert.Equal(t, "Polynomial", reports[0].Recommended)
	assert.Equal(t, 2, reports[0].ModelCount)
}

func TestHandleReportDetail(t *testing.T) {
	srv := testServer(t)

	var detail ReportDetail
	code := getJSON(t, srv.URL+"/api/reports/session-42", &detail)
	assert.Equal(t, http.StatusOK, code)

	assert.Equal(t, "session-42", detail.ID)
	assert.Equal(t, "liver weight", detail.Endpoint)
	require.Len(t, detail.Models, 2)
	assert.True(t, detail.Models[0].Recommended)
	require.Len(t, detail.BMRs, 1)
}

func TestHandleReportDetail_NotFound(t *testing.T) {
	srv := testServer(t)

	var errResp ErrorResponse
	code := getJSON(t, srv.URL+"/api/reports/nope", &errResp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "report not found", errResp.Error)
}

func TestHandleSummary(t *testing.T) {
	srv := testServer(t)

	var summary SummaryResponse
	code := getJSON(t, srv.URL+"/api/summary", &summary)
	assert.Equal(t, http.StatusOK, code)

	assert.Equal(t, 2, summary.TotalReports)
	assert.Equal(t, 3, summary.TotalModels)
	assert.Equal(t, 0.5, summary.RecommendedShare)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope"))

	reports, err := store.ListReports()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestFileStore_SkipsUnreadableFiles(t *testing.T) {
	dir := writeTestReports(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	store := NewFileStore(dir)
	reports, err := store.ListReports()
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestFileStore_Reload(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	reports, err := store.ListReports()
	require.NoError(t, err)
	assert.Empty(t, reports)

	require.NoError(t, reporting.Write(filepath.Join(dir, "late.json"), &models.SessionReport{
		Endpoint:  "liver weight",
		Timestamp: time.Now().UTC(),
	}))

	// The initial load is cached until an explicit reload.
	reports, err = store.ListReports()
	require.NoError(t, err)
	assert.Empty(t, reports)

	require.NoError(t, store.Reload())
	reports, err = store.ListReports()
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
