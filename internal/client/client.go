// Package client implements the remote HTTP collaborator that owns the
// durable state of a BMD session: endpoint data, session settings, execution,
// and the persisted model selection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shapiromatron/hawc-sub006/internal/models"
)

// API is the interface to the remote BMD service. The concrete HTTP client
// and the test mock both satisfy it.
type API interface {
	// Endpoint fetches the dose-response dataset for the session.
	Endpoint(ctx context.Context) (*models.Endpoint, error)

	// SessionSettings fetches the full session payload: models, option
	// catalogs, BMRs, rule set, and completion state.
	SessionSettings(ctx context.Context) (*models.SessionSettings, error)

	// Execute submits a run. Only the HTTP status matters; the response body
	// is ignored.
	Execute(ctx context.Context, req *ExecuteRequest) error

	// ExecutionStatus reports whether the running job has finished.
	ExecutionStatus(ctx context.Context) (*ExecutionStatus, error)

	// SaveSelectedModel persists the final model choice.
	SaveSelectedModel(ctx context.Context, sel *models.SelectedModel) error
}

// ExecuteRequest is the execution submission payload.
type ExecuteRequest struct {
	DoseUnitsID   int                     `json:"dose_units"`
	BMRs          []models.BMR            `json:"bmrs"`
	ModelSettings []*models.ModelSettings `json:"modelSettings"`
}

// ExecutionStatus is the polling response.
type ExecutionStatus struct {
	Finished bool `json:"finished"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Relative paths under the session base URL.
const (
	endpointPath = "endpoint/"
	settingsPath = "settings/"
	executePath  = "execute/"
	statusPath   = "execute-status/"
	selectedPath = "selected-model/"
)

// Client is the HTTP implementation of API. Write requests carry the CSRF
// token supplied by the hosting page and a correlation ID.
type Client struct {
	baseURL    string
	csrfToken  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client rooted at the session base URL.
func New(baseURL, csrfToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		csrfToken:  csrfToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint fetches the dose-response dataset.
func (c *Client) Endpoint(ctx context.Context) (*models.Endpoint, error) {
	var out models.Endpoint
	if err := c.getJSON(ctx, endpointPath, &out); err != nil {
		return nil, fmt.Errorf("fetching endpoint: %w", err)
	}
	return &out, nil
}

// SessionSettings fetches the full session payload.
func (c *Client) SessionSettings(ctx context.Context) (*models.SessionSettings, error) {
	var out models.SessionSettings
	if err := c.getJSON(ctx, settingsPath, &out); err != nil {
		return nil, fmt.Errorf("fetching session settings: %w", err)
	}
	return &out, nil
}

// Execute submits a run for remote execution.
func (c *Client) Execute(ctx context.Context, req *ExecuteRequest) error {
	return c.postJSON(ctx, executePath, req, nil)
}

// ExecutionStatus reports whether the running job has finished.
func (c *Client) ExecutionStatus(ctx context.Context) (*ExecutionStatus, error) {
	var out ExecutionStatus
	if err := c.getJSON(ctx, statusPath, &out); err != nil {
		return nil, fmt.Errorf("fetching execution status: %w", err)
	}
	return &out, nil
}

// SaveSelectedModel persists the final model choice.
func (c *Client) SaveSelectedModel(ctx context.Context, sel *models.SelectedModel) error {
	return c.postJSON(ctx, selectedPath, sel, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRFToken", c.csrfToken)
	req.Header.Set("X-Request-ID", uuid.NewString())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.logger.Debug("request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ensure Client satisfies API.
var _ API = (*Client)(nil)
