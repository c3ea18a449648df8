// Package execution drives a remote BMD run to completion: validate the
// session, submit the job, poll at a fixed interval until the remote system
// reports it finished, then refresh the session from the settings endpoint.
package execution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shapiromatron/hawc-sub006/internal/client"
	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/session"
	"golang.org/x/sync/errgroup"
)

// State identifies where the controller is in the execution lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateRejected   State = "rejected"
	StateSubmitting State = "submitting"
	StatePolling    State = "polling"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// DefaultPollInterval matches the interval the remote system is polled at in
// production.
const DefaultPollInterval = 3 * time.Second

// submitErrorMessage is the generic user-facing message recorded when the
// execution submission fails.
const submitErrorMessage = "An error occurred."

var errNotFinished = errors.New("execution not finished")

// Controller runs the execution lifecycle for one session. It is not safe
// for concurrent use; one execution chain is active at a time.
type Controller struct {
	api     client.API
	session *session.Session
	logger  *slog.Logger

	pollInterval time.Duration

	// pollAfterSubmitError preserves the observed remote behavior: a failed
	// submission still begins polling, because the remote system may have
	// accepted a partial job. Known inconsistency, kept behind this flag.
	pollAfterSubmitError bool

	state State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithPollInterval overrides the status polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.pollInterval = d }
}

// WithPollAfterSubmitError controls whether polling begins after a failed
// submission.
func WithPollAfterSubmitError(enabled bool) Option {
	return func(c *Controller) { c.pollAfterSubmitError = enabled }
}

// New creates a controller for the given session and remote API.
func New(api client.API, sess *session.Session, opts ...Option) *Controller {
	c := &Controller{
		api:                  api,
		session:              sess,
		logger:               slog.Default(),
		pollInterval:         DefaultPollInterval,
		pollAfterSubmitError: true,
		state:                StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State { return c.state }

// LoadSession performs the two startup fetches concurrently and applies
// whichever succeed. The fetches are independent reads; a failure leaves the
// corresponding part of the session in its pre-fetch condition and is
// reported to the caller.
func (c *Controller) LoadSession(ctx context.Context) error {
	var (
		g        errgroup.Group
		endpoint *models.Endpoint
		payload  *models.SessionSettings

		endpointErr, settingsErr error
	)

	g.Go(func() error {
		e, err := c.api.Endpoint(ctx)
		if err != nil {
			endpointErr = err
			return nil
		}
		endpoint = e
		return nil
	})
	g.Go(func() error {
		p, err := c.api.SessionSettings(ctx)
		if err != nil {
			settingsErr = err
			return nil
		}
		payload = p
		return nil
	})
	_ = g.Wait()

	// Apply sequentially; the session is single-threaded by contract.
	if endpoint != nil {
		c.session.ReceiveEndpoint(endpoint)
	}
	if payload != nil {
		if err := c.session.ReceiveSessionSettings(payload); err != nil {
			settingsErr = err
		}
	}

	if endpointErr != nil {
		c.logger.Error("endpoint fetch failed", "error", endpointErr)
	}
	if settingsErr != nil {
		c.logger.Error("session settings fetch failed", "error", settingsErr)
	}
	return errors.Join(endpointErr, settingsErr)
}

// Execute runs the full lifecycle: Validating, then Rejected or Submitting,
// then Polling until the remote job reports finished, then Completed with a
// full session refresh. Cancelling the context is the only way to stop an
// in-flight poll chain; it ends in Failed.
func (c *Controller) Execute(ctx context.Context) (State, error) {
	c.state = StateValidating
	if errs := c.session.Validate(); len(errs) > 0 {
		c.session.SetValidationErrors(errs)
		c.state = StateRejected
		c.logger.Debug("execution rejected", "errors", len(errs))
		return c.state, nil
	}

	c.state = StateSubmitting
	c.session.BeginExecution()

	req := &client.ExecuteRequest{
		DoseUnitsID:   c.session.DoseUnitsID(),
		BMRs:          c.session.BMRs(),
		ModelSettings: c.session.ModelSettings(),
	}
	if err := c.api.Execute(ctx, req); err != nil {
		c.session.AddValidationError(submitErrorMessage)
		c.logger.Error("execution submission failed", "error", err)
		if !c.pollAfterSubmitError {
			c.session.EndExecution(false)
			c.state = StateFailed
			return c.state, err
		}
	}

	c.state = StatePolling
	if err := c.poll(ctx); err != nil {
		c.session.EndExecution(false)
		c.state = StateFailed
		return c.state, err
	}

	payload, err := c.api.SessionSettings(ctx)
	if err != nil {
		c.session.EndExecution(false)
		c.state = StateFailed
		return c.state, err
	}
	if err := c.session.ReceiveSessionSettings(payload); err != nil {
		c.session.EndExecution(false)
		c.state = StateFailed
		return c.state, err
	}

	c.session.EndExecution(true)
	c.state = StateCompleted
	c.logger.Info("execution completed")
	return c.state, nil
}

// poll issues status requests at a constant interval until the job reports
// finished or the context is cancelled. There is no retry cap and no
// backoff; the remote job has no client-side deadline.
func (c *Controller) poll(ctx context.Context) error {
	backoff := retry.NewConstant(c.pollInterval)
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, err := c.api.ExecutionStatus(ctx)
		if err != nil {
			c.logger.Debug("status request failed, continuing to poll", "error", err)
			return retry.RetryableError(err)
		}
		if !status.Finished {
			return retry.RetryableError(errNotFinished)
		}
		return nil
	})
}
