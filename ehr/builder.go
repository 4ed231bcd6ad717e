package ehr

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/healthforge/cdssandbox/workflow"
	"github.com/rs/zerolog/log"
)

// ErrUnsupportedUseCase is returned by Build when the use case reports a
// category that is not implemented.
var ErrUnsupportedUseCase = fmt.Errorf("use case not recognised")

// UseCase is the capability a caller must provide to build a client: a known
// scenario category, the strategy that shapes its requests, and the data
// generators whose workflow context should be configured.
type UseCase interface {
	Type() workflow.UseCaseType
	Strategy() Strategy
	// DataGenerators returns the registered data generators whose workflow
	// context the builder configures. May be empty.
	DataGenerators() []WorkflowSetter
}

// WorkflowSetter is a data generator that can be bound to a workflow context.
type WorkflowSetter interface {
	SetWorkflow(workflow.Workflow) error
}

type Option func(*Client)

// WithCount sets the number of requests generated into the queue. Defaults to 1.
func WithCount(n int) Option {
	return func(c *Client) {
		c.count = n
	}
}

// WithTimeout sets the per-request connection timeout used during dispatch.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the dispatch HTTP client entirely. The caller then
// owns the client's lifecycle and timeout behavior.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTransportWrapper wraps the dispatch transport, e.g. for tracing
// instrumentation.
func WithTransportWrapper(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) {
		c.wrapTransport = wrap
	}
}

// Build validates the workflow identifier, binds the generator function and
// the use case's strategy into a fresh client, and pre-populates its queue.
// Every call creates a new client and queue; Build is intentionally not
// idempotent.
//
// Setting the workflow on the use case's data generators is best-effort: a
// failure is logged and the remaining generators are still attempted. More
// than one registered generator is reported as a misconfiguration warning but
// all of them are configured.
func Build(ctx context.Context, useCase UseCase, generate GenerateFunc, workflowID string, opts ...Option) (*Client, error) {
	wf, err := workflow.Parse(workflowID)
	if err != nil {
		return nil, err
	}

	for i, generator := range useCase.DataGenerators() {
		if i >= 1 {
			log.Warn().Msg("More than one data generator registered")
		}
		if err := generator.SetWorkflow(wf); err != nil {
			log.Error().Err(err).Str("workflow", wf.String()).
				Msgf("Could not set workflow %s for data generator", wf)
		}
	}

	if !useCase.Type().Valid() {
		return nil, fmt.Errorf("%w: %s (check if implemented)", ErrUnsupportedUseCase, useCase.Type())
	}

	client := &Client{
		generate: generate,
		workflow: wf,
		strategy: useCase.Strategy(),
		count:    1,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}

	for i := 0; i < client.count; i++ {
		if err := client.GenerateRequest(ctx); err != nil {
			return nil, err
		}
	}
	return client, nil
}
