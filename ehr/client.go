// Package ehr implements the sandbox EHR client: it queues synthetic CDS Hooks
// requests built from generated clinical data and flushes them to a CDS
// service in one batch.
package ehr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/healthforge/cdssandbox/lib/from"
	"github.com/healthforge/cdssandbox/workflow"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout is the per-request ceiling on the connection and write phases
// (dial, TLS handshake, each body write). Reading the response is deliberately
// unbounded: the batch favors completion over interruption, so a slow service
// gets to finish.
const DefaultTimeout = 10 * time.Second

// Strategy converts generated data and a workflow into a protocol-compliant
// CDS Hooks request.
type Strategy interface {
	ConstructRequest(data any, wf workflow.Workflow) (*cdshooks.Request, error)
}

// GenerateFunc produces one unit of raw clinical data per call. The data is
// opaque to the client; only the strategy interprets it.
type GenerateFunc func(ctx context.Context) (any, error)

// Client owns an ordered queue of constructed requests and dispatches them as
// a batch. It is built once per Build call and not meant to be reused after
// SendRequest.
type Client struct {
	generate GenerateFunc
	workflow workflow.Workflow
	strategy Strategy
	queue    []*cdshooks.Request

	count         int
	timeout       time.Duration
	httpClient    *http.Client
	wrapTransport func(http.RoundTripper) http.RoundTripper
}

// Workflow returns the resolved workflow the client was built with.
func (c *Client) Workflow() workflow.Workflow {
	return c.workflow
}

// Requests returns the queued requests in insertion order.
func (c *Client) Requests() []*cdshooks.Request {
	result := make([]*cdshooks.Request, len(c.queue))
	copy(result, c.queue)
	return result
}

// GenerateRequest invokes the bound generator, passes its output and the
// resolved workflow to the strategy, and appends the constructed request to
// the queue. Generation and construction failures propagate to the caller;
// the queue is only ever appended to.
func (c *Client) GenerateRequest(ctx context.Context) error {
	data, err := c.generate(ctx)
	if err != nil {
		return fmt.Errorf("data generation failed: %w", err)
	}
	request, err := c.strategy.ConstructRequest(data, c.workflow)
	if err != nil {
		return fmt.Errorf("request construction failed: %w", err)
	}
	c.queue = append(c.queue, request)
	return nil
}

// SendRequest POSTs every queued request to the given CDS service URL,
// sequentially and in queue order, and returns one JSON result per request.
// A failed request (non-2xx, timeout, transport error) is logged and recorded
// as an empty map at its position; the batch never aborts early, so the
// result length always equals the queue length.
func (c *Client) SendRequest(ctx context.Context, serviceURL string) []map[string]any {
	httpClient := c.httpClient
	if httpClient == nil {
		transport := c.newTransport()
		defer transport.CloseIdleConnections()
		var rt http.RoundTripper = transport
		if c.wrapTransport != nil {
			rt = c.wrapTransport(transport)
		}
		httpClient = &http.Client{Transport: rt}
	}

	responses := make([]map[string]any, 0, len(c.queue))
	for _, request := range c.queue {
		response, err := c.post(ctx, httpClient, serviceURL, request)
		if err != nil {
			logDispatchError(err, serviceURL)
			responses = append(responses, map[string]any{})
			continue
		}
		responses = append(responses, response)
	}
	return responses
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, serviceURL string, request *cdshooks.Request) (map[string]any, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	return from.JSONResponse[map[string]any](httpResponse)
}

// newTransport bounds the connection and write phases with the configured
// timeout and leaves the response read unbounded.
func (c *Client) newTransport() *http.Transport {
	dialer := &net.Dialer{Timeout: c.timeout}
	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &writeDeadlineConn{Conn: conn, timeout: c.timeout}, nil
		},
		TLSHandshakeTimeout: c.timeout,
	}
}

// writeDeadlineConn arms a write deadline before every Write, so sending the
// request cannot stall indefinitely on a peer that stops reading. Reads stay
// unbounded.
type writeDeadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *writeDeadlineConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

func logDispatchError(err error, serviceURL string) {
	var statusErr from.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		log.Error().Int("status", statusErr.StatusCode).Str("url", serviceURL).
			Msgf("Error response %d while requesting %s", statusErr.StatusCode, serviceURL)
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Error().Str("url", serviceURL).Msgf("Request to %s timed out", serviceURL)
	default:
		log.Error().Err(err).Str("url", serviceURL).
			Msgf("An error occurred while requesting %s", serviceURL)
	}
}
